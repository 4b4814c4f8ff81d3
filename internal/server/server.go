// Package server exposes passage and question generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/readquiz/internal/llm"
	"github.com/abhisek/readquiz/internal/passage"
	"github.com/abhisek/readquiz/internal/questiongen"
)

// Title is reported by the root endpoint.
const Title = "Reading Passage & Questions API"

// Options configures a Server.
type Options struct {
	Config    Config
	Registry  *llm.Registry
	Passage   passage.Config
	Questions questiongen.Config

	// Logger receives server and generator logs. Nil uses the standard logger.
	Logger *log.Logger
}

// Server serves the generation API.
type Server struct {
	cfg       Config
	registry  *llm.Registry
	passage   passage.Config
	questions questiongen.Config
	logger    *log.Logger
	engine    *gin.Engine
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:       opts.Config,
		registry:  opts.Registry,
		passage:   opts.Passage,
		questions: opts.Questions,
		logger:    logger,
	}
	s.engine = s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) setupRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s\" request_id=%s %s\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.Header.Get(requestIDHeader),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(timeout(s.cfg.RequestTimeout))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": Title})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "readquiz",
			"providers": s.registry.Names(),
			"timestamp": time.Now(),
		})
	})

	r.GET("/models", s.listModels)
	r.GET("/models/", s.listModels)
	r.POST("/text/generate", s.generateText)
	r.POST("/questions/generate", s.generateQuestions)

	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting readquiz API on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Println("Shutting down readquiz API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
