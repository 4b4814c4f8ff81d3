package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/readquiz/internal/api"
	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/llm"
	"github.com/abhisek/readquiz/internal/passage"
	"github.com/abhisek/readquiz/internal/questiongen"
)

type textRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Language string `json:"language" binding:"required"`
	Level    string `json:"level" binding:"required,oneof=Basic Intermediate Advanced"`
	Style    string `json:"style" binding:"required"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type questionsRequest struct {
	GeneratedText string `json:"generated_text" binding:"required"`
	NumQuestions  int    `json:"num_questions" binding:"required,min=1,max=10"`
	Language      string `json:"language" binding:"required"`
	ChoicesNum    int    `json:"choices_num" binding:"required,min=2,max=5"`
	Provider      string `json:"provider" binding:"required"`
	Model         string `json:"model"`
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Server) generateText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Provider == "" {
		req.Provider = llm.ProviderOllama
	}

	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}

	gen := passage.New(provider, s.passage, s.logger)
	res, err := gen.Generate(c.Request.Context(), passage.Input{
		Topic:    req.Topic,
		Language: req.Language,
		Level:    generation.Level(req.Level),
		Style:    req.Style,
		Model:    req.Model,
	})
	if err != nil {
		s.logger.Printf("text generation failed: %v", err)
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, api.TextResponse{
		GeneratedText: res.Text,
		Score:         res.Score,
		Level:         string(res.Level),
		Language:      res.Language,
		Style:         res.Style,
		Iterations:    res.Iterations,
		FailedTexts:   nonNil(res.FailedTexts),
		PromptsUsed:   nonNil(res.PromptsUsed),
	})
}

func (s *Server) generateQuestions(c *gin.Context) {
	var req questionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}

	gen := questiongen.New(provider, s.questions, s.logger)
	res, err := gen.Generate(c.Request.Context(), questiongen.GenerateInput{
		Passage:            req.GeneratedText,
		Language:           req.Language,
		NumQuestions:       req.NumQuestions,
		ChoicesPerQuestion: req.ChoicesNum,
		Model:              req.Model,
	})
	if err != nil {
		s.logger.Printf("question generation failed: %v", err)
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}

	out := api.QuestionsResponse{Questions: make([]api.QuestionPayload, 0, len(res.Questions))}
	for _, q := range res.Questions {
		out.Questions = append(out.Questions, api.QuestionPayload{
			Question: q.Prompt,
			Choices:  q.Choices,
			Answer:   q.Answer,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listModels(c *gin.Context) {
	models := s.registry.ListModels(c.Request.Context())
	out := api.ModelsResponse{Models: make([]api.ModelInfo, 0, len(models))}
	for _, m := range models {
		out.Models = append(out.Models, api.ModelInfo{
			ID:       m.ID,
			Provider: strings.ToLower(m.Provider),
			Details:  m.Details,
		})
	}
	c.JSON(http.StatusOK, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
