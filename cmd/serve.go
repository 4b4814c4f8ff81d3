package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/readquiz/internal/llm"
	"github.com/abhisek/readquiz/internal/passage"
	"github.com/abhisek/readquiz/internal/questiongen"
	"github.com/abhisek/readquiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the passage and question generation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := server.ConfigFromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		logger := log.Default()
		llmCfg := llm.ConfigFromEnv()
		registry, err := llm.NewRegistry(ctx, llmCfg, logger)
		if err != nil {
			return fmt.Errorf("initialize LLM providers: %w", err)
		}
		if len(registry.Names()) == 0 {
			fmt.Fprintln(os.Stderr, "No LLM provider configured.")
			fmt.Fprintln(os.Stderr, "Set READQUIZ_OLLAMA_BASE_URL or GROQ_API_KEY in your .env file,")
			fmt.Fprintln(os.Stderr, "or READQUIZ_ENABLE_MOCK=true to try readquiz with the offline demo provider.")
		} else {
			logger.Printf("LLM providers: %v", registry.Names())
		}
		if llmCfg.Validate(llm.ProviderGroq) != nil {
			fmt.Fprintln(os.Stderr, "Warning: GROQ_API_KEY is not set; groq requests will fail.")
		}

		srv := server.New(server.Options{
			Config:    cfg,
			Registry:  registry,
			Passage:   passage.DefaultConfig(),
			Questions: questiongen.DefaultConfig(),
			Logger:    logger,
		})
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides READQUIZ_ADDR)")
}
