package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readquiz/internal/api"
	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a passage and questions without the TUI",
	Long: `Generate a reading passage, then comprehension questions about it, and
answer them on the command line.

Pass --no-quiz to print the questions with their answers instead.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "Topic of the passage (required)")
	generateCmd.Flags().String("language", "English", "Language of the passage")
	generateCmd.Flags().String("level", string(generation.LevelBasic), "Difficulty: Basic, Intermediate or Advanced")
	generateCmd.Flags().String("style", "Formal", "Writing style")
	generateCmd.Flags().String("provider", "ollama", "Provider for the passage")
	generateCmd.Flags().String("model", "", "Model for the passage (provider default when empty)")
	generateCmd.Flags().String("question-provider", "", "Provider for the questions (defaults to --provider)")
	generateCmd.Flags().String("question-model", "", "Model for the questions")
	generateCmd.Flags().Int("questions", generation.DefaultQuestions, "Number of questions")
	generateCmd.Flags().Int("choices", generation.DefaultChoices, "Choices per question")
	generateCmd.Flags().Bool("no-quiz", false, "Print questions and answers instead of quizzing")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generateConfig(cmd)
	if err != nil {
		return err
	}
	noQuiz, _ := cmd.Flags().GetBool("no-quiz")

	out := cmd.OutOrStdout()
	orch := generation.NewOrchestrator(api.New(resolveAPIConfig(cmd)))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(out, "Generating %s %s text about %q (%s / %s)...\n\n",
		cfg.Level, cfg.Language, cfg.Topic, cfg.TextProvider, orDefault(cfg.TextModel))
	orch.Run(orch.SubmitText(ctx, cfg))
	if orch.State() == generation.StateFailed {
		return fmt.Errorf("%s", orch.Err())
	}
	p, _ := orch.Passage()
	fmt.Fprintln(out, p.Text)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Generating %d questions (%s / %s)...\n\n",
		cfg.NumQuestions, cfg.QuestionProvider, orDefault(cfg.QuestionModel))
	pending, err := orch.SubmitQuestions(ctx, cfg)
	if err != nil {
		return err
	}
	orch.Run(pending)
	if orch.State() == generation.StateFailed {
		return fmt.Errorf("%s", orch.Err())
	}

	qs := orch.Questions()
	if len(qs) != cfg.NumQuestions {
		fmt.Fprintf(os.Stderr, "Warning: requested %d questions, got %d.\n", cfg.NumQuestions, len(qs))
	}

	if noQuiz {
		printQuestions(out, qs)
		return nil
	}
	return runQuiz(cmd.InOrStdin(), out, qs)
}

func generateConfig(cmd *cobra.Command) (generation.Config, error) {
	f := cmd.Flags()
	cfg := generation.DefaultConfig()
	cfg.Topic, _ = f.GetString("topic")
	cfg.Language, _ = f.GetString("language")
	level, _ := f.GetString("level")
	cfg.Level = generation.Level(level)
	cfg.Style, _ = f.GetString("style")
	cfg.TextProvider, _ = f.GetString("provider")
	cfg.TextModel, _ = f.GetString("model")
	cfg.QuestionProvider, _ = f.GetString("question-provider")
	cfg.QuestionModel, _ = f.GetString("question-model")
	cfg.NumQuestions, _ = f.GetInt("questions")
	cfg.ChoicesPerQuestion, _ = f.GetInt("choices")

	if cfg.QuestionProvider == "" {
		cfg.QuestionProvider = cfg.TextProvider
		if cfg.QuestionModel == "" {
			cfg.QuestionModel = cfg.TextModel
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printQuestions(out io.Writer, qs generation.QuestionSet) {
	for i, q := range qs {
		fmt.Fprintf(out, "Q%d: %s\n", i+1, q.Prompt)
		for j, c := range q.Choices {
			mark := ""
			if c == q.Answer {
				mark = " ✓"
			}
			fmt.Fprintf(out, "  %d) %s%s\n", j+1, c, mark)
		}
		fmt.Fprintln(out)
	}
}

// runQuiz asks every question on in, then scores the attempt.
func runQuiz(in io.Reader, out io.Writer, qs generation.QuestionSet) error {
	var last quiz.Result
	engine := quiz.New(qs, func(r quiz.Result) { last = r })
	scanner := bufio.NewScanner(in)

	for i := range engine.Len() {
		q, _ := engine.Question(i)
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, engine.Len())
		fmt.Fprintln(out, q.Prompt)
		for j, c := range q.Choices {
			fmt.Fprintf(out, "  %d) %s\n", j+1, c)
		}

		for {
			fmt.Fprint(out, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return nil
			}
			n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil || n < 1 || n > len(q.Choices) {
				fmt.Fprintf(out, "Enter a number from 1 to %d.", len(q.Choices))
				continue
			}
			if err := engine.Select(i, q.Choices[n-1]); err != nil {
				return err
			}
			break
		}
		fmt.Fprintln(out)
	}

	if _, err := engine.Submit(); err != nil {
		return err
	}

	for i := range engine.Len() {
		q, _ := engine.Question(i)
		if engine.IsCorrect(i) {
			fmt.Fprintf(out, "\033[32m✓ Q%d correct\033[0m\n", i+1)
		} else {
			fmt.Fprintf(out, "\033[31m✗ Q%d wrong.\033[0m Answer: %s\n", i+1, q.Answer)
		}
	}

	summary := fmt.Sprintf("── Quiz result: %s ──", last)
	if last.Perfect() {
		summary += " perfect score!"
	}
	fmt.Fprintln(out, summary)
	return nil
}

func orDefault(model string) string {
	if model == "" {
		return "default"
	}
	return model
}
