package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/llm"
)

// ErrEmptyPassage is returned when there is no text to ask about.
var ErrEmptyPassage = errors.New("generated text cannot be empty")

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *log.Logger
}

var _ Generator = (*LLMGenerator)(nil)

// New creates a new LLMGenerator. A nil logger uses the standard logger.
func New(provider llm.Provider, cfg Config, logger *log.Logger) *LLMGenerator {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// questionsOutput is the raw LLM response before validation.
type questionsOutput struct {
	Questions []struct {
		Question string   `json:"question"`
		Choices  []string `json:"choices"`
		Answer   string   `json:"answer"`
	} `json:"questions"`
}

// Generate produces a question set for input. A set failing a retryable
// validator is regenerated up to MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Result, error) {
	if strings.TrimSpace(input.Passage) == "" {
		return nil, ErrEmptyPassage
	}
	if input.NumQuestions < 1 {
		return nil, fmt.Errorf("number of questions must be positive, got %d", input.NumQuestions)
	}
	ctx = llm.WithPurpose(ctx, "questions")

	model := input.Model
	if model == "" {
		model = g.provider.ModelID()
	}
	g.logger.Printf("generating questions provider=%s model=%s num_questions=%d language=%s choices=%d",
		g.provider.Name(), model, input.NumQuestions, input.Language, input.ChoicesPerQuestion)

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		res, err := g.generateOnce(ctx, input)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			break
		}
		g.logger.Printf("question set rejected (attempt %d/%d): %v", attempt, g.config.MaxAttempts, verr)
	}
	return nil, fmt.Errorf("error generating questions with model %s: %w", model, lastErr)
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput) (*Result, error) {
	req := llm.UserPrompt(systemPrompt(input), buildUserMessage(input))
	req.Model = input.Model
	req.Schema = QuestionsSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var raw questionsOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("could not parse valid JSON questions from the model: %w", err)
	}

	res := &Result{Questions: make([]generation.Question, 0, len(raw.Questions))}
	for i, r := range raw.Questions {
		q := generation.Question{
			Prompt:  strings.TrimSpace(r.Question),
			Choices: r.Choices,
			Answer:  canonicalAnswer(r.Answer, r.Choices),
		}
		for _, v := range g.config.Validators {
			if verr := v.Validate(&q, input); verr != nil {
				verr.Index = i + 1
				return nil, verr
			}
		}
		res.Questions = append(res.Questions, q)
	}

	if len(res.Questions) != input.NumQuestions {
		w := fmt.Sprintf("requested %d questions, but model generated %d; using generated questions", input.NumQuestions, len(res.Questions))
		g.logger.Printf("warning: %s", w)
		res.Warnings = append(res.Warnings, w)
	}
	return res, nil
}
