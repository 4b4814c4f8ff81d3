// Package passage generates reading passages with an LLM and, for English,
// calibrates them to a readability band.
package passage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/llm"
)

// ErrEmptyTopic is returned when the topic is blank.
var ErrEmptyTopic = errors.New("topic cannot be empty")

// Input describes the passage to generate.
type Input struct {
	Topic    string
	Language string
	Level    generation.Level
	Style    string

	// Model overrides the provider's default model.
	Model string
}

// Result is a generated passage plus the calibration trail.
type Result struct {
	Text string

	// Score is the Gunning Fog index of Text. Nil for non-English passages.
	Score *float64

	Level       generation.Level
	Language    string
	Style       string
	Iterations  int
	FailedTexts []string
	PromptsUsed []string
}

// Generator produces reading passages using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *log.Logger
}

// New creates a Generator. A nil logger uses the standard logger.
func New(provider llm.Provider, cfg Config, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// Generate produces a passage for in. English passages are regenerated up
// to MaxIterations times until their Gunning Fog score lands in the level's
// band; the attempt closest to the band center wins otherwise.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, ErrEmptyTopic
	}
	if !in.Level.Valid() {
		return nil, fmt.Errorf("unknown level %q", in.Level)
	}
	ctx = llm.WithPurpose(ctx, "passage")

	model := in.Model
	if model == "" {
		model = g.provider.ModelID()
	}
	g.logger.Printf("generating passage provider=%s model=%s topic=%q language=%s level=%s style=%s",
		g.provider.Name(), model, in.Topic, in.Language, in.Level, in.Style)

	if strings.EqualFold(in.Language, "English") {
		return g.generateEnglish(ctx, in, model)
	}
	return g.generateOther(ctx, in, model)
}

func (g *Generator) generateEnglish(ctx context.Context, in Input, model string) (*Result, error) {
	band := LevelRanges[in.Level]
	res := &Result{Level: in.Level, Language: in.Language, Style: in.Style}

	var (
		best     string
		bestDiff = math.Inf(1)
		score    float64
		prev     *attempt
	)

	for range g.config.MaxIterations {
		res.Iterations++
		prompt := buildEnglishPrompt(in, prev)
		res.PromptsUsed = append(res.PromptsUsed, prompt)

		text, err := g.complete(ctx, englishSystemPrompt, prompt, in.Model)
		if err != nil {
			g.logger.Printf("passage iteration %d failed: %v", res.Iterations, err)
			if best != "" {
				break
			}
			return nil, fmt.Errorf("failed to generate text using model %s: %w", model, err)
		}

		s := GunningFog(text)
		if band.Contains(s) {
			best, score = text, s
			break
		}

		res.FailedTexts = append(res.FailedTexts, fmt.Sprintf("Iteration %d (score %.2f): %s", res.Iterations, s, text))
		if diff := math.Abs(s - band.Center()); diff < bestDiff {
			best, score, bestDiff = text, s, diff
		}
		prev = &attempt{score: score, text: text}
	}

	if best == "" {
		return nil, fmt.Errorf("could not generate suitable text after %d iterations using model %s", res.Iterations, model)
	}
	res.Text = best
	res.Score = &score
	return res, nil
}

func (g *Generator) generateOther(ctx context.Context, in Input, model string) (*Result, error) {
	prompt := buildOtherLanguagePrompt(in)
	text, err := g.complete(ctx, otherLanguageSystemPrompt(in), prompt, in.Model)
	if err != nil {
		return nil, fmt.Errorf("error generating %s text with model %s: %w", in.Language, model, err)
	}
	if len(text) < g.config.MinLength {
		return nil, fmt.Errorf("error generating %s text with model %s: generated text is too short or empty", in.Language, model)
	}

	return &Result{
		Text:        text,
		Level:       in.Level,
		Language:    in.Language,
		Style:       in.Style,
		Iterations:  1,
		FailedTexts: []string{},
		PromptsUsed: []string{prompt},
	}, nil
}

func (g *Generator) complete(ctx context.Context, system, prompt, model string) (string, error) {
	req := llm.UserPrompt(system, prompt)
	req.Model = model
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}
