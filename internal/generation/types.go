package generation

import (
	"fmt"
	"strings"
)

// Level is the difficulty of a generated passage.
type Level string

const (
	LevelBasic        Level = "Basic"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Levels lists the supported levels in increasing difficulty.
var Levels = []Level{LevelBasic, LevelIntermediate, LevelAdvanced}

// Valid reports whether l is one of the supported levels.
func (l Level) Valid() bool {
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

// Limits for question generation.
const (
	MinQuestions = 1
	MaxQuestions = 10
	MinChoices   = 2
	MaxChoices   = 5

	DefaultQuestions = 5
	DefaultChoices   = 4
)

// Config is a snapshot of everything needed to run both generation stages.
// It is passed by value; later edits to the form never reach a request
// that has already been issued.
type Config struct {
	Topic    string
	Language string
	Level    Level
	Style    string

	TextProvider string
	TextModel    string

	QuestionProvider string
	QuestionModel    string

	NumQuestions       int
	ChoicesPerQuestion int
}

// DefaultConfig returns the form defaults.
func DefaultConfig() Config {
	return Config{
		Language:           "English",
		Level:              LevelBasic,
		Style:              "Formal",
		TextProvider:       "ollama",
		QuestionProvider:   "ollama",
		NumQuestions:       DefaultQuestions,
		ChoicesPerQuestion: DefaultChoices,
	}
}

// Validate checks the fields both stages depend on.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Topic) == "" {
		problems = append(problems, "topic is required")
	}
	if strings.TrimSpace(c.Language) == "" {
		problems = append(problems, "language is required")
	}
	if strings.TrimSpace(c.Style) == "" {
		problems = append(problems, "style is required")
	}
	if !c.Level.Valid() {
		problems = append(problems, fmt.Sprintf("level %q is not one of Basic, Intermediate, Advanced", c.Level))
	}
	if c.TextProvider == "" {
		problems = append(problems, "text provider is required")
	}
	if c.QuestionProvider == "" {
		problems = append(problems, "question provider is required")
	}
	if c.NumQuestions < MinQuestions || c.NumQuestions > MaxQuestions {
		problems = append(problems, fmt.Sprintf("number of questions must be between %d and %d", MinQuestions, MaxQuestions))
	}
	if c.ChoicesPerQuestion < MinChoices || c.ChoicesPerQuestion > MaxChoices {
		problems = append(problems, fmt.Sprintf("choices per question must be between %d and %d", MinChoices, MaxChoices))
	}
	if len(problems) > 0 {
		return &PreconditionError{Op: "validate config", Reason: strings.Join(problems, "; ")}
	}
	return nil
}

// Passage is a generated reading text.
type Passage struct {
	Text string
}

// Question is one multiple-choice comprehension question.
type Question struct {
	Prompt  string
	Choices []string
	Answer  string
}

// Validate checks that choices are unique and the answer is one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question prompt is empty")
	}
	seen := make(map[string]bool, len(q.Choices))
	for _, c := range q.Choices {
		if seen[c] {
			return fmt.Errorf("duplicate choice %q", c)
		}
		seen[c] = true
	}
	if !seen[q.Answer] {
		return fmt.Errorf("answer %q is not among the choices", q.Answer)
	}
	return nil
}

// QuestionSet is an ordered set of questions produced by one request.
type QuestionSet []Question

// Clone returns a deep copy so callers cannot mutate orchestrator state.
func (qs QuestionSet) Clone() QuestionSet {
	if qs == nil {
		return nil
	}
	out := make(QuestionSet, len(qs))
	for i, q := range qs {
		q.Choices = append([]string(nil), q.Choices...)
		out[i] = q
	}
	return out
}
