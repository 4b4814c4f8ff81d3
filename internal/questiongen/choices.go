package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/readquiz/internal/generation"
)

// ChoicesValidator checks the option list: the requested count, no blanks,
// no duplicates, and exactly one option equal to the answer.
type ChoicesValidator struct{}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *generation.Question, input GenerateInput) *ValidationError {
	if input.ChoicesPerQuestion > 0 && len(q.Choices) != input.ChoicesPerQuestion {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d choices, got %d", input.ChoicesPerQuestion, len(q.Choices)),
			Retryable: true,
		}
	}

	seen := make(map[string]bool, len(q.Choices))
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choice %d is empty", i+1),
				Retryable: true,
			}
		}
		key := strings.ToLower(strings.TrimSpace(c))
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate choice %q", c),
				Retryable: true,
			}
		}
		seen[key] = true
	}

	if !seen[strings.ToLower(strings.TrimSpace(q.Answer))] {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %q not found in choices", q.Answer),
			Retryable: true,
		}
	}
	return nil
}

// canonicalAnswer returns the choice that matches answer ignoring case and
// surrounding space, so the answer compares equal to a choice exactly.
func canonicalAnswer(answer string, choices []string) string {
	want := strings.TrimSpace(answer)
	for _, c := range choices {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return c
		}
	}
	return answer
}
