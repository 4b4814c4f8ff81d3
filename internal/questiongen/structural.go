package questiongen

import "github.com/abhisek/readquiz/internal/generation"

const maxPromptLength = 500

// StructuralValidator checks that the question text is present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *generation.Question, _ GenerateInput) *ValidationError {
	if q.Prompt == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question is empty",
			Retryable: true,
		}
	}
	if len(q.Prompt) > maxPromptLength {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question exceeds 500 characters",
			Retryable: true,
		}
	}
	if q.Answer == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "answer is empty",
			Retryable: true,
		}
	}
	return nil
}
