package questiongen

import (
	"fmt"

	"github.com/abhisek/readquiz/internal/generation"
)

// Validator checks a generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *generation.Question, input GenerateInput) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Index     int // 1-based position of the question in the set
	Message   string
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: validator %q: %s", e.Index, e.Validator, e.Message)
}
