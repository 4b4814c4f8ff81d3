// Package questiongen turns a reading passage into multiple-choice
// comprehension questions using an LLM.
package questiongen

import "context"

// Generator produces question sets for a passage.
type Generator interface {
	// Generate returns validated questions for input. All configured
	// validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*Result, error)
}
