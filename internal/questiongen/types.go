package questiongen

import "github.com/abhisek/readquiz/internal/generation"

// GenerateInput holds all context needed to generate a question set.
type GenerateInput struct {
	// Passage is the reading text the questions are about.
	Passage string

	// Language is the language of the passage; questions, choices and
	// answers are written in it too.
	Language string

	// NumQuestions is how many questions to ask for.
	NumQuestions int

	// ChoicesPerQuestion is how many options each question must have.
	ChoicesPerQuestion int

	// Model overrides the provider's default model.
	Model string
}

// Result is the generated question set plus non-fatal remarks.
type Result struct {
	Questions []generation.Question

	// Warnings lists soft mismatches, such as a question count different
	// from the one requested.
	Warnings []string
}
