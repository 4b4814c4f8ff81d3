package questiongen

import "github.com/abhisek/readquiz/internal/llm"

// QuestionsSchema defines the JSON schema for question-set responses.
var QuestionsSchema = &llm.Schema{
	Name:        "comprehension-questions",
	Description: "Multiple-choice reading comprehension questions about a passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question, in the language of the passage",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "The answer options",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The text of the correct option, copied exactly from choices",
						},
					},
					"required":             []any{"question", "choices", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
