package questiongen

import (
	"fmt"
	"strings"
)

func systemPrompt(input GenerateInput) string {
	return fmt.Sprintf(`You are an AI assistant specialized in creating multiple-choice comprehension questions based on provided text. Respond ONLY with the requested JSON object containing the questions. Ensure all text content (questions, choices, answers) is in %s. Make sure that there are exactly %d questions and %d choices for each question.`,
		input.Language, input.NumQuestions, input.ChoicesPerQuestion)
}

// buildUserMessage constructs the user message from GenerateInput.
func buildUserMessage(input GenerateInput) string {
	lang := input.Language
	n := input.ChoicesPerQuestion

	var b strings.Builder
	fmt.Fprintf(&b, "Reading Passage (%s):\n---\n%s\n---\n\n", lang, strings.TrimSpace(input.Passage))

	fmt.Fprintf(&b, "Task: Based *only* on the reading passage above, generate exactly %d multiple-choice comprehension questions.\n", input.NumQuestions)
	b.WriteString("For each question:\n")
	b.WriteString("1. Provide the question itself.\n")
	fmt.Fprintf(&b, "2. Provide exactly %d plausible answer choices (options). One choice must be the correct answer based on the text.\n", n)
	b.WriteString("3. Clearly indicate the correct answer.\n")
	fmt.Fprintf(&b, "4. All questions, choices, and the answer text MUST be in the same language as the reading passage (%s).\n\n", lang)

	b.WriteString(`Format the output as a JSON object containing a single key "questions", which is a list of question objects.` + "\n")
	fmt.Fprintf(&b, `Each question object should have the keys "question" (string), "choices" (list of %d strings), and "answer" (string - the correct choice text).`+"\n\n", n)

	b.WriteString("Example JSON structure:\n")
	b.WriteString(exampleJSON(lang, n))
	b.WriteString("\n\nGenerate the JSON output now based on the provided passage.")
	return b.String()
}

func exampleJSON(lang string, choices int) string {
	if choices < 2 {
		choices = 2
	}
	opts := make([]string, choices)
	for i := range opts {
		opts[i] = fmt.Sprintf("%q", fmt.Sprintf("Choice %c in %s", 'A'+i, lang))
	}
	return fmt.Sprintf(`{
  "questions": [
    {
      "question": "Sample question in %s?",
      "choices": [%s],
      "answer": "Choice B in %s"
    }
  ]
}`, lang, strings.Join(opts, ", "), lang)
}
