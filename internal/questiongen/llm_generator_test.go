package questiongen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readquiz/internal/llm"
)

const volcanoPassage = "Volcanoes are openings in the Earth's crust. Hot magma rises and erupts as lava."

func testInput() GenerateInput {
	return GenerateInput{
		Passage:            volcanoPassage,
		Language:           "English",
		NumQuestions:       2,
		ChoicesPerQuestion: 3,
	}
}

func questionsJSON(t *testing.T, qs ...map[string]any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]any{"questions": qs})
	require.NoError(t, err)
	return b
}

func q(prompt string, choices []string, answer string) map[string]any {
	return map[string]any{"question": prompt, "choices": choices, "answer": answer}
}

func newTestGenerator(mock *llm.MockProvider, logs *bytes.Buffer) *LLMGenerator {
	return New(mock, DefaultConfig(), log.New(logs, "", 0))
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionsJSON(t,
		q("What rises through the crust?", []string{"Magma", "Water", "Ice"}, "Magma"),
		q("What is erupted magma called?", []string{"Ash", "Lava", "Rock"}, "Lava"),
	)})
	gen := newTestGenerator(mock, &bytes.Buffer{})

	res, err := gen.Generate(context.Background(), testInput())
	require.NoError(t, err)
	require.Len(t, res.Questions, 2)
	assert.Empty(t, res.Warnings)

	first := res.Questions[0]
	assert.Equal(t, "What rises through the crust?", first.Prompt)
	assert.Equal(t, []string{"Magma", "Water", "Ice"}, first.Choices)
	assert.Equal(t, "Magma", first.Answer)
	assert.NoError(t, first.Validate())

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, QuestionsSchema, call.Schema)
	assert.Equal(t, 0.5, call.Temperature)
	assert.Contains(t, call.System, "exactly 2 questions and 3 choices")
	assert.Contains(t, call.Messages[0].Content, volcanoPassage)
}

func TestGenerate_CanonicalizesAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionsJSON(t,
		q("What rises?", []string{"Magma", "Water", "Ice"}, " magma "),
		q("What erupts?", []string{"Ash", "Lava", "Rock"}, "Lava"),
	)})
	gen := newTestGenerator(mock, &bytes.Buffer{})

	res, err := gen.Generate(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, "Magma", res.Questions[0].Answer)
}

func TestGenerate_CountMismatchIsWarning(t *testing.T) {
	var logs bytes.Buffer
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionsJSON(t,
		q("What rises?", []string{"Magma", "Water", "Ice"}, "Magma"),
	)})
	gen := newTestGenerator(mock, &logs)

	res, err := gen.Generate(context.Background(), testInput())
	require.NoError(t, err)
	assert.Len(t, res.Questions, 1)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "requested 2 questions, but model generated 1; using generated questions", res.Warnings[0])
	assert.Contains(t, logs.String(), "warning: requested 2 questions")
}

func TestGenerate_RetriesInvalidSet(t *testing.T) {
	var logs bytes.Buffer
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: questionsJSON(t,
			q("What rises?", []string{"Magma", "Water"}, "Magma"),
		)},
		llm.MockResponse{Content: questionsJSON(t,
			q("What rises?", []string{"Magma", "Water", "Ice"}, "Magma"),
			q("What erupts?", []string{"Ash", "Lava", "Rock"}, "Lava"),
		)},
	)
	gen := newTestGenerator(mock, &logs)

	res, err := gen.Generate(context.Background(), testInput())
	require.NoError(t, err)
	assert.Len(t, res.Questions, 2)
	assert.Equal(t, 2, mock.CallCount())
	assert.Contains(t, logs.String(), "attempt 1/2")
}

func TestGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	bad := questionsJSON(t, q("What rises?", []string{"Magma", "Water", "Ice"}, "Steam"))
	mock := llm.NewMockProvider(llm.MockResponse{Content: bad}, llm.MockResponse{Content: bad})
	gen := newTestGenerator(mock, &bytes.Buffer{})

	_, err := gen.Generate(context.Background(), testInput())
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "choices", verr.Validator)
	assert.Equal(t, 1, verr.Index)
	assert.True(t, strings.HasPrefix(err.Error(), "error generating questions with model mock: "))
	assert.Equal(t, 2, mock.CallCount())
}

func TestGenerate_ProviderErrorNotRetried(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Provider: "ollama", Err: errors.New("connection refused")}},
		llm.MockResponse{Content: questionsJSON(t)},
	)
	gen := newTestGenerator(mock, &bytes.Buffer{})

	_, err := gen.Generate(context.Background(), testInput())
	var unavail *llm.ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail))
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_SchemaViolation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[{"question":"Q?","choices":["a","b"]}]}`)})
	gen := newTestGenerator(mock, &bytes.Buffer{})

	_, err := gen.Generate(context.Background(), testInput())
	var invErr *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &invErr), "got %v", err)
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := newTestGenerator(mock, &bytes.Buffer{})

	in := testInput()
	in.Passage = "  \n"
	_, err := gen.Generate(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmptyPassage)

	in = testInput()
	in.NumQuestions = 0
	_, err = gen.Generate(context.Background(), in)
	assert.Error(t, err)

	assert.Zero(t, mock.CallCount())
}
