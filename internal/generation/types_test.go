package generation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.Topic = "Volcanoes"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with topic", func(*Config) {}, false},
		{"empty topic", func(c *Config) { c.Topic = "  " }, true},
		{"empty language", func(c *Config) { c.Language = "" }, true},
		{"empty style", func(c *Config) { c.Style = "" }, true},
		{"bad level", func(c *Config) { c.Level = "Expert" }, true},
		{"no text provider", func(c *Config) { c.TextProvider = "" }, true},
		{"no question provider", func(c *Config) { c.QuestionProvider = "" }, true},
		{"zero questions", func(c *Config) { c.NumQuestions = 0 }, true},
		{"eleven questions", func(c *Config) { c.NumQuestions = 11 }, true},
		{"ten questions", func(c *Config) { c.NumQuestions = 10 }, false},
		{"one choice", func(c *Config) { c.ChoicesPerQuestion = 1 }, true},
		{"six choices", func(c *Config) { c.ChoicesPerQuestion = 6 }, true},
		{"two choices", func(c *Config) { c.ChoicesPerQuestion = 2 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var pe *PreconditionError
			require.True(t, errors.As(err, &pe), "expected PreconditionError, got %T", err)
		})
	}
}

func TestQuestion_Validate(t *testing.T) {
	q := Question{Prompt: "Where?", Choices: []string{"a", "b", "c"}, Answer: "b"}
	assert.NoError(t, q.Validate())

	q.Answer = "z"
	assert.Error(t, q.Validate())

	q = Question{Prompt: "Where?", Choices: []string{"a", "a"}, Answer: "a"}
	assert.Error(t, q.Validate())

	q = Question{Prompt: "", Choices: []string{"a"}, Answer: "a"}
	assert.Error(t, q.Validate())
}

func TestLevel_Valid(t *testing.T) {
	for _, l := range Levels {
		assert.True(t, l.Valid())
	}
	assert.False(t, Level("basic").Valid())
}

func TestErrorTypesAreDistinguishable(t *testing.T) {
	var err error = &ServerError{Status: 502, Message: "bad gateway"}
	var pe *PreconditionError
	assert.False(t, errors.As(err, &pe))

	inner := errors.New("connection refused")
	err = &TransportError{Op: "generate text", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "generate text: connection refused", err.Error())
}
