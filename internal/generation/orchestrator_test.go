package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend returns canned results and records what it was asked for.
type fakeBackend struct {
	text      func(cfg Config) (Passage, error)
	questions func(p Passage, cfg Config) (QuestionSet, error)

	textCalls      int
	questionsCalls int
	lastPassage    Passage
}

func (f *fakeBackend) GenerateText(_ context.Context, cfg Config) (Passage, error) {
	f.textCalls++
	return f.text(cfg)
}

func (f *fakeBackend) GenerateQuestions(_ context.Context, p Passage, cfg Config) (QuestionSet, error) {
	f.questionsCalls++
	f.lastPassage = p
	return f.questions(p, cfg)
}

func echoBackend() *fakeBackend {
	return &fakeBackend{
		text: func(cfg Config) (Passage, error) {
			return Passage{Text: "A passage about " + cfg.Topic}, nil
		},
		questions: func(_ Passage, cfg Config) (QuestionSet, error) {
			qs := make(QuestionSet, cfg.NumQuestions)
			for i := range qs {
				qs[i] = Question{Prompt: "Q?", Choices: []string{"a", "b"}, Answer: "a"}
			}
			return qs, nil
		},
	}
}

func testConfig(topic string) Config {
	cfg := DefaultConfig()
	cfg.Topic = topic
	return cfg
}

func TestOrchestrator_InitialState(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, "", o.Err())
	_, ok := o.Passage()
	assert.False(t, ok)
	assert.False(t, o.Busy())
}

func TestOrchestrator_TextThenQuestions(t *testing.T) {
	b := echoBackend()
	o := NewOrchestrator(b)
	ctx := context.Background()

	p := o.SubmitText(ctx, testConfig("Volcanoes"))
	assert.Equal(t, StateGeneratingText, o.State())
	assert.True(t, o.Busy())

	require.True(t, o.Apply(p()))
	assert.Equal(t, StateTextReady, o.State())
	passage, ok := o.Passage()
	require.True(t, ok)
	assert.Equal(t, "A passage about Volcanoes", passage.Text)

	qp, err := o.SubmitQuestions(ctx, testConfig("Volcanoes"))
	require.NoError(t, err)
	assert.Equal(t, StateGeneratingQuestions, o.State())

	require.True(t, o.Apply(qp()))
	assert.Equal(t, StateQuestionsReady, o.State())
	assert.Len(t, o.Questions(), DefaultQuestions)
	assert.Equal(t, passage, b.lastPassage)
}

func TestOrchestrator_SubmitQuestionsWithoutPassage(t *testing.T) {
	b := echoBackend()
	o := NewOrchestrator(b)

	p, err := o.SubmitQuestions(context.Background(), testConfig("x"))
	assert.Nil(t, p)
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, 0, b.questionsCalls)
}

func TestOrchestrator_SubmitQuestionsWithBlankPassage(t *testing.T) {
	b := echoBackend()
	b.text = func(Config) (Passage, error) { return Passage{Text: " \n\t"}, nil }
	o := NewOrchestrator(b)
	ctx := context.Background()

	o.Run(o.SubmitText(ctx, testConfig("x")))
	require.Equal(t, StateTextReady, o.State())
	assert.False(t, o.CanSubmitQuestions())

	p, err := o.SubmitQuestions(ctx, testConfig("x"))
	assert.Nil(t, p)
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StateTextReady, o.State())
	assert.Equal(t, 0, b.questionsCalls)
}

func TestOrchestrator_CanSubmitQuestions(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	ctx := context.Background()
	assert.False(t, o.CanSubmitQuestions())

	pending := o.SubmitText(ctx, testConfig("x"))
	assert.False(t, o.CanSubmitQuestions())

	o.Run(pending)
	assert.True(t, o.CanSubmitQuestions())
}

func TestOrchestrator_SubmitQuestionsWhileTextInFlight(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	ctx := context.Background()

	o.Run(o.SubmitText(ctx, testConfig("first")))
	o.SubmitText(ctx, testConfig("second"))

	_, err := o.SubmitQuestions(ctx, testConfig("second"))
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StateGeneratingText, o.State())
}

func TestOrchestrator_StaleTextResponseDiscarded(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	ctx := context.Background()

	slow := o.SubmitText(ctx, testConfig("first"))
	fast := o.SubmitText(ctx, testConfig("second"))

	// The second request resolves first.
	require.True(t, o.Apply(fast()))
	assert.False(t, o.Apply(slow()))

	passage, ok := o.Passage()
	require.True(t, ok)
	assert.Equal(t, "A passage about second", passage.Text)
	assert.Equal(t, StateTextReady, o.State())
}

func TestOrchestrator_StaleTextFailureDiscarded(t *testing.T) {
	calls := 0
	b := echoBackend()
	b.text = func(cfg Config) (Passage, error) {
		calls++
		if cfg.Topic == "first" {
			return Passage{}, errors.New("boom")
		}
		return Passage{Text: "ok"}, nil
	}
	o := NewOrchestrator(b)
	ctx := context.Background()

	slow := o.SubmitText(ctx, testConfig("first"))
	fast := o.SubmitText(ctx, testConfig("second"))
	require.True(t, o.Apply(fast()))
	assert.False(t, o.Apply(slow()))

	assert.Equal(t, StateTextReady, o.State())
	assert.Equal(t, "", o.Err())
	assert.Equal(t, 2, calls)
}

func TestOrchestrator_NewTextInvalidatesQuestionsInFlight(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	ctx := context.Background()

	o.Run(o.SubmitText(ctx, testConfig("first")))
	qp, err := o.SubmitQuestions(ctx, testConfig("first"))
	require.NoError(t, err)

	o.SubmitText(ctx, testConfig("second"))
	assert.False(t, o.Apply(qp()))
	assert.Empty(t, o.Questions())
	assert.Equal(t, StateGeneratingText, o.State())
}

func TestOrchestrator_StaleQuestionsDiscarded(t *testing.T) {
	b := echoBackend()
	o := NewOrchestrator(b)
	ctx := context.Background()
	o.Run(o.SubmitText(ctx, testConfig("t")))

	three := testConfig("t")
	three.NumQuestions = 3
	two := testConfig("t")
	two.NumQuestions = 2

	slow, err := o.SubmitQuestions(ctx, three)
	require.NoError(t, err)
	fast, err := o.SubmitQuestions(ctx, two)
	require.NoError(t, err)

	require.True(t, o.Apply(fast()))
	assert.False(t, o.Apply(slow()))
	assert.Len(t, o.Questions(), 2)
}

func TestOrchestrator_TextFailure(t *testing.T) {
	b := echoBackend()
	o := NewOrchestrator(b)
	ctx := context.Background()

	o.Run(o.SubmitText(ctx, testConfig("ok")))
	_, ok := o.Passage()
	require.True(t, ok)

	b.text = func(Config) (Passage, error) {
		return Passage{}, &ServerError{Status: 500, Message: "Failed to generate text: model not found"}
	}
	o.Run(o.SubmitText(ctx, testConfig("bad")))

	assert.Equal(t, StateFailed, o.State())
	assert.Equal(t, StageText, o.FailedStage())
	assert.Equal(t, "Failed to generate text: model not found", o.Err())
	assert.Equal(t, o.Err(), o.TextErr())
	_, ok = o.Passage()
	assert.False(t, ok)
}

func TestOrchestrator_QuestionFailureKeepsPassage(t *testing.T) {
	b := echoBackend()
	b.questions = func(Passage, Config) (QuestionSet, error) {
		return nil, &ServerError{Status: 500, Message: "Failed to generate questions: 500 Internal Server Error"}
	}
	o := NewOrchestrator(b)
	ctx := context.Background()

	o.Run(o.SubmitText(ctx, testConfig("t")))
	qp, err := o.SubmitQuestions(ctx, testConfig("t"))
	require.NoError(t, err)
	o.Run(qp)

	assert.Equal(t, StateFailed, o.State())
	assert.Equal(t, StageQuestions, o.FailedStage())
	assert.Equal(t, "Failed to generate questions: 500 Internal Server Error", o.Err())
	passage, ok := o.Passage()
	require.True(t, ok)
	assert.Equal(t, "A passage about t", passage.Text)

	// The passage survives, so questions can be retried from Failed.
	b.questions = echoBackend().questions
	qp, err = o.SubmitQuestions(ctx, testConfig("t"))
	require.NoError(t, err)
	assert.Equal(t, "", o.Err())
	o.Run(qp)
	assert.Equal(t, StateQuestionsReady, o.State())
}

func TestOrchestrator_SubmitTextClearsFailures(t *testing.T) {
	b := echoBackend()
	b.text = func(Config) (Passage, error) { return Passage{}, errors.New("down") }
	o := NewOrchestrator(b)
	ctx := context.Background()

	o.Run(o.SubmitText(ctx, testConfig("t")))
	require.Equal(t, "down", o.Err())

	b.text = echoBackend().text
	p := o.SubmitText(ctx, testConfig("t"))
	assert.Equal(t, "", o.Err())
	assert.Equal(t, "", o.TextErr())
	o.Run(p)
	assert.Equal(t, StateTextReady, o.State())
}

func TestOrchestrator_ErrPrefersMostRecentFailure(t *testing.T) {
	o := NewOrchestrator(echoBackend())

	o.textErr, o.textFailedAt = "text failed", 1
	o.questionsErr, o.questionsFailedAt = "questions failed", 2
	o.failures = 2
	assert.Equal(t, "questions failed", o.Err())

	o.textFailedAt = 3
	assert.Equal(t, "text failed", o.Err())
}

func TestOrchestrator_ConfigSnapshotIsIsolated(t *testing.T) {
	var seen Config
	b := echoBackend()
	b.text = func(cfg Config) (Passage, error) {
		seen = cfg
		return Passage{Text: "x"}, nil
	}
	o := NewOrchestrator(b)

	cfg := testConfig("Volcanoes")
	p := o.SubmitText(context.Background(), cfg)
	cfg.Topic = "edited after submit"
	o.Apply(p())

	assert.Equal(t, "Volcanoes", seen.Topic)
	assert.Equal(t, "Volcanoes", o.Config().Topic)
}

func TestOrchestrator_QuestionsReturnsCopy(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	ctx := context.Background()
	o.Run(o.SubmitText(ctx, testConfig("t")))
	qp, _ := o.SubmitQuestions(ctx, testConfig("t"))
	o.Run(qp)

	qs := o.Questions()
	qs[0].Choices[0] = "mutated"
	assert.Equal(t, "a", o.Questions()[0].Choices[0])
}

func TestOrchestrator_ApplyUnknownStage(t *testing.T) {
	o := NewOrchestrator(echoBackend())
	assert.False(t, o.Apply(Completion{}))
	assert.False(t, o.Run(nil))
}
