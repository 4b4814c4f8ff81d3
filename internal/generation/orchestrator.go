package generation

import (
	"context"
	"errors"
	"strings"
)

// Backend performs the two generation requests. internal/api provides the
// HTTP implementation.
type Backend interface {
	GenerateText(ctx context.Context, cfg Config) (Passage, error)
	GenerateQuestions(ctx context.Context, passage Passage, cfg Config) (QuestionSet, error)
}

// State is the orchestrator's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateGeneratingText
	StateTextReady
	StateGeneratingQuestions
	StateQuestionsReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGeneratingText:
		return "generating-text"
	case StateTextReady:
		return "text-ready"
	case StateGeneratingQuestions:
		return "generating-questions"
	case StateQuestionsReady:
		return "questions-ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage identifies one of the two generation phases.
type Stage int

const (
	StageNone Stage = iota
	StageText
	StageQuestions
)

func (s Stage) String() string {
	switch s {
	case StageText:
		return "text"
	case StageQuestions:
		return "questions"
	default:
		return "none"
	}
}

// Completion is the outcome of one issued request, tagged with the
// sequence number it was issued under.
type Completion struct {
	Stage     Stage
	Seq       uint64
	Passage   Passage
	Questions QuestionSet
	Err       error
}

// Pending performs an issued request and returns its Completion. It only
// touches the values captured at submission time, so it may run on any
// goroutine; the Completion must be handed back to Apply on the owning loop.
type Pending func() Completion

// Orchestrator sequences text generation and question generation.
//
// An Orchestrator is not safe for concurrent use. Submit*, Apply and the
// accessors belong to a single event loop; only the Pending thunks may run
// elsewhere.
type Orchestrator struct {
	backend Backend

	state       State
	failedStage Stage
	config      Config

	passage   *Passage
	questions QuestionSet

	textSeq      uint64
	questionsSeq uint64

	textErr      string
	questionsErr string

	// failures counts stage failures; the *FailedAt fields record when each
	// channel last failed so Err can prefer the most recent one.
	failures          uint64
	textFailedAt      uint64
	questionsFailedAt uint64
}

// NewOrchestrator returns an idle Orchestrator backed by b.
func NewOrchestrator(b Backend) *Orchestrator {
	return &Orchestrator{backend: b}
}

// SubmitText starts a new text generation, superseding everything before it.
// Any in-flight text or question request becomes stale.
func (o *Orchestrator) SubmitText(ctx context.Context, cfg Config) Pending {
	o.textSeq++
	o.questionsSeq++
	seq := o.textSeq

	o.passage = nil
	o.questions = nil
	o.textErr = ""
	o.questionsErr = ""
	o.textFailedAt = 0
	o.questionsFailedAt = 0
	o.failedStage = StageNone
	o.config = cfg
	o.state = StateGeneratingText

	backend := o.backend
	return func() Completion {
		p, err := backend.GenerateText(ctx, cfg)
		return Completion{Stage: StageText, Seq: seq, Passage: p, Err: err}
	}
}

// SubmitQuestions starts question generation for the current passage. It
// returns a *PreconditionError, and issues nothing, when there is no passage
// or the passage is blank.
func (o *Orchestrator) SubmitQuestions(ctx context.Context, cfg Config) (Pending, error) {
	if !o.CanSubmitQuestions() {
		return nil, &PreconditionError{Op: "generate questions", Reason: "no passage has been generated yet"}
	}

	o.questionsSeq++
	seq := o.questionsSeq
	passage := *o.passage

	o.questions = nil
	o.questionsErr = ""
	o.questionsFailedAt = 0
	o.failedStage = StageNone
	o.state = StateGeneratingQuestions

	backend := o.backend
	return func() Completion {
		qs, err := backend.GenerateQuestions(ctx, passage, cfg)
		return Completion{Stage: StageQuestions, Seq: seq, Questions: qs, Err: err}
	}, nil
}

// Apply folds a completion into the state. It returns false, leaving state
// untouched, when the completion belongs to a superseded submission.
func (o *Orchestrator) Apply(c Completion) bool {
	switch c.Stage {
	case StageText:
		if c.Seq != o.textSeq {
			return false
		}
		if c.Err != nil {
			o.passage = nil
			o.textErr = errorMessage(c.Err)
			o.failures++
			o.textFailedAt = o.failures
			o.failedStage = StageText
			o.state = StateFailed
			return true
		}
		p := c.Passage
		o.passage = &p
		o.state = StateTextReady
		return true

	case StageQuestions:
		if c.Seq != o.questionsSeq {
			return false
		}
		if c.Err != nil {
			o.questions = nil
			o.questionsErr = errorMessage(c.Err)
			o.failures++
			o.questionsFailedAt = o.failures
			o.failedStage = StageQuestions
			o.state = StateFailed
			return true
		}
		o.questions = c.Questions.Clone()
		o.state = StateQuestionsReady
		return true
	}
	return false
}

// Run executes p on the calling goroutine and applies its completion. It is
// meant for synchronous hosts such as the CLI.
func (o *Orchestrator) Run(p Pending) bool {
	if p == nil {
		return false
	}
	return o.Apply(p())
}

// CanSubmitQuestions reports whether SubmitQuestions would be accepted: a
// non-blank passage exists and no text request is in flight.
func (o *Orchestrator) CanSubmitQuestions() bool {
	if o.state == StateGeneratingText || o.passage == nil {
		return false
	}
	return strings.TrimSpace(o.passage.Text) != ""
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// FailedStage returns which stage failed when State is StateFailed.
func (o *Orchestrator) FailedStage() Stage {
	if o.state != StateFailed {
		return StageNone
	}
	return o.failedStage
}

// Busy reports whether a request is in flight.
func (o *Orchestrator) Busy() bool {
	return o.state == StateGeneratingText || o.state == StateGeneratingQuestions
}

// Config returns the snapshot of the latest text submission.
func (o *Orchestrator) Config() Config { return o.config }

// Passage returns the current passage, if any.
func (o *Orchestrator) Passage() (Passage, bool) {
	if o.passage == nil {
		return Passage{}, false
	}
	return *o.passage, true
}

// Questions returns a copy of the current question set.
func (o *Orchestrator) Questions() QuestionSet {
	return o.questions.Clone()
}

// TextErr returns the text-stage failure message, if any.
func (o *Orchestrator) TextErr() string { return o.textErr }

// QuestionsErr returns the question-stage failure message, if any.
func (o *Orchestrator) QuestionsErr() string { return o.questionsErr }

// Err returns the failure message of whichever stage failed most recently,
// or "" when neither channel holds a failure.
func (o *Orchestrator) Err() string {
	switch {
	case o.textFailedAt == 0 && o.questionsFailedAt == 0:
		return ""
	case o.textFailedAt > o.questionsFailedAt:
		return o.textErr
	default:
		return o.questionsErr
	}
}

func errorMessage(err error) string {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return err.Error()
}
