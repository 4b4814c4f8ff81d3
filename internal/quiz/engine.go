package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/readquiz/internal/generation"
)

// State is the quiz lifecycle position.
type State int

const (
	StateUnanswered State = iota
	StateAnswering
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateUnanswered:
		return "unanswered"
	case StateAnswering:
		return "answering"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	// ErrSubmitted is returned when selections change after submission.
	ErrSubmitted = errors.New("quiz already submitted")

	// ErrIndexOutOfRange is returned for a question index outside the set.
	ErrIndexOutOfRange = errors.New("question index out of range")
)

// Result is what the engine reports upward after submit and reset. A nil
// Score means there is no completed attempt, which is different from an
// attempt that scored zero.
type Result struct {
	Score *int
	Total int
}

// Scored reports whether the result carries a completed attempt.
func (r Result) Scored() bool { return r.Score != nil }

// Perfect reports whether every question was answered correctly.
func (r Result) Perfect() bool {
	return r.Score != nil && r.Total > 0 && *r.Score == r.Total
}

func (r Result) String() string {
	if r.Score == nil {
		return fmt.Sprintf("-/%d", r.Total)
	}
	return fmt.Sprintf("%d/%d", *r.Score, r.Total)
}

// Reporter receives results as they change.
type Reporter func(Result)

// Engine tracks answers for one question set and scores them.
type Engine struct {
	questions  generation.QuestionSet
	selections map[int]string
	state      State
	submitted  bool
	score      *int
	report     Reporter
}

// New starts an empty quiz for qs. report may be nil.
func New(qs generation.QuestionSet, report Reporter) *Engine {
	return &Engine{
		questions:  qs.Clone(),
		selections: make(map[int]string),
		report:     report,
	}
}

// Len returns the number of questions.
func (e *Engine) Len() int { return len(e.questions) }

// Question returns the i-th question.
func (e *Engine) Question(i int) (generation.Question, bool) {
	if i < 0 || i >= len(e.questions) {
		return generation.Question{}, false
	}
	return e.questions[i], true
}

// State returns the lifecycle position. A reset quiz is Answering, not
// Unanswered: an attempt has already been made.
func (e *Engine) State() State { return e.state }

// Select records choice for question i, replacing any earlier choice. The
// choice is not checked against the question's choices; one that is not
// offered simply never scores.
func (e *Engine) Select(i int, choice string) error {
	if e.submitted {
		return ErrSubmitted
	}
	if i < 0 || i >= len(e.questions) {
		return ErrIndexOutOfRange
	}
	e.selections[i] = choice
	e.state = StateAnswering
	return nil
}

// Selection returns the recorded choice for question i.
func (e *Engine) Selection(i int) (string, bool) {
	c, ok := e.selections[i]
	return c, ok
}

// Answered returns how many questions have a recorded choice.
func (e *Engine) Answered() int { return len(e.selections) }

// Missing lists unanswered question indices in order.
func (e *Engine) Missing() []int {
	var missing []int
	for i := range e.questions {
		if _, ok := e.selections[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Submit scores the quiz. It is rejected with a *generation.PreconditionError
// until every question has a selection, and with ErrSubmitted if already
// submitted; a rejected call changes nothing.
func (e *Engine) Submit() (int, error) {
	if e.submitted {
		return 0, ErrSubmitted
	}
	if missing := e.Missing(); len(missing) > 0 {
		return 0, &generation.PreconditionError{
			Op:     "submit quiz",
			Reason: "unanswered questions: " + formatIndices(missing),
		}
	}

	score := 0
	for i, q := range e.questions {
		if e.selections[i] == q.Answer {
			score++
		}
	}
	e.score = &score
	e.submitted = true
	e.state = StateSubmitted
	e.emit()
	return score, nil
}

// Reset clears all selections for another attempt and reports a result
// without a score.
func (e *Engine) Reset() {
	e.selections = make(map[int]string)
	e.submitted = false
	e.score = nil
	e.state = StateAnswering
	e.emit()
}

// Score returns the last submitted score, if any.
func (e *Engine) Score() (int, bool) {
	if e.score == nil {
		return 0, false
	}
	return *e.score, true
}

// Result returns the current result without reporting it.
func (e *Engine) Result() Result {
	r := Result{Total: len(e.questions)}
	if e.score != nil {
		s := *e.score
		r.Score = &s
	}
	return r
}

// IsCorrect reports whether question i was answered correctly. It is only
// meaningful after submission.
func (e *Engine) IsCorrect(i int) bool {
	if !e.submitted || i < 0 || i >= len(e.questions) {
		return false
	}
	return e.selections[i] == e.questions[i].Answer
}

func (e *Engine) emit() {
	if e.report != nil {
		e.report(e.Result())
	}
}

// formatIndices renders zero-based indices as 1-based question numbers.
func formatIndices(idx []int) string {
	sorted := append([]int(nil), idx...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprintf("%d", n+1)
	}
	return strings.Join(parts, ", ")
}
