// Package reading implements the screen that shows a generated passage and
// quizzes the learner on it.
package reading

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/quiz"
	"github.com/abhisek/readquiz/internal/screen"
	"github.com/abhisek/readquiz/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

// ReadingScreen drives an Orchestrator for one configuration and runs the
// quiz once questions arrive.
type ReadingScreen struct {
	ctx    context.Context
	cancel context.CancelFunc

	orch   *generation.Orchestrator
	cfg    generation.Config
	quiz   *quiz.Engine
	report quiz.Reporter

	lastResult *quiz.Result

	question int // focused question
	choice   int // highlighted option within it
	notice   string

	ticking bool
	frame   int
	offset  int
	height  int
}

var _ screen.Screen = (*ReadingScreen)(nil)
var _ screen.KeyHintProvider = (*ReadingScreen)(nil)
var _ screen.Closer = (*ReadingScreen)(nil)

// New creates a ReadingScreen for cfg. report, if non-nil, also receives
// every quiz result.
func New(backend generation.Backend, cfg generation.Config, report quiz.Reporter) *ReadingScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &ReadingScreen{
		ctx:    ctx,
		cancel: cancel,
		orch:   generation.NewOrchestrator(backend),
		cfg:    cfg,
		report: report,
	}
}

func (s *ReadingScreen) Init() tea.Cmd {
	return s.generateText()
}

func (s *ReadingScreen) Title() string {
	return "Reading"
}

func (s *ReadingScreen) KeyHints() []layout.KeyHint {
	if s.quiz != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choice"},
			{Key: "←→", Description: "Question"},
			{Key: "Enter", Description: "Select"},
			{Key: "s", Description: "Submit"},
			{Key: "r", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "n", Description: "Questions"},
		{Key: "g", Description: "New passage"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

// Close cancels any request still in flight.
func (s *ReadingScreen) Close() {
	s.cancel()
}

// Orchestrator exposes the underlying state machine.
func (s *ReadingScreen) Orchestrator() *generation.Orchestrator { return s.orch }

// Quiz returns the active quiz, or nil before questions arrive.
func (s *ReadingScreen) Quiz() *quiz.Engine { return s.quiz }

// LastResult returns the last reported quiz result, if any. After a retry it
// is unscored until the next submit.
func (s *ReadingScreen) LastResult() (quiz.Result, bool) {
	if s.lastResult == nil {
		return quiz.Result{}, false
	}
	return *s.lastResult, true
}

// Notice returns the latest transient message, such as a rejected submit.
func (s *ReadingScreen) Notice() string { return s.notice }

func (s *ReadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completionMsg:
		s.handleCompletion(msg.Completion)
		return s, nil

	case spinnerTickMsg:
		if !s.orch.Busy() {
			s.ticking = false
			return s, nil
		}
		s.frame++
		return s, tickCmd()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ReadingScreen) handleCompletion(c generation.Completion) {
	if !s.orch.Apply(c) {
		return
	}
	if s.orch.State() == generation.StateQuestionsReady {
		s.quiz = quiz.New(s.orch.Questions(), s.onResult)
		s.question, s.choice = 0, 0
	}
}

func (s *ReadingScreen) onResult(r quiz.Result) {
	s.lastResult = &r
	if s.report != nil {
		s.report(r)
	}
}

func (s *ReadingScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "g":
		return s, s.generateText()
	case "n":
		return s, s.generateQuestions()
	case "pgdown":
		s.offset += max(s.height/2, 1)
		return s, nil
	case "pgup":
		s.offset -= max(s.height/2, 1)
		if s.offset < 0 {
			s.offset = 0
		}
		return s, nil
	}

	if s.quiz == nil {
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.choice > 0 {
			s.choice--
		}
	case "down", "j":
		if q, ok := s.quiz.Question(s.question); ok && s.choice < len(q.Choices)-1 {
			s.choice++
		}
	case "right", "l", "tab":
		s.focusQuestion(s.question + 1)
	case "left", "h", "shift+tab":
		s.focusQuestion(s.question - 1)
	case "enter", "space":
		s.selectChoice(s.choice)
	case "1", "2", "3", "4", "5":
		s.selectChoice(int(key[0] - '1'))
	case "s":
		s.submitQuiz()
	case "r":
		s.quiz.Reset()
		s.notice = ""
	}
	return s, nil
}

func (s *ReadingScreen) focusQuestion(i int) {
	if i < 0 || i >= s.quiz.Len() {
		return
	}
	s.question = i
	s.choice = 0
	if sel, ok := s.quiz.Selection(i); ok {
		q, _ := s.quiz.Question(i)
		for j, c := range q.Choices {
			if c == sel {
				s.choice = j
			}
		}
	}
}

func (s *ReadingScreen) selectChoice(idx int) {
	q, ok := s.quiz.Question(s.question)
	if !ok || idx < 0 || idx >= len(q.Choices) {
		return
	}
	s.choice = idx
	if err := s.quiz.Select(s.question, q.Choices[idx]); err != nil {
		if errors.Is(err, quiz.ErrSubmitted) {
			s.notice = "Quiz already submitted. Press r to try again."
		}
		return
	}
	s.notice = ""
}

func (s *ReadingScreen) submitQuiz() {
	if _, err := s.quiz.Submit(); err != nil {
		var pe *generation.PreconditionError
		switch {
		case errors.As(err, &pe):
			s.notice = "Answer every question first (" + pe.Reason + ")"
		case errors.Is(err, quiz.ErrSubmitted):
			s.notice = "Quiz already submitted. Press r to try again."
		default:
			s.notice = err.Error()
		}
		return
	}
	s.notice = ""
}

func (s *ReadingScreen) generateText() tea.Cmd {
	s.quiz = nil
	s.notice = ""
	s.offset = 0
	return tea.Batch(run(s.orch.SubmitText(s.ctx, s.cfg)), s.startSpinner())
}

func (s *ReadingScreen) generateQuestions() tea.Cmd {
	if s.orch.State() == generation.StateGeneratingQuestions {
		return nil
	}
	p, err := s.orch.SubmitQuestions(s.ctx, s.cfg)
	if err != nil {
		var pe *generation.PreconditionError
		if errors.As(err, &pe) {
			s.notice = "Cannot generate questions: " + pe.Reason
		} else {
			s.notice = err.Error()
		}
		return nil
	}
	s.quiz = nil
	s.notice = ""
	return tea.Batch(run(p), s.startSpinner())
}

func (s *ReadingScreen) startSpinner() tea.Cmd {
	if s.ticking {
		return nil
	}
	s.ticking = true
	return tickCmd()
}

// run executes p off the update loop and delivers its completion.
func run(p generation.Pending) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return completionMsg{p()}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
