// Package quiz drives one quiz session: it loads the pool, draws questions
// without repetition, grades answers once per question and keeps the stats.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/shuffle"
	"github.com/pavelanni/mocktest/internal/source"
	"github.com/pavelanni/mocktest/internal/stats"
)

// ErrNoQuestion is returned by Submit before a question has been drawn.
var ErrNoQuestion = errors.New("no question selected")

// State is the lifecycle of the current question.
type State int

const (
	// StateEmpty means no question is selected (not started, failed or empty pool).
	StateEmpty State = iota
	// StateUnanswered means a question is shown and waits for an answer.
	StateUnanswered
	// StateAnswered means the current question was graded; the next submit advances.
	StateAnswered
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateUnanswered:
		return "unanswered"
	case StateAnswered:
		return "answered"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Variant selects the product flavour.
type Variant string

const (
	// VariantPlain presents questions without persisted stats.
	VariantPlain Variant = "plain"
	// VariantMock tracks accuracy across sessions.
	VariantMock Variant = "mock"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantPlain, VariantMock:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q (want plain or mock)", s)
}

// DefaultIndex returns the index document each variant loads by default.
func (v Variant) DefaultIndex() string {
	if v == VariantMock {
		return "problem_sources_mock_test.json"
	}
	return "problem_sources.json"
}

// TracksStats reports whether the variant persists accuracy.
func (v Variant) TracksStats() bool {
	return v == VariantMock
}

// PoolLoader produces the question pool.
type PoolLoader interface {
	Load(ctx context.Context) (source.Result, error)
}

// Outcome is the result of Submit.
type Outcome struct {
	// Advanced is true when the submit moved to a new question instead of grading.
	Advanced   bool
	Question   model.Question
	Evaluation model.Evaluation
}

// Snapshot is a read-only copy of the session for renderers.
type Snapshot struct {
	SessionID  string            `json:"session_id"`
	State      string            `json:"state"`
	PoolSize   int               `json:"pool_size"`
	Question   *model.Question   `json:"question,omitempty"`
	Evaluation *model.Evaluation `json:"evaluation,omitempty"`
	Stats      *model.StatsView  `json:"stats,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithStats enables the stats-tracking variant.
func WithStats(t *stats.Tracker) Option {
	return func(s *Session) { s.tracker = t }
}

// WithObserver sets the rendering collaborator.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithShuffler replaces the default randomly seeded Shuffler.
func WithShuffler(sh *shuffle.Shuffler) Option {
	return func(s *Session) { s.shuffler = sh }
}

// WithLogger sets the logger; the session id is attached to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session owns the pool, the draw order, the current question and the stats.
// It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	id       string
	loader   PoolLoader
	shuffler *shuffle.Shuffler
	tracker  *stats.Tracker
	observer Observer
	logger   *slog.Logger

	pool    []model.Question
	state   State
	current int
	eval    model.Evaluation
}

// New creates a Session in StateEmpty. Call Start to load the pool.
func New(loader PoolLoader, opts ...Option) *Session {
	s := &Session{loader: loader}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.Must(uuid.NewV7()).String()
	}
	if s.shuffler == nil {
		s.shuffler = shuffle.New(nil)
	}
	if s.observer == nil {
		s.observer = NopObserver{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("session_id", s.id)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// TracksStats reports whether the session runs the stats-tracking variant.
func (s *Session) TracksStats() bool {
	return s.tracker != nil
}

// Start loads the pool and draws the first question. An empty pool leaves the
// session in StateEmpty; an unavailable index is reported to the observer and returned.
func (s *Session) Start(ctx context.Context) error {
	s.logger.Info("starting session")
	res, err := s.loader.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
		s.logger.Error("session failed to start", "error", err)
		s.observer.OnStartFailed(err)
		return err
	}

	s.mu.Lock()
	s.resetLocked()
	s.pool = append([]model.Question(nil), res.Questions...)
	size := len(s.pool)
	if size == 0 {
		s.mu.Unlock()
		s.logger.Warn("question pool is empty", "sources", res.Sources, "failed", len(res.Failed))
		s.observer.OnPoolEmpty()
		return nil
	}
	q := s.drawLocked()
	view, tracked := s.statsLocked()
	s.mu.Unlock()

	s.observer.OnPoolReady(size)
	if tracked {
		s.observer.OnStatsChanged(view)
	}
	s.observer.OnQuestionChanged(q)
	return nil
}

// Submit grades choice when the current question is unanswered. When it was
// already answered, the call advances to a new question and choice is ignored.
func (s *Session) Submit(choice model.Choice) (Outcome, error) {
	return s.submit(func() (model.Choice, error) {
		if !choice.Valid() {
			return "", fmt.Errorf("%w: %q", model.ErrInvalidChoice, choice)
		}
		return choice, nil
	})
}

// SubmitInput is Submit for raw user input such as "b" or "2". The input is
// parsed only when the current question is unanswered.
func (s *Session) SubmitInput(raw string) (Outcome, error) {
	return s.submit(func() (model.Choice, error) {
		return model.ParseChoice(raw)
	})
}

// Advance draws a new question when the current one is answered. Otherwise
// it changes nothing and reports false.
func (s *Session) Advance() (Outcome, bool) {
	s.mu.Lock()
	if s.state != StateAnswered {
		s.mu.Unlock()
		return Outcome{}, false
	}
	q := s.drawLocked()
	s.mu.Unlock()
	s.observer.OnQuestionChanged(q)
	return Outcome{Advanced: true, Question: q}, true
}

func (s *Session) submit(parse func() (model.Choice, error)) (Outcome, error) {
	s.mu.Lock()
	switch s.state {
	case StateEmpty:
		s.mu.Unlock()
		return Outcome{}, ErrNoQuestion

	case StateAnswered:
		q := s.drawLocked()
		s.mu.Unlock()
		s.observer.OnQuestionChanged(q)
		return Outcome{Advanced: true, Question: q}, nil
	}

	choice, err := parse()
	if err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	q := s.pool[s.current]
	eval := model.Evaluation{
		Chosen:    choice,
		Correct:   q.Answer,
		IsCorrect: choice == q.Answer,
	}
	s.state = StateAnswered
	s.eval = eval
	if s.tracker != nil {
		if err := s.tracker.Record(eval.IsCorrect); err != nil {
			s.logger.Warn("persist stats failed", "error", err)
		}
	}
	view, tracked := s.statsLocked()
	s.mu.Unlock()

	s.logger.Debug("answer evaluated",
		"source", q.Source,
		"number", q.Number,
		"chosen", eval.Chosen,
		"correct", eval.Correct,
	)
	s.observer.OnAnswerEvaluated(q, eval)
	if tracked {
		s.observer.OnStatsChanged(view)
	}
	return Outcome{Question: q, Evaluation: eval}, nil
}

// Current returns the selected question.
func (s *Session) Current() (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEmpty {
		return model.Question{}, false
	}
	return s.pool[s.current], true
}

// Evaluation returns the grading of the current question once answered.
func (s *Session) Evaluation() (model.Evaluation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnswered {
		return model.Evaluation{}, false
	}
	return s.eval, true
}

// State returns the current question state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PoolSize returns the number of loaded questions.
func (s *Session) PoolSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pool)
}

// Stats returns the accuracy counts; ok is false in the plain variant.
func (s *Session) Stats() (model.StatsView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

// ResetStats zeroes and persists the stats of the stats-tracking variant.
func (s *Session) ResetStats() error {
	s.mu.Lock()
	if s.tracker == nil {
		s.mu.Unlock()
		return nil
	}
	err := s.tracker.Reset()
	view, _ := s.statsLocked()
	s.mu.Unlock()
	s.observer.OnStatsChanged(view)
	return err
}

// Reset drops the pool and returns to StateEmpty. Stats are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SessionID: s.id,
		State:     s.state.String(),
		PoolSize:  len(s.pool),
	}
	if s.state != StateEmpty {
		q := s.pool[s.current]
		snap.Question = &q
	}
	if s.state == StateAnswered {
		e := s.eval
		snap.Evaluation = &e
	}
	if view, ok := s.statsLocked(); ok {
		snap.Stats = &view
	}
	return snap
}

func (s *Session) drawLocked() model.Question {
	// The pool is non-empty whenever a draw happens.
	idx, _ := s.shuffler.Next(len(s.pool))
	s.current = idx
	s.state = StateUnanswered
	s.eval = model.Evaluation{}
	return s.pool[idx]
}

func (s *Session) statsLocked() (model.StatsView, bool) {
	if s.tracker == nil {
		return model.StatsView{}, false
	}
	return s.tracker.Stats().View(), true
}

func (s *Session) resetLocked() {
	s.pool = nil
	s.state = StateEmpty
	s.current = 0
	s.eval = model.Evaluation{}
	s.shuffler.Reset()
}
