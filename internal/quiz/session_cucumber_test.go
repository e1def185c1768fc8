//go:build cucumber

package quiz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"

	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/source"
	"github.com/pavelanni/mocktest/internal/stats"
)

// TestSessionFeatures executes the session feature scenarios via godog.
func TestSessionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-session",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("features", "session.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeScenario wires the session step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &sessionState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = sessionState{}
		return ctx, nil
	})

	ctx.Step(`^a pool of (\d+) questions whose answer is "([A-D])"$`, state.givenPool)
	ctx.Step(`^a mock session over stored stats (\d+) of (\d+)$`, state.givenMockSession)
	ctx.Step(`^a plain session$`, state.givenPlainSession)
	ctx.Step(`^the index cannot be fetched$`, state.givenIndexFailure)
	ctx.Step(`^I start the session$`, state.startSession)
	ctx.Step(`^I answer "([^"]*)"$`, state.answer)
	ctx.Step(`^I keep advancing until (\d+) questions were shown$`, state.advanceUntil)
	ctx.Step(`^the answer is graded (correct|wrong)$`, state.gradedAs)
	ctx.Step(`^the stats are (\d+) of (\d+) at ([\d.]+) percent$`, state.statsAre)
	ctx.Step(`^the session moved to a new question$`, state.advanced)
	ctx.Step(`^no question was shown twice$`, state.noRepeats)
	ctx.Step(`^the start failed because the index is unavailable$`, state.startFailed)
	ctx.Step(`^submitting is rejected$`, state.submitRejected)
}

// sessionState holds scenario state for the feature tests.
type sessionState struct {
	loader   fakeLoader
	store    *stats.MemoryStore
	session  *Session
	observer *recordingObserver
	startErr error
	last     Outcome
}

func (s *sessionState) givenPool(n int, answer string) error {
	qs := testQuestions(n)
	for i := range qs {
		qs[i].Answer = model.Choice(answer)
	}
	s.loader.questions = qs
	return nil
}

func (s *sessionState) givenMockSession(correct, total int) error {
	s.store = stats.NewMemoryStore()
	raw, err := stats.Encode(model.Stats{Correct: correct, Total: total})
	if err != nil {
		return err
	}
	if err := s.store.Set(stats.Key, raw, stats.TTL); err != nil {
		return err
	}
	s.observer = &recordingObserver{}
	s.session = New(s.loader, WithObserver(s.observer), WithStats(stats.Load(s.store, nil)))
	return nil
}

func (s *sessionState) givenPlainSession() error {
	s.observer = &recordingObserver{}
	s.session = New(s.loader, WithObserver(s.observer))
	return nil
}

func (s *sessionState) givenIndexFailure() error {
	s.loader.err = fmt.Errorf("%w: problem_sources.json: connection refused", source.ErrIndexUnavailable)
	return nil
}

func (s *sessionState) startSession() error {
	s.startErr = s.session.Start(context.Background())
	return nil
}

func (s *sessionState) answer(label string) error {
	out, err := s.session.Submit(model.Choice(label))
	if err != nil {
		return err
	}
	s.last = out
	return nil
}

func (s *sessionState) advanceUntil(n int) error {
	for i := 0; len(s.observer.questions) < n; i++ {
		if i > 4*n {
			return fmt.Errorf("only %d questions shown", len(s.observer.questions))
		}
		if _, err := s.session.Submit(model.ChoiceA); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionState) gradedAs(verdict string) error {
	if s.last.Advanced {
		return errors.New("last submit advanced instead of grading")
	}
	if want := verdict == "correct"; s.last.Evaluation.IsCorrect != want {
		return fmt.Errorf("graded %+v, want %s", s.last.Evaluation, verdict)
	}
	return nil
}

func (s *sessionState) statsAre(correct, total int, accuracy float64) error {
	view, ok := s.session.Stats()
	if !ok {
		return errors.New("session does not track stats")
	}
	want := model.StatsView{Correct: correct, Total: total, Accuracy: accuracy}
	if view != want {
		return fmt.Errorf("stats = %+v, want %+v", view, want)
	}
	return nil
}

func (s *sessionState) advanced() error {
	if !s.last.Advanced {
		return errors.New("last submit graded instead of advancing")
	}
	if s.session.State() != StateUnanswered {
		return fmt.Errorf("state = %v, want unanswered", s.session.State())
	}
	return nil
}

func (s *sessionState) noRepeats() error {
	seen := make(map[int]bool)
	for _, q := range s.observer.questions {
		if seen[q.Number] {
			return fmt.Errorf("question %d shown twice", q.Number)
		}
		seen[q.Number] = true
	}
	return nil
}

func (s *sessionState) startFailed() error {
	if !errors.Is(s.startErr, source.ErrIndexUnavailable) {
		return fmt.Errorf("start error = %v", s.startErr)
	}
	if !errors.Is(s.observer.startErr, source.ErrIndexUnavailable) {
		return fmt.Errorf("observer saw %v", s.observer.startErr)
	}
	return nil
}

func (s *sessionState) submitRejected() error {
	if _, err := s.session.Submit(model.ChoiceA); !errors.Is(err, ErrNoQuestion) {
		return fmt.Errorf("submit error = %v, want ErrNoQuestion", err)
	}
	return nil
}
