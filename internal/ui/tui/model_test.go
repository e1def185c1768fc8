package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pavelanni/mocktest/internal/i18n"
	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/quiz"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeSession struct {
	submits  []model.Choice
	answered bool
	advances int
	resets   int
}

func (f *fakeSession) Start(context.Context) error { return nil }

func (f *fakeSession) Submit(c model.Choice) (quiz.Outcome, error) {
	f.submits = append(f.submits, c)
	f.answered = true
	return quiz.Outcome{}, nil
}

func (f *fakeSession) Advance() (quiz.Outcome, bool) {
	if !f.answered {
		return quiz.Outcome{}, false
	}
	f.answered = false
	f.advances++
	return quiz.Outcome{Advanced: true}, true
}

func (f *fakeSession) ResetStats() error {
	f.resets++
	return nil
}

func newTestModel(t *testing.T) (Model, *fakeSession) {
	t.Helper()
	fs := &fakeSession{}
	return NewModel(context.Background(), fs, nil, Options{NoColor: true, Lang: "en"}), fs
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var sample = model.Question{
	Question: "Which gas is used in plasma etching?",
	Options:  model.Options{A: "He", B: "CF4", C: "Ne", D: "Ar"},
	Answer:   model.ChoiceB,
	Source:   "111-1.pdf",
	Number:   2,
}

func showQuestion(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, EventMsg{Event{Kind: EventPoolReady, PoolSize: 3}})
	m, _ = update(t, m, EventMsg{Event{Kind: EventQuestion, Question: sample}})
	return m
}

func TestViewWhileLoading(t *testing.T) {
	m, _ := newTestModel(t)
	if v := m.View(); !strings.Contains(v, "Loading questions...") {
		t.Errorf("view missing loading line:\n%s", v)
	}
}

func TestViewQuestion(t *testing.T) {
	m, _ := newTestModel(t)
	m = showQuestion(t, m)
	v := m.View()
	for _, want := range []string{
		"Which gas is used in plasma etching?",
		"A. He",
		"D. Ar",
		"Source: 111-1.pdf (#2)",
		"3 questions loaded.",
	} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
	if strings.Contains(v, "Accuracy") {
		t.Error("plain session must not show accuracy")
	}
}

func TestViewEvaluation(t *testing.T) {
	tests := []struct {
		name   string
		chosen model.Choice
		want   []string
	}{
		{"correct", model.ChoiceB, []string{"✓ B. CF4", "Correct!"}},
		{"wrong", model.ChoiceA, []string{"✓ B. CF4", "✗ A. He", "Wrong. The answer is B."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = showQuestion(t, m)
			m, _ = update(t, m, EventMsg{Event{
				Kind:       EventEvaluated,
				Question:   sample,
				Evaluation: model.Evaluation{Chosen: tt.chosen, Correct: model.ChoiceB, IsCorrect: tt.chosen == model.ChoiceB},
			}})
			m, _ = update(t, m, EventMsg{Event{Kind: EventStats, Stats: model.StatsView{Correct: 3, Total: 4, Accuracy: 75}}})
			v := m.View()
			for _, want := range append(tt.want, "Correct/answered: 3/4 Accuracy: 75.0%") {
				if !strings.Contains(v, want) {
					t.Errorf("view missing %q:\n%s", want, v)
				}
			}
		})
	}
}

func TestViewFailures(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, EventMsg{Event{Kind: EventStartFailed, Err: errors.New("index unavailable")}})
	if v := m.View(); !strings.Contains(v, "Could not load questions: index unavailable") {
		t.Errorf("view missing failure:\n%s", v)
	}

	m, _ = newTestModel(t)
	m, _ = update(t, m, EventMsg{Event{Kind: EventPoolEmpty}})
	if v := m.View(); !strings.Contains(v, "No questions available.") {
		t.Errorf("view missing empty notice:\n%s", v)
	}
}

func TestKeys(t *testing.T) {
	m, fs := newTestModel(t)
	m = showQuestion(t, m)

	// Enter does nothing until the question is answered.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(fs.submits) != 0 || fs.advances != 0 {
		t.Fatalf("enter on unanswered question: submits %v, advances %d", fs.submits, fs.advances)
	}

	m, _ = update(t, m, runeKey('b'))
	m, _ = update(t, m, runeKey('3'))
	m, _ = update(t, m, runeKey('x'))
	if got := fs.submits; len(got) != 2 || got[0] != model.ChoiceB || got[1] != model.ChoiceC {
		t.Errorf("submits = %v, want [B C]", got)
	}

	m, _ = update(t, m, EventMsg{Event{Kind: EventEvaluated, Evaluation: model.Evaluation{Chosen: model.ChoiceB, Correct: model.ChoiceB, IsCorrect: true}}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if fs.advances != 1 || len(fs.submits) != 2 {
		t.Errorf("enter on answered question should advance: advances %d, submits %v", fs.advances, fs.submits)
	}

	m, _ = update(t, m, runeKey('r'))
	if fs.resets != 1 {
		t.Errorf("resets = %d, want 1", fs.resets)
	}

	_, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestController(t *testing.T) {
	c := NewController()
	c.OnPoolReady(2)
	c.OnQuestionChanged(sample)
	c.OnStatsChanged(model.StatsView{Correct: 1, Total: 1, Accuracy: 100})
	c.Close()
	c.OnPoolEmpty()
	c.Close()

	var kinds []EventKind
	for e := range c.Events() {
		kinds = append(kinds, e.Kind)
	}
	want := []EventKind{EventPoolReady, EventQuestion, EventStats}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}

	if _, ok := waitForEvent(c.Events())().(tea.QuitMsg); !ok {
		t.Error("closed stream should quit the UI")
	}
}

func TestShouldUseColor(t *testing.T) {
	var sb strings.Builder
	if ShouldUseColor(&sb) {
		t.Error("a non-terminal writer must not be styled")
	}
	if ShouldUseColor(nil) {
		t.Error("nil writer must not be styled")
	}
}
