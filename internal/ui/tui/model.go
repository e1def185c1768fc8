// Package tui renders a quiz session in the terminal with Bubble Tea.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pavelanni/mocktest/internal/i18n"
	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/quiz"
)

// Session is the part of quiz.Session the terminal UI drives.
type Session interface {
	Start(ctx context.Context) error
	Submit(choice model.Choice) (quiz.Outcome, error)
	Advance() (quiz.Outcome, bool)
	ResetStats() error
}

// Options configures the terminal UI.
type Options struct {
	NoColor bool
	// Lang selects the UI language; empty uses the i18n default.
	Lang string
}

// Model is the Bubble Tea model of one quiz session. Session state arrives
// as Events from the Controller; key presses call the Session.
type Model struct {
	session Session
	events  <-chan Event
	start   tea.Cmd
	spinner spinner.Model
	keys    keyMap
	tr      *i18n.Translator
	styles  styles
	width   int

	loading  bool
	failure  error
	empty    bool
	poolSize int
	question *model.Question
	eval     *model.Evaluation
	stats    *model.StatsView
	notice   string
}

// NewModel constructs the UI for session. Init starts the session under ctx.
func NewModel(ctx context.Context, session Session, events <-chan Event, opts Options) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	st := newStyles(opts.NoColor)
	sp.Style = st.muted
	return Model{
		session: session,
		events:  events,
		start:   startSession(ctx, session),
		spinner: sp,
		keys:    defaultKeys(),
		tr:      i18n.NewTranslator(opts.Lang),
		styles:  st,
		loading: true,
	}
}

// Init starts the session, the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.start, m.spinner.Tick, waitForEvent(m.events))
}

// Update consumes session events, key presses and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.events)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Answer):
		choice, err := model.ParseChoice(msg.String())
		if err != nil {
			return m, nil
		}
		m.submit(choice)
	case key.Matches(msg, m.keys.Next):
		// Only an answered question can be skipped past.
		m.session.Advance()
	case key.Matches(msg, m.keys.Reset):
		if err := m.session.ResetStats(); err != nil {
			m.notice = err.Error()
		}
	}
	return m, nil
}

func (m *Model) submit(choice model.Choice) {
	if _, err := m.session.Submit(choice); err != nil && !errors.Is(err, quiz.ErrNoQuestion) {
		m.notice = err.Error()
	}
}

// EventMsg wraps a session event for Bubble Tea.
type EventMsg struct {
	Event Event
}

func startSession(ctx context.Context, session Session) tea.Cmd {
	return func() tea.Msg {
		// Failures reach the UI through OnStartFailed.
		_ = session.Start(ctx)
		return nil
	}
}

// waitForEvent blocks until a session event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

// applyEvent updates the model from a session event.
func applyEvent(m Model, event Event) Model {
	switch event.Kind {
	case EventPoolReady:
		m.loading = false
		m.poolSize = event.PoolSize
		m.notice = m.tr.Tp("QuestionsLoaded", event.PoolSize)
	case EventPoolEmpty:
		m.loading = false
		m.empty = true
	case EventStartFailed:
		m.loading = false
		m.failure = event.Err
	case EventQuestion:
		q := event.Question
		m.question = &q
		m.eval = nil
	case EventEvaluated:
		e := event.Evaluation
		m.eval = &e
	case EventStats:
		st := event.Stats
		m.stats = &st
	}
	return m
}
