package tui

import (
	"sync"

	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/quiz"
)

var _ quiz.Observer = (*Controller)(nil)

// Controller implements quiz.Observer by forwarding session events to the UI.
type Controller struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

// NewController creates a controller with a buffered event queue.
func NewController() *Controller {
	return &Controller{events: make(chan Event, 64)}
}

// Events returns the queue consumed by the Model.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Close ends the event stream; the UI quits once it drains.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// OnPoolReady forwards pool size to the UI.
func (c *Controller) OnPoolReady(size int) {
	c.send(Event{Kind: EventPoolReady, PoolSize: size})
}

// OnPoolEmpty forwards the empty pool notice to the UI.
func (c *Controller) OnPoolEmpty() {
	c.send(Event{Kind: EventPoolEmpty})
}

// OnStartFailed forwards the load error to the UI.
func (c *Controller) OnStartFailed(err error) {
	c.send(Event{Kind: EventStartFailed, Err: err})
}

// OnQuestionChanged forwards the drawn question to the UI.
func (c *Controller) OnQuestionChanged(q model.Question) {
	c.send(Event{Kind: EventQuestion, Question: q})
}

// OnAnswerEvaluated forwards the grading to the UI.
func (c *Controller) OnAnswerEvaluated(q model.Question, e model.Evaluation) {
	c.send(Event{Kind: EventEvaluated, Question: q, Evaluation: e})
}

// OnStatsChanged forwards the accuracy counts to the UI.
func (c *Controller) OnStatsChanged(st model.StatsView) {
	c.send(Event{Kind: EventStats, Stats: st})
}

// send enqueues an event without blocking the session. Events after Close
// are dropped.
func (c *Controller) send(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
