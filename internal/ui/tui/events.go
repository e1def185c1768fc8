package tui

import "github.com/pavelanni/mocktest/internal/model"

// EventKind identifies the type of session event.
type EventKind int

const (
	// EventPoolReady signals that the pool was loaded.
	EventPoolReady EventKind = iota
	// EventPoolEmpty signals that every source was empty or failed.
	EventPoolEmpty
	// EventStartFailed signals that the index could not be loaded.
	EventStartFailed
	// EventQuestion delivers a newly drawn question.
	EventQuestion
	// EventEvaluated delivers the grading of the current question.
	EventEvaluated
	// EventStats delivers updated accuracy counts.
	EventStats
)

// Event carries a session update to the UI.
type Event struct {
	Kind       EventKind
	PoolSize   int
	Err        error
	Question   model.Question
	Evaluation model.Evaluation
	Stats      model.StatsView
}
