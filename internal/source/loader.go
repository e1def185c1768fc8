// Package source builds the question pool from an index document and the
// per-source question documents it lists.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/mocktest/internal/model"
)

// ErrIndexUnavailable means the index document could not be fetched or parsed.
var ErrIndexUnavailable = errors.New("index document unavailable")

// SourceError records a source that was left out of the pool.
type SourceError struct {
	Locator string
	Err     error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Locator, e.Err)
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Config configures a Loader.
type Config struct {
	Index       string        // locator of the index document
	Fetcher     Fetcher       // fetch capability for the index and every source
	Timeout     time.Duration // per-fetch timeout; 0 disables
	Concurrency int           // max sources in flight. Default: 8.
	Logger      *slog.Logger
}

func (c *Config) defaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 8
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Result is the merged pool plus load bookkeeping.
type Result struct {
	Questions []model.Question
	Sources   int           // entries listed in the index
	Loaded    int           // sources merged into the pool
	Failed    []SourceError // sources that were left out
	Skipped   int           // invalid questions dropped from loaded sources
}

// Loader aggregates question sources into one pool.
type Loader struct {
	config Config
}

// New creates a Loader.
func New(cfg Config) *Loader {
	cfg.defaults()
	return &Loader{config: cfg}
}

// Index returns the index locator.
func (l *Loader) Index() string {
	return l.config.Index
}

// Load fetches the index, then every source concurrently, and returns once
// all source fetches have settled. Questions are merged in completion order.
// A failing source is recorded in Result.Failed and does not fail the load;
// a failing index returns an error wrapping ErrIndexUnavailable.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	logger := l.config.Logger
	index := l.config.Index

	data, err := l.fetch(ctx, index)
	if err != nil {
		logger.Error("index fetch failed", "index", index, "error", err)
		return Result{}, fmt.Errorf("%w: %s: %w", ErrIndexUnavailable, index, err)
	}
	refs, err := ParseIndex(index, data)
	if err != nil {
		logger.Error("index parse failed", "index", index, "error", err)
		return Result{}, fmt.Errorf("%w: %s: %w", ErrIndexUnavailable, index, err)
	}
	logger.Debug("got index", "index", index, "sources", len(refs))

	var (
		mu  sync.Mutex
		res = Result{Sources: len(refs)}
	)
	// Plain Group: one failing source must not cancel the others.
	var g errgroup.Group
	g.SetLimit(l.config.Concurrency)
	for _, ref := range refs {
		locator := Resolve(index, ref.Src)
		g.Go(func() error {
			questions, skipped, err := l.loadSource(ctx, locator)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("source failed", "source", locator, "error", err)
				res.Failed = append(res.Failed, SourceError{Locator: locator, Err: err})
				return nil
			}
			logger.Debug("got source", "source", locator, "questions", len(questions), "skipped", skipped)
			res.Questions = append(res.Questions, questions...)
			res.Loaded++
			res.Skipped += skipped
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("question pool ready",
		"index", index,
		"questions", len(res.Questions),
		"sources", res.Sources,
		"failed", len(res.Failed),
		"skipped", res.Skipped,
	)
	return res, nil
}

func (l *Loader) loadSource(ctx context.Context, locator string) ([]model.Question, int, error) {
	data, err := l.fetch(ctx, locator)
	if err != nil {
		return nil, 0, err
	}
	doc, err := ParseDocument(locator, data)
	if err != nil {
		return nil, 0, err
	}
	questions := make([]model.Question, 0, len(doc.Problems))
	skipped := 0
	for i, q := range doc.Problems {
		if err := q.Validate(); err != nil {
			l.config.Logger.Warn("skipping invalid question", "source", locator, "index", i, "number", q.Number, "error", err)
			skipped++
			continue
		}
		questions = append(questions, q)
	}
	return questions, skipped, nil
}

func (l *Loader) fetch(ctx context.Context, locator string) ([]byte, error) {
	if l.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Timeout)
		defer cancel()
	}
	return l.config.Fetcher.Fetch(ctx, locator)
}
