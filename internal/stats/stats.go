// Package stats keeps cumulative answer counts and persists them as a
// URL-encoded JSON record in a key-value store.
package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/pavelanni/mocktest/internal/model"
)

const (
	// Key is the store key holding the stats record.
	Key = "quiz_stats"
	// Path is the scope written alongside the record.
	Path = "/"
	// TTL is how long a written record stays valid.
	TTL = 365 * 24 * time.Hour
)

// Store is a cookie-like key-value persistence capability.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent or expired.
	Get(key string) (value string, ok bool, err error)
	// Set writes value under key with the given time-to-live.
	Set(key, value string, ttl time.Duration) error
}

// Tracker holds the running counts of one session.
type Tracker struct {
	store  Store
	stats  model.Stats
	logger *slog.Logger
}

// Load restores the persisted record. Missing or unreadable data yields zero counts.
func Load(store Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{store: store, logger: logger}
	raw, ok, err := store.Get(Key)
	switch {
	case err != nil:
		logger.Warn("read stats failed, starting from zero", "error", err)
	case !ok:
		logger.Debug("no stats record, starting from zero")
	default:
		st, err := Decode(raw)
		if err != nil {
			logger.Debug("discarding malformed stats record", "error", err)
			break
		}
		t.stats = st
	}
	return t
}

// Stats returns the current counts.
func (t *Tracker) Stats() model.Stats {
	return t.stats
}

// AccuracyPercent returns the accuracy rounded to one decimal.
func (t *Tracker) AccuracyPercent() float64 {
	return t.stats.AccuracyPercent()
}

// Record counts one answered question and persists the updated record.
func (t *Tracker) Record(wasCorrect bool) error {
	t.stats.Total++
	if wasCorrect {
		t.stats.Correct++
	}
	return t.persist()
}

// Reset zeroes the counts and persists them.
func (t *Tracker) Reset() error {
	t.stats = model.Stats{}
	return t.persist()
}

func (t *Tracker) persist() error {
	value, err := Encode(t.stats)
	if err != nil {
		return err
	}
	if err := t.store.Set(Key, value, TTL); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}
	return nil
}

// record mirrors the persisted JSON; pointers keep both fields optional.
type record struct {
	Correct *int `json:"correct"`
	Total   *int `json:"total"`
}

// Encode renders stats as URL-encoded JSON.
func Encode(st model.Stats) (string, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	return url.QueryEscape(string(data)), nil
}

// Decode parses a URL-encoded JSON record. Absent fields count as zero.
func Decode(raw string) (model.Stats, error) {
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return model.Stats{}, fmt.Errorf("unescape stats: %w", err)
	}
	var r record
	if err := json.Unmarshal([]byte(unescaped), &r); err != nil {
		return model.Stats{}, fmt.Errorf("parse stats: %w", err)
	}
	var st model.Stats
	if r.Correct != nil {
		st.Correct = *r.Correct
	}
	if r.Total != nil {
		st.Total = *r.Total
	}
	if !st.Valid() {
		return model.Stats{}, fmt.Errorf("inconsistent stats %d/%d", st.Correct, st.Total)
	}
	return st, nil
}
