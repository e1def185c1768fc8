package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pavelanni/mocktest/internal/model"

	_ "modernc.org/sqlite"
)

// Store is the local SQLite state file: the key-value records (stats) and the answer history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '/',
		expires_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		number INTEGER NOT NULL,
		chosen TEXT NOT NULL,
		correct TEXT NOT NULL,
		is_correct INTEGER NOT NULL,
		answered_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_answers_source ON answers(source);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value stored under key. Expired entries are removed and reported as absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRow(`SELECT value, expires_at FROM kv WHERE key = ?`, key).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if expiresAt > 0 && s.now().Unix() >= expiresAt {
		_ = s.Delete(key)
		return "", false, nil
	}
	return value, true, nil
}

// Set upserts key with root path scope. A non-positive ttl never expires.
func (s *Store) Set(key, value string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).Unix()
	}
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, path, expires_at) VALUES (?, ?, '/', ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?, expires_at = ?`,
		key, value, expiresAt, value, expiresAt,
	)
	return err
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// CleanupExpired removes all expired entries.
func (s *Store) CleanupExpired() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE expires_at > 0 AND expires_at <= ?`, s.now().Unix())
	return err
}

// RecordAnswer appends an answered question to the history.
func (s *Store) RecordAnswer(a model.AnswerRecord) (int64, error) {
	at := a.AnsweredAt
	if at.IsZero() {
		at = s.now()
	}
	res, err := s.db.Exec(
		`INSERT INTO answers (session_id, source, number, chosen, correct, is_correct, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.Source, a.Number, a.Chosen, a.Correct, a.IsCorrect, at.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAnswers returns the history in insertion order.
func (s *Store) ListAnswers() ([]model.AnswerRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, source, number, chosen, correct, is_correct, answered_at FROM answers ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var answers []model.AnswerRecord
	for rows.Next() {
		var a model.AnswerRecord
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Source, &a.Number, &a.Chosen, &a.Correct, &a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// AnswerCount returns the number of history rows.
func (s *Store) AnswerCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM answers`).Scan(&count)
	return count, err
}

// SessionCount returns the number of distinct sessions in the history.
func (s *Store) SessionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT session_id) FROM answers`).Scan(&count)
	return count, err
}

// SourceResults aggregates the history per question source.
func (s *Store) SourceResults() ([]model.SourceResult, error) {
	rows, err := s.db.Query(
		`SELECT source, SUM(is_correct), COUNT(*) FROM answers GROUP BY source ORDER BY source`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.SourceResult
	for rows.Next() {
		var r model.SourceResult
		if err := rows.Scan(&r.Source, &r.Correct, &r.Total); err != nil {
			return nil, err
		}
		r.Accuracy = model.Stats{Correct: r.Correct, Total: r.Total}.AccuracyPercent()
		results = append(results, r)
	}
	return results, rows.Err()
}
