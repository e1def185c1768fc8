package model

import "time"

// AnswerRecord is one answered question kept in the local history.
type AnswerRecord struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Source     string    `json:"source"`
	Number     int       `json:"number"`
	Chosen     Choice    `json:"chosen"`
	Correct    Choice    `json:"correct"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// HistoryExport is the top-level JSON structure for the answer history export.
type HistoryExport struct {
	ExportedAt time.Time      `json:"exported_at"`
	Stats      StatsView      `json:"stats"`
	Sessions   int            `json:"sessions"`
	Answers    []AnswerRecord `json:"answers"`
	BySource   []SourceResult `json:"by_source"`
}

// SourceResult aggregates history per question source.
type SourceResult struct {
	Source   string  `json:"source"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy_percent"`
}
