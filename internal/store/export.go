package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/mocktest/internal/model"
)

// ExportHistory builds the export document from the answer history and the current stats.
func (s *Store) ExportHistory(stats model.Stats) (model.HistoryExport, error) {
	answers, err := s.ListAnswers()
	if err != nil {
		return model.HistoryExport{}, fmt.Errorf("list answers: %w", err)
	}
	sessions, err := s.SessionCount()
	if err != nil {
		return model.HistoryExport{}, fmt.Errorf("count sessions: %w", err)
	}
	bySource, err := s.SourceResults()
	if err != nil {
		return model.HistoryExport{}, fmt.Errorf("aggregate sources: %w", err)
	}
	if answers == nil {
		answers = []model.AnswerRecord{}
	}
	if bySource == nil {
		bySource = []model.SourceResult{}
	}
	return model.HistoryExport{
		ExportedAt: time.Now().UTC(),
		Stats:      stats.View(),
		Sessions:   sessions,
		Answers:    answers,
		BySource:   bySource,
	}, nil
}
