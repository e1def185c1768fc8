package quiz

import (
	"log/slog"
	"time"

	"github.com/pavelanni/mocktest/internal/model"
)

// AnswerRecorder persists answered questions.
type AnswerRecorder interface {
	RecordAnswer(a model.AnswerRecord) (int64, error)
}

// HistoryObserver writes every evaluated answer to an AnswerRecorder.
type HistoryObserver struct {
	NopObserver
	sessionID string
	recorder  AnswerRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewHistoryObserver creates a HistoryObserver tagging rows with sessionID.
func NewHistoryObserver(sessionID string, recorder AnswerRecorder, logger *slog.Logger) *HistoryObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryObserver{sessionID: sessionID, recorder: recorder, logger: logger, now: time.Now}
}

// OnAnswerEvaluated implements Observer.
func (h *HistoryObserver) OnAnswerEvaluated(q model.Question, e model.Evaluation) {
	_, err := h.recorder.RecordAnswer(model.AnswerRecord{
		SessionID:  h.sessionID,
		Source:     q.Source,
		Number:     q.Number,
		Chosen:     e.Chosen,
		Correct:    e.Correct,
		IsCorrect:  e.IsCorrect,
		AnsweredAt: h.now(),
	})
	if err != nil {
		h.logger.Warn("record answer failed", "source", q.Source, "number", q.Number, "error", err)
	}
}
