package quiz

import "github.com/pavelanni/mocktest/internal/model"

// Observer is the rendering collaborator. Session calls it after every state
// change, outside its lock, so implementations may call back into the Session.
type Observer interface {
	OnPoolReady(size int)
	OnPoolEmpty()
	OnStartFailed(err error)
	OnQuestionChanged(q model.Question)
	OnAnswerEvaluated(q model.Question, e model.Evaluation)
	OnStatsChanged(st model.StatsView)
}

// NopObserver ignores every event. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) OnPoolReady(int) {}
func (NopObserver) OnPoolEmpty() {}
func (NopObserver) OnStartFailed(error) {}
func (NopObserver) OnQuestionChanged(model.Question) {}
func (NopObserver) OnAnswerEvaluated(model.Question, model.Evaluation) {}
func (NopObserver) OnStatsChanged(model.StatsView) {}

// Observers fans events out in order.
type Observers []Observer

func (o Observers) OnPoolReady(size int) {
	for _, obs := range o {
		obs.OnPoolReady(size)
	}
}

func (o Observers) OnPoolEmpty() {
	for _, obs := range o {
		obs.OnPoolEmpty()
	}
}

func (o Observers) OnStartFailed(err error) {
	for _, obs := range o {
		obs.OnStartFailed(err)
	}
}

func (o Observers) OnQuestionChanged(q model.Question) {
	for _, obs := range o {
		obs.OnQuestionChanged(q)
	}
}

func (o Observers) OnAnswerEvaluated(q model.Question, e model.Evaluation) {
	for _, obs := range o {
		obs.OnAnswerEvaluated(q, e)
	}
}

func (o Observers) OnStatsChanged(st model.StatsView) {
	for _, obs := range o {
		obs.OnStatsChanged(st)
	}
}
