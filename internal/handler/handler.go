package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/mocktest/internal/handler/views"
	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/quiz"
	"github.com/pavelanni/mocktest/internal/stats"
)

// Config holds the front-end settings.
type Config struct {
	// PasswordHash is a bcrypt hash; empty disables basic auth.
	PasswordHash  []byte
	SecureCookies bool
}

// Status records the load outcome reported by the session so the page can
// explain an empty screen. It implements quiz.Observer.
type Status struct {
	quiz.NopObserver

	mu    sync.Mutex
	err   error
	empty bool
}

// OnPoolReady clears earlier failures.
func (s *Status) OnPoolReady(int) {
	s.set(nil, false)
}

// OnPoolEmpty records that no question could be loaded.
func (s *Status) OnPoolEmpty() {
	s.set(nil, true)
}

// OnStartFailed records the index failure.
func (s *Status) OnStartFailed(err error) {
	s.set(err, false)
}

func (s *Status) set(err error, empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err, s.empty = err, empty
}

func (s *Status) get() (empty bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.empty, s.err
}

// Handler serves one quiz session over HTTP.
type Handler struct {
	session *quiz.Session
	status  *Status
	config  Config
}

// New creates a new Handler. status must be registered as an observer of session.
func New(session *quiz.Session, status *Status, cfg Config) *Handler {
	return &Handler{session: session, status: status, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		if len(h.config.PasswordHash) > 0 {
			r.Use(basicAuth(h.config.PasswordHash))
		}

		r.Group(func(r chi.Router) {
			r.Use(h.csrfMiddleware)
			r.Get("/", h.handleIndex)
			r.Post("/answer", h.handleAnswer)
			r.Post("/next", h.handleNext)
			r.Post("/stats/reset", h.handleResetStats)
			r.Post("/reload", h.handleReload)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(requireSameOriginJSON)
			r.Get("/session", h.handleAPISession)
			r.Post("/answer", h.handleAPIAnswer)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"pool_size": h.session.PoolSize(),
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.mirrorStats(w)
	empty, failure := h.status.get()
	data := views.PageData{
		Snapshot:  h.session.Snapshot(),
		Empty:     empty,
		CSRFToken: csrfTokenFromContext(r.Context()),
		Lang:      r.URL.Query().Get("lang"),
	}
	if failure != nil {
		data.Failure = failure.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.QuizPage(data).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	// Once answered, any click advances, so the label is only parsed for grading.
	_, err := h.session.SubmitInput(r.FormValue("choice"))
	if err != nil && !errors.Is(err, quiz.ErrNoQuestion) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.mirrorStats(w)
	redirectHome(w, r)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.session.Advance()
	redirectHome(w, r)
}

func (h *Handler) handleResetStats(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ResetStats(); err != nil {
		slog.Error("reset stats failed", "error", err)
		http.Error(w, "reset stats failed", http.StatusInternalServerError)
		return
	}
	h.mirrorStats(w)
	redirectHome(w, r)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	// The load outlives the request; the loader's fetch timeout bounds it.
	if err := h.session.Start(context.WithoutCancel(r.Context())); err != nil {
		slog.Warn("reload failed", "error", err)
	}
	redirectHome(w, r)
}

// redirectHome sends the browser back to the page, keeping the chosen language.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, views.LangPath("/", r.URL.Query().Get("lang")), http.StatusSeeOther)
}

func (h *Handler) handleAPISession(w http.ResponseWriter, r *http.Request) {
	h.mirrorStats(w)
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

type answerRequest struct {
	Choice string `json:"choice"`
}

type answerResponse struct {
	Advanced   bool              `json:"advanced"`
	Evaluation *model.Evaluation `json:"evaluation,omitempty"`
	Session    quiz.Snapshot     `json:"session"`
}

func (h *Handler) handleAPIAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	out, err := h.session.Submit(model.Choice(req.Choice))
	switch {
	case errors.Is(err, quiz.ErrNoQuestion):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, model.ErrInvalidChoice):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := answerResponse{Advanced: out.Advanced, Session: h.session.Snapshot()}
	if !out.Advanced {
		resp.Evaluation = &out.Evaluation
	}
	h.mirrorStats(w)
	writeJSON(w, http.StatusOK, resp)
}

// mirrorStats copies the tracked stats into the quiz_stats cookie.
func (h *Handler) mirrorStats(w http.ResponseWriter) {
	view, ok := h.session.Stats()
	if !ok {
		return
	}
	raw, err := stats.Encode(model.Stats{Correct: view.Correct, Total: view.Total})
	if err != nil {
		slog.Error("encode stats cookie", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stats.Key,
		Value:    raw,
		Path:     stats.Path,
		MaxAge:   int(stats.TTL / time.Second),
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
