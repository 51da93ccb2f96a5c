// Package handler maps HTTP requests onto pipeline runs and terminal
// pipeline states back onto HTTP responses.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pathwise-edu/pathwise/internal/domain"
	"github.com/pathwise-edu/pathwise/internal/pipeline"
	"github.com/pathwise-edu/pathwise/internal/server"
	"github.com/pathwise-edu/pathwise/internal/storage"
)

// RoadmapHandler serves roadmap generation and retrieval.
type RoadmapHandler struct {
	runner *pipeline.Runner
	store  storage.ResultStore
	logger *slog.Logger
}

// NewRoadmapHandler creates the handler. A nil store disables retrieval.
func NewRoadmapHandler(runner *pipeline.Runner, store storage.ResultStore, logger *slog.Logger) *RoadmapHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoadmapHandler{runner: runner, store: store, logger: logger}
}

// Register mounts the handler's routes.
func (h *RoadmapHandler) Register(r chi.Router) {
	r.Post("/v1/roadmaps", h.HandleGenerate)
	r.Get("/v1/roadmaps/{userID}/{sessionID}", h.HandleGet)
}

// generateResponse is the success payload.
type generateResponse struct {
	SessionID  string          `json:"session_id"`
	Roadmap    *domain.Roadmap `json:"roadmap"`
	StageTrail []string        `json:"stage_trail"`
	Persisted  bool            `json:"persisted"`
}

// errorResponse is the failure payload. Roadmap carries the fallback plan as
// a best-effort body when one exists.
type errorResponse struct {
	Error   string          `json:"error"`
	Roadmap *domain.Roadmap `json:"roadmap,omitempty"`
}

// HandleGenerate runs one pipeline for the submitted assessment.
//
// Mapping: a terminal error yields 502 with the message and any fallback
// plan; a completed run whose roadmap is a fallback also yields 502 (the
// plan is explicitly marked so the client can decide to surface it); a
// completed run with a real roadmap yields 200.
func (h *RoadmapHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input domain.AssessmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	st := domain.NewPipelineState(input)
	if _, err := h.runner.Run(r.Context(), st); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	server.AddLogField(r.Context(), "session_id", st.SessionID)

	if st.Err != "" {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: st.Err, Roadmap: st.Roadmap})
		return
	}
	if st.Roadmap != nil && st.Roadmap.Fallback {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: st.Roadmap.FallbackReason, Roadmap: st.Roadmap})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		SessionID:  st.SessionID,
		Roadmap:    st.Roadmap,
		StageTrail: st.StageTrail,
		Persisted:  st.Persisted,
	})
}

// HandleGet returns a persisted assessment result.
func (h *RoadmapHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "persistence disabled"})
		return
	}

	userID := chi.URLParam(r, "userID")
	sessionID := chi.URLParam(r, "sessionID")

	rec, err := h.store.GetResult(r.Context(), userID, sessionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleHealth is a liveness probe.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
