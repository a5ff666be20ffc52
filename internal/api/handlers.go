package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	applog "github.com/ismailisimba/scraper/internal/log"
	"github.com/ismailisimba/scraper/internal/orchestrator"
	"github.com/ismailisimba/scraper/pkg/models"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	orch *orchestrator.Orchestrator
}

func NewHandler(orch *orchestrator.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

type taskRequestBody struct {
	URL           string               `json:"url"`
	ActionConfig  *models.ActionConfig `json:"actionConfig,omitempty"`
	MonitorID     string               `json:"monitorId,omitempty"`
	UserID        string               `json:"userId,omitempty"`
	CorrelationID string               `json:"correlationId,omitempty"`
}

// RunTask handles POST /api/v1/task/{taskName}
func (h *Handler) RunTask(w http.ResponseWriter, r *http.Request) {
	taskName := mux.Vars(r)["taskName"]

	var body taskRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.Failure("Invalid request body: "+err.Error()))
		return
	}

	req := models.TaskRequest{
		Kind:          models.TaskKind(taskName),
		URL:           body.URL,
		ActionConfig:  body.ActionConfig,
		MonitorID:     body.MonitorID,
		UserID:        body.UserID,
		CorrelationID: body.CorrelationID,
	}
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.New().String()
	}

	logger := slog.Default().With(slog.String("correlationId", req.CorrelationID))
	ctx := applog.ContextWithLogger(r.Context(), logger)

	result, err := h.orch.Execute(ctx, req)

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, orchestrator.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrUnknownTask):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, result)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", slog.String("err", err.Error()))
	}
}
