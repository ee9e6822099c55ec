package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillhq/studio-gateway/internal/format"
	"github.com/quillhq/studio-gateway/internal/manager"
	"github.com/quillhq/studio-gateway/internal/models"
	"github.com/quillhq/studio-gateway/internal/ollama"
)

const unreachableDetail = "Ollama server is not accessible. Make sure Ollama is running on your local machine."

// OllamaHandler exposes the model manager over REST.
type OllamaHandler struct {
	mgr    *manager.Manager
	client *ollama.Client
	logger *slog.Logger
}

func NewOllamaHandler(mgr *manager.Manager, client *ollama.Client, logger *slog.Logger) *OllamaHandler {
	return &OllamaHandler{mgr: mgr, client: client, logger: logger}
}

// Status handles GET /api/ollama/status. The probe runs fresh on every
// call; nothing is cached across polls.
func (h *OllamaHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mgr.Status())
}

// Models handles GET /api/ollama/models.
func (h *OllamaHandler) Models(w http.ResponseWriter, r *http.Request) {
	status, list, err := h.mgr.Refresh()
	if !status.Accessible {
		writeError(w, http.StatusServiceUnavailable, unreachableDetail)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get available models")
		return
	}
	if list == nil {
		list = []models.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Model handles GET /api/ollama/models/{name}.
func (h *OllamaHandler) Model(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if !h.client.CheckStatus() {
		writeError(w, http.StatusServiceUnavailable, unreachableDetail)
		return
	}

	info, err := h.client.ShowModel(name)
	if err != nil {
		h.logger.Error("failed to get model info", "model", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get model information")
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "model '"+name+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Pull handles POST /api/ollama/models/pull.
func (h *OllamaHandler) Pull(w http.ResponseWriter, r *http.Request) {
	var req models.PullModelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ModelName == "" {
		writeError(w, http.StatusBadRequest, "model_name is required")
		return
	}

	if !h.client.CheckStatus() {
		writeError(w, http.StatusServiceUnavailable, unreachableDetail)
		return
	}

	if err := h.mgr.Pull(req.ModelName); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to pull model: "+req.ModelName)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully pulled model: " + req.ModelName,
	})
}

// Delete handles DELETE /api/ollama/models/delete.
func (h *OllamaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteModelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ModelName == "" {
		writeError(w, http.StatusBadRequest, "model_name is required")
		return
	}

	if !h.client.CheckStatus() {
		writeError(w, http.StatusServiceUnavailable, unreachableDetail)
		return
	}

	if err := h.mgr.Delete(req.ModelName); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to delete model: "+req.ModelName)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully deleted model: " + req.ModelName,
	})
}

// snapshotView decorates the manager snapshot with presentation labels so
// the panel can render descriptor fields directly.
type snapshotView struct {
	Status   models.ServerStatus `json:"status"`
	Models   []modelView         `json:"models"`
	Pulling  string              `json:"pulling,omitempty"`
	Deleting string              `json:"deleting,omitempty"`
}

type modelView struct {
	models.ModelInfo
	SizeLabel     string `json:"size_label"`
	ModifiedLabel string `json:"modified_label"`
}

// Snapshot handles GET /api/ollama/snapshot: the manager's held state,
// including in-flight pull/delete markers.
func (h *OllamaHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.mgr.Snapshot()
	view := snapshotView{
		Status:   snap.Status,
		Models:   make([]modelView, 0, len(snap.Models)),
		Pulling:  snap.Pulling,
		Deleting: snap.Deleting,
	}
	for _, m := range snap.Models {
		view.Models = append(view.Models, modelView{
			ModelInfo:     m,
			SizeLabel:     format.Bytes(m.Size),
			ModifiedLabel: format.ModifiedAt(m.ModifiedAt),
		})
	}
	writeJSON(w, http.StatusOK, view)
}

// Health handles GET /api/ollama/health. Always 200: an unreachable daemon
// is an unhealthy report, not a failed request.
func (h *OllamaHandler) Health(w http.ResponseWriter, r *http.Request) {
	accessible := h.client.CheckStatus()
	status := "healthy"
	if !accessible {
		status = "unhealthy"
	}
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Service:    "ollama",
		Status:     status,
		Accessible: accessible,
		BaseURL:    h.client.BaseURL(),
	})
}
