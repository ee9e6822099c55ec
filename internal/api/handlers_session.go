package api

import (
	"log/slog"
	"net/http"

	"github.com/quillhq/studio-gateway/internal/session"
)

// SessionHandler exposes the session manager's held state.
type SessionHandler struct {
	mgr    *session.Manager
	logger *slog.Logger
}

func NewSessionHandler(mgr *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{mgr: mgr, logger: logger}
}

// Current handles GET /api/session.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.mgr.Current())
}

// SignOut handles POST /api/session/signout. The state change arrives via
// the auth change stream, so the response is an acknowledgment, not the
// new state.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.SignOut(); err != nil {
		h.logger.Error("sign out failed", "error", err)
		writeError(w, http.StatusBadGateway, "sign out failed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "sign out requested"})
}
