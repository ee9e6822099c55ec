package api

import (
	"net/http"

	"github.com/quillhq/studio-gateway/internal/maintenance"
)

// MaintenanceHandler exposes the maintenance window resolver.
type MaintenanceHandler struct {
	resolver *maintenance.Resolver
}

func NewMaintenanceHandler(resolver *maintenance.Resolver) *MaintenanceHandler {
	return &MaintenanceHandler{resolver: resolver}
}

// Window handles GET /api/maintenance. Always 200: every failure inside
// the resolver collapses to the disabled variant.
func (h *MaintenanceHandler) Window(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Resolve())
}
