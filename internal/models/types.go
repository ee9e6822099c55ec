package models

import "time"

// ModelInfo describes a single model hosted on the local Ollama daemon.
// Snapshots are immutable: each listing replaces the previous set wholesale.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Size        int64  `json:"size"`
	ModifiedAt  string `json:"modified_at"`
	Digest      string `json:"digest"`
}

// ServerStatus reports the outcome of a single reachability probe against
// the model daemon. It is recomputed on every poll, never cached.
type ServerStatus struct {
	Status     string `json:"status"`
	Accessible bool   `json:"accessible"`
	BaseURL    string `json:"base_url"`
}

const (
	StatusRunning     = "running"
	StatusUnavailable = "unavailable"
)

// PullModelRequest is the payload for POST /api/ollama/models/pull.
type PullModelRequest struct {
	ModelName string `json:"model_name"`
}

// DeleteModelRequest is the payload for DELETE /api/ollama/models/delete.
type DeleteModelRequest struct {
	ModelName string `json:"model_name"`
}

// MaintenanceWindow is a two-variant tagged value: either disabled, or
// enabled with two well-formed timestamps. A window with Enabled true and
// a missing or invalid timestamp must never be constructed; the resolver
// falls back to the disabled variant instead.
type MaintenanceWindow struct {
	Enabled   bool       `json:"enabled"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Session mirrors the external auth service's session. It is created,
// refreshed and destroyed entirely by that service; this layer only holds
// the latest value it was told about.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
	AccessToken string    `json:"-"`
}

// User is the identity attached to a session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is returned from GET /api/session.
type SessionState struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
	Loading bool     `json:"loading"`
}

// HealthResponse is returned from GET /api/ollama/health.
type HealthResponse struct {
	Service    string `json:"service"`
	Status     string `json:"status"`
	Accessible bool   `json:"accessible"`
	BaseURL    string `json:"base_url"`
	Error      string `json:"error,omitempty"`
}
