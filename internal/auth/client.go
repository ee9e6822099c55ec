// Package auth defines the contract with the external auth service and an
// HTTP client for it. The service owns the session lifecycle entirely;
// this layer only fetches the current session, requests sign-out, and
// watches for changes.
package auth

import (
	"github.com/quillhq/studio-gateway/internal/models"
)

// EventType classifies a session-change notification.
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event is one session-change notification. Session is nil for signed_out.
type Event struct {
	Type    EventType
	Session *models.Session
}

// Client is the external auth service as this gateway consumes it.
type Client interface {
	// Session fetches the current session. A nil session with nil error
	// means no one is signed in.
	Session() (*models.Session, error)

	// SignOut requests sign-out. The resulting state change arrives via
	// the subscription channel, not synchronously.
	SignOut() error

	// Subscribe returns a channel of session-change events and a cancel
	// function. Cancelling closes the channel; a dropped subscription is
	// not automatically restored.
	Subscribe() (<-chan Event, func())
}
