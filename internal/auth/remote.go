package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/quillhq/studio-gateway/internal/models"
)

// RemoteClient implements Client against the auth service's REST API.
// Change notifications are produced by polling the session endpoint and
// diffing consecutive snapshots.
type RemoteClient struct {
	baseURL      string
	serviceToken string
	pollInterval time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewRemoteClient(baseURL, serviceToken string, pollInterval time.Duration, logger *slog.Logger) *RemoteClient {
	return &RemoteClient{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

// sessionPayload is the auth service's wire format. The access token is
// decoded here but never re-serialized: models.Session hides it from JSON.
type sessionPayload struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccessToken string    `json:"access_token"`
}

// Session fetches the current session. 401 and 404 mean nobody is signed
// in and are not errors.
func (c *RemoteClient) Session() (*models.Session, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/session", nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read session response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("fetch session: status %d: %s", resp.StatusCode, string(body))
	}

	var payload sessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if payload.UserID == "" {
		return nil, nil
	}
	return &models.Session{
		UserID:      payload.UserID,
		Email:       payload.Email,
		CreatedAt:   payload.CreatedAt,
		ExpiresAt:   payload.ExpiresAt,
		AccessToken: payload.AccessToken,
	}, nil
}

// SignOut asks the auth service to destroy the current session.
func (c *RemoteClient) SignOut() error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/signout", nil)
	if err != nil {
		return fmt.Errorf("build signout request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sign out: status %d", resp.StatusCode)
	}
	return nil
}

// Subscribe starts a watcher goroutine that polls the session endpoint and
// emits an event for each observed change. Poll failures are logged and
// skipped; they do not produce events.
func (c *RemoteClient) Subscribe() (<-chan Event, func()) {
	events := make(chan Event, 8)
	stop := make(chan struct{})

	go func() {
		defer close(events)

		var prev *models.Session
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			next, err := c.Session()
			if err != nil {
				c.logger.Warn("session poll failed", "error", err)
				continue
			}

			if evType, changed := classify(prev, next); changed {
				select {
				case events <- Event{Type: evType, Session: next}:
				case <-stop:
					return
				}
			}
			prev = next
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() { close(stop) })
	}
	return events, cancel
}

// classify diffs two consecutive session snapshots into a change event.
// The second return is false when nothing changed.
func classify(prev, next *models.Session) (EventType, bool) {
	switch {
	case prev == nil && next == nil:
		return "", false
	case prev == nil:
		return EventSignedIn, true
	case next == nil:
		return EventSignedOut, true
	case prev.UserID != next.UserID:
		return EventSignedIn, true
	case prev.AccessToken != next.AccessToken:
		return EventTokenRefreshed, true
	default:
		return "", false
	}
}

func (c *RemoteClient) authorize(req *http.Request) {
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}
}
