// Package session holds the gateway's view of the authenticated user. A
// single Manager owns the subscription to the auth service's change
// stream and applies the latest event's payload to its held state.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quillhq/studio-gateway/internal/auth"
	"github.com/quillhq/studio-gateway/internal/models"
)

// Provisioner performs idempotent setup of a default resource for a newly
// observed user.
type Provisioner interface {
	EnsureDefaultAgent(userID string, accountCreatedAt time.Time) error
}

// Manager mirrors the external auth service's session. It performs one
// initial fetch, then consumes change events until closed. Failures never
// surface as error state: the manager logs and holds an empty session.
type Manager struct {
	client      auth.Client
	provisioner Provisioner
	logger      *slog.Logger

	mu      sync.RWMutex
	session *models.Session
	user    *models.User
	loading bool

	// provisioned guards against double-provisioning when duplicate
	// signed-in events arrive for the same user.
	provisioned map[string]struct{}

	unsubscribe func()
	consumed    chan struct{}
}

func NewManager(client auth.Client, provisioner Provisioner, logger *slog.Logger) *Manager {
	return &Manager{
		client:      client,
		provisioner: provisioner,
		logger:      logger,
		loading:     true,
		provisioned: make(map[string]struct{}),
		consumed:    make(chan struct{}),
	}
}

// Start fetches the current session once and subscribes to change events.
// The loading flag is cleared after the initial fetch whether or not it
// succeeded; a failed fetch is logged, not surfaced.
func (m *Manager) Start() {
	sess, err := m.client.Session()
	if err != nil {
		m.logger.Error("failed to load initial session", "error", err)
	} else {
		m.setSession(sess)
	}

	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()

	events, cancel := m.client.Subscribe()
	m.unsubscribe = cancel

	go func() {
		defer close(m.consumed)
		for ev := range events {
			m.apply(ev)
		}
	}()
}

// Close tears down the change subscription and waits for the consumer to
// drain. There is no resubscription: a dropped stream stays dropped.
func (m *Manager) Close() {
	if m.unsubscribe == nil {
		return
	}
	m.unsubscribe()
	<-m.consumed
}

// Current returns the held session/user pair and the initial-load flag.
func (m *Manager) Current() models.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.SessionState{
		Session: m.session,
		User:    m.user,
		Loading: m.loading,
	}
}

// SignOut delegates to the auth service. The resulting state change
// arrives through the event channel rather than being applied here.
func (m *Manager) SignOut() error {
	return m.client.SignOut()
}

func (m *Manager) apply(ev auth.Event) {
	switch ev.Type {
	case auth.EventSignedOut:
		m.setSession(nil)

	case auth.EventSignedIn:
		m.setSession(ev.Session)
		if ev.Session != nil {
			m.provisionOnce(ev.Session.UserID, ev.Session.CreatedAt)
		}

	case auth.EventTokenRefreshed:
		m.setSession(ev.Session)

	default:
		m.logger.Warn("ignoring unknown auth event", "type", ev.Type)
	}
}

// provisionOnce fires the default-agent setup for a user the first time a
// signed-in event names them. Fire-and-forget: failures belong to the
// provisioner and are only logged here.
func (m *Manager) provisionOnce(userID string, accountCreatedAt time.Time) {
	key := userID + "|" + accountCreatedAt.UTC().Format(time.RFC3339)

	m.mu.Lock()
	if _, seen := m.provisioned[key]; seen {
		m.mu.Unlock()
		return
	}
	m.provisioned[key] = struct{}{}
	m.mu.Unlock()

	if err := m.provisioner.EnsureDefaultAgent(userID, accountCreatedAt); err != nil {
		m.logger.Warn("default agent provisioning failed", "user_id", userID, "error", err)
	}
}

func (m *Manager) setSession(sess *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sess
	if sess == nil {
		m.user = nil
		return
	}
	m.user = &models.User{
		ID:        sess.UserID,
		Email:     sess.Email,
		CreatedAt: sess.CreatedAt,
	}
}
