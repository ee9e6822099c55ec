// Package manager implements the model manager workflow: probe the daemon,
// list models only while reachable, and run pull/delete operations with a
// single in-flight marker and a listing refresh after each mutation.
package manager

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/quillhq/studio-gateway/internal/models"
)

// ModelSource is the slice of the Ollama client the manager depends on.
type ModelSource interface {
	CheckStatus() bool
	ListModels() ([]models.ModelInfo, error)
	Pull(name string) error
	Delete(name string) error
}

// Snapshot is a copy of the manager's current state.
type Snapshot struct {
	Status   models.ServerStatus `json:"status"`
	Models   []models.ModelInfo  `json:"models"`
	Pulling  string              `json:"pulling,omitempty"`
	Deleting string              `json:"deleting,omitempty"`
}

// Manager owns the displayed model set. Each refresh takes a monotonically
// increasing token; a response carrying a stale token is discarded, so
// overlapping refreshes cannot interleave into an inconsistent snapshot.
type Manager struct {
	source       ModelSource
	baseURL      string
	onModelAdded func(id string)
	logger       *slog.Logger

	mu       sync.Mutex
	status   models.ServerStatus
	models   []models.ModelInfo
	pulling  string
	deleting string
	token    uint64
}

func New(source ModelSource, baseURL string, onModelAdded func(id string), logger *slog.Logger) *Manager {
	return &Manager{
		source:       source,
		baseURL:      baseURL,
		onModelAdded: onModelAdded,
		logger:       logger,
		status: models.ServerStatus{
			Status:     models.StatusUnavailable,
			Accessible: false,
			BaseURL:    baseURL,
		},
	}
}

// Open runs the open transition: a status fetch followed, only if the
// daemon is reachable, by a listing fetch.
func (m *Manager) Open() (models.ServerStatus, []models.ModelInfo, error) {
	return m.Refresh()
}

// Refresh probes the daemon and replaces the model set wholesale. When the
// daemon is unreachable the listing endpoint is not invoked and the
// displayed set is cleared. A listing failure likewise clears the set; the
// error is returned for callers that need to distinguish it.
func (m *Manager) Refresh() (models.ServerStatus, []models.ModelInfo, error) {
	tok := m.nextToken()

	status := m.probe()
	if !status.Accessible {
		m.commit(tok, status, nil)
		return status, nil, nil
	}

	list, err := m.source.ListModels()
	if err != nil {
		m.logger.Error("failed to list models", "error", err)
		m.commit(tok, status, nil)
		return status, nil, err
	}

	m.commit(tok, status, list)
	return status, list, nil
}

// Status probes the daemon without touching the model set.
func (m *Manager) Status() models.ServerStatus {
	status := m.probe()
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return status
}

// Pull downloads a model and, on success, re-runs the listing fetch and
// notifies the model-added callback with the namespaced identifier. The
// in-flight marker is cleared in all cases, including a listing failure
// after a successful pull.
func (m *Manager) Pull(name string) error {
	if name == "" {
		return errors.New("model name is required")
	}

	m.mu.Lock()
	m.pulling = name
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.pulling = ""
		m.mu.Unlock()
	}()

	if err := m.source.Pull(name); err != nil {
		m.logger.Error("failed to pull model", "model", name, "error", err)
		return err
	}

	m.refreshListing()
	if m.onModelAdded != nil {
		m.onModelAdded("ollama/" + name)
	}
	return nil
}

// Delete removes a model and re-runs the listing fetch on success. The
// marker handling mirrors Pull.
func (m *Manager) Delete(name string) error {
	if name == "" {
		return errors.New("model name is required")
	}

	m.mu.Lock()
	m.deleting = name
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.deleting = ""
		m.mu.Unlock()
	}()

	if err := m.source.Delete(name); err != nil {
		m.logger.Error("failed to delete model", "model", name, "error", err)
		return err
	}

	m.refreshListing()
	return nil
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]models.ModelInfo, len(m.models))
	copy(list, m.models)

	return Snapshot{
		Status:   m.status,
		Models:   list,
		Pulling:  m.pulling,
		Deleting: m.deleting,
	}
}

func (m *Manager) probe() models.ServerStatus {
	accessible := m.source.CheckStatus()
	status := models.StatusRunning
	if !accessible {
		status = models.StatusUnavailable
	}
	return models.ServerStatus{
		Status:     status,
		Accessible: accessible,
		BaseURL:    m.baseURL,
	}
}

// refreshListing re-fetches the model set after a mutation. Failure clears
// the displayed set and logs; it is never propagated.
func (m *Manager) refreshListing() {
	tok := m.nextToken()
	list, err := m.source.ListModels()
	if err != nil {
		m.logger.Error("failed to refresh models after mutation", "error", err)
		list = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if tok != m.token {
		return
	}
	m.models = list
}

func (m *Manager) nextToken() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token++
	return m.token
}

// commit installs a refresh result unless a newer refresh has started.
func (m *Manager) commit(tok uint64, status models.ServerStatus, list []models.ModelInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tok != m.token {
		return
	}
	m.status = status
	m.models = list
}
