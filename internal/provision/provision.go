// Package provision sets up default resources for newly observed users.
package provision

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/studio-gateway/internal/store"
)

// DefaultAgentName is the display name given to every user's default agent.
const DefaultAgentName = "Assistant"

// Service creates default agent records. Callers treat it as
// fire-and-forget: failures here are this service's responsibility to
// report, not the caller's to recover.
type Service struct {
	db     *store.DB
	logger *slog.Logger
}

func NewService(db *store.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// EnsureDefaultAgent creates the user's default agent if it does not exist.
// Idempotent: the record is keyed by user id plus account-creation
// timestamp, so repeated calls for the same user are no-ops.
func (s *Service) EnsureDefaultAgent(userID string, accountCreatedAt time.Time) error {
	if userID == "" {
		return fmt.Errorf("ensure default agent: user id is empty")
	}

	agentID := uuid.New().String()
	res, err := s.db.Exec(`
		INSERT INTO provisioned_agents (user_id, account_created_at, agent_id, agent_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, account_created_at) DO NOTHING
	`, userID, accountCreatedAt.UTC().Unix(), agentID, DefaultAgentName, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert default agent: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Info("provisioned default agent", "user_id", userID, "agent_id", agentID)
	}
	return nil
}

// AgentID returns the default agent id for a user, or empty when the user
// has not been provisioned.
func (s *Service) AgentID(userID string, accountCreatedAt time.Time) (string, error) {
	var agentID string
	err := s.db.QueryRow(`
		SELECT agent_id FROM provisioned_agents
		WHERE user_id = ? AND account_created_at = ?
	`, userID, accountCreatedAt.UTC().Unix()).Scan(&agentID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get default agent: %w", err)
	}
	return agentID, nil
}
