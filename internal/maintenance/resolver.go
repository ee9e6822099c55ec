// Package maintenance derives the maintenance window from remote
// configuration. Disabled is always the safe default: the resolver never
// propagates a failure to its caller.
package maintenance

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/quillhq/studio-gateway/internal/models"
)

const (
	keyEnabled   = "maintenanceEnabled"
	keyStartTime = "maintenanceStartTime"
	keyEndTime   = "maintenanceEndTime"
)

// ConfigSource is the batched key lookup exposed by the remote config store.
type ConfigSource interface {
	Items(keys ...string) (map[string]any, error)
}

// Resolver evaluates the maintenance window fresh on each call; nothing is
// cached or persisted between evaluations.
type Resolver struct {
	source ConfigSource
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil source means the config store is
// not configured and every evaluation short-circuits to disabled.
func NewResolver(source ConfigSource, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

var disabled = models.MaintenanceWindow{Enabled: false}

// Resolve returns the current maintenance window. Missing configuration,
// a falsy enabled flag, unparseable timestamps, and transport failures all
// collapse to the disabled variant; the distinction survives only in logs.
func (r *Resolver) Resolve() models.MaintenanceWindow {
	window, err := r.resolve()
	if err != nil {
		r.logger.Warn("maintenance window resolution failed, defaulting to disabled", "error", err)
		return disabled
	}
	return window
}

// timestampError carries both raw values for diagnostics when either
// timestamp fails to parse.
type timestampError struct {
	start, end string
}

func (e *timestampError) Error() string {
	return fmt.Sprintf("invalid maintenance timestamps: start=%q end=%q", e.start, e.end)
}

func (r *Resolver) resolve() (models.MaintenanceWindow, error) {
	if r.source == nil {
		return disabled, nil
	}

	items, err := r.source.Items(keyEnabled, keyStartTime, keyEndTime)
	if err != nil {
		return disabled, fmt.Errorf("fetch maintenance keys: %w", err)
	}

	if !truthy(items[keyEnabled]) {
		return disabled, nil
	}

	rawStart := stringValue(items[keyStartTime])
	rawEnd := stringValue(items[keyEndTime])

	start, startErr := time.Parse(time.RFC3339, rawStart)
	end, endErr := time.Parse(time.RFC3339, rawEnd)
	if startErr != nil || endErr != nil {
		return disabled, &timestampError{start: rawStart, end: rawEnd}
	}

	return models.MaintenanceWindow{
		Enabled:   true,
		StartTime: &start,
		EndTime:   &end,
	}, nil
}

// truthy interprets the enabled flag, which the config store may hold as a
// bool, a string, or a number.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		return err == nil && b
	case float64:
		return val != 0
	default:
		return false
	}
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
