// ABOUTME: Triggers decide when a refresh runs; the refresh use case decides how
// ABOUTME: The manager starts and stops every configured trigger together
package trigger

import (
	"context"
	"fmt"
	"log/slog"
)

// FireFunc starts a refresh. It may block until the refresh finishes.
type FireFunc func(ctx context.Context, reason string)

type Trigger interface {
	Name() string
	Start(ctx context.Context, fire FireFunc) error
	Stop()
}

type Manager struct {
	triggers []Trigger
	started  []Trigger
	logger   *slog.Logger
}

func NewManager(logger *slog.Logger, triggers ...Trigger) *Manager {
	return &Manager{triggers: triggers, logger: logger}
}

// Start starts every trigger in order. If one fails, those already started are stopped.
func (m *Manager) Start(ctx context.Context, fire FireFunc) error {
	for _, t := range m.triggers {
		if err := t.Start(ctx, fire); err != nil {
			m.Stop()
			return fmt.Errorf("start trigger %s: %w", t.Name(), err)
		}
		m.started = append(m.started, t)
		m.logger.InfoContext(ctx, "trigger started", "trigger", t.Name())
	}
	return nil
}

// Stop stops started triggers in reverse order.
func (m *Manager) Stop() {
	for i := len(m.started) - 1; i >= 0; i-- {
		m.started[i].Stop()
		m.logger.Info("trigger stopped", "trigger", m.started[i].Name())
	}
	m.started = nil
}
