// Package configbootstrap wires a *config.Manager into the app lifecycle so
// other modules can depend on configuration being loaded and validated
// before they start, and so reload events get logged somewhere.
package configbootstrap

import (
	"context"
	"log/slog"

	"github.com/stratalib/strata/config"
	"github.com/stratalib/strata/core"
)

const Name = "configbootstrap"

type module struct {
	manager *config.Manager
	logger  *slog.Logger
	cancel  context.CancelFunc
}

// Module wraps an already-initialized Manager as a core.Module. The
// Manager has already performed its first Reload by the time NewManager
// returned, so Configure only looks up the logger from the container;
// Start subscribes to reload events for as long as the app runs.
func Module(manager *config.Manager) core.Module {
	return &module{manager: manager}
}

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return nil }

func (m *module) Configure(c core.Container) error {
	m.logger = core.Get[*slog.Logger](c)
	return nil
}

func (m *module) Start(_ context.Context, _ core.Container) error {
	var runCtx context.Context
	runCtx, m.cancel = context.WithCancel(context.Background())

	ch := make(chan config.Event, 8)
	m.manager.Subscribe(ch)

	go func() {
		for {
			select {
			case <-runCtx.Done():
				return
			case evt := <-ch:
				m.logger.Info("config reloaded", "changed", evt.ChangedKeys)
			}
		}
	}()
	return nil
}

func (m *module) Stop(_ context.Context, _ core.Container) error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
