package actuator

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stratalib/strata/config"
	"github.com/stratalib/strata/configbootstrap"
	"github.com/stratalib/strata/core"
)

const Name = "actuator"

type module struct {
	server *http.Server
}

func Module() core.Module { return &module{} }

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{configbootstrap.Name} }

func (m *module) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)

	mux := http.NewServeMux()
	base := cfg.Actuator.BasePath

	mux.HandleFunc(base+"/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "UP",
			"checks": []any{},
		})
	})

	mux.HandleFunc(base+"/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"app": map[string]any{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"runtime": map[string]any{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"pid":          os.Getpid(),
			},
		})
	})

	if cfg.Observability.Metrics.Enabled {
		mux.Handle(cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	m.server = &http.Server{Addr: cfg.Actuator.Addr, Handler: mux}
	return nil
}

func (m *module) Start(_ context.Context, _ core.Container) error {
	if m.server.Addr == "" {
		return nil
	}
	go func() {
		_ = m.server.ListenAndServe()
	}()
	return nil
}

func (m *module) Stop(ctx context.Context, _ core.Container) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
