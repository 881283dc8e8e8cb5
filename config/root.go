package config

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	// Addr is the address the actuator HTTP server listens on (e.g.
	// ":9090"). Left empty, the actuator module is configured but never
	// starts a listener.
	Addr     string `config:"addr"`
	BasePath string `config:"basePath"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}
