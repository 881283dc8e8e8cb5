package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// environmentAwareSource is implemented by sources that need visibility into
// the properties already contributed by every "plain" source (env vars, CLI
// flags, programmatic overrides) before they do their own loading — the
// layered file source is the only current implementer, since it must read
// config.location/profiles.active the way a plain ConfigSource.Load never
// could, having no access to anything but its own data.
//
// LoadInto both reads meta-properties already present in env and appends
// its own discovered PropertySources into env directly, rather than
// returning a flat map the way ConfigSource.Load does.
type environmentAwareSource interface {
	ConfigSource
	LoadInto(ctx context.Context, env *Environment) error
}

// Manager orchestrates configuration loading from multiple sources,
// validates the configuration, and notifies subscribers of changes.
//
// Manager supports:
//   - Loading from multiple sources with merge precedence
//   - Atomic configuration updates with validation
//   - Thread-safe concurrent access
//   - Change detection and subscriber notifications
//   - Optional automatic reload on source changes
//
// The configuration is updated atomically - validation failures prevent
// any changes from taking effect. All public methods are safe for concurrent use.
type Manager struct {
	sources   []ConfigSource
	config    any
	binder    *Binder
	mu        sync.RWMutex
	subs      []chan Event
	autoWatch bool

	defaultProfiles []string
}

// Options configures the behavior of a Manager.
type Options struct {
	// AutoReload enables automatic configuration reloading when sources
	// support watching. If true, the Manager will start watchers for each
	// source and reload the configuration when changes are detected.
	AutoReload bool

	// Profile specifies the configuration profile to use.
	// This field is currently unused by Manager but may be passed to sources.
	// Deprecated: Profile should be set directly on a LayeredFileSource instead.
	Profile string

	// DefaultProfiles seeds the Environment's fallback profiles, used only
	// when nothing else (property, document, or CLI/env override) ever
	// activates a profile of its own.
	DefaultProfiles []string
}

// NewManager creates a new configuration Manager that loads and validates
// configuration from the provided sources.
//
// The cfg parameter must be a pointer to a struct that will hold the
// configuration values. The struct fields should use `config` tags for
// mapping and `validate` tags for validation rules.
//
// Plain sources (environment variables, CLI flags) are loaded into the
// Environment first; any source that also implements environmentAwareSource
// (the layered file source) is then given a chance to read those
// meta-properties and append its own layers at lower precedence. This
// mirrors how a real application's environment/CLI/system properties exist
// before file-based configuration is ever discovered.
//
// If opts.AutoReload is true, the Manager will start background goroutines
// to watch each source for changes and automatically reload the configuration.
//
// Returns an error if the initial load or validation fails. The configuration
// is validated before being applied, so partial updates never occur.
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	m := &Manager{
		sources:         sources,
		config:          cfg,
		binder:          NewBinder(),
		autoWatch:       opts.AutoReload,
		defaultProfiles: opts.DefaultProfiles,
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}

	if m.autoWatch {
		m.startWatchers()
	}

	return m, nil
}

// Reload loads configuration from all sources, validates it, and atomically
// updates the configuration if validation succeeds.
//
// The reload process:
//  1. Builds a fresh Environment seeded with the Manager's default profiles
//  2. Loads every plain ConfigSource's flat map into the Environment first,
//     highest-precedence source last (so later sources win ties)
//  3. Gives every environmentAwareSource a chance to append its own layers
//     once the plain sources' meta-properties are visible to it
//  4. Flattens the Environment into a single nested map
//  5. Binds and validates the flattened map into a new configuration instance
//  6. Atomically swaps the old configuration with the new one
//  7. Notifies subscribers if any fields changed
//
// If any step fails, the current configuration remains unchanged and an error
// is returned. This ensures the configuration is always in a valid state.
//
// The context can be used to cancel the reload operation or enforce timeouts.
// If the context is cancelled, Reload returns immediately with ctx.Err().
//
// Reload is safe to call concurrently from multiple goroutines.
func (m *Manager) Reload(ctx context.Context) error {
	start := time.Now()
	env := NewEnvironment(m.defaultProfiles...)

	var aware []environmentAwareSource
	for _, src := range m.sources {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if as, ok := src.(environmentAwareSource); ok {
			aware = append(aware, as)
			continue
		}

		vals, err := src.Load(ctx)
		if err != nil {
			observeReload("error", time.Since(start).Seconds(), len(env.Sources()))
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		env.AddFirst(NewMapPropertySource(src.Name(), vals))
	}

	for _, as := range aware {
		if err := as.LoadInto(ctx, env); err != nil {
			observeReload("error", time.Since(start).Seconds(), len(env.Sources()))
			return fmt.Errorf("failed to load config from %s: %w", as.Name(), err)
		}
	}
	ReorderDefaultProperties(env)

	merged := env.Flatten()

	// Create new instance of same type as m.config
	newCfg := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()

	// Bind + validate on temporary
	if err := m.binder.Bind(merged, newCfg); err != nil {
		observeReload("error", time.Since(start).Seconds(), len(env.Sources()))
		return fmt.Errorf("failed to bind config: %w", err)
	}

	// Lock and atomically replace on success
	m.mu.Lock()

	// Create a copy of old config for comparison
	oldCfg := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())

	// Copy values from newCfg into m.config (updates the user's struct in place)
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())

	m.mu.Unlock()

	observeReload("success", time.Since(start).Seconds(), len(env.Sources()))

	if !reflect.DeepEqual(oldCfg, newCfg) {
		diffEvent := diffEvent(oldCfg, newCfg)
		m.notify(diffEvent)
	}
	return nil
}

// Subscribe registers a channel to receive configuration change events.
//
// When the configuration is reloaded and changes are detected, an Event
// will be sent to all subscribed channels. Events are sent asynchronously
// and non-blocking - if a channel's buffer is full, the event is dropped.
//
// Subscribe is safe to call concurrently. The channel is never closed by
// the Manager, so callers are responsible for lifecycle management.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	defer m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers() {
	for _, s := range m.sources {
		src := s // Capture loop variable
		ch := make(chan Event)
		go func() {
			ctx := context.Background()

			if err := src.Watch(ctx, ch); err != nil {
				return
			}

			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					_ = m.Reload(context.Background())
				}
			}
		}()
	}
}
