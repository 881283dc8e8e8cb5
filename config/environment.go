package config

import "sync"

// Environment is the process-wide, ordered list of PropertySources plus the
// active/default profile sets. Sources at the head of the list take
// precedence over sources further back; this mirrors how CLI flags are
// meant to override environment variables, which in turn override
// file-based configuration.
type Environment struct {
	mu      sync.RWMutex
	sources []PropertySource

	active  *ProfileSet
	defProf *ProfileSet
}

// NewEnvironment returns an Environment seeded with the given default
// profile names (used only if no profile is ever activated).
func NewEnvironment(defaultProfiles ...string) *Environment {
	def := NewProfileSet()
	for _, n := range defaultProfiles {
		def.Add(NewProfile(n))
	}
	return &Environment{
		active:  NewProfileSet(),
		defProf: def,
	}
}

// AddFirst inserts src at the head of the source list (highest precedence).
func (e *Environment) AddFirst(src PropertySource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(src.Name())
	e.sources = append([]PropertySource{src}, e.sources...)
}

// AddLast appends src at the tail of the source list (lowest precedence).
func (e *Environment) AddLast(src PropertySource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(src.Name())
	e.sources = append(e.sources, src)
}

// AddBefore inserts src immediately before the named source, if present.
// Reports false (and does nothing) if name is not found.
func (e *Environment) AddBefore(name string, src PropertySource) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(name)
	if idx < 0 {
		return false
	}
	e.removeLocked(src.Name())
	idx = e.indexLocked(name)
	out := make([]PropertySource, 0, len(e.sources)+1)
	out = append(out, e.sources[:idx]...)
	out = append(out, src)
	out = append(out, e.sources[idx:]...)
	e.sources = out
	return true
}

// AddAfter inserts src immediately after the named source, if present.
// Reports false (and does nothing) if name is not found.
func (e *Environment) AddAfter(name string, src PropertySource) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(name)
	if idx < 0 {
		return false
	}
	e.removeLocked(src.Name())
	idx = e.indexLocked(name)
	out := make([]PropertySource, 0, len(e.sources)+1)
	out = append(out, e.sources[:idx+1]...)
	out = append(out, src)
	out = append(out, e.sources[idx+1:]...)
	e.sources = out
	return true
}

// Contains reports whether a source with the given name is present.
func (e *Environment) Contains(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indexLocked(name) >= 0
}

// Remove deletes and returns the source with the given name, or nil.
func (e *Environment) Remove(name string) PropertySource {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(name)
	if idx < 0 {
		return nil
	}
	src := e.sources[idx]
	e.sources = append(e.sources[:idx], e.sources[idx+1:]...)
	return src
}

func (e *Environment) indexLocked(name string) int {
	for i, s := range e.sources {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

func (e *Environment) removeLocked(name string) {
	idx := e.indexLocked(name)
	if idx < 0 {
		return
	}
	e.sources = append(e.sources[:idx], e.sources[idx+1:]...)
}

// Sources returns a snapshot of the current source list, head first.
func (e *Environment) Sources() []PropertySource {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]PropertySource, len(e.sources))
	copy(out, e.sources)
	return out
}

// ContainsProperty reports whether any source resolves key.
func (e *Environment) ContainsProperty(key string) bool {
	_, ok := e.Property(key)
	return ok
}

// Property resolves key against the source list, head (highest precedence)
// first.
func (e *Environment) Property(key string) (string, bool) {
	for _, src := range e.Sources() {
		if v, ok := src.Get(key); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// ResolvePlaceholders resolves ${key} / ${key:default} tokens in value
// against this Environment's properties.
func (e *Environment) ResolvePlaceholders(value string) string {
	return ResolvePlaceholders(value, e.Property)
}

// ActiveProfiles returns the currently active profile names, insertion order.
func (e *Environment) ActiveProfiles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active.Names()
}

// ActiveProfileSet returns the live active ProfileSet. Callers must not
// mutate it directly; use AddActiveProfile/SetActiveProfiles.
func (e *Environment) ActiveProfileSet() *ProfileSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// AddActiveProfile activates a single profile by name, idempotently.
func (e *Environment) AddActiveProfile(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active.Add(NewProfile(name))
}

// SetActiveProfiles replaces the active profile set wholesale.
func (e *Environment) SetActiveProfiles(names []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fresh := NewProfileSet()
	for _, n := range names {
		fresh.Add(NewProfile(n))
	}
	e.active = fresh
}

// DefaultProfiles returns the profiles to fall back to when none are
// otherwise activated.
func (e *Environment) DefaultProfiles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.defProf.Names()
}

// AcceptsProfiles reports whether any of exprs is satisfied by the current
// active profile set.
func (e *Environment) AcceptsProfiles(exprs []string) bool {
	ok, _ := AcceptsProfiles(exprs, e.ActiveProfileSet())
	return ok
}

// Flatten collapses the source list into a single nested map, applying
// precedence tail-to-head (lowest precedence first) so that higher
// precedence sources overwrite lower ones, exactly the merge direction
// Manager.Reload already used for its own flat source list. Each source's
// data is copied before merging, so the sources themselves are left as they
// were.
func (e *Environment) Flatten() map[string]any {
	var clone func(map[string]any) map[string]any
	clone = func(m map[string]any) map[string]any {
		out := make(map[string]any, len(m))
		for k, v := range m {
			if nested, ok := v.(map[string]any); ok {
				v = clone(nested)
			}
			out[k] = v
		}
		return out
	}
	merged := map[string]any{}
	srcs := e.Sources()
	for i := len(srcs) - 1; i >= 0; i-- {
		if mp, ok := srcs[i].(*MapPropertySource); ok {
			mergeMaps(merged, clone(mp.Raw()))
		}
	}
	return merged
}
