package config

import "strings"

// PropertySource is a named, ordered layer of key/value configuration data.
// Keys use dot notation ("server.port") to address nested values regardless
// of whether the underlying data is naturally nested (YAML/JSON) or flat
// (env vars, CLI flags).
type PropertySource interface {
	Name() string
	Get(key string) (any, bool)
	Keys() []string
}

// MapPropertySource is the concrete PropertySource backing every file, env,
// and CLI layer. It stores data as a nested map[string]any and resolves
// dotted keys by walking the nesting.
type MapPropertySource struct {
	name string
	data map[string]any
}

// NewMapPropertySource wraps data as a named PropertySource. data is not
// copied; callers should not mutate it afterwards.
func NewMapPropertySource(name string, data map[string]any) *MapPropertySource {
	if data == nil {
		data = map[string]any{}
	}
	return &MapPropertySource{name: name, data: data}
}

func (m *MapPropertySource) Name() string { return m.name }

// Raw returns the underlying nested map, for callers (the flattening step
// in Environment.Flatten) that need to merge whole subtrees rather than
// resolve one dotted key at a time.
func (m *MapPropertySource) Raw() map[string]any { return m.data }

func (m *MapPropertySource) Get(key string) (any, bool) {
	segments := strings.Split(key, ".")
	var cur any = m.data
	for _, seg := range segments {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := asMap[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func (m *MapPropertySource) Keys() []string {
	var out []string
	collectKeys("", m.data, &out)
	return out
}

func collectKeys(prefix string, m map[string]any, out *[]string) {
	for k, v := range m {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			collectKeys(full, nested, out)
			continue
		}
		*out = append(*out, full)
	}
}

// getString reads key from src when it holds a string value; a missing key
// or a value of any other type reports false.
func getString(src PropertySource, key string) (string, bool) {
	v, ok := src.Get(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	default:
		return "", false
	}
}

// getStringList reads key from src as either a YAML/JSON list or a
// comma-separated string, normalizing both to a trimmed, non-empty slice.
func getStringList(src PropertySource, key string) []string {
	v, ok := src.Get(key)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return splitProfileNames(t)
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case []string:
		var out []string
		for _, s := range t {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Document is one parsed, filterable unit produced from a single resource.
// A single resource may yield several Documents when its format supports
// multiple documents per file (YAML's "---" separator).
type Document struct {
	Source PropertySource

	// DeclaredProfiles holds the raw expressions from this document's
	// "profiles" key (e.g. "dev", "!prod", "eu & staging"). A document with
	// no such key is unprofiled.
	DeclaredProfiles []string

	// Activate lists profiles this document activates when accepted, from
	// its "profiles.active" key. Only the first activation in a Load run
	// takes effect (see Loader.addActivatedProfiles).
	Activate *ProfileSet

	// Include lists profiles this document unconditionally includes into
	// the work-list when accepted, from its "profiles.include" key.
	Include *ProfileSet
}

// IsProfiled reports whether this document declared a "profiles" key at all.
func (d Document) IsProfiled() bool { return len(d.DeclaredProfiles) > 0 }

// asDocuments wraps each parsed PropertySource as a Document, extracting the
// profile-related keys every document is inspected for regardless of format.
func asDocuments(sources []PropertySource) []Document {
	docs := make([]Document, 0, len(sources))
	for _, src := range sources {
		docs = append(docs, Document{
			Source:           src,
			DeclaredProfiles: getStringList(src, docProfilesKey),
			Activate:         profileSetFromList(getStringList(src, docProfilesActiveKey)),
			Include:          profileSetFromList(getStringList(src, docProfilesIncludeKey)),
		})
	}
	return docs
}

func profileSetFromList(names []string) *ProfileSet {
	set := NewProfileSet()
	for _, n := range names {
		set.Add(NewProfile(n))
	}
	return set
}
