package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertySourceLoader turns the raw bytes of a Resource into one or more
// PropertySources. A single resource yields multiple sources when its
// format supports multiple documents per file (YAML's "---" separator);
// every other format yields exactly one.
type PropertySourceLoader interface {
	// ID is a stable identity for this loader, used as part of the
	// DocumentCache key. Two loader instances of the same type must
	// produce the same ID.
	ID() string
	FileExtensions() []string
	Load(name string, res Resource) ([]PropertySource, error)
}

type yamlSourceLoader struct{}

func (yamlSourceLoader) ID() string                { return "yaml" }
func (yamlSourceLoader) FileExtensions() []string { return []string{"yml", "yaml"} }

func (yamlSourceLoader) Load(name string, res Resource) ([]PropertySource, error) {
	data, err := res.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", res.URI(), err)
	}

	var out []PropertySource
	dec := yaml.NewDecoder(bytes.NewReader(data))
	idx := 0
	for {
		var doc map[string]any
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", res.URI(), err)
		}
		if doc == nil {
			idx++
			continue
		}
		srcName := name
		if idx > 0 {
			srcName = fmt.Sprintf("%s#%d", name, idx)
		}
		out = append(out, NewMapPropertySource(srcName, normalizeYAMLMap(doc)))
		idx++
	}
	return out, nil
}

// normalizeYAMLMap recursively converts map[string]any subtrees decoded by
// yaml.v3 (which may yield map[string]any already for string keys, but
// nested sequences of maps need the same treatment) into the plain
// map[string]any shape the rest of this package assumes.
func normalizeYAMLMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = normalizeYAMLValue(val)
	}
	return out
}

func normalizeYAMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeYAMLMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAMLValue(e)
		}
		return out
	default:
		return t
	}
}

type propertiesSourceLoader struct{}

func (propertiesSourceLoader) ID() string                { return "properties" }
func (propertiesSourceLoader) FileExtensions() []string { return []string{"properties"} }

func (propertiesSourceLoader) Load(name string, res Resource) ([]PropertySource, error) {
	data, err := res.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", res.URI(), err)
	}

	flat := map[string]any{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		idx := strings.IndexAny(line, "=:")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		setNestedDotted(flat, key, val)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", res.URI(), err)
	}
	return []PropertySource{NewMapPropertySource(name, flat)}, nil
}

type jsonSourceLoader struct{}

func (jsonSourceLoader) ID() string                { return "json" }
func (jsonSourceLoader) FileExtensions() []string { return []string{"json"} }

func (jsonSourceLoader) Load(name string, res Resource) ([]PropertySource, error) {
	data, err := res.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", res.URI(), err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", res.URI(), err)
	}
	return []PropertySource{NewMapPropertySource(name, doc)}, nil
}

// DefaultSourceLoaders returns the loaders registered by default, in the
// order loader identity ties (same extension claimed twice) are broken.
func DefaultSourceLoaders() []PropertySourceLoader {
	return []PropertySourceLoader{
		yamlSourceLoader{},
		propertiesSourceLoader{},
		jsonSourceLoader{},
	}
}

// setNestedDotted sets value at a dot-separated key path within m, creating
// intermediate maps as needed. A leaf value already present at a
// shorter prefix blocks further nesting, same conflict policy as the CLI
// and env adapters use for their own delimiter-based nesting.
func setNestedDotted(m map[string]any, dottedKey, value string) {
	setNestedValue(m, strings.Split(dottedKey, "."), value)
}

// setNestedValue sets value along a path of map-key segments, creating
// intermediate maps as needed. If a non-map leaf already occupies a
// segment's position, the assignment is silently dropped rather than
// overwriting it — the same conflict policy config/source's env and CLI
// adapters use for their own delimiter-based nesting.
func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		existing, exists := current[segment]
		if !exists {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			return
		}
		current = nested
	}
}
