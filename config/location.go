package config

import "strings"

// LocationResolver computes the ordered, deduplicated search locations and
// names the Loader should try, reading overrides from the Environment
// when present and falling back to the built-in defaults otherwise.
type LocationResolver struct {
	env *Environment

	// SearchLocations/SearchNames are programmatic overrides of the
	// built-in defaults, used when the environment itself carries none.
	SearchLocations string
	SearchNames     string
}

// NewLocationResolver builds a resolver reading overrides from env.
func NewLocationResolver(env *Environment) *LocationResolver {
	return &LocationResolver{env: env}
}

// Locations returns the ordered list of locations to search.
//
// If config.location is set, it REPLACES the defaults entirely. Otherwise,
// config.additional-location is prepended ahead of the (overridable)
// defaults. Both properties are comma-separated, and are resolved with
// asResolvedSet: split, trim, reverse, then dedupe keeping first occurrence
// — reversing means the last location named by the user ends up searched
// first, i.e. highest precedence, matching how later file layers are meant
// to win.
func (r *LocationResolver) Locations() []string {
	if v, ok := r.env.Property(ConfigLocationKey); ok {
		return asResolvedSet(v, true)
	}
	var out []string
	if v, ok := r.env.Property(ConfigAdditionalLocationKey); ok {
		out = append(out, asResolvedSet(v, true)...)
	}
	defaults := r.SearchLocations
	if defaults == "" {
		defaults = defaultSearchLocations
	}
	out = append(out, asResolvedSet(defaults, false)...)
	return dedupePreserveOrder(out)
}

// Names returns the ordered list of search names (without extension).
func (r *LocationResolver) Names() []string {
	if v, ok := r.env.Property(ConfigNameKey); ok {
		return asResolvedSet(v, false)
	}
	defaults := r.SearchNames
	if defaults == "" {
		defaults = defaultSearchName
	}
	return asResolvedSet(defaults, false)
}

// asResolvedSet splits a comma-separated value, trims each element, and
// reverses the order (so the last user-specified entry is tried first).
// When normalize is true, every element that contains neither a "$"
// placeholder token nor a ":" scheme separator is prefixed with "file:";
// elements are not path-cleaned. Normalization only applies to explicitly
// configured location lists, never to the hardcoded defaults, which
// already carry an explicit scheme.
func asResolvedSet(value string, normalize bool) []string {
	parts := strings.Split(value, ",")
	var trimmed []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		trimmed = append(trimmed, p)
	}
	reverse(trimmed)
	if normalize {
		for i, p := range trimmed {
			trimmed[i] = normalizeLocation(p)
		}
	}
	return dedupePreserveOrder(trimmed)
}

func normalizeLocation(loc string) string {
	if strings.Contains(loc, "$") {
		return loc
	}
	if strings.Contains(loc, ":") {
		return loc
	}
	return "file:" + loc
}

func dedupePreserveOrder(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
