package config

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

const maxPlaceholderPasses = 5

// ResolvePlaceholders substitutes ${key} and ${key:default} tokens in value
// using lookup. A token with no default and no resolvable value is left
// untouched rather than producing an error — placeholder resolution in this
// package is a best-effort string transform, not a validator.
//
// Resolution runs for a bounded number of passes so that a resolved value
// which itself contains a placeholder (e.g. profiles overlaying base
// values that reference other keys) gets fully expanded without risking an
// infinite loop on a placeholder that references itself.
func ResolvePlaceholders(value string, lookup func(string) (string, bool)) string {
	for i := 0; i < maxPlaceholderPasses; i++ {
		next := resolveOnce(value, lookup)
		if next == value {
			return next
		}
		value = next
	}
	return value
}

func resolveOnce(value string, lookup func(string) (string, bool)) string {
	return placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		key := sub[1]
		def := sub[2]
		hasDefault := strings.Contains(match, ":")
		if v, ok := lookup(key); ok {
			return v
		}
		if hasDefault {
			return def
		}
		return match
	})
}
