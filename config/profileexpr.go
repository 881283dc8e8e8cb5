package config

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// profileExprEnv is the evaluation environment handed to expr-lang:
// a single map of active profile name to true, so a translated expression
// like `Active["eu"] && !Active["staging"]` can be compiled and run against it.
type profileExprEnv struct {
	Active map[string]bool
}

// AcceptsProfiles reports whether any of the given profile expressions is
// satisfied by the active profile set. DocumentFilter handles unprofiled
// documents (an empty expression list) itself before reaching here; given
// an empty list, this function reports false.
func AcceptsProfiles(exprs []string, active *ProfileSet) (bool, error) {
	activeMap := map[string]bool{}
	for _, n := range active.Names() {
		activeMap[n] = true
	}
	env := profileExprEnv{Active: activeMap}

	for _, raw := range exprs {
		translated, err := translateProfileExpression(raw)
		if err != nil {
			return false, fmt.Errorf("profile expression %q: %w", raw, err)
		}
		program, err := expr.Compile(translated, expr.Env(env), expr.AsBool())
		if err != nil {
			return false, fmt.Errorf("profile expression %q: %w", raw, err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false, fmt.Errorf("profile expression %q: %w", raw, err)
		}
		if b, _ := out.(bool); b {
			return true, nil
		}
	}
	return false, nil
}

// translateProfileExpression rewrites a profile expression using this
// package's own operator set (bare names, "!", "&", "|", parens) into
// expr-lang boolean syntax, with every identifier rewritten to a map lookup
// against the Active set so that profile names need not be valid Go/expr
// identifiers (dashes, dots, etc. are all legal profile name characters).
func translateProfileExpression(raw string) (string, error) {
	var out strings.Builder
	var ident strings.Builder

	flushIdent := func() error {
		if ident.Len() == 0 {
			return nil
		}
		name := strings.TrimSpace(ident.String())
		ident.Reset()
		if name == "" {
			return nil
		}
		out.WriteString(`Active[`)
		out.WriteString(fmt.Sprintf("%q", name))
		out.WriteString(`]`)
		return nil
	}

	for _, r := range raw {
		switch r {
		case '!':
			if err := flushIdent(); err != nil {
				return "", err
			}
			out.WriteRune('!')
		case '&':
			if err := flushIdent(); err != nil {
				return "", err
			}
			out.WriteString("&&")
		case '|':
			if err := flushIdent(); err != nil {
				return "", err
			}
			out.WriteString("||")
		case '(', ')':
			if err := flushIdent(); err != nil {
				return "", err
			}
			out.WriteRune(r)
		case ' ', '\t':
			if err := flushIdent(); err != nil {
				return "", err
			}
		default:
			ident.WriteRune(r)
		}
	}
	if err := flushIdent(); err != nil {
		return "", err
	}
	if out.Len() == 0 {
		return "false", nil
	}
	return out.String(), nil
}
