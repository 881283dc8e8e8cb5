package config

// DocumentFilter decides whether a parsed Document should be accepted into
// the current load pass.
type DocumentFilter func(Document) bool

// DocumentFilterFactory builds a DocumentFilter for a given profile (nil
// meaning the "no profile"/default pass).
type DocumentFilterFactory func(profile *Profile) DocumentFilter

// PositiveFilterFactory builds the filter used while the work-list is being
// drained: for the nil/default pass it accepts only unprofiled documents;
// for a named profile it accepts documents whose declared profile
// expression is satisfied by the environment's current active profiles
// (which already include the profile being processed when it is not a
// default profile — Loader activates non-default profiles before this
// filter runs, and never adds a default profile to the active set).
func PositiveFilterFactory(env *Environment) DocumentFilterFactory {
	return func(profile *Profile) DocumentFilter {
		return func(doc Document) bool {
			if profile == nil {
				return !doc.IsProfiled()
			}
			if !doc.IsProfiled() {
				return false
			}
			ok, _ := AcceptsProfiles(doc.DeclaredProfiles, env.ActiveProfileSet())
			return ok
		}
	}
}

// NegativeFilterFactory builds the filter used for the final, unprofiled
// pass: it accepts only documents that DO declare profiles, and only if
// those profiles happen to still be satisfied by the final active set —
// this is how a profile-scoped document placed in a bare (non-suffixed)
// file gets picked up even though the main loop never looked for it there.
func NegativeFilterFactory(env *Environment) DocumentFilterFactory {
	return func(profile *Profile) DocumentFilter {
		return func(doc Document) bool {
			if profile != nil {
				return false
			}
			if !doc.IsProfiled() {
				return false
			}
			ok, _ := AcceptsProfiles(doc.DeclaredProfiles, env.ActiveProfileSet())
			return ok
		}
	}
}
