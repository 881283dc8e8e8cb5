package config

// Well-known property keys read by the layered file loader from whatever
// sources (env vars, CLI flags, programmatic overrides) are already present
// in the Environment before file discovery begins.
const (
	// ConfigLocationKey, when set, replaces the default search locations
	// entirely rather than adding to them.
	ConfigLocationKey = "config.location"

	// ConfigAdditionalLocationKey adds locations ahead of the defaults
	// without replacing them.
	ConfigAdditionalLocationKey = "config.additional-location"

	// ConfigNameKey overrides the default search name ("application").
	ConfigNameKey = "config.name"

	// ProfilesActiveKey activates profiles from outside any config document.
	ProfilesActiveKey = "profiles.active"

	// ProfilesIncludeKey includes profiles unconditionally, from outside
	// any config document.
	ProfilesIncludeKey = "profiles.include"

	// docProfilesKey is the per-document key declaring which profile(s)
	// (or profile expression) a document is scoped to.
	docProfilesKey = "profiles"

	// docProfilesActiveKey and docProfilesIncludeKey are the per-document
	// equivalents of ProfilesActiveKey/ProfilesIncludeKey.
	docProfilesActiveKey  = "profiles.active"
	docProfilesIncludeKey = "profiles.include"
)

// DefaultPropertiesSourceName is the sentinel name a caller may use for a
// low-priority PropertySource (e.g. hardcoded defaults) that should always
// end up last in the Environment, regardless of load order.
const DefaultPropertiesSourceName = "defaultProperties"

const (
	defaultSearchLocations = "classpath:/,classpath:/config/,file:./,file:./config/"
	defaultSearchName      = "application"
)
