package source

import (
	"context"

	"github.com/stratalib/strata/config"
)

// LayeredFileSource discovers configuration files the way a profile-aware
// configuration loader does: it searches an ordered set of locations and
// names for files in any registered format, loads the ones that exist,
// filters their documents against whichever profiles end up active, and
// appends the result into an Environment at file-layer precedence — below
// whatever plain sources (environment variables, CLI flags) were loaded
// ahead of it.
//
// Unlike the other sources in this package, LayeredFileSource also
// implements LoadInto, so a Manager loads it last and lets it read
// meta-properties (config.location, profiles.active, ...) that plain
// sources may have already contributed.
//
// BasePath and Profile are optional convenience fields for the common case
// of a single configuration directory and a single profile known up front;
// set config.location/profiles.active on an earlier source instead for
// anything more elaborate.
type LayeredFileSource struct {
	// BasePath, if set, is added as an additional search location ahead of
	// the built-in defaults (classpath:/, file:./, ...), unless an earlier
	// source already sets config.additional-location.
	BasePath string

	// Profile, if set, is activated before loading begins, the same as if it
	// had arrived via ProfilesActiveKey from an earlier source; it is
	// ignored when an earlier source already sets profiles.active.
	Profile string

	// ResourceLoader resolves location strings into Resources. Defaults to
	// a DefaultResourceLoader with no embedded classpath.
	ResourceLoader config.ResourceLoader

	// SourceLoaders parse resource bytes into PropertySources. Defaults to
	// config.DefaultSourceLoaders() (YAML, properties, JSON).
	SourceLoaders []config.PropertySourceLoader

	// Cache memoizes parsed documents across the two passes a
	// profile-suffixed resource is filtered under. Defaults to a private
	// cache sized for a small number of config files.
	Cache *config.DocumentCache

	// Logger receives discovery chatter (files skipped, files loaded).
	// Defaults to a DeferredLogger that simply drops anything never
	// switched over to a real *slog.Logger.
	Logger *config.DeferredLogger
}

// Name returns the identifier for this source.
func (f *LayeredFileSource) Name() string { return "file" }

// Load runs file discovery into a throwaway Environment and flattens the
// result, for callers that use LayeredFileSource as a plain ConfigSource
// rather than through a Manager's environmentAwareSource path. A Manager
// never calls Load on this source directly; it calls LoadInto instead. The
// helper sources LoadInto adds for BasePath and Profile are dropped before
// flattening, so the result holds only what the discovered files supplied.
func (f *LayeredFileSource) Load(ctx context.Context) (map[string]any, error) {
	env := config.NewEnvironment()
	if err := f.LoadInto(ctx, env); err != nil {
		return nil, err
	}
	env.Remove("file.basePath")
	env.Remove("file.profile")
	return env.Flatten(), nil
}

// LoadInto runs file discovery directly into env, appending its layers at
// lower precedence than whatever env already contains.
func (f *LayeredFileSource) LoadInto(ctx context.Context, env *config.Environment) error {
	if f.BasePath != "" && !env.ContainsProperty(config.ConfigAdditionalLocationKey) {
		env.AddLast(config.NewMapPropertySource("file.basePath", map[string]any{
			"config": map[string]any{
				"additional-location": "file:" + f.BasePath + "/",
			},
		}))
	}
	if f.Profile != "" && !env.ContainsProperty(config.ProfilesActiveKey) {
		env.AddLast(config.NewMapPropertySource("file.profile", map[string]any{
			"profiles": map[string]any{
				"active": f.Profile,
			},
		}))
	}

	resourceLoader := f.ResourceLoader
	if resourceLoader == nil {
		resourceLoader = config.NewDefaultResourceLoader(nil)
	}
	sourceLoaders := f.SourceLoaders
	if sourceLoaders == nil {
		sourceLoaders = config.DefaultSourceLoaders()
	}
	cache := f.Cache
	if cache == nil {
		cache = config.NewDocumentCache(64)
	}

	loader := config.NewLoader(env, resourceLoader, sourceLoaders, cache, f.Logger)
	return loader.Load(ctx)
}

// Watch is not implemented for LayeredFileSource.
// Returns nil immediately, indicating that file watching is not supported.
//
// To enable automatic reloading when files change, consider using a file
// watcher library like fsnotify and implementing Watch accordingly.
func (f *LayeredFileSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }
