package config

import (
	"context"
	"fmt"
)

// bucket accumulates the PropertySources discovered for one profile (or the
// nil/default pass) during a single Load run. Buckets are kept separate
// per profile so PublishLoadedBuckets can later decide precedence between
// whole profiles, not just between individual sources.
type bucket struct {
	profile *Profile
	sources []PropertySource
}

func (b *bucket) addLast(src PropertySource) { b.sources = append(b.sources, src) }

func (b *bucket) addFirst(src PropertySource) {
	b.sources = append([]PropertySource{src}, b.sources...)
}

func (b *bucket) containsName(name string) bool {
	for _, s := range b.sources {
		if s.Name() == name {
			return true
		}
	}
	return false
}

func bucketKey(p *Profile) string {
	if p == nil {
		return "\x00null"
	}
	return p.Name
}

// loadState is the mutable, single-Load-run bookkeeping the original
// algorithm keeps on the stack: a FIFO work-list of profiles still to
// process (which grows as documents declare profiles.include), the
// profiles already processed (so addIncludedProfiles can skip re-enqueuing
// one), whether any profile was ever activated via a
// property or document (as opposed to only the environment's own
// defaults), and the buckets of sources collected so far, in the order
// they were first touched.
type loadState struct {
	worklist  []*Profile
	processed []*Profile
	activated bool

	bucketOrder []string
	buckets     map[string]*bucket
}

func (s *loadState) bucketFor(p *Profile) *bucket {
	key := bucketKey(p)
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{profile: p}
		s.buckets[key] = b
		s.bucketOrder = append(s.bucketOrder, key)
	}
	return b
}

func (s *loadState) orderedBuckets() []bucket {
	out := make([]bucket, 0, len(s.bucketOrder))
	for _, key := range s.bucketOrder {
		out = append(out, *s.buckets[key])
	}
	return out
}

func (s *loadState) hasProcessedOrQueued(name string) bool {
	for _, p := range s.processed {
		if p != nil && p.Name == name {
			return true
		}
	}
	for _, p := range s.worklist {
		if p != nil && p.Name == name {
			return true
		}
	}
	return false
}

// bucketConsumer decides how an accepted document's source is merged into
// the bucket for the profile pass currently running.
type bucketConsumer func(state *loadState, profile *Profile, doc Document)

// bucketAppend is used during the positive, worklist-draining pass: sources
// are appended in discovery order, so the most specific location/name
// combination (searched first) comes first and outranks later ones.
func bucketAppend(state *loadState, profile *Profile, doc Document) {
	state.bucketFor(profile).addLast(doc.Source)
}

// bucketPrependIfNew is used during the final negative pass: a
// profile-scoped document recovered from a bare file only applies if no
// bucket already carries a source of the same name (meaning the positive
// pass never found it under a profile-suffixed filename), and is prepended
// so it sits ahead of whatever the nil bucket already collected for the
// unprofiled pass.
func bucketPrependIfNew(state *loadState, profile *Profile, doc Document) {
	for _, key := range state.bucketOrder {
		if state.buckets[key].containsName(doc.Source.Name()) {
			return
		}
	}
	state.bucketFor(profile).addFirst(doc.Source)
}

// Loader is the orchestrator implementing the layered, profile-aware
// discovery algorithm: it walks {locations x names x profile suffixes x
// extensions}, parses and caches every resource it finds, filters parsed
// documents against the profile(s) currently being processed, and finally
// publishes the accepted documents into an Environment in precedence order.
type Loader struct {
	env              *Environment
	resourceLoader   ResourceLoader
	sourceLoaders    []PropertySourceLoader
	cache            *DocumentCache
	logger           *DeferredLogger
	expander         *FileExpander
	locationResolver *LocationResolver
}

// NewLoader builds a Loader publishing into env. resourceLoader resolves
// location strings to Resources; sourceLoaders parse resource bytes into
// PropertySources; cache memoizes parsed documents across the two passes
// every profile-suffixed resource is filtered under; logger receives
// discovery chatter that may need to be replayed once real logging is
// available.
func NewLoader(env *Environment, resourceLoader ResourceLoader, sourceLoaders []PropertySourceLoader, cache *DocumentCache, logger *DeferredLogger) *Loader {
	if logger == nil {
		logger = NewDeferredLogger(0)
	}
	return &Loader{
		env:              env,
		resourceLoader:   resourceLoader,
		sourceLoaders:    sourceLoaders,
		cache:            cache,
		logger:           logger,
		expander:         NewFileExpander(),
		locationResolver: NewLocationResolver(env),
	}
}

// Load runs the full discovery algorithm once, publishing every accepted
// document's source into the Loader's Environment before returning.
func (l *Loader) Load(ctx context.Context) error {
	if l.env == nil {
		return &PreconditionError{Reason: "no environment to load into"}
	}
	if len(l.sourceLoaders) == 0 {
		return &PreconditionError{Reason: "no property source loaders registered"}
	}

	state := &loadState{buckets: map[string]*bucket{}}
	state.worklist = append(state.worklist, nil)

	viaProperty := l.profilesActivatedViaProperty()
	for i := range viaProperty {
		state.worklist = append(state.worklist, &viaProperty[i])
		state.activated = true
	}

	// Only fall back to the environment's own default profiles if nothing
	// beyond the seeded nil pass is queued yet.
	if len(state.worklist) == 1 && !state.activated {
		for _, name := range l.env.DefaultProfiles() {
			p := NewDefaultProfile(name)
			state.worklist = append(state.worklist, &p)
		}
	}

	positive := PositiveFilterFactory(l.env)
	for len(state.worklist) > 0 {
		profile := state.worklist[0]
		state.worklist = state.worklist[1:]

		if profile != nil && !profile.Default {
			l.env.AddActiveProfile(profile.Name)
			state.activated = true
		}

		if err := l.expandAndLoad(ctx, state, profile, positive, bucketAppend); err != nil {
			return err
		}
		state.processed = append(state.processed, profile)
	}

	negative := NegativeFilterFactory(l.env)
	if err := l.expandAndLoad(ctx, state, nil, negative, bucketPrependIfNew); err != nil {
		return err
	}

	PublishLoadedBuckets(l.env, state.orderedBuckets())
	return nil
}

// profilesActivatedViaProperty reads ProfilesIncludeKey and then
// ProfilesActiveKey from the Environment (populated by whatever plain
// sources — CLI, env vars — were loaded ahead of this file-based source) and
// returns the profiles they name, included ones first, without duplicates.
func (l *Loader) profilesActivatedViaProperty() []Profile {
	set := NewProfileSet()
	for _, key := range []string{ProfilesIncludeKey, ProfilesActiveKey} {
		v, ok := l.env.Property(key)
		if !ok {
			continue
		}
		for _, name := range splitProfileNames(v) {
			set.Add(NewProfile(name))
		}
	}
	return set.Profiles()
}

// addIncludedProfiles enqueues every profile named by doc's profiles.include
// key that isn't already processed or already queued. Unlike
// addActivatedProfiles, an include is not a one-shot latch and is not
// appended behind whatever's still queued — it reorders the work-list so
// the included profiles are drained next, ahead of the existing tail,
// while preserving that tail's relative order.
func (l *Loader) addIncludedProfiles(state *loadState, doc Document) {
	if doc.Include == nil {
		return
	}
	var fresh []*Profile
	for _, p := range doc.Include.Profiles() {
		if state.hasProcessedOrQueued(p.Name) {
			continue
		}
		next := p
		fresh = append(fresh, &next)
		l.env.AddActiveProfile(p.Name)
		state.activated = true
	}
	if len(fresh) > 0 {
		state.worklist = append(fresh, state.worklist...)
	}
}

// addActivatedProfiles enqueues every profile named by doc's profiles.active
// key, behind whatever's already queued. Activation is a one-shot latch
// across the whole Load run, the same as the property-derived activation
// Load itself performs before the work-list loop starts: once any document
// (or the property read) has activated a batch of profiles, every later
// call is a no-op, and the first successful activation purges any
// still-queued default profile from the work-list, since a real activation
// always outranks falling back to the environment's defaults.
func (l *Loader) addActivatedProfiles(state *loadState, doc Document) {
	if doc.Activate == nil || state.activated {
		return
	}
	var fresh []*Profile
	for _, p := range doc.Activate.Profiles() {
		next := p
		fresh = append(fresh, &next)
	}
	if len(fresh) == 0 {
		return
	}
	state.worklist = append(state.worklist, fresh...)
	for _, p := range fresh {
		l.env.AddActiveProfile(p.Name)
	}
	state.activated = true
	state.removeUnprocessedDefaultProfiles()
}

// removeUnprocessedDefaultProfiles drops any still-queued default profile
// once a real activation has occurred — a default profile only ever stood
// in for "nothing else was activated", so it's stale the moment something
// else was.
func (s *loadState) removeUnprocessedDefaultProfiles() {
	kept := s.worklist[:0]
	for _, p := range s.worklist {
		if p != nil && p.Default {
			continue
		}
		kept = append(kept, p)
	}
	s.worklist = kept
}

// expandAndLoad walks every (location, name) combination for the given
// profile, loading and filtering whatever resources exist there. factory
// builds whichever DocumentFilter a given call site actually needs — a
// concrete-file match needs only the filter for profile, while extension
// expansion needs both the default (nil-profile) and profile filters to
// implement the profile-suffixed double load.
func (l *Loader) expandAndLoad(ctx context.Context, state *loadState, profile *Profile, factory DocumentFilterFactory, consume bucketConsumer) error {
	for _, location := range l.locationResolver.Locations() {
		for _, name := range l.locationResolver.Names() {
			if err := l.loadLocationNamed(ctx, state, location, name, profile, factory, consume); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadLocationNamed tries every registered extension against one
// (location, name, profile) combination. A location that already names a
// concrete file (rather than a directory) is matched directly against the
// one loader claiming its extension, with no profile suffix applied and no
// profile-suffixed double load.
func (l *Loader) loadLocationNamed(ctx context.Context, state *loadState, location, name string, profile *Profile, factory DocumentFilterFactory, consume bucketConsumer) error {
	if loader, ok := l.expander.MatchConcreteFile(location, l.sourceLoaders); ok {
		return l.loadResource(ctx, state, location, profile, loader, factory(profile), consume)
	}

	for _, cand := range l.expander.CandidateExtensions(l.sourceLoaders) {
		prefix := location + name
		if err := l.loadForExtension(ctx, state, prefix, cand.ext, profile, cand.loader, factory, consume); err != nil {
			return err
		}
	}
	return nil
}

// loadForExtension loads, for a named profile, the profile-suffixed
// resource (prefix+"-"+profile+"."+ext) under BOTH the default (nil)
// filter and the profile's own filter, then reloads every
// already-processed profile's own suffixed resource again under the
// current profile's filter, and finally loads the bare, unsuffixed
// resource (prefix+"."+ext) under the profile's filter.
//
// The default-filter pass over the profile-suffixed file exists because a
// file named "application-prod.yaml" is not implicitly scoped to "prod": an
// unprofiled document inside it (no "profiles:" key at all) must still be
// picked up, the same as it would be from a bare "application.yaml" — only
// a document that explicitly declares "profiles: prod" is filtered in by
// the profile pass instead. The reload of earlier profiles' suffixed files
// under the current filter exists because a document living in, say,
// "application-dev.yaml" can itself declare "profiles: prod", and that
// declaration must still be visible once "prod" is being processed even
// though "dev" was drained from the work-list first. Both behaviors are
// carried over verbatim from the system this loader is modeled on, and
// both lean on loadDocuments' cache: a resource already parsed once in this
// Load run is never re-read, only re-filtered.
func (l *Loader) loadForExtension(ctx context.Context, state *loadState, prefix, ext string, profile *Profile, loader PropertySourceLoader, factory DocumentFilterFactory, consume bucketConsumer) error {
	profileFilter := factory(profile)

	if profile != nil {
		profiledLocation := prefix + "-" + profile.Name + "." + ext
		defaultFilter := factory(nil)
		if err := l.loadResource(ctx, state, profiledLocation, profile, loader, defaultFilter, consume); err != nil {
			return err
		}
		if err := l.loadResource(ctx, state, profiledLocation, profile, loader, profileFilter, consume); err != nil {
			return err
		}
		for _, processed := range state.processed {
			if processed == nil {
				continue
			}
			previouslyLoaded := prefix + "-" + processed.Name + "." + ext
			if err := l.loadResource(ctx, state, previouslyLoaded, profile, loader, profileFilter, consume); err != nil {
				return err
			}
		}
	}

	plainLocation := prefix + "." + ext
	return l.loadResource(ctx, state, plainLocation, profile, loader, profileFilter, consume)
}

// loadResource resolves, reads (or reuses from cache), filters, and
// consumes one candidate resource.
func (l *Loader) loadResource(ctx context.Context, state *loadState, location string, profile *Profile, loader PropertySourceLoader, filter DocumentFilter, consume bucketConsumer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	res, err := l.resourceLoader.GetResource(location)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", location, err)
	}
	if !res.Exists() {
		l.logger.Tracef("config: skipping %s, does not exist", res.URI())
		return nil
	}

	docs, err := l.loadDocuments(loader, res)
	if err != nil {
		return err
	}

	// Deliver accepted documents in reverse order, so within one resource
	// the last YAML document ("---"-separated) wins over earlier ones when
	// both are accepted and both declare the same keys — matching the
	// precedence a later AddFirst-style insertion would give it.
	for i := len(docs) - 1; i >= 0; i-- {
		doc := docs[i]
		if !filter(doc) {
			continue
		}
		l.addActivatedProfiles(state, doc)
		l.addIncludedProfiles(state, doc)
		consume(state, profile, doc)
		l.logger.Debugf("config: loaded %s from %s", doc.Source.Name(), res.URI())
	}
	return nil
}

// loadDocuments returns the Documents parsed from res, using the cache if
// this exact (loader, resource URI) pair was already parsed earlier in
// this same Load run — which happens routinely given the double-filter
// quirk loadForExtension implements.
func (l *Loader) loadDocuments(loader PropertySourceLoader, res Resource) ([]Document, error) {
	if l.cache != nil {
		if cached, ok := l.cache.Get(loader.ID(), res.URI()); ok {
			return cached, nil
		}
	}

	sources, err := loader.Load(res.URI(), res)
	if err != nil {
		return nil, &ParseError{Location: res.URI(), Cause: err}
	}
	docs := asDocuments(sources)
	if l.cache != nil {
		l.cache.Put(loader.ID(), res.URI(), docs)
	}
	return docs, nil
}
