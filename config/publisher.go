package config

// PublishLoadedBuckets inserts the sources accumulated in buckets into env,
// in reverse bucket order (the profile processed last is published first,
// ending up highest precedence among the file-derived layers) and, within
// a bucket, in the order its sources were added.
//
// The first source published is inserted immediately before a
// DefaultPropertiesSourceName entry if one exists in env, or appended at
// the very end otherwise. Every subsequent source is inserted immediately
// after the previous one this call published, so the whole run of
// file-derived sources ends up contiguous and in the intended order.
func PublishLoadedBuckets(env *Environment, buckets []bucket) {
	reversed := make([]bucket, len(buckets))
	for i, b := range buckets {
		reversed[len(buckets)-1-i] = b
	}

	var lastAdded string
	added := map[string]bool{}
	for _, b := range reversed {
		for _, src := range b.sources {
			if added[src.Name()] {
				continue
			}
			added[src.Name()] = true
			if lastAdded == "" {
				if env.Contains(DefaultPropertiesSourceName) {
					env.AddBefore(DefaultPropertiesSourceName, src)
				} else {
					env.AddLast(src)
				}
			} else {
				env.AddAfter(lastAdded, src)
			}
			lastAdded = src.Name()
		}
	}
}

// ReorderDefaultProperties re-appends the DefaultPropertiesSourceName entry
// at the very end of env, if present. This is the analog of the original
// system's post-refresh bean factory step that keeps hardcoded defaults
// last regardless of where file-derived sources were inserted relative to
// it during loading.
func ReorderDefaultProperties(env *Environment) {
	if src := env.Remove(DefaultPropertiesSourceName); src != nil {
		env.AddLast(src)
	}
}
