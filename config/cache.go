package config

import lru "github.com/hashicorp/golang-lru/v2"

// DocumentCache memoizes the Documents parsed from a (loader, resource)
// pair so that a resource which is consulted under multiple filters during
// a single load — the profile-specific file is always parsed once but
// filtered twice, see Loader.loadForExtension — is only read and decoded
// from disk a single time.
type DocumentCache struct {
	cache *lru.Cache[string, []Document]
}

// NewDocumentCache returns a cache holding up to size (loader, resource)
// entries. A non-positive size falls back to a reasonable default.
func NewDocumentCache(size int) *DocumentCache {
	if size <= 0 {
		size = 512
	}
	c, _ := lru.New[string, []Document](size)
	return &DocumentCache{cache: c}
}

func cacheKey(loaderID, resourceURI string) string {
	return loaderID + "::" + resourceURI
}

// Get returns the cached documents for loaderID/resourceURI, if present.
func (c *DocumentCache) Get(loaderID, resourceURI string) ([]Document, bool) {
	return c.cache.Get(cacheKey(loaderID, resourceURI))
}

// Put stores docs for loaderID/resourceURI, evicting the least-recently-used
// entry if the cache is full.
func (c *DocumentCache) Put(loaderID, resourceURI string, docs []Document) {
	c.cache.Add(cacheKey(loaderID, resourceURI), docs)
}
