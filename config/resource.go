package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resource is a handle to a candidate configuration file that may or may
// not exist. Existence is checked lazily and separately from reading so
// callers can skip missing candidates without treating them as errors.
type Resource interface {
	Exists() bool
	Filename() string
	URI() string
	ReadAll() ([]byte, error)
}

// ResourceLoader resolves a location string (e.g. "file:./config/",
// "classpath:/application.yml") into a Resource.
type ResourceLoader interface {
	GetResource(location string) (Resource, error)
}

type fileResource struct{ path string }

func (f *fileResource) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}
func (f *fileResource) Filename() string    { return filepath.Base(f.path) }
func (f *fileResource) URI() string         { return "file:" + f.path }
func (f *fileResource) ReadAll() ([]byte, error) { return os.ReadFile(f.path) }

type classpathResource struct {
	fsys fs.FS
	path string
}

func (c *classpathResource) Exists() bool {
	if c.fsys == nil {
		return false
	}
	info, err := fs.Stat(c.fsys, c.path)
	return err == nil && !info.IsDir()
}
func (c *classpathResource) Filename() string { return filepath.Base(c.path) }
func (c *classpathResource) URI() string      { return "classpath:" + c.path }
func (c *classpathResource) ReadAll() ([]byte, error) {
	return fs.ReadFile(c.fsys, c.path)
}

type missingResource struct{ uri string }

func (m *missingResource) Exists() bool                { return false }
func (m *missingResource) Filename() string            { return "" }
func (m *missingResource) URI() string                 { return m.uri }
func (m *missingResource) ReadAll() ([]byte, error) { return nil, os.ErrNotExist }

// DefaultResourceLoader resolves "file:" and "classpath:" locations.
// Classpath locations are served from an embedded fs.FS (nil by default,
// in which case every classpath: lookup reports not-exists rather than
// erroring, matching how an empty embed.FS behaves for an app that ships
// no embedded defaults).
type DefaultResourceLoader struct {
	Classpath fs.FS
}

func NewDefaultResourceLoader(classpath fs.FS) *DefaultResourceLoader {
	return &DefaultResourceLoader{Classpath: classpath}
}

func (l *DefaultResourceLoader) GetResource(location string) (Resource, error) {
	switch {
	case strings.HasPrefix(location, "classpath:"):
		p := strings.TrimPrefix(location, "classpath:")
		p = strings.TrimPrefix(p, "/")
		if l.Classpath == nil || p == "" {
			return &missingResource{uri: location}, nil
		}
		return &classpathResource{fsys: l.Classpath, path: p}, nil
	case strings.HasPrefix(location, "file:"):
		return &fileResource{path: strings.TrimPrefix(location, "file:")}, nil
	default:
		return &fileResource{path: location}, nil
	}
}
