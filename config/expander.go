package config

import "strings"

// extCandidate pairs a file extension with the loader registered for it.
type extCandidate struct {
	ext    string
	loader PropertySourceLoader
}

// FileExpander is the pure, side-effect-free half of file discovery: given
// a prefix it names the candidate (extension, loader) pairs to try, and
// given a concrete (non-folder) location it matches the one loader that
// claims its extension. It does not touch the filesystem — Resource
// existence checks happen in the Loader.
type FileExpander struct{}

// NewFileExpander returns a FileExpander.
func NewFileExpander() *FileExpander { return &FileExpander{} }

// CandidateExtensions returns the deduplicated (first-loader-wins) set of
// (extension, loader) pairs across loaders, preserving loader registration
// order. Two loaders claiming the same extension is a misconfiguration; the
// first one registered wins silently, matching how a Set<String> dedupe in
// the reference algorithm this is grounded on behaves.
func (e *FileExpander) CandidateExtensions(loaders []PropertySourceLoader) []extCandidate {
	seen := map[string]bool{}
	var out []extCandidate
	for _, l := range loaders {
		for _, ext := range l.FileExtensions() {
			if seen[ext] {
				continue
			}
			seen[ext] = true
			out = append(out, extCandidate{ext: ext, loader: l})
		}
	}
	return out
}

// MatchConcreteFile finds the loader whose extension matches a location
// that already names a specific file (not a folder), by suffix.
func (e *FileExpander) MatchConcreteFile(location string, loaders []PropertySourceLoader) (PropertySourceLoader, bool) {
	lower := strings.ToLower(location)
	for _, l := range loaders {
		for _, ext := range l.FileExtensions() {
			if strings.HasSuffix(lower, "."+ext) {
				return l, true
			}
		}
	}
	return nil, false
}
