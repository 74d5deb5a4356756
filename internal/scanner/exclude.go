package scanner

import (
	"path"
	"strings"
)

// Matcher skips entries by relative path. A pattern ending in "/" matches a
// directory and everything below it; patterns with glob characters match the
// full relative path or the base name; anything else matches a path prefix
// or a file base name.
type Matcher struct {
	patterns []string
}

// NewMatcher builds a matcher; blank patterns are ignored
func NewMatcher(patterns []string) *Matcher {
	var cleaned []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) == 0 {
		return nil
	}
	return &Matcher{patterns: cleaned}
}

// IsExcluded reports whether relPath (slash separated, relative to the
// scanned root) should be left out of the total
func (m *Matcher) IsExcluded(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	relPath = strings.TrimPrefix(relPath, "./")
	for _, p := range m.patterns {
		if strings.HasSuffix(p, "/") {
			dirPattern := strings.TrimSuffix(p, "/")
			if relPath == dirPattern || strings.HasPrefix(relPath, dirPattern+"/") {
				return true
			}
			continue
		}
		if strings.ContainsAny(p, "*?[]") {
			if ok, _ := path.Match(p, relPath); ok {
				return true
			}
			if ok, _ := path.Match(p, path.Base(relPath)); ok {
				return true
			}
			continue
		}
		if relPath == p || strings.HasPrefix(relPath, p+"/") {
			return true
		}
		if !isDir && path.Base(relPath) == p {
			return true
		}
	}
	return false
}
