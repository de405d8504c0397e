// Package ignore implements the crawl-time include/exclude predicate
// described in spec.md §4.2: a path is excluded if it matches the
// configured ignore pattern, or if it lies under a node_modules segment
// and isn't on the node_modules whitelist.
package ignore

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// nodeModulesSegment is the path component that triggers whitelist
// checking. Paths are split on forward slashes only; the crawlers pass
// paths with the operating system's separator (NFC-normalized, not
// converted to forward slashes), so on Windows this segment is not found.
const nodeModulesSegment = "node_modules"

// Matcher decides whether a crawled path should be excluded from a
// HasteMap build. It's grounded on the teacher's ignorer type
// (pkg/synchronization/core/ignore.go), generalized from gitignore-style
// negatable patterns to the simpler "one required regexp plus optional
// supplementary globs" shape spec.md calls for, and extended with the
// node_modules whitelist spec.md §4.2 requires.
type Matcher struct {
	ignorePattern  *regexp.Regexp
	extraGlobs     []string
	whitelist      map[string]struct{}
	retainAllFiles bool
}

// New compiles a Matcher from the configuration values spec.md §7
// describes. ignorePattern may be empty (no regexp exclusion). extraGlobs
// are doublestar patterns supplementing ignorePattern; an invalid glob is
// rejected the same way newIgnorePattern rejects an unparsable pattern in
// the teacher's ignore.go.
func New(ignorePattern string, extraGlobs []string, nodeModulesWhitelist []string, retainAllFiles bool) (*Matcher, error) {
	var compiled *regexp.Regexp
	if ignorePattern != "" {
		re, err := regexp.Compile(ignorePattern)
		if err != nil {
			return nil, fmt.Errorf("unable to compile ignore pattern: %w", err)
		}
		compiled = re
	}

	for _, glob := range extraGlobs {
		if _, err := doublestar.Match(glob, "a"); err != nil {
			return nil, fmt.Errorf("unable to validate ignore glob %q: %w", glob, err)
		}
	}

	whitelist := make(map[string]struct{}, len(nodeModulesWhitelist))
	for _, name := range nodeModulesWhitelist {
		whitelist[name] = struct{}{}
	}

	return &Matcher{
		ignorePattern:  compiled,
		extraGlobs:     append([]string(nil), extraGlobs...),
		whitelist:      whitelist,
		retainAllFiles: retainAllFiles,
	}, nil
}

// Match reports whether p (an absolute, forward-slash-separated path)
// should be excluded from the haste map.
func (m *Matcher) Match(p string) bool {
	if m.ignorePattern != nil && m.ignorePattern.MatchString(p) {
		return true
	}

	for _, glob := range m.extraGlobs {
		if match, _ := doublestar.Match(glob, p); match {
			return true
		}
		if match, _ := doublestar.Match(glob, path.Base(p)); match {
			return true
		}
	}

	if !m.retainAllFiles && m.underUnwhitelistedNodeModules(p) {
		return true
	}

	return false
}

// UnderNodeModules reports whether p has a node_modules path segment,
// regardless of whitelist status. The metadata builder uses this (rather
// than Match) to decide whether to skip dependency extraction for a file
// that retainAllFiles kept around (spec.md §4.3 step 1).
func (m *Matcher) UnderNodeModules(p string) bool {
	_, ok := nodeModulesPackage(p)
	return ok
}

func (m *Matcher) underUnwhitelistedNodeModules(p string) bool {
	name, ok := nodeModulesPackage(p)
	if !ok {
		return false
	}
	_, whitelisted := m.whitelist[name]
	return !whitelisted
}

// nodeModulesPackage returns the package name immediately following a
// node_modules segment in p, if any. For a scoped package
// (node_modules/@scope/name/...) the returned name includes the scope
// prefix, matching how providesModuleNodeModules entries are expected to
// be written.
func nodeModulesPackage(p string) (string, bool) {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		if segment != nodeModulesSegment {
			continue
		}
		if i+1 >= len(segments) {
			return "", false
		}
		name := segments[i+1]
		if strings.HasPrefix(name, "@") && i+2 < len(segments) {
			name = name + "/" + segments[i+2]
		}
		return name, true
	}
	return "", false
}
