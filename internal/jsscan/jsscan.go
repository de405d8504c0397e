// Package jsscan implements the regex-based dependency and module-id
// scanner used by the reference extractor binary (cmd/hastemap-extractor).
// It recognizes two declaration forms: a package.json manifest's "name"
// field (kind = package) and a leading "@providesModule <name>" docblock
// comment (kind = module). Dependencies are recovered from the common
// require(...) and import/export ... from '...' surface syntax. This is
// a small, deliberately non-exhaustive scanner, not a language-aware
// parser.
package jsscan

import (
	"encoding/json"
	"path/filepath"
	"regexp"

	hastemap "github.com/haste-build/hastemap"
)

var (
	providesModulePattern = regexp.MustCompile(`@providesModule\s+(\S+)`)
	requirePattern        = regexp.MustCompile(`\brequire(?:\.resolve)?\(\s*['"]([^'"]+)['"]\s*\)`)
	importPattern         = regexp.MustCompile(`\bimport(?:\s+type)?(?:[^'"]*\bfrom)?\s*['"]([^'"]+)['"]`)
	exportFromPattern     = regexp.MustCompile(`\bexport(?:[^'"]*\bfrom)?\s*['"]([^'"]+)['"]`)
	dynamicImportPattern  = regexp.MustCompile(`\bimport\(\s*['"]([^'"]+)['"]\s*\)`)
)

type packageManifest struct {
	Name string `json:"name"`
}

// Scan extracts the module declaration and dependency list for a single
// file. path is used only to recognize package.json manifests; contents
// is the file's full text.
func Scan(path string, contents []byte) (id string, kind hastemap.ModuleKind, dependencies []string, err error) {
	if filepath.Base(path) == "package.json" {
		var manifest packageManifest
		if err := json.Unmarshal(contents, &manifest); err != nil {
			return "", 0, nil, err
		}
		return manifest.Name, hastemap.ModuleKindPackage, nil, nil
	}

	if match := providesModulePattern.FindSubmatch(contents); match != nil {
		id = string(match[1])
		kind = hastemap.ModuleKindModule
	}

	dependencies = scanDependencies(contents)

	return id, kind, dependencies, nil
}

// scanDependencies collects every distinct dependency specifier referenced
// via require(...), import ... from '...', export ... from '...', or a
// dynamic import(...), in first-seen order.
func scanDependencies(contents []byte) []string {
	seen := make(map[string]struct{})
	var dependencies []string

	add := func(matches [][]byte) {
		for _, m := range matches {
			specifier := string(m)
			if _, ok := seen[specifier]; ok {
				continue
			}
			seen[specifier] = struct{}{}
			dependencies = append(dependencies, specifier)
		}
	}

	for _, pattern := range []*regexp.Regexp{requirePattern, importPattern, exportFromPattern, dynamicImportPattern} {
		for _, match := range pattern.FindAllSubmatch(contents, -1) {
			add([][]byte{match[1]})
		}
	}

	return dependencies
}
