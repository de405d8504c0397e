package crawl

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	hastemap "github.com/haste-build/hastemap"
)

// Native is the directory-walking crawler, grounded on the teacher's
// recursive scanner (pkg/synchronization/core/scan.go): walk each root,
// stat every candidate, normalize the filename to NFC so that
// decomposing filesystems (notably HFS+) don't produce spurious
// mtime-driven re-extractions for a file whose name only differs by
// Unicode normalization form, and compare against the prior record.
type Native struct{}

// NewNative creates a native crawler.
func NewNative() *Native {
	return &Native{}
}

// Crawl implements Crawler.Crawl.
func (n *Native) Crawl(roots, extensions []string, ignore Ignore, prior *hastemap.HasteMap) (*hastemap.HasteMap, error) {
	extensionSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extensionSet[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	seen := make(map[string]struct{})
	files := make(map[string]*hastemap.FileRecord)

	for _, root := range roots {
		if err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				// A root or intermediate directory that vanished mid-walk
				// (or is unreadable) is not fatal to the whole crawl; skip
				// it the way the metadata builder treats a per-file read
				// failure (spec.md §7): recoverable, not fatal.
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.IsDir() {
				return nil
			}

			normalized := norm.NFC.String(path)

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(normalized), "."))
			if _, ok := extensionSet[ext]; !ok {
				return nil
			}

			if ignore(normalized) {
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				return nil
			}

			seen[normalized] = struct{}{}

			mtime := info.ModTime().UnixNano()
			if existing, ok := prior.Files[normalized]; ok && existing.ModTime == mtime {
				files[normalized] = existing
				return nil
			}

			files[normalized] = &hastemap.FileRecord{ModTime: mtime}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("unable to walk root %q: %w", root, err)
		}
	}

	// Prune any previously-known file that no longer appears on disk
	// (spec.md §4.2: "removed files deleted").
	for path := range prior.Files {
		if _, ok := seen[path]; ok {
			continue
		}
		delete(files, path)
	}

	result := hastemap.NewHasteMap()
	result.Files = files

	// clocks is untouched by the native crawler; carry through whatever
	// the watcher last recorded so a later watcher run can resume from
	// it.
	for root, clock := range prior.Clocks {
		result.Clocks[root] = clock
	}

	return result, nil
}

// sortedPaths returns the keys of files in sorted order, the stable
// file-iteration order that spec.md's P5 relies on (collision
// tie-breaking is a pure function of a stable iteration order over
// files). Nothing in this package or its tests calls it.
func sortedPaths(files map[string]*hastemap.FileRecord) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
