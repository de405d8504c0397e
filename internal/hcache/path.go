// Package hcache derives the on-disk cache path for a HasteMap build and
// implements the load/persist codec described in spec.md §4.1 and §4.5.
package hcache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/haste-build/hastemap/pkg/hastemeta"
)

// nonWordRune matches any rune that isn't a word character, used to
// sanitize the project name the way spec.md §4.1 requires ("non-word
// characters replaced by -").
var nonWordRune = regexp.MustCompile(`\W+`)

// sanitizeName replaces runs of non-word characters in name with a single
// hyphen, mirroring the teacher's sanitization of session/staging names
// (pkg/local/paths.go's cacheName construction, generalized to arbitrary
// project names rather than a fixed session identifier).
func sanitizeName(name string) string {
	return nonWordRune.ReplaceAllString(name, "-")
}

// Path computes the deterministic cache file path for the given
// configuration tuple, grounded on pkg/local/paths.go's pathForCache and
// pkg/filesystem/paths.go's Mutagen() (subdirectory-under-base-dir,
// generalized here to an arbitrary caller-supplied cache directory rather
// than a fixed per-user data directory). Per spec.md §4.1, any change to
// roots, extensions, platforms, name, or mocksPattern yields a distinct
// path; the builder version is folded in as well so that an incompatible
// on-disk layout is never read by a newer binary.
func Path(cacheDirectory, name string, roots, extensions, platforms []string, mocksPattern string) string {
	if cacheDirectory == "" {
		cacheDirectory = os.TempDir()
	}

	tokens := strings.Join([]string{
		strings.Join(roots, "|"),
		strings.Join(extensions, "|"),
		strings.Join(platforms, "|"),
		mocksPattern,
		hastemeta.Version,
	}, "\x00")

	sum := md5.Sum([]byte(tokens))
	digest := hex.EncodeToString(sum[:])

	fileName := fmt.Sprintf("%s-%s", sanitizeName(name), digest)
	return filepath.Join(cacheDirectory, fileName)
}
