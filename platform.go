package hastemap

import (
	"path/filepath"
	"strings"
)

// ExtractPlatform inspects the double-extension form Name.<platform>.<ext>
// and returns <platform> if it's one of the configured platform tokens,
// otherwise GenericPlatform. "Name.ios.js" with platforms = ["ios",
// "android"] yields "ios"; "Name.js" or "Name.potato.js" (an
// unrecognized token) both yield GenericPlatform.
func ExtractPlatform(path string, platforms []string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	withoutExt := strings.TrimSuffix(base, ext)

	secondExt := filepath.Ext(withoutExt)
	if secondExt == "" {
		return GenericPlatform
	}
	token := strings.TrimPrefix(secondExt, ".")

	for _, platform := range platforms {
		if platform == token {
			return token
		}
	}
	return GenericPlatform
}

// MockStem computes the mocks-table key for a path: its base name minus
// its final extension (spec.md §4.3: "basename_without_extension(p)").
func MockStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}
