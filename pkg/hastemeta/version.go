package hastemeta

import "fmt"

const (
	// VersionMajor represents the current major version of the builder.
	VersionMajor = 0
	// VersionMinor represents the current minor version of the builder.
	VersionMinor = 1
	// VersionPatch represents the current patch version of the builder.
	VersionPatch = 0
)

// Version is the builder's dotted version string. It is one of the tokens
// folded into the cache path (spec.md §4.1: "a version token of the
// builder... any change... produces a distinct path"), so that a binary
// upgrade never reads a cache written in an incompatible layout.
var Version string

func init() {
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
