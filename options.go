package hastemap

import (
	"fmt"
	"regexp"

	"github.com/haste-build/hastemap/internal/extract"
)

// CollisionPolicy selects what the module installer does when two distinct
// paths declare the same (id, platform) pair (spec.md §4.3, §7).
type CollisionPolicy uint8

const (
	// CollisionWarn keeps the first-installed path and logs a warning.
	CollisionWarn CollisionPolicy = iota
	// CollisionThrow aborts the build with a CollisionError.
	CollisionThrow
)

// Options is the constructor surface enumerated in spec.md §6. It is a
// plain struct with a Validate method, following the teacher's
// configuration idiom (pkg/synchronization/Configuration-style option
// structs assembled from CLI flags or a TOML file; see
// pkg/encoding.LoadAndUnmarshalTOML and cmd/hastemap).
type Options struct {
	// Name is the logical project name used in the cache file name.
	Name string
	// Roots are the starting directories for the crawl.
	Roots []string
	// Extensions is the whitelist of file extensions (without the leading
	// dot) to include.
	Extensions []string
	// Platforms are the recognized platform tokens for extension parsing
	// (e.g. "ios", "android").
	Platforms []string
	// CacheDirectory is the directory under which the cache file is
	// placed. Defaults to os.TempDir() if empty.
	CacheDirectory string
	// IgnorePattern is a regular expression matched against absolute
	// paths; matching paths are excluded from the crawl.
	IgnorePattern string
	// ExtraIgnoreGlobs supplements IgnorePattern with gitignore-style glob
	// patterns, matched the way the teacher's ignorer matches patterns
	// (full path, or base name for slash-free patterns). This is an
	// enrichment beyond spec.md's single regex option.
	ExtraIgnoreGlobs []string
	// MocksPattern is a regular expression identifying mock files; its
	// match's base name (minus extension) becomes a mocks-table stem.
	MocksPattern string
	// ProvidesModuleNodeModules whitelists node_modules package names
	// that should not be excluded by the node_modules ignore rule.
	ProvidesModuleNodeModules []string
	// RetainAllFiles keeps node_modules files in the files table but
	// skips extraction for them.
	RetainAllFiles bool
	// MaxWorkers bounds the extractor process pool. A value <= 1 selects
	// the in-process extractor.
	MaxWorkers int
	// ExtractorCommand is the path (and optional arguments) of the
	// extractor binary the process pool spawns. Ignored when
	// MaxWorkers <= 1.
	ExtractorCommand []string
	// ThrowOnModuleCollision selects the collision policy.
	ThrowOnModuleCollision bool
	// UseWatchman permits the watcher crawler, subject to a runtime
	// availability probe (internal/crawl.WatcherAvailable).
	UseWatchman bool
	// ResetCache bypasses the cache read and starts from an empty map.
	ResetCache bool
	// InlineExtractor is the in-process extraction routine used when
	// MaxWorkers <= 1. It is the caller-supplied implementation of the
	// out-of-scope "metadata extractor" collaborator described in
	// spec.md §1/§6; hastemap itself only orchestrates calls to it.
	InlineExtractor extract.Func
}

// Validate checks the option surface for internal consistency. It does not
// touch the filesystem.
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("name must be specified")
	}
	if len(o.Roots) == 0 {
		return fmt.Errorf("at least one root must be specified")
	}
	if len(o.Extensions) == 0 {
		return fmt.Errorf("at least one extension must be specified")
	}
	if o.IgnorePattern != "" {
		if _, err := regexp.Compile(o.IgnorePattern); err != nil {
			return fmt.Errorf("invalid ignore pattern: %w", err)
		}
	}
	if o.MocksPattern != "" {
		if _, err := regexp.Compile(o.MocksPattern); err != nil {
			return fmt.Errorf("invalid mocks pattern: %w", err)
		}
	}
	for _, g := range o.ExtraIgnoreGlobs {
		if g == "" {
			return fmt.Errorf("empty ignore glob")
		}
	}
	if o.MaxWorkers <= 1 {
		if o.InlineExtractor == nil {
			return fmt.Errorf("an inline extractor is required when maxWorkers <= 1")
		}
	} else if len(o.ExtractorCommand) == 0 {
		return fmt.Errorf("an extractor command is required when maxWorkers > 1")
	}
	return nil
}

// collisionPolicy converts the boolean option field into the CollisionPolicy
// enum used internally.
func (o *Options) collisionPolicy() CollisionPolicy {
	if o.ThrowOnModuleCollision {
		return CollisionThrow
	}
	return CollisionWarn
}
