package hastemap

import (
	"errors"
	"fmt"
)

// errNilHasteMap is returned by EnsureValid for a nil map.
var errNilHasteMap = errors.New("nil haste map")

// ErrBuildFailed wraps every error Build returns, so callers can detect
// pipeline failure generically via errors.Is(err, ErrBuildFailed) without
// switching on the specific stage that failed.
var ErrBuildFailed = errors.New("haste map build failed")

// invariantError reports a violation of one of the HasteMap invariants
// I1-I5 documented in spec.md §3.
type invariantError struct {
	invariant string
	message   string
}

func newInvariantError(invariant, format string, args ...interface{}) error {
	return &invariantError{invariant: invariant, message: fmt.Sprintf(format, args...)}
}

func (e *invariantError) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.invariant, e.message)
}

// CollisionError indicates that two distinct files were found to declare
// the same (id, platform) pair and the builder's collision policy is set
// to throw (spec.md §4.3, "Module installer").
type CollisionError struct {
	ID       string
	Platform string
	Existing string
	New      string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"module naming collision: %q (platform %q) is provided by both %q and %q",
		e.ID, e.Platform, e.Existing, e.New,
	)
}

// CrawlError wraps the combined failure of both the watcher crawler and
// the native retry (spec.md §7, "Native crawler failure... Fatal: reject
// build with combined message").
type CrawlError struct {
	WatcherErr error
	NativeErr  error
}

func (e *CrawlError) Error() string {
	if e.WatcherErr != nil {
		return fmt.Sprintf("watcher crawl failed (%v) and native retry failed (%v)", e.WatcherErr, e.NativeErr)
	}
	return fmt.Sprintf("native crawl failed: %v", e.NativeErr)
}

func (e *CrawlError) Unwrap() error {
	return e.NativeErr
}
