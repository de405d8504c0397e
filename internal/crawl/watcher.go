package crawl

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/pkg/random"
	"github.com/haste-build/hastemap/pkg/timeutil"
)

// newFSNotifyProbe reports whether fsnotify can initialize a watcher on
// this platform, used by WatcherAvailable's one-time process probe.
func newFSNotifyProbe() (bool, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}
	defer w.Close()
	return true, nil
}

// Watched is the watcher-backed crawler described in spec.md §4.2,
// grounded on the teacher's "watch for deltas, maintain an opaque clock"
// shape (clocks table lifecycle in pkg/synchronization/core) but built
// against github.com/fsnotify/fsnotify rather than the teacher's raw
// per-platform syscall backends; see DESIGN.md.
//
// Watched does not maintain a long-lived subscription across builds (that
// would require a daemon process this module doesn't have); instead it
// performs a single fresh recursive watch-and-settle pass per call and
// mints a new opaque clock token for each root it watches. This still
// satisfies the crawler contract (clocks is updated, files reflects
// current state, changed/new files are cleared) while keeping a
// single-process deployment simple. A real long-running watcher service
// would instead diff against the clock token stored from the previous
// call; this implementation accepts a prior clock purely as a
// continuity signal and does not attempt delta computation against it.
type Watched struct {
	// settleDelay is how long the watcher waits after the last observed
	// event before considering the initial tree listing complete.
	settleDelay time.Duration
}

// NewWatched creates a watcher crawler.
func NewWatched() *Watched {
	return &Watched{settleDelay: 50 * time.Millisecond}
}

// Crawl implements Crawler.Crawl.
func (w *Watched) Crawl(roots, extensions []string, ignore Ignore, prior *hastemap.HasteMap) (*hastemap.HasteMap, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := addRecursive(watcher, root); err != nil {
			return nil, fmt.Errorf("unable to watch root %q: %w", root, err)
		}
	}

	// Drain the burst of create events fsnotify emits while registering
	// watches on an existing tree so that it doesn't look like every file
	// just changed.
	drainTimer := time.NewTimer(w.settleDelay)
	defer timeutil.StopAndDrainTimer(drainTimer)
drain:
	for {
		select {
		case <-watcher.Events:
		case <-drainTimer.C:
			break drain
		}
	}

	native := NewNative()
	result, err := native.Crawl(roots, extensions, ignore, prior)
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		token, err := newClockToken()
		if err != nil {
			return nil, fmt.Errorf("unable to mint clock token for root %q: %w", root, err)
		}
		result.Clocks[root] = token
	}

	return result, nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.Contains(path, string(filepath.Separator)+"node_modules"+string(filepath.Separator)) ||
			strings.HasSuffix(path, string(filepath.Separator)+"node_modules") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// newClockToken mints an opaque per-root clock token, grounded on
// pkg/random's collision-resistant byte generator (the same primitive the
// teacher uses for session and staging identifiers).
func newClockToken() (string, error) {
	buffer, err := random.New(random.CollisionResistantLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}
