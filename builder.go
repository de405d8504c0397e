package hastemap

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/haste-build/hastemap/internal/crawl"
	"github.com/haste-build/hastemap/internal/extract"
	"github.com/haste-build/hastemap/internal/hcache"
	"github.com/haste-build/hastemap/internal/ignore"
	"github.com/haste-build/hastemap/pkg/logging"
)

// Builder runs the four-stage build pipeline described in spec.md §2: it
// loads the cache, crawls the file system, extracts per-file metadata in
// parallel, and persists the result, publishing the two read-only
// facades atomically when the pipeline completes. A Builder is reusable:
// Build is single-flight and (per DESIGN.md's resolution of spec.md's
// open question) latches its first failure.
type Builder struct {
	options   Options
	logger    *logging.Logger
	matcher   *ignore.Matcher
	cachePath string
	mocksRe   *regexp.Regexp

	native  crawl.Crawler
	watcher crawl.Crawler

	mu     sync.Mutex
	handle *buildHandle
}

// buildHandle is the single-flight result handle described in Design
// Note §9: created at the start of a Build call, resolved once, and
// never cleared, so repeated Build calls on a failed instance keep
// returning the same failure.
type buildHandle struct {
	done      chan struct{}
	fileStore *FileStore
	moduleMap *ModuleMap
	err       error
}

// NewBuilder validates options and constructs a Builder. It performs no
// I/O; the cache is not touched until Build is called.
func NewBuilder(options Options, logger *logging.Logger) (*Builder, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	matcher, err := ignore.New(options.IgnorePattern, options.ExtraIgnoreGlobs, options.ProvidesModuleNodeModules, options.RetainAllFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore configuration: %w", err)
	}

	cachePath := hcache.Path(options.CacheDirectory, options.Name, options.Roots, options.Extensions, options.Platforms, options.MocksPattern)

	var mocksRe *regexp.Regexp
	if options.MocksPattern != "" {
		// Validate already confirmed this compiles.
		mocksRe = regexp.MustCompile(options.MocksPattern)
	}

	return &Builder{
		options:   options,
		logger:    logger,
		matcher:   matcher,
		cachePath: cachePath,
		mocksRe:   mocksRe,
		native:    crawl.NewNative(),
		watcher:   crawl.NewWatched(),
	}, nil
}

// CachePath returns the deterministic cache file path this builder reads
// from and writes to.
func (b *Builder) CachePath() string {
	return b.cachePath
}

// Build runs the pipeline if it hasn't already run on this instance, or
// waits for and returns the result of an in-flight or completed run
// (spec.md §5: "single-flight per instance").
func (b *Builder) Build() (*FileStore, *ModuleMap, error) {
	b.mu.Lock()
	if b.handle != nil {
		h := b.handle
		b.mu.Unlock()
		<-h.done
		return h.fileStore, h.moduleMap, h.err
	}

	h := &buildHandle{done: make(chan struct{})}
	b.handle = h
	b.mu.Unlock()

	fileStore, moduleMap, err := b.run()
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	h.fileStore, h.moduleMap, h.err = fileStore, moduleMap, err
	close(h.done)

	return fileStore, moduleMap, err
}

// run executes the four pipeline stages in sequence. It is only ever
// invoked once per Builder, from the single-flight entry point in Build.
func (b *Builder) run() (*FileStore, *ModuleMap, error) {
	// Stage 1: cache loader.
	var prior *HasteMap
	if b.options.ResetCache {
		prior = NewHasteMap()
	} else {
		loaded, err := hcache.Load(b.cachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load cache: %w", err)
		}
		prior = loaded
	}

	// Stage 2: crawler dispatch.
	crawled, err := crawl.Dispatch(
		b.native, b.watcher,
		b.options.UseWatchman,
		b.options.Roots, b.options.Extensions,
		b.matcher.Match,
		prior,
		b.logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("crawl failed: %w", err)
	}

	// Stage 3: metadata builder.
	extractor := b.newExtractor()
	defer extractor.Close()

	built, err := b.buildMetadata(crawled, prior, extractor)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata build failed: %w", err)
	}

	if err := built.EnsureValid(); err != nil {
		return nil, nil, fmt.Errorf("built map failed validation: %w", err)
	}

	// Stage 4: persister.
	if err := hcache.Persist(b.cachePath, built, b.logger); err != nil {
		return nil, nil, fmt.Errorf("unable to persist cache: %w", err)
	}

	return newFileStore(built.Files), newModuleMap(built.Map, built.Mocks), nil
}

// newExtractor selects the in-process or process-pool extractor per
// spec.md §4.4, based on MaxWorkers.
func (b *Builder) newExtractor() extract.Extractor {
	if b.options.MaxWorkers <= 1 {
		return extract.NewInline(b.options.InlineExtractor)
	}
	return extract.NewPool(b.options.ExtractorCommand, b.options.MaxWorkers, b.logger)
}

// buildMetadata implements stage 3 (spec.md §4.3): it walks files in a
// stable, sorted order (so that collision tie-breaking is reproducible
// per P5), skips files whose prior extraction is still valid, dispatches
// everything else to the extractor, and folds results into fresh map and
// mocks tables via the collision-checked installer.
func (b *Builder) buildMetadata(crawled, prior *HasteMap, extractor extract.Extractor) (*HasteMap, error) {
	result := NewHasteMap()
	result.Clocks = crawled.Clocks
	result.Files = crawled.Files

	paths := make([]string, 0, len(crawled.Files))
	for path := range crawled.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	installer := newInstaller(result.Map, b.options.Platforms, b.options.collisionPolicy(), b.logger)

	type pending struct {
		path   string
		future extract.Future
	}
	var inflight []pending

	for _, path := range paths {
		record := result.Files[path]

		// Step 1 (spec.md §4.3): retainAllFiles keeps node_modules files
		// in the files table but they contribute nothing else — no mocks
		// entry, no extraction.
		if b.options.RetainAllFiles && b.matcher.UnderNodeModules(path) {
			continue
		}

		if b.mocksRe != nil && b.mocksRe.MatchString(path) {
			result.Mocks[MockStem(path)] = path
		}

		if record.Visited {
			if record.ID == "" {
				continue
			}
			if platforms, ok := prior.Map[record.ID]; ok {
				result.Map[record.ID] = platforms
				continue
			}
		}

		inflight = append(inflight, pending{path: path, future: extractor.Extract(path)})
	}

	for _, p := range inflight {
		extracted, err := p.future.Wait()
		if err != nil {
			// Per-file extraction failure: drop the file and continue
			// (spec.md §7).
			delete(result.Files, p.path)
			b.logger.Warnf("dropping %q after extraction failure: %s", p.path, err.Error())
			continue
		}

		record := result.Files[p.path]
		record.Visited = true
		record.ID = extracted.ID
		record.Dependencies = extracted.Dependencies

		if extracted.Module != nil {
			if err := installer.install(extracted.ID, extracted.Module); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}
