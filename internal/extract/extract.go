// Package extract implements the worker orchestration described in
// spec.md §4.4: a single extract(path) -> future of WorkerResult
// function backed either by an in-process extractor or a pool of
// extractor subprocesses.
package extract

import (
	"fmt"

	hastemap "github.com/haste-build/hastemap"
)

// Result mirrors the WorkerResult shape from spec.md §4.4: either both ID
// and Module are present, or both are absent.
type Result struct {
	ID           string
	Module       *hastemap.ModuleRef
	Dependencies []string
}

// Future is a deferred WorkerResult, returned immediately by Extractor.Extract
// so that the metadata builder can fan out many requests before waiting on
// any of them.
type Future interface {
	// Wait blocks until the extraction completes and returns its result or
	// error. It may be called at most once.
	Wait() (Result, error)
}

// Extractor is the builder's view of worker orchestration, implemented by
// both Inline and Pool.
type Extractor interface {
	// Extract submits path for metadata extraction and returns a future
	// for its result.
	Extract(path string) Future

	// Close tears down the extractor. It must tolerate being called on an
	// extractor that was never used, and must be idempotent.
	Close() error
}

// immediateFuture wraps an already-computed result, used by Inline since
// in-process extraction has no reason to defer work to a background
// goroutine.
type immediateFuture struct {
	result Result
	err    error
}

func (f immediateFuture) Wait() (Result, error) {
	return f.result, f.err
}

// Func is the signature of an in-process extraction routine: parse path
// and return its declared module id (if any), module descriptor (if any),
// and dependency list. It is the in-process analog of the out-of-process
// extractor binary described in spec.md §6.
type Func func(path string) (id string, module *hastemap.ModuleRef, dependencies []string, err error)

// Inline is the in-process Extractor, used when the configured worker
// count is at most 1 (spec.md §4.4: "directly invokes the extractor").
type Inline struct {
	fn Func
}

// NewInline creates an in-process extractor around fn.
func NewInline(fn Func) *Inline {
	return &Inline{fn: fn}
}

// Extract implements Extractor.Extract.
func (i *Inline) Extract(path string) Future {
	id, module, dependencies, err := i.fn(path)
	if err != nil {
		return immediateFuture{err: fmt.Errorf("extraction failed for %q: %w", path, err)}
	}
	return immediateFuture{result: Result{ID: id, Module: module, Dependencies: dependencies}}
}

// Close implements Extractor.Close. Inline owns no resources.
func (i *Inline) Close() error {
	return nil
}
