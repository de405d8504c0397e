// Command hastemap-extractor is the reference out-of-process worker
// described in spec.md §6: it reads length-prefixed JSON extraction
// requests on standard input and writes length-prefixed JSON responses on
// standard output, one per request, using a regex-based scanner for
// require(...)/import ... from '...' dependency syntax (internal/jsscan).
// It is spawned and managed by hastemap's process pool
// (internal/extract.Pool); it is not meant to be run interactively.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/internal/jsscan"
	"github.com/haste-build/hastemap/internal/wire"
)

type request struct {
	FilePath string `json:"filePath"`
}

type wireModule struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

type response struct {
	ID           string      `json:"id,omitempty"`
	Module       *wireModule `json:"module,omitempty"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Error        string      `json:"error,omitempty"`
}

func moduleKindToken(kind hastemap.ModuleKind) string {
	if kind == hastemap.ModuleKindPackage {
		return "package"
	}
	return "module"
}

func handle(req request) response {
	contents, err := os.ReadFile(req.FilePath)
	if err != nil {
		return response{Error: fmt.Sprintf("unable to read file: %v", err)}
	}

	id, kind, dependencies, err := jsscan.Scan(req.FilePath, contents)
	if err != nil {
		return response{Error: fmt.Sprintf("unable to scan file: %v", err)}
	}

	resp := response{ID: id, Dependencies: dependencies}
	if id != "" {
		resp.Module = &wireModule{Path: req.FilePath, Kind: moduleKindToken(kind)}
	}
	return resp
}

func main() {
	for {
		var req request
		if err := wire.ReadMessage(os.Stdin, &req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			// The pool treats a broken pipe as a worker restart; there is
			// nothing useful left to do but exit.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := wire.WriteMessage(os.Stdout, handle(req)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
