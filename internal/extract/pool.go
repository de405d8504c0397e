package extract

import (
	"fmt"
	"os/exec"
	"sync"
	"time"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/internal/wire"
	"github.com/haste-build/hastemap/pkg/logging"
	"github.com/haste-build/hastemap/pkg/must"
	"github.com/haste-build/hastemap/pkg/process"
)

// killDelay bounds how long a worker subprocess is given to exit on its
// own before Close forcibly terminates it, mirroring the teacher's Stream
// kill delay (pkg/process/connection.go).
const killDelay = 1 * time.Second

// request is the subprocess-facing encoding of an extraction job, per
// spec.md §6: "input { filePath }".
type request struct {
	FilePath string `json:"filePath"`
}

// wireModule is the subprocess-facing encoding of a ModuleRef.
type wireModule struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// response is the subprocess-facing encoding of a WorkerResult, per
// spec.md §6: "output { id?, module?, dependencies? }".
type response struct {
	ID           string      `json:"id,omitempty"`
	Module       *wireModule `json:"module,omitempty"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Error        string      `json:"error,omitempty"`
}

func parseModuleKind(s string) (hastemap.ModuleKind, error) {
	switch s {
	case "module":
		return hastemap.ModuleKindModule, nil
	case "package":
		return hastemap.ModuleKindPackage, nil
	default:
		return 0, fmt.Errorf("unrecognized module kind %q", s)
	}
}

// poolFuture is the channel-backed Future returned by Pool.Extract.
type poolFuture struct {
	done   chan struct{}
	result Result
	err    error
}

func newPoolFuture() *poolFuture {
	return &poolFuture{done: make(chan struct{})}
}

func (f *poolFuture) resolve(result Result, err error) {
	f.result, f.err = result, err
	close(f.done)
}

func (f *poolFuture) Wait() (Result, error) {
	<-f.done
	return f.result, f.err
}

// job pairs a requested path with the future promised for it.
type job struct {
	path   string
	future *poolFuture
}

// Pool is the process-pool Extractor described in spec.md §4.4: a fixed
// number of extractor subprocesses consuming jobs from a shared queue,
// each subprocess handling one job at a time over the length-prefixed
// JSON protocol in internal/wire. It is grounded on the teacher's
// pkg/parallelism.SIMDWorkerArray (a fixed goroutine array communicating
// over per-worker channels) generalized from "broadcast the same
// workload to every worker" to "route each job to whichever worker picks
// it up next", and on pkg/process.Stream for subprocess stdio lifecycle.
type Pool struct {
	command []string
	size    int
	logger  *logging.Logger

	startOnce sync.Once
	jobs      chan job
	wg        sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// NewPool creates a process-pool extractor that spawns up to size
// concurrent instances of command. The pool is created lazily: no
// subprocess is spawned until the first call to Extract (spec.md §4.4,
// "the pool is created lazily on first use").
func NewPool(command []string, size int, logger *logging.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		command: command,
		size:    size,
		logger:  logger,
		jobs:    make(chan job),
	}
}

func (p *Pool) ensureStarted() {
	p.startOnce.Do(func() {
		for i := 0; i < p.size; i++ {
			p.wg.Add(1)
			go p.work(i)
		}
	})
}

// work is a single worker's loop: spawn one subprocess and keep it alive
// across jobs, restarting it if it exits unexpectedly, until the jobs
// channel is closed.
func (p *Pool) work(index int) {
	defer p.wg.Done()

	var stream *process.Stream
	var cmd *exec.Cmd

	stop := func() {
		if stream != nil {
			must.Close(stream, p.logger)
			stream = nil
			cmd = nil
		}
	}
	defer stop()

	ensureRunning := func() error {
		if stream != nil {
			return nil
		}
		cmd = exec.Command(p.command[0], p.command[1:]...)
		s, err := process.NewStream(cmd, killDelay)
		if err != nil {
			return fmt.Errorf("unable to create extractor stream: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("unable to start extractor process: %w", err)
		}
		stream = s
		return nil
	}

	for j := range p.jobs {
		if err := ensureRunning(); err != nil {
			j.future.resolve(Result{}, err)
			continue
		}

		if err := wire.WriteMessage(stream, request{FilePath: j.path}); err != nil {
			stop()
			j.future.resolve(Result{}, fmt.Errorf("unable to submit extraction request: %w", err))
			continue
		}

		var resp response
		if err := wire.ReadMessage(stream, &resp); err != nil {
			stop()
			j.future.resolve(Result{}, fmt.Errorf("unable to read extraction response: %w", err))
			continue
		}

		if resp.Error != "" {
			j.future.resolve(Result{}, fmt.Errorf("extractor reported error: %s", resp.Error))
			continue
		}

		result := Result{ID: resp.ID, Dependencies: resp.Dependencies}
		if resp.Module != nil {
			kind, err := parseModuleKind(resp.Module.Kind)
			if err != nil {
				j.future.resolve(Result{}, err)
				continue
			}
			result.Module = &hastemap.ModuleRef{Path: resp.Module.Path, Kind: kind}
		}
		j.future.resolve(result, nil)
	}
}

// Extract implements Extractor.Extract.
func (p *Pool) Extract(path string) Future {
	p.ensureStarted()
	f := newPoolFuture()
	p.jobs <- job{path: path, future: f}
	return f
}

// Close implements Extractor.Close. It tolerates being called on a pool
// that never had Extract called on it, and is idempotent.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
	return p.closeErr
}
