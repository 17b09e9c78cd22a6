// Package scheduler implements the cooperative task model of spec.md §4.6
// and §5: a single-threaded main loop that owns all mutable editor state,
// backed by a worker pool of OS threads that execute cancellable jobs
// (parse, recursive file walk, disk IO) and post results onto the main
// loop's merged input queue.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/limetext/log4go"
	"github.com/limetext/util"
)

// Kind identifies a class of job. Two jobs of the same (Kind, Key) are
// totally ordered by submission; a later submission cancels the earlier.
type Kind string

const (
	KindParse     Kind = "parse"
	KindWalk      Kind = "walk"
	KindRead      Kind = "read"
	KindWrite     Kind = "write"
	KindClipboard Kind = "clipboard-sync"
)

// Key identifies one job within its Kind, e.g. a buffer id for KindParse or
// a root path for KindWalk.
type Key struct {
	Kind Kind
	ID   string
}

// Result is posted to the main loop's Results channel when a job
// completes, whether it succeeded, failed, or was cancelled.
type Result struct {
	Key   Key
	Value any
	Err   error
}

// ErrCancelled is the internal JobCancelled sentinel of spec.md §7: it
// never surfaces on the status line.
var ErrCancelled = context.Canceled

// Func is the body of a job; it must poll ctx.Done() at yield points for
// cooperative cancellation (spec.md §5's "cancellation is cooperative").
type Func func(ctx context.Context) (any, error)

// Scheduler owns the worker pool and the pending-job cancellation table.
// All public methods except Submit/Close are intended to be called only
// from the main loop goroutine.
type Scheduler struct {
	jobs    chan job
	Results chan Result

	mu      sync.Mutex
	pending map[Key]context.CancelFunc

	closeOnce sync.Once
	done      chan struct{}
}

type job struct {
	key Key
	ctx context.Context
	fn  Func
}

// New starts a worker pool sized to the CPU count, clamped to a minimum of
// 2 per spec.md §4.6/§9.
func New() *Scheduler {
	n := runtime.NumCPU()
	if n < 2 {
		n = 2
	}
	s := &Scheduler{
		jobs:    make(chan job, 64),
		Results: make(chan Result, 64),
		pending: make(map[Key]context.CancelFunc),
		done:    make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		go s.worker()
	}
	return s
}

func (s *Scheduler) worker() {
	for {
		select {
		case <-s.done:
			return
		case j := <-s.jobs:
			val, err := s.runJob(j)
			select {
			case s.Results <- Result{Key: j.key, Value: val, Err: err}:
			case <-s.done:
			}
		}
	}
}

// runJob executes one job's Func with its profiling span and a recovered
// panic, matching the teacher's Window.runCommand: a panicking job degrades
// to a logged stack trace and an error Result instead of killing the worker.
func (s *Scheduler) runJob(j job) (val any, err error) {
	e := util.Prof.Enter("scheduler.job." + string(j.key.Kind))
	defer e.Exit()
	defer func() {
		if r := recover(); r != nil {
			log4go.Error("scheduler: panic in job %s/%s: %v\n%s", j.key.Kind, j.key.ID, r, string(debug.Stack()))
			err = fmt.Errorf("job %s/%s panicked: %v", j.key.Kind, j.key.ID, r)
		}
	}()
	return j.fn(j.ctx)
}

// Submit enqueues fn under key, cancelling any job currently pending under
// the same key (spec.md §4.6: "submitting a new job with the same key
// cancels any pending job of that key").
func (s *Scheduler) Submit(key Key, fn Func) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if prevCancel, ok := s.pending[key]; ok {
		prevCancel()
	}
	s.pending[key] = cancel
	s.mu.Unlock()

	select {
	case s.jobs <- job{key: key, ctx: ctx, fn: fn}:
	case <-s.done:
		cancel()
	}
}

// Forget clears the pending-cancellation entry for key once its result has
// been applied (or discarded) on the main loop, so a future Submit with the
// same key doesn't cancel a job that already finished.
func (s *Scheduler) Forget(key Key) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}

// Close stops accepting new work and shuts down the worker pool.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
