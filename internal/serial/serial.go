// Package serial runs submitted tasks one at a time in submission order.
//
// # Overview
//
// A [Serializer] owns a FIFO queue and a "running" flag. [Submit] appends a
// task and, when nothing is running, starts a drain goroutine that executes
// queued tasks one by one. The drain goroutine hands each task a succeed and
// a fail callback, then waits on the task's completion channel before it
// dequeues the next one. It exits once the queue is empty, so an idle
// Serializer holds no goroutine.
//
// # Failure isolation
//
// Failure counts as completion: a task that calls fail, or panics, still
// releases the queue. A task that never calls either callback stalls every
// later task; bodies must always report.
//
// # Scope
//
// Serializers are plain values with no package state. Give each protected
// resource its own Serializer.
package serial

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrTaskPanicked is wrapped by the failure reported when a task body panics.
var ErrTaskPanicked = errors.New("task panicked")

// Body is the work of a task. It must call exactly one of succeed or fail,
// exactly once, from any goroutine. Calls after the first are ignored.
type Body[T any] func(succeed func(T), fail func(error))

// task is the type-erased queue entry. run starts the body and must arrange
// for settled to be called once the body reports.
type task struct {
	seq uint64
	run func(settled func())
}

// Serializer executes tasks sequentially in FIFO order.
type Serializer struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   *fifo
	running bool
	seq     uint64
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger sets the logger used for task tracing at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Serializer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an idle Serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{
		logger: slog.Default(),
		queue:  newFIFO(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit queues body on s and returns a future settled with the outcome the
// body reports. Submission never settles the future by itself.
func Submit[T any](s *Serializer, body Body[T]) *Future[T] {
	f := newFuture[T]()
	t := &task{}
	t.run = func(settled func()) {
		var once sync.Once
		report := func(value T, err error) {
			reported := false
			once.Do(func() {
				reported = true
				f.settle(value, err)
				settled()
			})
			if !reported {
				s.logger.Debug("serial: ignoring repeated task report", "seq", t.seq)
			}
		}
		succeed := func(v T) { report(v, nil) }
		fail := func(err error) {
			var zero T
			report(zero, err)
		}
		defer func() {
			if r := recover(); r != nil {
				fail(fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()
		body(succeed, fail)
	}
	s.enqueue(t)
	return f
}

// Len returns the number of tasks waiting to start.
func (s *Serializer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.len()
}

// Idle reports whether no task is running or queued.
func (s *Serializer) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.running && s.queue.len() == 0
}

func (s *Serializer) enqueue(t *task) {
	s.mu.Lock()
	s.seq++
	t.seq = s.seq
	s.queue.push(t)
	start := !s.running
	if start {
		s.running = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}
}

// drain runs queued tasks until the queue is empty, then clears running.
func (s *Serializer) drain() {
	for {
		s.mu.Lock()
		t := s.queue.pop()
		if t == nil {
			s.running = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Debug("serial: task start", "seq", t.seq)
		completed := make(chan struct{})
		t.run(func() { close(completed) })
		<-completed
		s.logger.Debug("serial: task settled", "seq", t.seq)
	}
}
