// Package queue accumulates draw commands per target until they are flushed.
//
// Producers obtain a [Builder] for a target, set the state they need and
// finish with one drawing call. The drawing call commits the builder's
// commands to the target's pending batch in one step. The flush path swaps
// the pending batch for an empty one with [Queue.Flush] or [Set.FlushAll].
//
// Commands for different targets may be built concurrently. Commands for the
// same target must be serialized by the caller; the queue never reorders
// them.
package queue

import (
	"slices"
	"sync"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/command"
)

// Queue holds the pending commands of one target.
//
// Queue is safe for concurrent use.
type Queue struct {
	target command.Target

	mu      sync.Mutex
	pending []command.Command
	warnAt  int
	warned  bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithWarnThreshold logs a warning once per flush cycle when the pending
// batch reaches n commands. Zero disables the check.
func WithWarnThreshold(n int) Option {
	return func(q *Queue) {
		q.warnAt = n
	}
}

// New creates an empty queue for target.
func New(target command.Target, opts ...Option) *Queue {
	q := &Queue{target: target}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Target returns the target this queue belongs to.
func (q *Queue) Target() command.Target {
	return q.target
}

// Begin returns a builder that commits into q.
func (q *Queue) Begin() *Builder {
	return &Builder{q: q}
}

// Append adds commands to the pending batch as one unit.
func (q *Queue) Append(cmds ...command.Command) {
	if len(cmds) == 0 {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, cmds...)
	n := len(q.pending)
	warn := q.warnAt > 0 && n >= q.warnAt && !q.warned
	if warn {
		q.warned = true
	}
	q.mu.Unlock()

	if warn {
		ggstream.Logger().Warn("queue: pending batch is large",
			"target", q.target.String(), "size", n, "threshold", q.warnAt)
	}
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush returns the pending commands and starts a new empty batch.
// Every appended command ends up in exactly one flushed batch.
func (q *Queue) Flush() command.Batch {
	q.mu.Lock()
	cmds := q.pending
	q.pending = nil
	q.warned = false
	q.mu.Unlock()
	return command.Batch{Target: q.target, Commands: cmds}
}

// Set is a registry of queues keyed by target.
//
// Set is safe for concurrent use.
type Set struct {
	opts []Option

	mu     sync.RWMutex
	queues map[command.Target]*Queue
}

// NewSet creates an empty set. The options apply to every queue it creates.
func NewSet(opts ...Option) *Set {
	return &Set{
		opts:   opts,
		queues: make(map[command.Target]*Queue),
	}
}

// Queue returns the queue for target, creating it if needed.
func (s *Set) Queue(target command.Target) *Queue {
	s.mu.RLock()
	q, ok := s.queues[target]
	s.mu.RUnlock()
	if ok {
		return q
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok = s.queues[target]; ok {
		return q
	}
	q = New(target, s.opts...)
	s.queues[target] = q
	return q
}

// Begin returns a builder for target's queue.
func (s *Set) Begin(target command.Target) *Builder {
	return s.Queue(target).Begin()
}

// Remove drops the queue for target and returns its pending batch.
func (s *Set) Remove(target command.Target) command.Batch {
	s.mu.Lock()
	q, ok := s.queues[target]
	delete(s.queues, target)
	s.mu.Unlock()
	if !ok {
		return command.Batch{Target: target}
	}
	return q.Flush()
}

// Targets returns the targets that have a queue, in command.Target order.
func (s *Set) Targets() []command.Target {
	s.mu.RLock()
	targets := make([]command.Target, 0, len(s.queues))
	for t := range s.queues {
		targets = append(targets, t)
	}
	s.mu.RUnlock()
	slices.SortFunc(targets, command.Target.Compare)
	return targets
}

// FlushAll flushes every queue and returns the non-empty batches in
// command.Target order.
func (s *Set) FlushAll() []command.Batch {
	s.mu.RLock()
	queues := make([]*Queue, 0, len(s.queues))
	for _, q := range s.queues {
		queues = append(queues, q)
	}
	s.mu.RUnlock()

	slices.SortFunc(queues, func(a, b *Queue) int {
		return a.target.Compare(b.target)
	})

	var batches []command.Batch
	for _, q := range queues {
		if b := q.Flush(); b.Len() > 0 {
			batches = append(batches, b)
		}
	}
	return batches
}
