package shrink

import (
	"sync"

	"github.com/gogpu/ggstream/command"
)

// Stream shrinks successive flushes of the same targets.
//
// The graphics state a target reaches in one flush is the starting state of
// its next flush, so culling uses the transform and clip that are actually
// in effect. Each output batch stays self-contained: before its first
// surviving drawing command it carries every state kind the target has set
// so far.
//
// Stream is safe for concurrent use; Shrink calls are serialized.
type Stream struct {
	s *Shrinker

	mu     sync.Mutex
	states map[command.Target]*tracker
}

// Stream returns a new Stream that shrinks with s.
func (s *Shrinker) Stream() *Stream {
	return &Stream{s: s, states: make(map[command.Target]*tracker)}
}

// Shrink shrinks one flush. See Shrinker.Shrink.
func (st *Stream) Shrink(batches []command.Batch) ([]command.Batch, Stats) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.run(batches, func(target command.Target) *tracker {
		t, ok := st.states[target]
		if !ok {
			t = new(tracker)
			st.states[target] = t
		}
		t.emitted = [command.NumStateKinds]command.Command{}
		return t
	})
}

// Forget drops the tracked state of target, typically when the target is
// destroyed. Its next flush starts from the default state.
func (st *Stream) Forget(target command.Target) {
	st.mu.Lock()
	delete(st.states, target)
	st.mu.Unlock()
}

// Len returns the number of targets with tracked state.
func (st *Stream) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.states)
}
