package shrink

import (
	"slices"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/command"
)

// TextMeasurer measures the advance width of a text run.
type TextMeasurer interface {
	// Measure returns the advance of text set in font at size pixels.
	// It reports false when the font is unknown.
	Measure(font command.FontID, size int, text string) (float64, bool)
}

// ImageSizer reports the pixel dimensions of cached images.
type ImageSizer interface {
	// ImageSize returns the size of the cached image id. It reports false
	// when the id is unknown.
	ImageSize(id uint16) (width, height int, ok bool)
}

// Options configures a Shrinker. Nil fields fall back to conservative
// estimates that never cull a visible command.
type Options struct {
	Measurer TextMeasurer
	Sizer    ImageSizer
}

// Stats describes one Shrink call.
type Stats struct {
	Input        int // commands received
	Output       int // commands emitted
	DroppedState int // state commands dropped as redundant
	Culled       int // drawing commands dropped as invisible
}

// Shrinker removes redundant state commands and invisible drawing commands.
//
// A Shrinker holds no per-call state and is safe for concurrent use.
type Shrinker struct {
	opts Options
}

// New creates a Shrinker.
func New(opts Options) *Shrinker {
	return &Shrinker{opts: opts}
}

// Shrink shrinks batches with default options.
func Shrink(batches []command.Batch) []command.Batch {
	out, _ := New(Options{}).Shrink(batches)
	return out
}

// Shrink merges the batches of each target in arrival order and returns one
// minimal batch per target, in order of first appearance. Targets without
// surviving commands are omitted. Every target starts from the default
// graphics state.
func (s *Shrinker) Shrink(batches []command.Batch) ([]command.Batch, Stats) {
	return s.run(batches, func(command.Target) *tracker { return new(tracker) })
}

func (s *Shrinker) run(batches []command.Batch, trackerFor func(command.Target) *tracker) ([]command.Batch, Stats) {
	var (
		stats  Stats
		order  []command.Target
		merged = make(map[command.Target][]command.Command)
	)
	for _, b := range batches {
		if _, ok := merged[b.Target]; !ok {
			order = append(order, b.Target)
		}
		merged[b.Target] = append(merged[b.Target], b.Commands...)
		stats.Input += len(b.Commands)
	}

	var out []command.Batch
	for _, target := range order {
		cmds := s.shrinkTarget(trackerFor(target), merged[target], &stats)
		if len(cmds) == 0 {
			continue
		}
		out = append(out, command.Batch{Target: target, Commands: cmds})
		stats.Output += len(cmds)
	}

	if stats.Input > 0 {
		ggstream.Logger().Debug("shrink: batches shrunk",
			"targets", len(order), "input", stats.Input, "output", stats.Output,
			"droppedState", stats.DroppedState, "culled", stats.Culled)
	}
	return out, stats
}

// tracker holds the graphics state of one target while shrinking.
type tracker struct {
	current [command.NumStateKinds]command.Command
	emitted [command.NumStateKinds]command.Command
	seq     [command.NumStateKinds]int
	next    int
}

func (t *tracker) set(c command.Command) {
	k := c.Type().StateKind()
	if command.Equal(t.current[k], c) {
		return
	}
	t.current[k] = c
	t.next++
	t.seq[k] = t.next
}

// flush appends the state commands whose tracked value differs from the
// value last emitted, in the order they were set.
func (t *tracker) flush(out []command.Command) []command.Command {
	var kinds []int
	for k := range command.NumStateKinds {
		if t.current[k] != nil && !command.Equal(t.current[k], t.emitted[k]) {
			kinds = append(kinds, k)
		}
	}
	slices.SortFunc(kinds, func(a, b int) int { return t.seq[a] - t.seq[b] })
	for _, k := range kinds {
		out = append(out, t.current[k])
		t.emitted[k] = t.current[k]
	}
	return out
}

func (t *tracker) transform() command.Matrix {
	if c, ok := t.current[command.CmdSetTransform].(command.SetTransformCommand); ok {
		return c.Matrix
	}
	return command.Identity()
}

func (t *tracker) clip() command.Clip {
	if c, ok := t.current[command.CmdSetClip].(command.SetClipCommand); ok {
		return c.Clip
	}
	return command.NoClip()
}

func (t *tracker) stroke() command.Stroke {
	if c, ok := t.current[command.CmdSetStroke].(command.SetStrokeCommand); ok {
		return c.Stroke
	}
	return command.DefaultStroke()
}

func (t *tracker) font() command.SetFontCommand {
	if c, ok := t.current[command.CmdSetFont].(command.SetFontCommand); ok {
		return c
	}
	return command.SetFontCommand{Font: command.NoFont, Size: defaultFontSize}
}

func (s *Shrinker) shrinkTarget(t *tracker, cmds []command.Command, stats *Stats) []command.Command {
	var (
		out    []command.Command
		states int
	)
	for _, c := range cmds {
		if c.Type().IsState() {
			states++
			t.set(c)
			continue
		}
		if !s.visible(t, c) {
			stats.Culled++
			continue
		}
		before := len(out)
		out = t.flush(out)
		states -= len(out) - before
		out = append(out, c)
	}
	// State carried over from an earlier flush may be emitted again.
	stats.DroppedState += max(states, 0)
	return out
}

func (s *Shrinker) visible(t *tracker, c command.Command) bool {
	r, ok := s.bounds(t, c)
	if !ok {
		return true
	}
	clip, bounded := t.clip().Bounds()
	if !bounded {
		return true
	}
	return t.transform().TransformRect(r).Overlaps(clip)
}
