package shrink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggstream/command"
)

var (
	win      = command.Onscreen(1)
	clip100  = command.SetClipCommand{Clip: command.RectClip(command.NewRect(0, 0, 100, 100))}
	identity = command.SetTransformCommand{Matrix: command.MatrixFromElements([6]float64{1, 0, 0, 1, 0, 0})}
	font12   = command.SetFontCommand{Font: 0, Size: 12}
)

func fillRect(x, y, w, h float64) command.PaintRectCommand {
	return command.PaintRectCommand{PaintType: command.PaintFill, X: x, Y: y, Width: w, Height: h}
}

func shrinkOne(t *testing.T, s *Shrinker, cmds ...command.Command) []command.Command {
	t.Helper()
	out, _ := s.Shrink([]command.Batch{{Target: win, Commands: cmds}})
	if len(out) == 0 {
		return nil
	}
	require.Len(t, out, 1)
	assert.Equal(t, win, out[0].Target)
	return out[0].Commands
}

func TestShrinkVisibility(t *testing.T) {
	tests := []struct {
		name  string
		input []command.Command
		want  []command.Command
	}{
		{
			name:  "rect intersecting",
			input: []command.Command{clip100, identity, fillRect(10, 10, 800, 800)},
			want:  []command.Command{clip100, identity, fillRect(10, 10, 800, 800)},
		},
		{
			name:  "rect moved right",
			input: []command.Command{clip100, identity, fillRect(110, 10, 800, 800)},
		},
		{
			name:  "rect moved down",
			input: []command.Command{clip100, identity, fillRect(10, 110, 800, 800)},
		},
		{
			name:  "string intersecting",
			input: []command.Command{clip100, identity, font12, command.DrawStringCommand{Text: "abc", X: 10, Y: 10, DesiredWidth: 800}},
			want:  []command.Command{clip100, identity, font12, command.DrawStringCommand{Text: "abc", X: 10, Y: 10, DesiredWidth: 800}},
		},
		{
			name:  "string moved right",
			input: []command.Command{clip100, identity, font12, command.DrawStringCommand{Text: "abc", X: 110, Y: 10, DesiredWidth: 800}},
		},
		{
			name:  "string moved down",
			input: []command.Command{clip100, identity, font12, command.DrawStringCommand{Text: "abc", X: 10, Y: 1110, DesiredWidth: 800}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shrinkOne(t, New(Options{}), tt.input...)
			assert.Empty(t, command.Diff(tt.want, got))
		})
	}
}

func TestShrinkEmpty(t *testing.T) {
	out, stats := New(Options{}).Shrink(nil)
	assert.Empty(t, out)
	assert.Equal(t, Stats{}, stats)

	out = Shrink([]command.Batch{{Target: win}})
	assert.Empty(t, out)

	out, stats = New(Options{}).Shrink([]command.Batch{{Target: win, Commands: []command.Command{clip100, identity, font12}}})
	assert.Empty(t, out, "state without drawing is never needed")
	assert.Equal(t, 3, stats.DroppedState)
}

func TestShrinkDeduplicatesState(t *testing.T) {
	red := command.SetPaintCommand{Paint: command.SolidPaint(0xffff0000)}
	got := shrinkOne(t, New(Options{}),
		clip100, identity, red, fillRect(0, 0, 10, 10),
		identity, red, fillRect(20, 20, 10, 10),
		clip100, fillRect(30, 30, 10, 10),
	)
	want := []command.Command{
		clip100, identity, red, fillRect(0, 0, 10, 10),
		fillRect(20, 20, 10, 10),
		fillRect(30, 30, 10, 10),
	}
	assert.Empty(t, command.Diff(want, got))
}

func TestShrinkKeepsRepeatedDrawing(t *testing.T) {
	r := fillRect(5, 5, 5, 5)
	got := shrinkOne(t, New(Options{}), clip100, r, r, r)
	assert.Empty(t, command.Diff([]command.Command{clip100, r, r, r}, got))
}

func TestShrinkStateAcrossCulledOps(t *testing.T) {
	red := command.SetPaintCommand{Paint: command.SolidPaint(0xffff0000)}
	blue := command.SetPaintCommand{Paint: command.SolidPaint(0xff0000ff)}

	got := shrinkOne(t, New(Options{}),
		clip100, red, fillRect(0, 0, 10, 10),
		blue, fillRect(500, 500, 10, 10), // invisible
		red, fillRect(0, 0, 10, 10),
	)
	// blue was only needed by the culled op and red never changed for a survivor.
	want := []command.Command{clip100, red, fillRect(0, 0, 10, 10), fillRect(0, 0, 10, 10)}
	assert.Empty(t, command.Diff(want, got))

	got = shrinkOne(t, New(Options{}),
		clip100, red, fillRect(500, 500, 10, 10),
		red, fillRect(0, 0, 10, 10),
	)
	assert.Empty(t, command.Diff([]command.Command{clip100, red, fillRect(0, 0, 10, 10)}, got))
}

func TestShrinkPreservesStateOrder(t *testing.T) {
	red := command.SetPaintCommand{Paint: command.SolidPaint(0xffff0000)}
	stroke := command.SetStrokeCommand{Stroke: command.Stroke{Width: 3}}
	got := shrinkOne(t, New(Options{}), stroke, red, clip100, fillRect(0, 0, 1, 1))
	assert.Empty(t, command.Diff([]command.Command{stroke, red, clip100, fillRect(0, 0, 1, 1)}, got))
}

func TestShrinkConcatenatesBatches(t *testing.T) {
	other := command.Offscreen(4)
	out, stats := New(Options{}).Shrink([]command.Batch{
		{Target: win, Commands: []command.Command{clip100, identity, fillRect(10, 10, 5, 5)}},
		{Target: other, Commands: []command.Command{fillRect(500, 500, 5, 5)}},
		{Target: win, Commands: []command.Command{clip100, fillRect(500, 500, 5, 5), fillRect(20, 20, 5, 5)}},
	})
	require.Len(t, out, 2)

	assert.Equal(t, win, out[0].Target)
	want := []command.Command{clip100, identity, fillRect(10, 10, 5, 5), fillRect(20, 20, 5, 5)}
	assert.Empty(t, command.Diff(want, out[0].Commands))

	// State is not shared across targets: the offscreen target has no clip.
	assert.Equal(t, other, out[1].Target)
	assert.Empty(t, command.Diff([]command.Command{fillRect(500, 500, 5, 5)}, out[1].Commands))

	assert.Equal(t, Stats{Input: 7, Output: 5, DroppedState: 1, Culled: 1}, stats)
}

func TestShrinkUsesTransform(t *testing.T) {
	moved := command.SetTransformCommand{Matrix: command.Translate(200, 0)}
	assert.Empty(t, shrinkOne(t, New(Options{}), clip100, moved, fillRect(10, 10, 10, 10)))

	back := command.SetTransformCommand{Matrix: command.Translate(-200, 0)}
	got := shrinkOne(t, New(Options{}), clip100, back, fillRect(210, 10, 10, 10))
	assert.Len(t, got, 3)

	half := command.SetTransformCommand{Matrix: command.Scale(0.5, 0.5)}
	got = shrinkOne(t, New(Options{}), clip100, half, fillRect(150, 150, 10, 10))
	assert.Len(t, got, 3)
}

func TestShrinkStrokeInflation(t *testing.T) {
	just := fillRect(100.2, 10, 10, 10)
	assert.Empty(t, shrinkOne(t, New(Options{}), clip100, just))

	drawn := command.PaintRectCommand{PaintType: command.PaintDraw, X: 100.2, Y: 10, Width: 10, Height: 10}
	wide := command.SetStrokeCommand{Stroke: command.Stroke{Width: 4}}
	got := shrinkOne(t, New(Options{}), clip100, wide, drawn)
	assert.Len(t, got, 3)

	line := command.DrawLineCommand{X1: 0, Y1: 50, X2: 100, Y2: 50}
	got = shrinkOne(t, New(Options{}), clip100, line)
	assert.Len(t, got, 2, "zero-height lines are still visible")

	poly := command.DrawPolylineCommand{Points: []command.Point{command.Pt(200, 0), command.Pt(300, 10)}}
	assert.Empty(t, shrinkOne(t, New(Options{}), clip100, poly))
}

type fixedMeasurer float64

func (m fixedMeasurer) Measure(command.FontID, int, string) (float64, bool) {
	return float64(m), m > 0
}

func TestShrinkMeasuresText(t *testing.T) {
	near := command.DrawStringCommand{Text: "abc", X: 96, Y: 50}
	far := command.DrawStringCommand{Text: "abc", X: 101, Y: 50}
	s := New(Options{Measurer: fixedMeasurer(5)})

	assert.Len(t, shrinkOne(t, s, clip100, font12, near), 3)
	assert.Empty(t, shrinkOne(t, s, clip100, font12, far))

	// An unknown font falls back to one em per rune.
	fallback := New(Options{Measurer: fixedMeasurer(0)})
	wide := command.DrawStringCommand{Text: "abc", X: 70, Y: 50}
	assert.Len(t, shrinkOne(t, fallback, clip100, font12, wide), 3)
}

type sizes map[uint16][2]int

func (s sizes) ImageSize(id uint16) (int, int, bool) {
	sz, ok := s[id]
	return sz[0], sz[1], ok
}

func TestShrinkImages(t *testing.T) {
	s := New(Options{Sizer: sizes{1: {20, 20}}})
	img := func(id uint16, info command.ImageInfo) command.DrawImageCommand {
		return command.DrawImageCommand{Image: command.CachedImage(id), Info: info}
	}

	tests := []struct {
		name    string
		cmd     command.DrawImageCommand
		visible bool
	}{
		{"point visible", img(1, command.AtPoint(90, 90)), true},
		{"point outside", img(1, command.AtPoint(101, 0)), false},
		{"point unknown size", img(9, command.AtPoint(500, 500)), true},
		{"rect outside", img(9, command.InRect(100, 0, 10, 10)), false},
		{"rect visible", img(9, command.InRect(95, 0, 10, 10)), true},
		{"area uses destination", img(9, command.Area(0, 0, 10, 10, 500, 500, 510, 510)), true},
		{"area outside", img(9, command.Area(200, 200, 210, 210, 0, 0, 10, 10)), false},
		{"transform", img(1, command.WithTransform(command.Translate(90, 0))), true},
		{"transform outside", img(1, command.WithTransform(command.Translate(-21, 0))), false},
		{"surface", command.DrawImageCommand{Image: command.SurfaceImage(3), Info: command.AtPoint(500, 500)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shrinkOne(t, s, clip100, tt.cmd)
			if tt.visible {
				assert.Len(t, got, 2)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestShrinkCopyArea(t *testing.T) {
	// Source outside the clip, destination inside.
	c := command.CopyAreaCommand{X: 150, Y: 0, Width: 10, Height: 10, DX: -100, DY: 0}
	assert.Len(t, shrinkOne(t, New(Options{}), clip100, c), 2)

	c = command.CopyAreaCommand{X: 150, Y: 0, Width: 10, Height: 10, DX: 10, DY: 0}
	assert.Empty(t, shrinkOne(t, New(Options{}), clip100, c))
}

func TestShrinkUnclippedAndMarkers(t *testing.T) {
	far := fillRect(1e6, 1e6, 1, 1)
	assert.Len(t, shrinkOne(t, New(Options{}), far), 1)

	none := command.SetClipCommand{Clip: command.NoClip()}
	got := shrinkOne(t, New(Options{}), clip100, fillRect(500, 0, 1, 1), none, far)
	assert.Empty(t, command.Diff([]command.Command{none, far}, got))

	got = shrinkOne(t, New(Options{}), clip100, command.DrawRenderedImageCommand{})
	assert.Len(t, got, 2)

	empty := command.SetClipCommand{Clip: command.RectClip(command.Rect{})}
	assert.Empty(t, shrinkOne(t, New(Options{}), empty, fillRect(0, 0, 10, 10)))
}
