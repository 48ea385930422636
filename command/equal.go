package command

import (
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var equalOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
}

// Equal reports whether two commands are structurally equal. Nil and empty
// slices compare equal. Matrices compare element-wise.
func Equal(a, b Command) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case SetClipCommand:
		b, ok := b.(SetClipCommand)
		return ok && a.Clip.Equal(b.Clip)
	case SetTransformCommand:
		return a == b
	case SetStrokeCommand:
		b, ok := b.(SetStrokeCommand)
		return ok && a.Stroke.Equal(b.Stroke)
	case SetPaintCommand:
		return a == b
	case SetCompositeCommand:
		return a == b
	case SetFontCommand:
		return a == b
	case DrawLineCommand:
		return a == b
	case PaintRectCommand:
		return a == b
	case PaintRoundRectCommand:
		return a == b
	case PaintOvalCommand:
		return a == b
	case PaintArcCommand:
		return a == b
	case DrawPolylineCommand:
		b, ok := b.(DrawPolylineCommand)
		return ok && slices.Equal(a.Points, b.Points)
	case PaintPolygonCommand:
		b, ok := b.(PaintPolygonCommand)
		return ok && a.PaintType == b.PaintType && slices.Equal(a.Points, b.Points)
	case DrawStringCommand:
		return a == b
	case DrawImageCommand:
		b, ok := b.(DrawImageCommand)
		return ok && a.Image == b.Image && a.Info.Equal(b.Info)
	case PaintPathCommand:
		b, ok := b.(PaintPathCommand)
		return ok && a.PaintType == b.PaintType && a.Path.Equal(b.Path)
	case CopyAreaCommand:
		return a == b
	case DrawRenderedImageCommand:
		return a == b
	case DrawRenderableImageCommand:
		return a == b
	default:
		return a.Type() == b.Type() && cmp.Equal(a, b, equalOpts...)
	}
}

// Equal reports whether two strokes are the same.
func (s Stroke) Equal(o Stroke) bool {
	return s.Width == o.Width && s.Cap == o.Cap && s.Join == o.Join &&
		s.MiterLimit == o.MiterLimit && s.DashPhase == o.DashPhase &&
		slices.Equal(s.Dash, o.Dash)
}

// Equal reports whether two clips describe the same region. Path clips
// compare by outline, not by pointer.
func (c Clip) Equal(o Clip) bool {
	if c.Kind != o.Kind || c.Rect != o.Rect {
		return false
	}
	if c.Path == nil || o.Path == nil {
		return c.Path == o.Path
	}
	return c.Path.Equal(*o.Path)
}

// Equal reports whether two paths have the same segments and winding.
func (p Path) Equal(o Path) bool {
	return p.Winding == o.Winding && slices.EqualFunc(p.Segments, o.Segments, func(a, b Segment) bool {
		return a.Op == b.Op && slices.Equal(a.Points, b.Points)
	})
}

// Equal reports whether two placements are the same. Backgrounds compare
// by value.
func (info ImageInfo) Equal(o ImageInfo) bool {
	bg, obg := info.Background, o.Background
	info.Background, o.Background = nil, nil
	if info != o {
		return false
	}
	if bg == nil || obg == nil {
		return bg == obg
	}
	return *bg == *obg
}

// Diff returns a human-readable report of the differences between two
// command sequences, or "" when they are equal.
func Diff(want, got []Command) string {
	return cmp.Diff(want, got, equalOpts...)
}
