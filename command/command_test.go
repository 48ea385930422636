package command

import (
	"testing"
)

func TestCommandTypeString(t *testing.T) {
	for ct := CmdSetClip; ct <= CmdDrawRenderableImage; ct++ {
		name := ct.String()
		if name == "" || name == "Unknown" {
			t.Errorf("CommandType(%d) has no name", ct)
		}
		parsed, ok := ParseCommandType(name)
		if !ok || parsed != ct {
			t.Errorf("ParseCommandType(%q) = %v, %v", name, parsed, ok)
		}
	}
	if got := CommandType(200).String(); got != "Unknown" {
		t.Errorf("out of range String() = %q", got)
	}
	if _, ok := ParseCommandType("FillPath"); ok {
		t.Error("ParseCommandType accepted an unknown name")
	}
}

func TestIsState(t *testing.T) {
	state := []CommandType{CmdSetClip, CmdSetTransform, CmdSetStroke, CmdSetPaint, CmdSetComposite, CmdSetFont}
	for _, ct := range state {
		if !ct.IsState() {
			t.Errorf("%v should be a state command", ct)
		}
		if k := ct.StateKind(); k < 0 || k >= NumStateKinds {
			t.Errorf("%v StateKind = %d", ct, k)
		}
	}
	for ct := CmdDrawLine; ct <= CmdDrawRenderableImage; ct++ {
		if ct.IsState() {
			t.Errorf("%v should not be a state command", ct)
		}
	}
}

func TestStateKindPanicsForDrawing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	CmdPaintRect.StateKind()
}

func TestNewMatchesType(t *testing.T) {
	for ct := CmdSetClip; ct <= CmdDrawRenderableImage; ct++ {
		c := New(ct)
		if c == nil {
			t.Fatalf("New(%v) = nil", ct)
		}
		if c.Type() != ct {
			t.Errorf("New(%v).Type() = %v", ct, c.Type())
		}
		v := Deref(c)
		if v.Type() != ct {
			t.Errorf("Deref(New(%v)).Type() = %v", ct, v.Type())
		}
		if _, isPtr := v.(*SetClipCommand); isPtr {
			t.Errorf("Deref returned a pointer for %v", ct)
		}
	}
	if New(CommandType(200)) != nil {
		t.Error("New should return nil for unknown types")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Command
		want bool
	}{
		{
			"same transform",
			SetTransformCommand{Matrix: Identity()},
			SetTransformCommand{Matrix: MatrixFromElements([6]float64{1, 0, 0, 1, 0, 0})},
			true,
		},
		{
			"different transform",
			SetTransformCommand{Matrix: Identity()},
			SetTransformCommand{Matrix: Translate(1, 0)},
			false,
		},
		{
			"nil and empty dash",
			SetStrokeCommand{Stroke: DefaultStroke()},
			SetStrokeCommand{Stroke: Stroke{Width: 1, Cap: LineCapSquare, MiterLimit: 10, Dash: []float64{}}},
			true,
		},
		{
			"path clips by value",
			SetClipCommand{Clip: PathClip(*new(Path).MoveTo(0, 0).LineTo(1, 1))},
			SetClipCommand{Clip: PathClip(*new(Path).MoveTo(0, 0).LineTo(1, 1))},
			true,
		},
		{
			"different kinds",
			SetClipCommand{Clip: NoClip()},
			SetPaintCommand{Paint: SolidPaint(0)},
			false,
		},
		{
			"background",
			DrawImageCommand{Image: CachedImage(1), Info: AtPoint(0, 0).WithBackground(0xff000000)},
			DrawImageCommand{Image: CachedImage(1), Info: AtPoint(0, 0).WithBackground(0xff000000)},
			true,
		},
		{
			"different background",
			DrawImageCommand{Image: CachedImage(1), Info: AtPoint(0, 0).WithBackground(0xff000000)},
			DrawImageCommand{Image: CachedImage(1), Info: AtPoint(0, 0)},
			false,
		},
		{
			"polygon points",
			PaintPolygonCommand{Points: []Point{{0, 0}, {1, 1}}},
			PaintPolygonCommand{Points: []Point{{0, 0}, {1, 2}}},
			false,
		},
		{
			"path winding",
			PaintPathCommand{Path: Path{Winding: WindEvenOdd}},
			PaintPathCommand{Path: Path{Winding: WindNonZero}},
			false,
		},
		{"nil", nil, nil, true},
		{"nil and value", nil, DrawRenderedImageCommand{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualStateDoesNotAllocate(t *testing.T) {
	clip := PathClip(*new(Path).MoveTo(0, 0).LineTo(5, 5).Close())
	pairs := [][2]Command{
		{SetClipCommand{Clip: clip}, SetClipCommand{Clip: clip}},
		{SetStrokeCommand{Stroke: DefaultStroke()}, SetStrokeCommand{Stroke: DefaultStroke()}},
		{SetPaintCommand{Paint: SolidPaint(1)}, SetPaintCommand{Paint: SolidPaint(1)}},
		{SetFontCommand{Font: 2, Size: 12}, SetFontCommand{Font: 2, Size: 12}},
	}
	allocs := testing.AllocsPerRun(100, func() {
		for _, p := range pairs {
			if !Equal(p[0], p[1]) {
				t.Fatal("expected equal")
			}
		}
	})
	if allocs != 0 {
		t.Errorf("Equal allocated %v times per run, want 0", allocs)
	}
}

func TestClipBounds(t *testing.T) {
	if _, ok := NoClip().Bounds(); ok {
		t.Error("NoClip should be unbounded")
	}
	r := NewRect(0, 0, 100, 100)
	if got, ok := RectClip(r).Bounds(); !ok || got != r {
		t.Errorf("RectClip bounds = %+v, %v", got, ok)
	}
	p := new(Path).MoveTo(10, 10).LineTo(20, 30).Close()
	if got, ok := PathClip(*p).Bounds(); !ok || got != NewRectFromPoints(10, 10, 20, 30) {
		t.Errorf("PathClip bounds = %+v, %v", got, ok)
	}
	if got, ok := PathClip(Path{}).Bounds(); !ok || !got.IsEmpty() {
		t.Errorf("empty PathClip bounds = %+v, %v", got, ok)
	}
}

func TestDiff(t *testing.T) {
	a := []Command{PaintRectCommand{X: 1}}
	if d := Diff(a, []Command{PaintRectCommand{X: 1}}); d != "" {
		t.Errorf("unexpected diff: %s", d)
	}
	if d := Diff(a, []Command{PaintRectCommand{X: 2}}); d == "" {
		t.Error("expected a diff")
	}
}
