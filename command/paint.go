package command

// PaintKind identifies the variant held by a Paint.
type PaintKind uint8

const (
	PaintSolid    PaintKind = iota // single ARGB color
	PaintGradient                  // two-stop linear gradient
	PaintUnknown                   // toolkit paint with no wire form
)

var paintKindNames = [...]string{
	PaintSolid:    "Solid",
	PaintGradient: "Gradient",
	PaintUnknown:  "Unknown",
}

// String returns the string representation of a PaintKind.
func (k PaintKind) String() string {
	if int(k) < len(paintKindNames) {
		return paintKindNames[k]
	}
	return "Invalid"
}

// Paint describes the source color of fill and stroke operations.
// Only the fields relevant to Kind are set; use the constructors.
type Paint struct {
	Kind PaintKind `json:"kind" msgpack:"kind"`

	// ARGB is the color of a solid paint.
	ARGB uint32 `json:"argb,omitempty" msgpack:"argb,omitempty"`

	// Gradient stops, set when Kind is PaintGradient.
	P1    Point  `json:"p1" msgpack:"p1"`
	ARGB1 uint32 `json:"argb1,omitempty" msgpack:"argb1,omitempty"`
	P2    Point  `json:"p2" msgpack:"p2"`
	ARGB2 uint32 `json:"argb2,omitempty" msgpack:"argb2,omitempty"`

	// Description names an unsupported paint so clients can log it.
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
}

// SolidPaint returns a paint with a single color.
func SolidPaint(argb uint32) Paint {
	return Paint{Kind: PaintSolid, ARGB: argb}
}

// GradientPaint returns a linear gradient from p1 to p2.
func GradientPaint(p1 Point, argb1 uint32, p2 Point, argb2 uint32) Paint {
	return Paint{Kind: PaintGradient, P1: p1, ARGB1: argb1, P2: p2, ARGB2: argb2}
}

// UnknownPaint returns a placeholder for a paint the toolkit cannot describe.
func UnknownPaint(description string) Paint {
	return Paint{Kind: PaintUnknown, Description: description}
}

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	LineCapButt   LineCap = iota // Flat cap at endpoint
	LineCapRound                 // Rounded cap
	LineCapSquare                // Square cap extending past endpoint
)

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota // Sharp corner
	LineJoinRound                 // Rounded corner
	LineJoinBevel                 // Beveled corner
)

// Stroke describes how outlines are drawn.
type Stroke struct {
	Width      float64   `json:"width" msgpack:"width"`
	Cap        LineCap   `json:"cap" msgpack:"cap"`
	Join       LineJoin  `json:"join" msgpack:"join"`
	MiterLimit float64   `json:"miterLimit" msgpack:"miterLimit"`
	Dash       []float64 `json:"dash,omitempty" msgpack:"dash,omitempty"`
	DashPhase  float64   `json:"dashPhase,omitempty" msgpack:"dashPhase,omitempty"`
}

// DefaultStroke returns the stroke a target starts with: width 1,
// square caps, miter joins with limit 10, no dashes.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1,
		Cap:        LineCapSquare,
		Join:       LineJoinMiter,
		MiterLimit: 10,
	}
}

// CompositeRule is a Porter-Duff compositing rule.
type CompositeRule uint8

const (
	CompositeSrcOver CompositeRule = iota
	CompositeClear
	CompositeSrc
	CompositeDst
	CompositeDstOver
	CompositeSrcIn
	CompositeDstIn
	CompositeSrcOut
	CompositeDstOut
	CompositeSrcAtop
	CompositeDstAtop
	CompositeXor
	CompositeUnknown
)

var compositeRuleNames = [...]string{
	CompositeSrcOver: "SrcOver",
	CompositeClear:   "Clear",
	CompositeSrc:     "Src",
	CompositeDst:     "Dst",
	CompositeDstOver: "DstOver",
	CompositeSrcIn:   "SrcIn",
	CompositeDstIn:   "DstIn",
	CompositeSrcOut:  "SrcOut",
	CompositeDstOut:  "DstOut",
	CompositeSrcAtop: "SrcAtop",
	CompositeDstAtop: "DstAtop",
	CompositeXor:     "Xor",
	CompositeUnknown: "Unknown",
}

// String returns the string representation of a CompositeRule.
func (r CompositeRule) String() string {
	if int(r) < len(compositeRuleNames) {
		return compositeRuleNames[r]
	}
	return "Invalid"
}

// Composite is an alpha compositing mode.
type Composite struct {
	Rule  CompositeRule `json:"rule" msgpack:"rule"`
	Alpha float64       `json:"alpha" msgpack:"alpha"`
}

// DefaultComposite returns opaque source-over compositing.
func DefaultComposite() Composite {
	return Composite{Rule: CompositeSrcOver, Alpha: 1}
}

// ClipKind identifies the variant held by a Clip.
type ClipKind uint8

const (
	ClipNone ClipKind = iota // unclipped
	ClipRect                 // axis-aligned rectangle
	ClipPath                 // arbitrary outline
)

// Clip is the clipping region of a target, in device space.
type Clip struct {
	Kind ClipKind `json:"kind" msgpack:"kind"`
	Rect Rect     `json:"rect" msgpack:"rect"`
	Path *Path    `json:"path,omitempty" msgpack:"path,omitempty"`
}

// NoClip returns the unclipped region.
func NoClip() Clip {
	return Clip{Kind: ClipNone}
}

// RectClip returns a rectangular clip.
func RectClip(r Rect) Clip {
	return Clip{Kind: ClipRect, Rect: r}
}

// PathClip returns a clip bounded by an outline.
func PathClip(p Path) Clip {
	return Clip{Kind: ClipPath, Path: &p}
}

// Bounds returns a rectangle containing the clip region. It reports false
// when the clip is unbounded.
func (c Clip) Bounds() (Rect, bool) {
	switch c.Kind {
	case ClipRect:
		return c.Rect, true
	case ClipPath:
		if c.Path == nil {
			return Rect{}, true
		}
		r, ok := c.Path.Bounds()
		if !ok {
			// An outline with no points clips everything away.
			return Rect{}, true
		}
		return r, true
	default:
		return Rect{}, false
	}
}
