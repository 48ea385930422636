package command

import (
	"iter"
	"math"
	"slices"
)

// Point is a 2D coordinate in target space.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// SegmentOp identifies the kind of a path segment.
type SegmentOp uint8

const (
	SegMoveTo  SegmentOp = iota // one point
	SegLineTo                   // one point
	SegQuadTo                   // control, end
	SegCubicTo                  // control1, control2, end
	SegClose                    // no points
)

var segmentOpNames = [...]string{
	SegMoveTo:  "MoveTo",
	SegLineTo:  "LineTo",
	SegQuadTo:  "QuadTo",
	SegCubicTo: "CubicTo",
	SegClose:   "Close",
}

// String returns the string representation of a SegmentOp.
func (op SegmentOp) String() string {
	if int(op) < len(segmentOpNames) {
		return segmentOpNames[op]
	}
	return "Unknown"
}

// Segment is a single path element with its points.
type Segment struct {
	Op     SegmentOp `json:"op" msgpack:"op"`
	Points []Point   `json:"points,omitempty" msgpack:"points,omitempty"`
}

// WindingRule selects how the interior of a path is determined.
type WindingRule uint8

const (
	// WindNonZero uses the non-zero winding rule.
	WindNonZero WindingRule = iota
	// WindEvenOdd uses the even-odd rule.
	WindEvenOdd
)

// String returns the string representation of a WindingRule.
func (w WindingRule) String() string {
	switch w {
	case WindNonZero:
		return "NonZero"
	case WindEvenOdd:
		return "EvenOdd"
	default:
		return "Unknown"
	}
}

// Path is a vector outline made of segments.
type Path struct {
	Segments []Segment   `json:"segments" msgpack:"segments"`
	Winding  WindingRule `json:"winding" msgpack:"winding"`
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	p.Segments = append(p.Segments, Segment{Op: SegMoveTo, Points: []Point{{x, y}}})
	return p
}

// LineTo adds a line to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	p.Segments = append(p.Segments, Segment{Op: SegLineTo, Points: []Point{{x, y}}})
	return p
}

// QuadTo adds a quadratic curve.
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	p.Segments = append(p.Segments, Segment{Op: SegQuadTo, Points: []Point{{cx, cy}, {x, y}}})
	return p
}

// CubicTo adds a cubic curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	p.Segments = append(p.Segments, Segment{Op: SegCubicTo, Points: []Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.Segments = append(p.Segments, Segment{Op: SegClose})
	return p
}

// Bounds returns the bounding box of all segment points, control points
// included, so the result always contains the exact curve. It reports false
// for a path with no points.
func (p Path) Bounds() (Rect, bool) {
	return pointBounds(p.allPoints())
}

func (p Path) allPoints() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, s := range p.Segments {
			for _, pt := range s.Points {
				if !yield(pt) {
					return
				}
			}
		}
	}
}

// PolyBounds returns the bounding box of a point list.
func PolyBounds(points []Point) (Rect, bool) {
	return pointBounds(slices.Values(points))
}

func pointBounds(seq iter.Seq[Point]) (Rect, bool) {
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	found := false
	for pt := range seq {
		found = true
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	if !found {
		return Rect{}, false
	}
	return r, true
}
