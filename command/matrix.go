package command

import (
	"encoding/json"
	"math"
)

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// This represents the transformation:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// On the wire a matrix is the 6-element list [A, D, B, E, C, F], which is
// the flat column order used by Java2D-style toolkits (m00, m10, m01, m11,
// m02, m12). The identity matrix is a regular value, not a special case.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{
		A: sx, B: 0, C: 0,
		D: 0, E: sy, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// MatrixFromElements builds a matrix from its flat wire form
// [m00, m10, m01, m11, m02, m12].
func MatrixFromElements(e [6]float64) Matrix {
	return Matrix{
		A: e[0], B: e[2], C: e[4],
		D: e[1], E: e[3], F: e[5],
	}
}

// Elements returns the flat wire form [m00, m10, m01, m11, m02, m12].
func (m Matrix) Elements() [6]float64 {
	return [6]float64{m.A, m.D, m.B, m.E, m.C, m.F}
}

// MarshalJSON encodes the matrix in its flat wire form.
func (m Matrix) MarshalJSON() ([]byte, error) {
	e := m.Elements()
	return json.Marshal(e[:])
}

// UnmarshalJSON decodes a matrix from its flat wire form.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var e [6]float64
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	*m = MatrixFromElements(e)
	return nil
}

// Multiply multiplies two matrices (m * other).
// This applies the transformation of `other` before `m`.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// TransformRect returns the axis-aligned bounding box of r after
// transformation. Rotations and shears grow the box to cover all four
// transformed corners.
func (m Matrix) TransformRect(r Rect) Rect {
	if m.IsTranslation() {
		return r.Offset(m.C, m.F)
	}
	x0, y0 := m.TransformPoint(r.MinX, r.MinY)
	x1, y1 := m.TransformPoint(r.MaxX, r.MinY)
	x2, y2 := m.TransformPoint(r.MaxX, r.MaxY)
	x3, y3 := m.TransformPoint(r.MinX, r.MaxY)
	return Rect{
		MinX: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		MinY: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		MaxX: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		MaxY: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// ScaleFactor returns the maximum scale factor of the transformation.
// This is useful for determining effective stroke width after transform.
func (m Matrix) ScaleFactor() float64 {
	sx := math.Sqrt(m.A*m.A + m.D*m.D)
	sy := math.Sqrt(m.B*m.B + m.E*m.E)
	if sx > sy {
		return sx
	}
	return sy
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// Rect represents an axis-aligned rectangle.
// Min is the top-left corner (minimum coordinates).
// Max is the bottom-right corner (maximum coordinates).
type Rect struct {
	MinX float64 `json:"minX" msgpack:"minX"`
	MinY float64 `json:"minY" msgpack:"minY"`
	MaxX float64 `json:"maxX" msgpack:"maxX"`
	MaxY float64 `json:"maxY" msgpack:"maxY"`
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		MinX: x,
		MinY: y,
		MaxX: x + width,
		MaxY: y + height,
	}
}

// NewRectFromPoints creates a rectangle from two corner points.
// The points are normalized so Min <= Max.
func NewRectFromPoints(x1, y1, x2, y2 float64) Rect {
	return Rect{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Intersect returns the intersection of r and other.
// Returns an empty rectangle if they don't intersect.
func (r Rect) Intersect(other Rect) Rect {
	result := Rect{
		MinX: math.Max(r.MinX, other.MinX),
		MinY: math.Max(r.MinY, other.MinY),
		MaxX: math.Min(r.MaxX, other.MaxX),
		MaxY: math.Min(r.MaxY, other.MaxY),
	}
	if result.IsEmpty() {
		return Rect{}
	}
	return result
}

// Overlaps reports whether r and other share a region of positive area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.MinX < other.MaxX && other.MinX < r.MaxX &&
		r.MinY < other.MaxY && other.MinY < r.MaxY
}

// Inflate returns r grown by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{
		MinX: r.MinX - d,
		MinY: r.MinY - d,
		MaxX: r.MaxX + d,
		MaxY: r.MaxY + d,
	}
}

// Offset returns a new rectangle offset by the given amounts.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{
		MinX: r.MinX + dx,
		MinY: r.MinY + dy,
		MaxX: r.MaxX + dx,
		MaxY: r.MaxY + dy,
	}
}
