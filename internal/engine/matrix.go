package engine

import "github.com/planer/planer/internal/shape"

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * other, which applies other first, then m.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformRect transforms a rectangle and returns its axis-aligned bounding box.
func (m Matrix2D) TransformRect(r shape.Rect) shape.Rect {
	x0, y0 := m.TransformPoint(r.X, r.Y)
	x1, y1 := m.TransformPoint(r.X+r.Width, r.Y+r.Height)
	return shape.C(x0, y0, x1, y1).Box()
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// ScaleFactor returns the uniform scale of a matrix without skew.
func (m Matrix2D) ScaleFactor() float64 {
	return m[0]
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// Viewport maps device (pointer) coordinates to logical drawing
// coordinates. Device = pan + scale * logical, with the y axis optionally
// flipped around a device height.
type Viewport struct {
	Scale  float64 `json:"scale"`
	PanX   float64 `json:"panX"`
	PanY   float64 `json:"panY"`
	FlipY  bool    `json:"flipY,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// DefaultViewport is the identity view.
func DefaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// Matrix returns the logical-to-device transform.
func (v Viewport) Matrix() Matrix2D {
	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	m := Translate(v.PanX, v.PanY).Multiply(Scale(scale, scale))
	if v.FlipY {
		m = Translate(0, v.Height).Multiply(Scale(1, -1)).Multiply(m)
	}
	return m
}

// ToLogical converts a device point to logical coordinates.
func (v Viewport) ToLogical(x, y float64) (float64, float64) {
	return v.Matrix().Invert().TransformPoint(x, y)
}

// ToDevice converts a logical point to device coordinates.
func (v Viewport) ToDevice(x, y float64) (float64, float64) {
	return v.Matrix().TransformPoint(x, y)
}
