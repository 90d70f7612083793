package core

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transform maps between a detector's local pixel frame and the common
// field-angle frame. Implementations must be pure functions of their
// inputs; the resolver relies on transforms being deterministic.
type Transform interface {
	// PixelToField maps a pixel-frame point to the field-angle frame.
	PixelToField(p PixelPoint) Vec2

	// FieldToPixel maps a field-angle point into the detector's pixel
	// frame. When withDistortion is true the optical distortion model is
	// applied, yielding true pixels; when false the mapping is the pure
	// tangent-plane (affine) projection.
	FieldToPixel(v Vec2, withDistortion bool) PixelPoint
}

// AffineTransform is a pixel<->field transform composed of a 2x2 linear
// part and an offset, with an optional radial distortion applied on the
// field->pixel leg:
//
//	field = M * pixel + offset
//	pixel = M^-1 * (field' - offset), field' = distort(field)
//
// Distortion coefficients k1, k2, ... scale the field vector about the
// detector center by (1 + k1 r^2 + k2 r^4 + ...), r being the distance
// from the transform offset.
type AffineTransform struct {
	m, mInv    *mat.Dense
	offset     Vec2
	distortion []float64
}

// NewAffineTransform builds a transform from the row-major linear part
// [m00 m01; m10 m11] and the field-frame offset. It fails if the linear
// part is singular, since the resolver needs both directions.
func NewAffineTransform(m00, m01, m10, m11, offsetX, offsetY float64, distortion []float64) (*AffineTransform, error) {
	m := mat.NewDense(2, 2, []float64{m00, m01, m10, m11})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("singular pixel transform: %w", err)
	}
	return &AffineTransform{
		m:          m,
		mInv:       &inv,
		offset:     Vec2{X: offsetX, Y: offsetY},
		distortion: append([]float64(nil), distortion...),
	}, nil
}

// NewScaleTransform is a convenience constructor for a transform that
// scales pixels uniformly and offsets them in the field frame.
func NewScaleTransform(scale, offsetX, offsetY float64) (*AffineTransform, error) {
	return NewAffineTransform(scale, 0, 0, scale, offsetX, offsetY, nil)
}

// IdentityTransform returns the unit-scale transform with no offset and no
// distortion. Mostly useful in tests and synthetic cameras.
func IdentityTransform() *AffineTransform {
	t, err := NewScaleTransform(1, 0, 0)
	if err != nil {
		// 2x2 identity cannot be singular.
		panic(err)
	}
	return t
}

// PixelToField applies the forward mapping. The forward leg never applies
// distortion: corner positions in the catalog are true pixels.
func (t *AffineTransform) PixelToField(p PixelPoint) Vec2 {
	x := t.m.At(0, 0)*p.X + t.m.At(0, 1)*p.Y
	y := t.m.At(1, 0)*p.X + t.m.At(1, 1)*p.Y
	return Vec2{X: x + t.offset.X, Y: y + t.offset.Y}
}

// FieldToPixel applies the inverse mapping, optionally with the radial
// distortion model.
func (t *AffineTransform) FieldToPixel(v Vec2, withDistortion bool) PixelPoint {
	d := v.Sub(t.offset)
	if withDistortion && len(t.distortion) > 0 {
		d = t.distort(d)
	}
	x := t.mInv.At(0, 0)*d.X + t.mInv.At(0, 1)*d.Y
	y := t.mInv.At(1, 0)*d.X + t.mInv.At(1, 1)*d.Y
	return PixelPoint{X: x, Y: y}
}

// distort scales d radially by (1 + k1 r^2 + k2 r^4 + ...).
func (t *AffineTransform) distort(d Vec2) Vec2 {
	r2 := d.X*d.X + d.Y*d.Y
	scale := 1.0
	term := r2
	for _, k := range t.distortion {
		scale += k * term
		term *= r2
	}
	return Vec2{X: d.X * scale, Y: d.Y * scale}
}
