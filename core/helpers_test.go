package core

import (
	"github.com/astrafoundry/focalplane-locator/model"
)

// squareDetector builds a size x size detector with its pixel origin at
// (0,0) and the given transform.
func squareDetector(name string, typ model.DetectorType, size float64, tr Transform) *Detector {
	return &Detector{
		Name: name,
		Type: typ,
		Corners: [4]PixelPoint{
			{0, 0}, {size, 0}, {size, size}, {0, size},
		},
		BBox:      Box2{MinX: 0, MinY: 0, MaxX: size, MaxY: size},
		Transform: tr,
	}
}

// mustCamera assembles a camera from detectors, panicking on error; tests
// construct valid catalogs unless they are exercising failures.
func mustCamera(detectors ...*Detector) *Camera {
	c := NewCamera()
	for _, d := range detectors {
		if err := c.AddDetector(d); err != nil {
			panic(err)
		}
	}
	return c
}

// countingTransform wraps a Transform and counts FieldToPixel calls so
// tests can assert how much exact-resolution work a lookup performed.
type countingTransform struct {
	inner Transform
	calls int
}

func (c *countingTransform) PixelToField(p PixelPoint) Vec2 {
	return c.inner.PixelToField(p)
}

func (c *countingTransform) FieldToPixel(v Vec2, withDistortion bool) PixelPoint {
	c.calls++
	return c.inner.FieldToPixel(v, withDistortion)
}
