package core

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// DetectorIndex is the precomputed spatial index over detector footprints
// in the field-angle frame: one bounding circle (center, radius) per
// detector plus the overall mosaic bound. It is derived once per catalog
// and never mutated; bounding circles are used only for cheap candidate
// filtering, never for final containment decisions.
type DetectorIndex struct {
	cameraID uuid.UUID

	detectors []*Detector
	centerX   []float64
	centerY   []float64
	radius    []float64

	bound Box2
}

// buildDetectorIndex derives the index from the catalog. A malformed
// catalog (no detectors, or a degenerate zero-area footprint) fails the
// whole build: a partially-built index would silently drop chips.
func buildDetectorIndex(id uuid.UUID, detectors []*Detector) (*DetectorIndex, error) {
	if len(detectors) == 0 {
		return nil, fmt.Errorf("%w: catalog has no detectors", ErrBadCatalog)
	}

	idx := &DetectorIndex{
		cameraID:  id,
		detectors: make([]*Detector, len(detectors)),
		centerX:   make([]float64, len(detectors)),
		centerY:   make([]float64, len(detectors)),
		radius:    make([]float64, len(detectors)),
		bound:     EmptyBox2(),
	}
	copy(idx.detectors, detectors)

	xs := make([]float64, 4)
	ys := make([]float64, 4)
	dist := make([]float64, 4)
	fieldCorners := make([]Vec2, 4)

	for i, det := range detectors {
		for k, corner := range det.Corners {
			fc := det.Transform.PixelToField(corner)
			fieldCorners[k] = fc
			xs[k] = fc.X
			ys[k] = fc.Y
			idx.bound.Include(fc.X, fc.Y)
		}

		if polygonArea(fieldCorners) == 0 {
			return nil, fmt.Errorf("%w: detector %q has a degenerate footprint", ErrBadCatalog, det.Name)
		}

		center := Vec2{X: floats.Sum(xs) / 4, Y: floats.Sum(ys) / 4}
		for k, fc := range fieldCorners {
			dist[k] = center.DistanceTo(fc)
		}

		idx.centerX[i] = center.X
		idx.centerY[i] = center.Y
		idx.radius[i] = floats.Sum(dist) / 4
	}

	return idx, nil
}

// Len returns the number of indexed detectors.
func (idx *DetectorIndex) Len() int { return len(idx.detectors) }

// Bound returns the overall mosaic bounding box in the field frame.
func (idx *DetectorIndex) Bound() Box2 { return idx.bound }

// Center returns the bounding-circle center of detector i.
func (idx *DetectorIndex) Center(i int) Vec2 {
	return Vec2{X: idx.centerX[i], Y: idx.centerY[i]}
}

// Radius returns the bounding-circle radius of detector i.
func (idx *DetectorIndex) Radius(i int) float64 { return idx.radius[i] }
