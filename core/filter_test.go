package core

import (
	"testing"

	"github.com/astrafoundry/focalplane-locator/model"
)

func TestCandidatesShortCircuitOutsideBound(t *testing.T) {
	c := mustCamera(squareDetector("D0", model.DetectorStandard, 10, IdentityTransform()))
	idx, err := c.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	cands := idx.candidates([]Vec2{{X: 100, Y: 100}, {X: -1, Y: 5}})
	for i, list := range cands {
		if len(list) != 0 {
			t.Errorf("point %d outside the mosaic bound got candidates %v", i, list)
		}
	}
}

func TestCandidatesUseWidenedRadius(t *testing.T) {
	// Two squares; the second only stretches the mosaic bound so points
	// near (but off) the first still pass the bound check.
	far, err := NewScaleTransform(1, 30, 30)
	if err != nil {
		t.Fatalf("NewScaleTransform: %v", err)
	}
	c := mustCamera(
		squareDetector("near", model.DetectorStandard, 10, IdentityTransform()),
		squareDetector("far", model.DetectorStandard, 10, far),
	)
	idx, err := c.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	// Radius is 5*sqrt(2) ~ 7.071; the filter admits dist < 1.1*radius
	// ~ 7.778. From the center (5,5): (5,12) is 7 away (candidate),
	// (5,14) is 9 away (not a candidate).
	cands := idx.candidates([]Vec2{{X: 5, Y: 12}, {X: 5, Y: 14}, {X: 5, Y: 5}})

	if len(cands[0]) != 1 || cands[0][0] != 0 {
		t.Errorf("point inside widened radius: candidates = %v, want [0]", cands[0])
	}
	if len(cands[1]) != 0 {
		t.Errorf("point beyond widened radius: candidates = %v, want none", cands[1])
	}
	if len(cands[2]) != 1 || cands[2][0] != 0 {
		t.Errorf("point at center: candidates = %v, want [0]", cands[2])
	}
}

func TestCandidatesCanListSeveralDetectors(t *testing.T) {
	shift, err := NewScaleTransform(1, 5, 0)
	if err != nil {
		t.Fatalf("NewScaleTransform: %v", err)
	}
	c := mustCamera(
		squareDetector("A", model.DetectorOverlap, 10, IdentityTransform()),
		squareDetector("B", model.DetectorOverlap, 10, shift),
	)
	idx, err := c.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	cands := idx.candidates([]Vec2{{X: 7, Y: 5}})
	if len(cands[0]) != 2 {
		t.Errorf("overlapping detectors: candidates = %v, want both", cands[0])
	}
}
