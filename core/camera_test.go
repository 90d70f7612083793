package core

import (
	"errors"
	"testing"

	"github.com/astrafoundry/focalplane-locator/model"
)

func TestAddDetectorRejectsDuplicatesAndBadInput(t *testing.T) {
	c := NewCamera()

	if err := c.AddDetector(nil); !errors.Is(err, ErrBadCatalog) {
		t.Errorf("nil detector: got %v, want ErrBadCatalog", err)
	}
	if err := c.AddDetector(&Detector{Name: "D0"}); !errors.Is(err, ErrBadCatalog) {
		t.Errorf("missing transform: got %v, want ErrBadCatalog", err)
	}

	d := squareDetector("D0", model.DetectorStandard, 10, IdentityTransform())
	if err := c.AddDetector(d); err != nil {
		t.Fatalf("AddDetector: %v", err)
	}
	dup := squareDetector("D0", model.DetectorStandard, 10, IdentityTransform())
	if err := c.AddDetector(dup); !errors.Is(err, ErrDetectorExists) {
		t.Errorf("duplicate name: got %v, want ErrDetectorExists", err)
	}
}

func TestCameraIdentityChangesOnMutation(t *testing.T) {
	c := NewCamera()
	id0 := c.ID()

	d := squareDetector("D0", model.DetectorStandard, 10, IdentityTransform())
	if err := c.AddDetector(d); err != nil {
		t.Fatalf("AddDetector: %v", err)
	}
	if c.ID() == id0 {
		t.Errorf("catalog identity should change when a detector is added")
	}
}

func TestIndexIsCachedPerCatalogIdentity(t *testing.T) {
	c := mustCamera(squareDetector("D0", model.DetectorStandard, 10, IdentityTransform()))

	idx1, err := c.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	idx2, err := c.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx1 != idx2 {
		t.Errorf("repeat Index call on unchanged catalog should return the cached index")
	}

	tr, err := NewScaleTransform(1, 100, 0)
	if err != nil {
		t.Fatalf("NewScaleTransform: %v", err)
	}
	if err := c.AddDetector(squareDetector("D1", model.DetectorStandard, 10, tr)); err != nil {
		t.Fatalf("AddDetector: %v", err)
	}

	idx3, err := c.Index()
	if err != nil {
		t.Fatalf("Index after mutation: %v", err)
	}
	if idx3 == idx1 {
		t.Errorf("index should be rebuilt after the catalog identity changes")
	}
	if idx3.Len() != 2 {
		t.Errorf("rebuilt index has %d detectors, want 2", idx3.Len())
	}
}

func TestDetectorLookupByName(t *testing.T) {
	c := mustCamera(squareDetector("D0", model.DetectorStandard, 10, IdentityTransform()))
	if got := c.Detector("D0"); got == nil || got.Name != "D0" {
		t.Errorf("Detector(\"D0\") = %v", got)
	}
	if got := c.Detector("missing"); got != nil {
		t.Errorf("Detector(\"missing\") = %v, want nil", got)
	}
}
