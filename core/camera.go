package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/astrafoundry/focalplane-locator/model"
)

var (
	ErrBadCatalog      = errors.New("malformed detector catalog")
	ErrDetectorExists  = errors.New("detector already exists")
	ErrUnknownDetector = errors.New("unknown detector")
)

// Detector describes one sensor chip of the focal-plane mosaic: its unique
// name, its four corner points in its own pixel frame, its type tag, its
// pixel-space bounding box, and the transform between its pixel frame and
// the shared field-angle frame. Immutable once added to a Camera.
type Detector struct {
	Name      string
	Type      model.DetectorType
	Corners   [4]PixelPoint
	BBox      Box2
	Transform Transform
}

// Camera is the detector catalog. It is concurrency-safe: the mutex guards
// catalog mutation and the cached index; lookups read the immutable index
// without locking.
//
// Each mutation assigns the catalog a fresh identity, which is what
// invalidates the derived detector index. The index is never mutated in
// place.
type Camera struct {
	mu sync.RWMutex

	id        uuid.UUID
	detectors []*Detector
	byName    map[string]*Detector

	index *DetectorIndex
}

// NewCamera constructs an empty camera catalog.
func NewCamera() *Camera {
	return &Camera{
		id:     uuid.New(),
		byName: make(map[string]*Detector),
	}
}

// AddDetector appends a detector to the catalog. It returns an error if
// the detector is nil, unnamed, lacks a transform, or duplicates an
// existing name. Geometric validity (non-degenerate footprint) is checked
// when the index is built, where the whole catalog is rejected at once.
func (c *Camera) AddDetector(d *Detector) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("%w: nil or unnamed detector", ErrBadCatalog)
	}
	if d.Transform == nil {
		return fmt.Errorf("%w: detector %q has no pixel transform", ErrBadCatalog, d.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDetectorExists, d.Name)
	}
	c.detectors = append(c.detectors, d)
	c.byName[d.Name] = d

	// Catalog identity changes; any cached index is now stale.
	c.id = uuid.New()
	c.index = nil
	return nil
}

// Detector returns the detector with the given name, or nil if not found.
func (c *Camera) Detector(name string) *Detector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[name]
}

// Detectors returns a snapshot of all detectors in catalog order.
func (c *Camera) Detectors() []*Detector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Detector, len(c.detectors))
	copy(out, c.detectors)
	return out
}

// Len returns the number of detectors in the catalog.
func (c *Camera) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.detectors)
}

// ID returns the current catalog identity.
func (c *Camera) ID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Index returns the detector index for the current catalog, building it on
// first use and caching it until the catalog identity changes. The
// returned index is immutable and safe to share across goroutines.
func (c *Camera) Index() (*DetectorIndex, error) {
	c.mu.RLock()
	if c.index != nil && c.index.cameraID == c.id {
		idx := c.index
		c.mu.RUnlock()
		return idx, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have built it while we waited.
	if c.index != nil && c.index.cameraID == c.id {
		return c.index, nil
	}
	idx, err := buildDetectorIndex(c.id, c.detectors)
	if err != nil {
		return nil, err
	}
	c.index = idx
	return idx, nil
}
