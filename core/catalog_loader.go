package core

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/astrafoundry/focalplane-locator/model"
)

// Unexported wire shapes for the catalog file format.
type cameraCatalogJSON struct {
	Name      string         `json:"name"`
	Detectors []detectorJSON `json:"detectors"`
}

type detectorJSON struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"` // "standard" | "overlap"
	Corners [][2]float64  `json:"corners"`
	BBox    bboxJSON      `json:"bbox"`
	Trans   transformJSON `json:"transform"`
}

type bboxJSON struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type transformJSON struct {
	// Pixel scale in field units per pixel; defaults apply per axis when
	// only Scale is set.
	Scale  float64 `json:"scale"`
	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`
	// Rotation of the detector in the field frame, radians.
	Rotation float64 `json:"rotation"`
	// Field-frame position of the detector's pixel origin.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	// Radial distortion coefficients, highest-order last.
	Distortion []float64 `json:"distortion"`
}

// LoadCameraCatalog reads a camera catalog from r and returns a sealed
// Camera. It fails on structural errors and on detectors that do not carry
// exactly four corners; geometric degeneracy is caught later when the
// index is built.
func LoadCameraCatalog(r io.Reader) (*Camera, error) {
	var payload cameraCatalogJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadCameraCatalog: decode failed: %w", err)
	}

	camera := NewCamera()
	for _, jsDet := range payload.Detectors {
		if jsDet.Name == "" {
			return nil, fmt.Errorf("%w: detector with empty name", ErrBadCatalog)
		}
		if len(jsDet.Corners) != 4 {
			return nil, fmt.Errorf("%w: detector %q has %d corners, want 4",
				ErrBadCatalog, jsDet.Name, len(jsDet.Corners))
		}

		transform, err := transformFromJSON(jsDet.Trans)
		if err != nil {
			return nil, fmt.Errorf("%w: detector %q: %v", ErrBadCatalog, jsDet.Name, err)
		}

		det := &Detector{
			Name:      jsDet.Name,
			Type:      detectorTypeFromString(jsDet.Type),
			Transform: transform,
			BBox: Box2{
				MinX: jsDet.BBox.MinX, MinY: jsDet.BBox.MinY,
				MaxX: jsDet.BBox.MaxX, MaxY: jsDet.BBox.MaxY,
			},
		}
		for i, c := range jsDet.Corners {
			det.Corners[i] = PixelPoint{X: c[0], Y: c[1]}
		}

		if err := camera.AddDetector(det); err != nil {
			return nil, err
		}
	}

	return camera, nil
}

func transformFromJSON(js transformJSON) (*AffineTransform, error) {
	sx, sy := js.ScaleX, js.ScaleY
	if sx == 0 {
		sx = js.Scale
	}
	if sy == 0 {
		sy = js.Scale
	}
	if sx == 0 || sy == 0 {
		return nil, fmt.Errorf("zero pixel scale")
	}

	cosR := math.Cos(js.Rotation)
	sinR := math.Sin(js.Rotation)
	return NewAffineTransform(
		sx*cosR, -sy*sinR,
		sx*sinR, sy*cosR,
		js.OffsetX, js.OffsetY,
		js.Distortion,
	)
}

// detectorTypeFromString maps the JSON "type" string to the detector type
// tags. Unknown or empty values default to standard, the common case for
// science sensors.
func detectorTypeFromString(s string) model.DetectorType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overlap", "wavefront":
		return model.DetectorOverlap
	default:
		return model.DetectorStandard
	}
}
