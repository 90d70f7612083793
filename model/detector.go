package model

// DetectorType classifies a sensor chip on the focal plane.
type DetectorType int

const (
	// DetectorStandard is a regular science sensor. No two standard
	// sensors overlap in projection, so a point resolves to at most one.
	DetectorStandard DetectorType = iota

	// DetectorOverlap marks a sensor known to overlap a neighbour in
	// projection (e.g. paired wavefront sensors held at opposite focus
	// offsets). Points on such sensors may legitimately resolve to more
	// than one chip.
	DetectorOverlap
)

// String returns the catalog spelling of the detector type.
func (t DetectorType) String() string {
	switch t {
	case DetectorStandard:
		return "standard"
	case DetectorOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}
