package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/astrafoundry/focalplane-locator/internal/logging"
	"github.com/astrafoundry/focalplane-locator/model"
)

// ErrNoSkyConverter indicates a sky-facing call on a Locator that was
// built without a sky coordinate converter.
var ErrNoSkyConverter = errors.New("no sky converter configured")

// SkyConverter turns celestial coordinates into field-angle coordinates
// for a given observation. Implementations must validate the observation
// metadata and fail with a descriptive error before converting anything.
type SkyConverter interface {
	FieldAngleFromSky(ra, dec []float64, motion model.MotionParams, obs model.Observation) ([]Vec2, error)
}

// MetricsRecorder receives lookup outcomes. The zero-value Locator does
// not record; hosts wire a collector when they want visibility.
type MetricsRecorder interface {
	ObserveLookup(results []LookupResult, elapsed time.Duration)
	SetDetectorsIndexed(n int)
}

// Locator resolves query points to the detectors that see them. It is
// safe for concurrent use: lookups share the camera's immutable index and
// write only to their own result slices.
type Locator struct {
	camera  *Camera
	sky     SkyConverter
	log     logging.Logger
	metrics MetricsRecorder
}

// NewLocator builds a Locator over the given camera catalog. Sky-facing
// operations additionally need a converter; see WithSky.
func NewLocator(camera *Camera) *Locator {
	return &Locator{camera: camera, log: logging.Noop()}
}

// WithSky attaches a sky->field converter and returns the locator.
func (l *Locator) WithSky(sky SkyConverter) *Locator {
	l.sky = sky
	return l
}

// WithLogger attaches a structured logger and returns the locator.
func (l *Locator) WithLogger(log logging.Logger) *Locator {
	if log == nil {
		log = logging.Noop()
	}
	l.log = log
	return l
}

// WithMetrics attaches a metrics recorder and returns the locator.
func (l *Locator) WithMetrics(m MetricsRecorder) *Locator {
	l.metrics = m
	return l
}

// Camera returns the underlying catalog.
func (l *Locator) Camera() *Camera { return l.camera }

// Lookup resolves each field-angle point to the detector(s) that see it.
// The result slice has the same length and order as points. A point no
// detector sees resolves to MatchNone; that is not an error.
func (l *Locator) Lookup(ctx context.Context, points []Vec2, allowMultiple bool) ([]LookupResult, error) {
	start := time.Now()

	idx, err := l.camera.Index()
	if err != nil {
		return nil, err
	}
	if l.metrics != nil {
		l.metrics.SetDetectorsIndexed(idx.Len())
	}

	cands := idx.candidates(points)
	results := resolve(idx, points, cands, allowMultiple)

	elapsed := time.Since(start)
	if l.metrics != nil {
		l.metrics.ObserveLookup(results, elapsed)
	}
	l.log.Debug(ctx, "detector lookup",
		logging.Int("points", len(points)),
		logging.Int("detectors", idx.Len()),
		logging.Any("elapsed", elapsed),
	)
	return results, nil
}

// LookupOne resolves a single field-angle point.
func (l *Locator) LookupOne(ctx context.Context, p Vec2, allowMultiple bool) (LookupResult, error) {
	res, err := l.Lookup(ctx, []Vec2{p}, allowMultiple)
	if err != nil {
		return LookupResult{}, err
	}
	return res[0], nil
}

// SkyLookup converts celestial coordinates (radians) to the field frame
// and resolves them. It fails before any lookup when the observation
// metadata is incomplete or the batch parameters disagree in length.
func (l *Locator) SkyLookup(ctx context.Context, ra, dec []float64, motion model.MotionParams, obs model.Observation, allowMultiple bool) ([]LookupResult, error) {
	if l.sky == nil {
		return nil, ErrNoSkyConverter
	}
	if err := validateSkyInputs("SkyLookup", ra, dec, motion); err != nil {
		return nil, err
	}
	points, err := l.sky.FieldAngleFromSky(ra, dec, motion, obs)
	if err != nil {
		return nil, err
	}
	return l.Lookup(ctx, points, allowMultiple)
}

// SkyLookupDegrees is SkyLookup for callers holding degrees and
// arcsecond-based motion parameters.
func (l *Locator) SkyLookupDegrees(ctx context.Context, raDeg, decDeg []float64, motion model.MotionParams, obs model.Observation, allowMultiple bool) ([]LookupResult, error) {
	ra := make([]float64, len(raDeg))
	dec := make([]float64, len(decDeg))
	for i := range raDeg {
		ra[i] = raDeg[i] * math.Pi / 180
	}
	for i := range decDeg {
		dec[i] = decDeg[i] * math.Pi / 180
	}
	return l.SkyLookup(ctx, ra, dec, motion.InRadians(), obs, allowMultiple)
}

// PixelLookup returns the pixel coordinates of each object on its
// detector. When detectorNames is nil the detectors are resolved first via
// SkyLookup; a single name is broadcast across the batch. Objects that
// land on no detector, or whose named detector does not actually contain
// them, get (NaN, NaN).
func (l *Locator) PixelLookup(ctx context.Context, ra, dec []float64, motion model.MotionParams, obs model.Observation, detectorNames []string, withDistortion bool) ([]PixelPoint, error) {
	if l.sky == nil {
		return nil, ErrNoSkyConverter
	}
	if err := validateSkyInputs("PixelLookup", ra, dec, motion); err != nil {
		return nil, err
	}

	switch {
	case detectorNames == nil:
	case len(detectorNames) == 1 && len(ra) != 1:
		// Broadcast a single name across the batch.
		name := detectorNames[0]
		detectorNames = make([]string, len(ra))
		for i := range detectorNames {
			detectorNames[i] = name
		}
	case len(detectorNames) != len(ra):
		return nil, fmt.Errorf("%w: PixelLookup: parameter %q has length %d, want %d",
			ErrMismatchedInput, "detectorNames", len(detectorNames), len(ra))
	}

	points, err := l.sky.FieldAngleFromSky(ra, dec, motion, obs)
	if err != nil {
		return nil, err
	}

	if detectorNames == nil {
		results, err := l.Lookup(ctx, points, false)
		if err != nil {
			return nil, err
		}
		detectorNames = make([]string, len(results))
		for i, r := range results {
			detectorNames[i] = r.Detector()
		}
	}

	nan := PixelPoint{X: math.NaN(), Y: math.NaN()}
	out := make([]PixelPoint, len(points))
	for i, p := range points {
		name := detectorNames[i]
		if name == "" {
			out[i] = nan
			continue
		}
		det := l.camera.Detector(name)
		if det == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
		}
		pp := det.Transform.FieldToPixel(p, withDistortion)
		// The chip was either resolved by lookup or named by the
		// caller; double-check it actually sees the point.
		check := det.Transform.FieldToPixel(p, true)
		if !det.BBox.Contains(check.X, check.Y) {
			out[i] = nan
			continue
		}
		out[i] = pp
	}
	return out, nil
}
