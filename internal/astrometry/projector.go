// Package astrometry converts celestial coordinates to focal-plane
// field-angle coordinates for a given telescope pointing. It covers the
// geometric leg only: proper motion to first order plus a gnomonic
// projection. Full astrometric correction (precession, nutation,
// aberration, refraction) belongs to the surrounding pipeline and is
// expected to have been applied to the input positions already.
package astrometry

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/astrafoundry/focalplane-locator/core"
	"github.com/astrafoundry/focalplane-locator/model"
)

const (
	j2000JD        = 2451545.0
	julianYearDays = 365.25
)

// Projector implements core.SkyConverter with a tangent-plane (gnomonic)
// projection about the observation pointing.
type Projector struct{}

// NewProjector returns a ready-to-use Projector.
func NewProjector() *Projector { return &Projector{} }

// FieldAngleFromSky maps RA/Dec (radians, ICRS) to field-angle
// coordinates. Objects behind the tangent plane map to (NaN, NaN), which
// downstream lookups treat as off-mosaic.
//
// Proper motion is applied from J2000 to the observation epoch. Parallax
// and radial velocity are accepted for interface parity and length
// validation; their positional effect is below the candidate-filter
// tolerance at survey depth and is left to the host's astrometric model.
func (p *Projector) FieldAngleFromSky(ra, dec []float64, motion model.MotionParams, obs model.Observation) ([]core.Vec2, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	dt := (julianDate(obs.Time) - j2000JD) / julianYearDays

	ra0 := *obs.PointingRA
	dec0 := *obs.PointingDec
	rot := *obs.RotSkyPos

	sinDec0, cosDec0 := math.Sincos(dec0)
	sinRot, cosRot := math.Sincos(rot)

	out := make([]core.Vec2, len(ra))
	for i := range ra {
		r, d := ra[i], dec[i]
		if motion.PMRA != nil {
			// PMRA is pre-multiplied by cos(Dec).
			r += motion.PMRA[i] * dt / math.Cos(d)
		}
		if motion.PMDec != nil {
			d += motion.PMDec[i] * dt
		}

		sinD, cosD := math.Sincos(d)
		cosDRA := math.Cos(r - ra0)
		cosC := sinDec0*sinD + cosDec0*cosD*cosDRA
		if cosC <= 0 {
			out[i] = core.Vec2{X: math.NaN(), Y: math.NaN()}
			continue
		}

		xi := cosD * math.Sin(r-ra0) / cosC
		eta := (cosDec0*sinD - sinDec0*cosD*cosDRA) / cosC

		out[i] = core.Vec2{
			X: xi*cosRot + eta*sinRot,
			Y: eta*cosRot - xi*sinRot,
		}
	}
	return out, nil
}

// julianDate converts a wall-clock time to a Julian date.
func julianDate(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	return satellite.JDay(year, int(month), day, hour, min, sec)
}
