package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMissingObservation indicates a sky-facing call was made without a
// required piece of observation metadata.
var ErrMissingObservation = errors.New("missing observation metadata")

// Observation characterizes a single telescope pointing. Pointing and
// rotation are pointers because zero is a legitimate angle; nil means the
// field was never supplied.
type Observation struct {
	// Time is the epoch of the observation (UTC).
	Time time.Time

	// PointingRA and PointingDec are the boresight direction, radians.
	PointingRA  *float64
	PointingDec *float64

	// RotSkyPos is the rotation of the focal plane relative to sky
	// north, radians.
	RotSkyPos *float64
}

// NewObservation builds a fully-specified Observation.
func NewObservation(t time.Time, raRad, decRad, rotRad float64) Observation {
	return Observation{
		Time:        t,
		PointingRA:  &raRad,
		PointingDec: &decRad,
		RotSkyPos:   &rotRad,
	}
}

// Validate reports the first missing required field, if any. Sky-facing
// operations call this before doing any geometric work.
func (o Observation) Validate() error {
	if o.Time.IsZero() {
		return fmt.Errorf("%w: epoch time is required", ErrMissingObservation)
	}
	if o.PointingRA == nil || o.PointingDec == nil {
		return fmt.Errorf("%w: pointing direction is required", ErrMissingObservation)
	}
	if o.RotSkyPos == nil {
		return fmt.Errorf("%w: field rotation (rotSkyPos) is required", ErrMissingObservation)
	}
	return nil
}

// MotionParams carries optional per-object kinematics for a batch of
// catalog positions. Each slice is either nil or the same length as the
// RA/Dec arrays it accompanies.
type MotionParams struct {
	// PMRA is proper motion in RA multiplied by cos(Dec), radians/yr.
	PMRA []float64
	// PMDec is proper motion in Dec, radians/yr.
	PMDec []float64
	// Parallax in radians.
	Parallax []float64
	// RadialVelocity in km/s.
	RadialVelocity []float64
}

// ArcsecToRadians converts an angle in arcseconds to radians.
func ArcsecToRadians(as float64) float64 {
	return as * math.Pi / (180.0 * 3600.0)
}

// InRadians returns a copy of the motion parameters with proper motion and
// parallax converted from arcseconds to radians. Radial velocity is already
// unit-agnostic here and is passed through.
func (m MotionParams) InRadians() MotionParams {
	out := MotionParams{RadialVelocity: m.RadialVelocity}
	if m.PMRA != nil {
		out.PMRA = make([]float64, len(m.PMRA))
		for i, v := range m.PMRA {
			out.PMRA[i] = ArcsecToRadians(v)
		}
	}
	if m.PMDec != nil {
		out.PMDec = make([]float64, len(m.PMDec))
		for i, v := range m.PMDec {
			out.PMDec[i] = ArcsecToRadians(v)
		}
	}
	if m.Parallax != nil {
		out.Parallax = make([]float64, len(m.Parallax))
		for i, v := range m.Parallax {
			out.Parallax[i] = ArcsecToRadians(v)
		}
	}
	return out
}
