package astrometry

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/astrafoundry/focalplane-locator/model"
)

var testEpoch = time.Date(2024, 3, 1, 4, 30, 0, 0, time.UTC)

func TestPointingMapsToOrigin(t *testing.T) {
	p := NewProjector()
	obs := model.NewObservation(testEpoch, 1.2, -0.4, 0.3)

	out, err := p.FieldAngleFromSky([]float64{1.2}, []float64{-0.4}, model.MotionParams{}, obs)
	if err != nil {
		t.Fatalf("FieldAngleFromSky: %v", err)
	}
	if math.Abs(out[0].X) > 1e-12 || math.Abs(out[0].Y) > 1e-12 {
		t.Errorf("boresight object = %+v, want origin", out[0])
	}
}

func TestGnomonicOffsetsMatchTangent(t *testing.T) {
	p := NewProjector()
	// Equatorial pointing, no rotation: an object north of boresight
	// lands at (0, tan(sep)).
	obs := model.NewObservation(testEpoch, 0, 0, 0)
	sep := 0.001

	out, err := p.FieldAngleFromSky([]float64{0}, []float64{sep}, model.MotionParams{}, obs)
	if err != nil {
		t.Fatalf("FieldAngleFromSky: %v", err)
	}
	if math.Abs(out[0].X) > 1e-12 {
		t.Errorf("x = %v, want 0", out[0].X)
	}
	if math.Abs(out[0].Y-math.Tan(sep)) > 1e-12 {
		t.Errorf("y = %v, want tan(%v) = %v", out[0].Y, sep, math.Tan(sep))
	}
}

func TestFieldRotationRotatesFrame(t *testing.T) {
	p := NewProjector()
	sep := 0.001

	// Rotating the focal plane by 90 degrees moves a northward offset
	// from +y onto +x.
	obs := model.NewObservation(testEpoch, 0, 0, math.Pi/2)
	out, err := p.FieldAngleFromSky([]float64{0}, []float64{sep}, model.MotionParams{}, obs)
	if err != nil {
		t.Fatalf("FieldAngleFromSky: %v", err)
	}
	if math.Abs(out[0].X-math.Tan(sep)) > 1e-12 || math.Abs(out[0].Y) > 1e-12 {
		t.Errorf("rotated offset = %+v, want (tan(sep), 0)", out[0])
	}
}

func TestProperMotionShiftsPosition(t *testing.T) {
	p := NewProjector()
	obs := model.NewObservation(testEpoch, 0, 0, 0)

	// ~24 years past J2000 at 10 mas/yr in Dec accumulates ~0.24 arcsec.
	pmDec := model.ArcsecToRadians(0.010)
	still, err := p.FieldAngleFromSky([]float64{0}, []float64{0.001}, model.MotionParams{}, obs)
	if err != nil {
		t.Fatalf("FieldAngleFromSky: %v", err)
	}
	moving, err := p.FieldAngleFromSky([]float64{0}, []float64{0.001},
		model.MotionParams{PMRA: []float64{0}, PMDec: []float64{pmDec}}, obs)
	if err != nil {
		t.Fatalf("FieldAngleFromSky: %v", err)
	}

	dy := moving[0].Y - still[0].Y
	years := testEpoch.Sub(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)).Hours() / 24 / julianYearDays
	want := pmDec * years
	if math.Abs(dy-want) > want*1e-3 {
		t.Errorf("proper motion shift = %v, want about %v", dy, want)
	}
}

func TestObjectBehindTangentPlaneIsNaN(t *testing.T) {
	p := NewProjector()
	obs := model.NewObservation(testEpoch, 0, 0, 0)

	// Antipode of the pointing.
	out, err := p.FieldAngleFromSky([]float64{math.Pi}, []float64{0}, model.MotionParams{}, obs)
	if err != nil {
		t.Fatalf("FieldAngleFromSky: %v", err)
	}
	if !math.IsNaN(out[0].X) || !math.IsNaN(out[0].Y) {
		t.Errorf("antipodal object = %+v, want NaN pair", out[0])
	}
}

func TestMissingObservationMetadataFails(t *testing.T) {
	p := NewProjector()
	_, err := p.FieldAngleFromSky([]float64{0}, []float64{0}, model.MotionParams{}, model.Observation{})
	if !errors.Is(err, model.ErrMissingObservation) {
		t.Fatalf("got %v, want ErrMissingObservation", err)
	}
}

func TestJulianDateKnownEpoch(t *testing.T) {
	// J2000.0 is 2000-01-01 12:00 UTC (TT offset ignored at this layer).
	jd := julianDate(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(jd-j2000JD) > 1e-6 {
		t.Errorf("julianDate(J2000) = %v, want %v", jd, j2000JD)
	}
}
