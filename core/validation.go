package core

import (
	"errors"
	"fmt"

	"github.com/astrafoundry/focalplane-locator/model"
)

// ErrMismatchedInput indicates batch parameters of unequal length. The
// error names the offending parameter and is raised before any geometric
// computation.
var ErrMismatchedInput = errors.New("mismatched input lengths")

// namedSlice pairs a parameter name with its length for validation.
type namedSlice struct {
	name string
	len  int
	// optional slices may be nil, in which case length is not checked.
	present bool
}

// checkLengths verifies that every present parameter has length want.
func checkLengths(op string, want int, params ...namedSlice) error {
	for _, p := range params {
		if !p.present {
			continue
		}
		if p.len != want {
			return fmt.Errorf("%w: %s: parameter %q has length %d, want %d",
				ErrMismatchedInput, op, p.name, p.len, want)
		}
	}
	return nil
}

// validateSkyInputs checks ra/dec and any supplied motion parameters for
// consistent lengths before a sky-facing operation runs.
func validateSkyInputs(op string, ra, dec []float64, motion model.MotionParams) error {
	return checkLengths(op, len(ra),
		namedSlice{name: "dec", len: len(dec), present: true},
		namedSlice{name: "pmRA", len: len(motion.PMRA), present: motion.PMRA != nil},
		namedSlice{name: "pmDec", len: len(motion.PMDec), present: motion.PMDec != nil},
		namedSlice{name: "parallax", len: len(motion.Parallax), present: motion.Parallax != nil},
		namedSlice{name: "radialVelocity", len: len(motion.RadialVelocity), present: motion.RadialVelocity != nil},
	)
}
