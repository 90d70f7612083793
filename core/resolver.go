package core

import (
	"strings"

	"github.com/astrafoundry/focalplane-locator/model"
)

// MatchKind tags a LookupResult.
type MatchKind int

const (
	// MatchNone means no detector contains the point. This is a normal
	// outcome, never an error.
	MatchNone MatchKind = iota
	// MatchSingle means exactly one detector contains the point.
	MatchSingle
	// MatchMultiple means the point fell on several overlapping
	// detectors and multi-match was allowed.
	MatchMultiple
)

// LookupResult is the outcome of resolving one query point.
type LookupResult struct {
	Kind MatchKind
	// Names holds the containing detector names in visitation order.
	// Empty for MatchNone, one entry for MatchSingle.
	Names []string
}

// Detector returns the first matched detector name, or "" for MatchNone.
func (r LookupResult) Detector() string {
	if len(r.Names) == 0 {
		return ""
	}
	return r.Names[0]
}

// String renders the result for human-facing output: "" for no match, the
// bare name for a single match, and a bracketed list for multiple.
func (r LookupResult) String() string {
	switch r.Kind {
	case MatchSingle:
		return r.Names[0]
	case MatchMultiple:
		return "[" + strings.Join(r.Names, ", ") + "]"
	default:
		return ""
	}
}

// resolve tests each point exactly against its candidate detectors and
// settles single vs. multiple matches.
//
// Each distinct detector is visited exactly once, in the order it is first
// encountered scanning the candidate lists point by point. Visiting a
// detector means gathering every still-unresolved point that lists it,
// mapping those points into the detector's pixel frame in one pass, and
// testing closed-interval containment against the pixel bounding box.
//
// A point is multi-eligible iff allowMultiple is set and at least one of
// its candidates is an overlap-class detector. Multi-eligible points
// accumulate every containing detector and stay unresolved to the end;
// all other points resolve on their first hit. The unresolved counter is
// checked before each visitation so the scan stops as soon as no point
// can change state. Modulo the pre-filter's recall, the outcome equals an
// exhaustive all-points-times-all-detectors test.
func resolve(idx *DetectorIndex, points []Vec2, cands [][]int, allowMultiple bool) []LookupResult {
	n := len(points)
	names := make([][]string, n)
	resolved := make([]bool, n)
	unresolved := n

	// Points with no candidates resolve to NoMatch up front and never
	// cost a transform call.
	for i, list := range cands {
		if len(list) == 0 {
			resolved[i] = true
			unresolved--
		}
	}

	multiEligible := make([]bool, n)
	if allowMultiple {
		for i, list := range cands {
			for _, di := range list {
				if idx.detectors[di].Type == model.DetectorOverlap {
					multiEligible[i] = true
					break
				}
			}
		}
	}

	visited := make([]bool, idx.Len())

	var gathered []int
	for ipt := range points {
		if resolved[ipt] {
			continue
		}
		for _, di := range cands[ipt] {
			if visited[di] {
				continue
			}
			if unresolved == 0 {
				return finalize(names)
			}
			visited[di] = true

			gathered = gathered[:0]
			for j := 0; j < n; j++ {
				if resolved[j] {
					continue
				}
				for _, dj := range cands[j] {
					if dj == di {
						gathered = append(gathered, j)
						break
					}
				}
			}

			det := idx.detectors[di]
			for _, j := range gathered {
				pp := det.Transform.FieldToPixel(points[j], true)
				if !det.BBox.Contains(pp.X, pp.Y) {
					continue
				}
				if !multiEligible[j] {
					names[j] = []string{det.Name}
					resolved[j] = true
					unresolved--
				} else {
					names[j] = append(names[j], det.Name)
				}
			}
		}
	}

	return finalize(names)
}

func finalize(names [][]string) []LookupResult {
	out := make([]LookupResult, len(names))
	for i, ns := range names {
		switch len(ns) {
		case 0:
			out[i] = LookupResult{Kind: MatchNone}
		case 1:
			out[i] = LookupResult{Kind: MatchSingle, Names: ns}
		default:
			out[i] = LookupResult{Kind: MatchMultiple, Names: ns}
		}
	}
	return out
}
