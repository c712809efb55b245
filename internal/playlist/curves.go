package playlist

import (
	"sort"

	"github.com/monisha-alt/sonic-aura-stream/internal/matcher"
)

// CurveMode names the desired energy trajectory across playlist positions.
type CurveMode string

// Supported energy curve modes.
const (
	CurveSteady    CurveMode = "steady"
	CurveBuilding  CurveMode = "building"
	CurveDeclining CurveMode = "declining"
	CurveWave      CurveMode = "wave"
)

// ParseCurveMode returns the mode for s, defaulting to steady.
func ParseCurveMode(s string) CurveMode {
	switch CurveMode(s) {
	case CurveBuilding, CurveDeclining, CurveWave:
		return CurveMode(s)
	default:
		return CurveSteady
	}
}

// Fixed 10-point curve patterns.
var curvePatterns = map[CurveMode][]float64{
	CurveSteady:    {0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
	CurveBuilding:  {0.3, 0.35, 0.4, 0.45, 0.5, 0.55, 0.6, 0.65, 0.7, 0.75},
	CurveDeclining: {0.7, 0.65, 0.6, 0.55, 0.5, 0.45, 0.4, 0.35, 0.3, 0.25},
	CurveWave:      {0.4, 0.6, 0.5, 0.7, 0.4, 0.6, 0.5, 0.7, 0.4, 0.6},
}

// energyProxy orders tracks by perceived intensity using score and
// popularity, since attribute vectors are no longer attached at this stage.
func energyProxy(m matcher.Match) float64 {
	return (m.Score + float64(m.Track.Popularity)/100.0) / 2
}

// applyCurve reorders tracks to realize the requested curve mode. Steady
// keeps the input order. Other modes sort by the energy proxy and re-index
// positions through the 10-point pattern; tracks not consumed by the
// pattern are appended afterward in proxy order.
func applyCurve(tracks []matcher.Match, mode CurveMode) []matcher.Match {
	if len(tracks) == 0 || mode == CurveSteady {
		return tracks
	}

	pattern := curvePatterns[mode]
	bySortedEnergy := append([]matcher.Match(nil), tracks...)
	stableSortByProxy(bySortedEnergy)

	n := len(bySortedEnergy)
	used := make([]bool, n)
	out := make([]matcher.Match, 0, n)

	for i := 0; i < n && i < len(pattern); i++ {
		idx := curveIndex(pattern[i], mode, n)
		idx = nearestUnused(used, idx)
		if idx < 0 {
			break
		}
		used[idx] = true
		out = append(out, bySortedEnergy[idx])
	}

	for i, m := range bySortedEnergy {
		if !used[i] {
			out = append(out, m)
		}
	}
	return out
}

// curveIndex maps a pattern value to a position in the proxy-sorted list.
func curveIndex(value float64, mode CurveMode, n int) int {
	var idx int
	switch mode {
	case CurveBuilding:
		idx = int(value * float64(n-1)) // low energy first, building up
	case CurveDeclining:
		idx = int((1 - value) * float64(n-1)) // high energy first, winding down
	default: // wave
		idx = int((abs(value-0.5) * 2) * float64(n-1))
	}
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// nearestUnused finds the closest unused index to idx, preferring higher
// positions on ties so repeats of a pattern value walk forward.
func nearestUnused(used []bool, idx int) int {
	if !used[idx] {
		return idx
	}
	for d := 1; d < len(used); d++ {
		if idx+d < len(used) && !used[idx+d] {
			return idx + d
		}
		if idx-d >= 0 && !used[idx-d] {
			return idx - d
		}
	}
	return -1
}

// realizedCurve reports the energy trajectory of the final order, using the
// match score as the per-track energy indicator.
func realizedCurve(tracks []matcher.Match) []float64 {
	if len(tracks) == 0 {
		return nil
	}
	curve := make([]float64, len(tracks))
	for i, m := range tracks {
		curve[i] = m.Score
	}
	return curve
}

// interpolatedCurve linearly interpolates between two energy levels across
// n positions.
func interpolatedCurve(from, to float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	curve := make([]float64, n)
	for i := range curve {
		progress := 0.0
		if n > 1 {
			progress = float64(i) / float64(n-1)
		}
		curve[i] = from + (to-from)*progress
	}
	return curve
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// stableSortByProxy orders tracks ascending by energy proxy, breaking
// ties on track ID so reorders stay deterministic.
func stableSortByProxy(tracks []matcher.Match) {
	sort.SliceStable(tracks, func(i, j int) bool {
		pi, pj := energyProxy(tracks[i]), energyProxy(tracks[j])
		if pi != pj {
			return pi < pj
		}
		return tracks[i].Track.ID < tracks[j].Track.ID
	})
}
