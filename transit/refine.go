package transit

import (
	"math"
	"time"

	"github.com/ahl/skytransit/coord"
	"github.com/ahl/skytransit/ephemeris"
	"github.com/ahl/skytransit/geometry"
	"github.com/ahl/skytransit/satellite"
)

// refinedMinimum is the structured result of refining a coarse minimum —
// every quantity the classifier needs is a named field here, never an
// attribute smuggled back onto the refining function itself (the
// refine_minimum.iss_range_km antipattern the spec re-architects away).
type refinedMinimum struct {
	Time         time.Time
	SeparationDeg float64
	TargetRadiusDeg float64
	SatAltDeg    float64
	SatAzDeg     float64
	TargetAltDeg float64
	SatRangeKm   float64
}

// roughRadiusDeg is the body-specific pre-filter radius used only to size
// the early-reject bound before a real distance is known: the reference
// script's ~0.53° figure for the Sun and ~0.26° for the Moon. The Sun's
// figure is close to its full apparent diameter rather than its radius.
func roughRadiusDeg(body Body) float64 {
	if body == BodySun {
		return 0.53
	}
	return 0.26
}

// shouldSkipRefinement applies the early-reject pre-filter (spec §4.F step
// 2): a coarse minimum further than the body's rough disc radius plus the
// near margin plus a 2° buffer cannot produce a transit/near/reachable
// event, so refinement is skipped.
func shouldSkipRefinement(coarseMinDeg float64, body Body, nearMarginDeg float64) bool {
	bound := roughRadiusDeg(body) + nearMarginDeg + 2.0
	return coarseMinDeg > bound
}

// coarseMinimum scans a pass sub-grid for the grid index with smallest
// separation from the given body. Returns the index and its separation.
// On an exact tie, the earliest index wins (spec §4.F tie-break).
func coarseMinimum(grid TimeGrid, pass PassInterval, sat satellite.Sat, eph ephemeris.Provider, obs Observer, body Body) (idx int, sepDeg float64, err error) {
	best := math.Inf(1)
	bestIdx := pass.Start
	for i := pass.Start; i <= pass.End; i++ {
		t := grid[i]
		satTopo, _, perr := satelliteTopocentric(sat, obs, t)
		if perr != nil {
			return 0, 0, perr
		}
		bodyTopo, _ := bodyTopocentric(eph, body, obs, t)
		sep := separationDeg(satTopo, bodyTopo)
		if sep < best {
			best = sep
			bestIdx = i
		}
	}
	return bestIdx, best, nil
}

// refineMinimum recomputes separation on a fine grid of
// 2*floor(window/step)+1 samples centered on tCenter, step apart, and
// locates its argmin (spec §4.F step 3). Ties resolve to the earliest
// sample.
func refineMinimum(sat satellite.Sat, eph ephemeris.Provider, obs Observer, tCenter time.Time, window, step time.Duration, body Body) (refinedMinimum, error) {
	n := int(window / step)
	bestSep := math.Inf(1)
	var bestTime time.Time
	var bestSatTopo, bestBodyTopo icrfVector
	var bestJDUT1 float64

	for k := -n; k <= n; k++ {
		t := tCenter.Add(time.Duration(k) * step)
		satTopo, jdUT1, err := satelliteTopocentric(sat, obs, t)
		if err != nil {
			return refinedMinimum{}, err
		}
		bodyTopo, _ := bodyTopocentric(eph, body, obs, t)
		sep := separationDeg(satTopo, bodyTopo)
		if sep < bestSep {
			bestSep = sep
			bestTime = t
			bestSatTopo = satTopo
			bestBodyTopo = bodyTopo
			bestJDUT1 = jdUT1
		}
	}

	satAlt, satAz, satRange := coord.Altaz(bestSatTopo, obs.LatDeg, obs.LonDeg, bestJDUT1)
	targetAlt, _, targetDist := coord.Altaz(bestBodyTopo, obs.LatDeg, obs.LonDeg, bestJDUT1)
	targetRadiusDeg := geometry.AngularRadiusDeg(bodyRadiusKm(body), targetDist)

	return refinedMinimum{
		Time:            bestTime,
		SeparationDeg:   bestSep,
		TargetRadiusDeg: targetRadiusDeg,
		SatAltDeg:       satAlt,
		SatAzDeg:        satAz,
		TargetAltDeg:    targetAlt,
		SatRangeKm:      satRange,
	}, nil
}
