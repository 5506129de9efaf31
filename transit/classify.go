package transit

import (
	"math"
	"time"

	"github.com/ahl/skytransit/coord"
	"github.com/ahl/skytransit/ephemeris"
	"github.com/ahl/skytransit/geometry"
	"github.com/ahl/skytransit/satellite"
	"github.com/ahl/skytransit/spk"
)

// classify gates, classifies, and derives the secondary quantities for one
// refined minimum (spec §4.G). Returns (nil, nil) when the minimum is
// gated out or classifies to none of transit/near/reachable — not an
// error, just nothing to report.
func classify(r refinedMinimum, q Query, sat satellite.Sat, eph ephemeris.Provider, obs Observer, spec SatelliteSpec, body Body) (*Event, error) {
	if r.SatAltDeg < q.AltMinDeg || r.TargetAltDeg < 0 {
		return nil, nil
	}

	kind, ok := classifyKind(r, q)
	if !ok {
		return nil, nil
	}

	speedDegPerS, err := angularSpeedDegPerS(sat, obs, r.Time, q.FineStep)
	if err != nil {
		return nil, err
	}

	ev := &Event{
		Time:            r.Time,
		Satellite:       spec.Name,
		Body:            body,
		Kind:            kind,
		SeparationDeg:   r.SeparationDeg,
		TargetRadiusDeg: r.TargetRadiusDeg,
		SatAltDeg:       r.SatAltDeg,
		SatAzDeg:        r.SatAzDeg,
		SatDistanceKm:   r.SatRangeKm,
		TargetAltDeg:    r.TargetAltDeg,
		SpeedDegPerS:    speedDegPerS,
	}

	if kind == KindTransit && speedDegPerS > 0 {
		d := geometry.ChordDurationS(r.SeparationDeg, r.TargetRadiusDeg, speedDegPerS)
		ev.DurationS = &d
	}

	if spec.DimensionM != 0 && r.SatRangeKm > 0 {
		sizeArcsec := (spec.DimensionM / 1000.0 / r.SatRangeKm) * (180.0 / math.Pi) * 3600.0
		ev.SatAngularSizeArcsec = &sizeArcsec
	}

	sunlit, err := satelliteSunlit(sat, eph, r.Time)
	if err != nil {
		return nil, err
	}
	ev.SatelliteSunlit = sunlit

	return ev, nil
}

// classifyKind applies the first-match-wins kind selection: transit if
// inside the disc, near if inside disc+margin, reachable if a grid search
// is enabled and the parallactic displacement at the base observer is
// within max_distance_km, else no event.
func classifyKind(r refinedMinimum, q Query) (EventKind, bool) {
	switch {
	case r.SeparationDeg <= r.TargetRadiusDeg:
		return KindTransit, true
	case r.SeparationDeg <= r.TargetRadiusDeg+q.NearMarginDeg:
		return KindNear, true
	case q.MaxDistanceKm > 0:
		requiredKm := (r.SeparationDeg * math.Pi / 180.0) * r.SatRangeKm
		if requiredKm <= q.MaxDistanceKm {
			return KindReachable, true
		}
	}
	return "", false
}

// angularSpeedDegPerS measures the satellite's apparent motion in the
// observer's sky by altaz-differencing at t±step — never by
// differentiating (satellite, body) separation, which double-counts the
// body's own motion (spec §9's documented bug in the first reference
// variant).
func angularSpeedDegPerS(sat satellite.Sat, obs Observer, t time.Time, step time.Duration) (float64, error) {
	minusTopo, jdUT1Minus, err := satelliteTopocentric(sat, obs, t.Add(-step))
	if err != nil {
		return 0, err
	}
	plusTopo, jdUT1Plus, err := satelliteTopocentric(sat, obs, t.Add(step))
	if err != nil {
		return 0, err
	}

	altM, azM, _ := coord.Altaz(minusTopo, obs.LatDeg, obs.LonDeg, jdUT1Minus)
	altP, azP, _ := coord.Altaz(plusTopo, obs.LatDeg, obs.LonDeg, jdUT1Plus)

	vecM := altAzToUnitVector(altM, azM)
	vecP := altAzToUnitVector(altP, azP)

	angleRad := geometry.Angle(vecM, vecP)
	dtS := 2.0 * step.Seconds()
	return (angleRad / dtS) * (180.0 / math.Pi), nil
}

func altAzToUnitVector(altDeg, azDeg float64) icrfVector {
	alt := altDeg * math.Pi / 180.0
	az := azDeg * math.Pi / 180.0
	sinAlt, cosAlt := math.Sincos(alt)
	sinAz, cosAz := math.Sincos(az)
	return icrfVector{cosAlt * cosAz, cosAlt * sinAz, sinAlt}
}

// satelliteSunlit evaluates whether the satellite is illuminated by the Sun
// at t, reusing coord's existing shadow-geometry test.
func satelliteSunlit(sat satellite.Sat, eph ephemeris.Provider, t time.Time) (bool, error) {
	satPos, err := sat.PositionICRF(t)
	if err != nil {
		return false, err
	}
	_, tdbJD := jdUT1AndTDB(t)
	sunPos := eph.GeocentricKm(spk.Sun, tdbJD)
	return coord.IsSunlit(satPos, sunPos), nil
}
