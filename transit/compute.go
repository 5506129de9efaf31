package transit

import (
	"math"
	"time"

	"github.com/ahl/skytransit/coord"
	"github.com/ahl/skytransit/ephemeris"
	"github.com/ahl/skytransit/geometry"
	"github.com/ahl/skytransit/satellite"
	"github.com/ahl/skytransit/spk"
	"github.com/ahl/skytransit/timescale"
)

// sunRadiusKm and moonRadiusKm are the physical body radii used to derive
// apparent disc radii (spec §4.A angular_radius). Matches the reference
// script's SUN_RADIUS_KM / MOON_RADIUS_KM constants.
const (
	sunRadiusKm  = 696340.0
	moonRadiusKm = 1737.4
)

// bodyID maps a transit.Body to the NAIF ID the ephemeris provider expects.
func bodyID(b Body) int {
	if b == BodySun {
		return spk.Sun
	}
	return spk.Moon
}

func bodyRadiusKm(b Body) float64 {
	if b == BodySun {
		return sunRadiusKm
	}
	return moonRadiusKm
}

// jdUT1AndTDB converts a civil UTC instant into the UT1 Julian date (needed
// for Earth rotation / GeodeticToICRF) and the TDB Julian date (needed for
// ephemeris lookup).
func jdUT1AndTDB(t time.Time) (jdUT1, tdbJD float64) {
	jdUTC := timescale.TimeToJDUTC(t)
	jdTT := timescale.UTCToTT(jdUTC)
	jdUT1 = timescale.TTToUT1(jdTT)
	tdbJD = jdTT + timescale.TDBMinusTT(jdTT)/timescale.SecPerDay
	return
}

// observerICRF returns the observer's geocentric ICRF position in km,
// elevation included (spec §4.A), via coord.GeodeticToICRFPosition. This is
// the vector subtracted from a satellite's or body's geocentric position to
// get the topocentric (observer-relative) vector the rest of §4 measures
// angles against.
func observerICRF(obs Observer, jdUT1 float64) icrfVector {
	x, y, z := coord.GeodeticToICRFPosition(obs.LatDeg, obs.LonDeg, obs.ElevM/1000.0, jdUT1)
	return icrfVector{x, y, z}
}

// satelliteTopocentric returns the satellite's topocentric ICRF position
// (km) at t: the observer-to-satellite vector, frame-consistent with
// bodyTopocentric below (spec §4.D / §9 frame-consistency requirement).
func satelliteTopocentric(sat satellite.Sat, obs Observer, t time.Time) (topo icrfVector, jdUT1 float64, err error) {
	posICRF, err := sat.PositionICRF(t)
	if err != nil {
		return icrfVector{}, 0, err
	}
	jdUT1, _ = jdUT1AndTDB(t)
	obsICRF := observerICRF(obs, jdUT1)
	topo = icrfVector{
		posICRF[0] - obsICRF[0],
		posICRF[1] - obsICRF[1],
		posICRF[2] - obsICRF[2],
	}
	return topo, jdUT1, nil
}

// bodyTopocentric returns the Sun or Moon's topocentric ICRF position (km)
// at t, the observer-to-body vector in the same frame as
// satelliteTopocentric.
func bodyTopocentric(eph ephemeris.Provider, body Body, obs Observer, t time.Time) (topo icrfVector, jdUT1 float64) {
	jdUT1, tdbJD := jdUT1AndTDB(t)
	geoBody := eph.GeocentricKm(bodyID(body), tdbJD)
	obsICRF := observerICRF(obs, jdUT1)
	topo = icrfVector{
		geoBody[0] - obsICRF[0],
		geoBody[1] - obsICRF[1],
		geoBody[2] - obsICRF[2],
	}
	return topo, jdUT1
}

// separationDeg returns the angular separation in degrees between two
// topocentric vectors expressed in the same frame.
func separationDeg(a, b icrfVector) float64 {
	return geometry.Angle(a, b) * (180.0 / math.Pi)
}
