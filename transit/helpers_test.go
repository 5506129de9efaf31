package transit

import (
	"time"

	"github.com/ahl/skytransit/satellite"
	"github.com/ahl/skytransit/spk"
)

// ISS TLE, shared across transit package tests (same epoch the satellite
// package's own tests use).
const (
	testISSName  = "ISS (ZARYA)"
	testISSLine1 = "1 25544U 98067A   24001.00000000  .00016717  00000-0  10270-3 0  9005"
	testISSLine2 = "2 25544  51.6400 208.9163 0006703 247.1970 112.8444 15.49560830999999"
)

func testSat(t interface{ Fatal(args ...interface{}) }) satellite.Sat {
	sat, err := satellite.NewSat(testISSName, testISSLine1, testISSLine2)
	if err != nil {
		t.Fatal(err)
	}
	return sat
}

// fakeProvider is a minimal ephemeris.Provider test double with body
// positions fixed at whatever the test configures, independent of time.
type fakeProvider struct {
	sunKm  icrfVector
	moonKm icrfVector
}

func (f fakeProvider) GeocentricKm(body int, tdbJD float64) [3]float64 {
	if body == spk.Sun {
		return f.sunKm
	}
	return f.moonKm
}

// farAwayFakeProvider places the Sun and Moon along the observer's local
// zenith-ish direction at a huge distance, so no satellite pass will ever
// classify as transit/near/reachable — used by tests that only care about
// pass scanning and gating, not close-approach geometry.
func farAwayFakeProvider() fakeProvider {
	return fakeProvider{
		sunKm:  icrfVector{149_597_870.7, 0, 0},
		moonKm: icrfVector{384_400, 0, 0},
	}
}

var testObserver = Observer{LatDeg: 40.0, LonDeg: -105.0, ElevM: 1600}

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
