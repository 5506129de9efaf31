package transit

import (
	"testing"
	"time"
)

func TestRoughRadiusDeg(t *testing.T) {
	sunDeg := roughRadiusDeg(BodySun)
	moonDeg := roughRadiusDeg(BodyMoon)
	// Pre-filter radii: ~0.53° for the Sun, ~0.26° for the Moon.
	if sunDeg < 0.45 || sunDeg > 0.6 {
		t.Errorf("sun rough radius = %f deg, want ~0.53", sunDeg)
	}
	if moonDeg < 0.2 || moonDeg > 0.4 {
		t.Errorf("moon rough radius = %f deg, want ~0.26", moonDeg)
	}
}

func TestShouldSkipRefinement(t *testing.T) {
	bound := roughRadiusDeg(BodySun) + 0.5 + 2.0
	if shouldSkipRefinement(bound-0.01, BodySun, 0.5) {
		t.Error("coarse min just inside bound should not be skipped")
	}
	if !shouldSkipRefinement(bound+0.01, BodySun, 0.5) {
		t.Error("coarse min just outside bound should be skipped")
	}
}

func TestCoarseMinimum_FindsIndexWithinPass(t *testing.T) {
	sat := testSat(t)
	eph := farAwayFakeProvider()
	grid := buildGrid(testEpoch, testEpoch.Add(30*time.Minute), 20*time.Second)
	pass := PassInterval{Start: 0, End: len(grid) - 1}

	idx, sep, err := coarseMinimum(grid, pass, sat, eph, testObserver, BodySun)
	if err != nil {
		t.Fatal(err)
	}
	if idx < pass.Start || idx > pass.End {
		t.Errorf("idx = %d, want within [%d, %d]", idx, pass.Start, pass.End)
	}
	if sep < 0 || sep > 180 {
		t.Errorf("separation = %f, want in [0, 180]", sep)
	}
}

func TestRefineMinimum_StaysWithinWindow(t *testing.T) {
	sat := testSat(t)
	eph := farAwayFakeProvider()
	center := testEpoch.Add(10 * time.Minute)
	window := 60 * time.Second
	step := 1 * time.Second

	refined, err := refineMinimum(sat, eph, testObserver, center, window, step, BodySun)
	if err != nil {
		t.Fatal(err)
	}
	lo := center.Add(-window)
	hi := center.Add(window)
	if refined.Time.Before(lo) || refined.Time.After(hi) {
		t.Errorf("refined time %v outside window [%v, %v]", refined.Time, lo, hi)
	}
	if refined.TargetRadiusDeg <= 0 {
		t.Errorf("target radius = %f, want > 0", refined.TargetRadiusDeg)
	}
	if refined.SatRangeKm <= 0 {
		t.Errorf("sat range = %f km, want > 0", refined.SatRangeKm)
	}
}
