package transit

import (
	"math"
	"testing"
	"time"
)

func TestClassifyKind_Transit(t *testing.T) {
	q := Query{NearMarginDeg: 0.5}
	r := refinedMinimum{SeparationDeg: 0.1, TargetRadiusDeg: 0.25}
	kind, ok := classifyKind(r, q)
	if !ok || kind != KindTransit {
		t.Errorf("got (%v, %v), want (%v, true)", kind, ok, KindTransit)
	}
}

func TestClassifyKind_Near(t *testing.T) {
	q := Query{NearMarginDeg: 0.5}
	r := refinedMinimum{SeparationDeg: 0.6, TargetRadiusDeg: 0.25}
	kind, ok := classifyKind(r, q)
	if !ok || kind != KindNear {
		t.Errorf("got (%v, %v), want (%v, true)", kind, ok, KindNear)
	}
}

func TestClassifyKind_ReachableRequiresGrid(t *testing.T) {
	r := refinedMinimum{SeparationDeg: 2.0, TargetRadiusDeg: 0.25, SatRangeKm: 500}

	// Without a grid search enabled, a wide miss classifies as nothing.
	q := Query{NearMarginDeg: 0.5}
	if _, ok := classifyKind(r, q); ok {
		t.Error("expected no classification without a grid search enabled")
	}

	// With a grid search enabled and the parallactic displacement within
	// max_distance_km, it classifies as reachable.
	q = Query{NearMarginDeg: 0.5, MaxDistanceKm: 1000}
	kind, ok := classifyKind(r, q)
	if !ok || kind != KindReachable {
		t.Errorf("got (%v, %v), want (%v, true)", kind, ok, KindReachable)
	}
}

func TestClassifyKind_TooFarEvenForGrid(t *testing.T) {
	r := refinedMinimum{SeparationDeg: 45.0, TargetRadiusDeg: 0.25, SatRangeKm: 2000}
	q := Query{NearMarginDeg: 0.5, MaxDistanceKm: 1000}
	if _, ok := classifyKind(r, q); ok {
		t.Error("expected no classification: 45° at 2000 km range is ~1571 km of displacement, beyond max_distance_km")
	}
}

func TestAltAzToUnitVector_IsUnit(t *testing.T) {
	v := altAzToUnitVector(30, 120)
	norm := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if math.Abs(norm-1.0) > 1e-9 {
		t.Errorf("norm = %f, want 1.0", norm)
	}
}

func TestAngularSpeedDegPerS_Positive(t *testing.T) {
	sat := testSat(t)
	speed, err := angularSpeedDegPerS(sat, testObserver, testEpoch.Add(5*time.Minute), 1*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if speed <= 0 {
		t.Errorf("speed = %f deg/s, want > 0 (ISS moves quickly across the sky)", speed)
	}
}

func TestSatelliteSunlit_NoError(t *testing.T) {
	sat := testSat(t)
	eph := farAwayFakeProvider()
	if _, err := satelliteSunlit(sat, eph, testEpoch); err != nil {
		t.Fatal(err)
	}
}
