package transit

import (
	"context"
	"testing"
	"time"
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	if d := haversineKm(40, -105, 40, -105); d != 0 {
		t.Errorf("same point distance = %f, want 0", d)
	}
}

func TestHaversineKm_OneDegreeLatitude(t *testing.T) {
	d := haversineKm(40, -105, 41, -105)
	// One degree of latitude is ~111 km everywhere.
	if d < 108 || d > 114 {
		t.Errorf("1 deg latitude = %f km, want ~111", d)
	}
}

func TestBuildSearchGrid_RingCounts(t *testing.T) {
	base := Observer{LatDeg: 40, LonDeg: -105, ElevM: 1600}
	points, errs := buildSearchGrid(base, 6.0, 2.0, GridElevBase, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// k=1: d=2, N=max(8, ceil(2*pi*2/2))=8
	// k=2: d=4, N=max(8, ceil(2*pi*4/2))=13
	// k=3: d=6, N=max(8, ceil(2*pi*6/2))=19
	want := 8 + 13 + 19
	if len(points) != want {
		t.Errorf("got %d points, want %d", len(points), want)
	}
	for _, p := range points {
		if p.Observer.ElevM != base.ElevM {
			t.Errorf("grid point elevation = %f, want base elevation %f (GridElevBase mode)", p.Observer.ElevM, base.ElevM)
		}
		if p.DistanceKm <= 0 {
			t.Errorf("grid point distance = %f, want > 0", p.DistanceKm)
		}
	}
}

func TestBuildSearchGrid_LookupFailureFallsBack(t *testing.T) {
	base := Observer{LatDeg: 40, LonDeg: -105, ElevM: 1600}
	lookup := func(lat, lon float64) (float64, error) {
		return 0, errTestLookup
	}
	points, errs := buildSearchGrid(base, 2.0, 2.0, GridElevLookup, lookup)
	if len(errs) != len(points) {
		t.Fatalf("got %d errors for %d points, want one error per point", len(errs), len(points))
	}
	for _, p := range points {
		if p.Observer.ElevM != base.ElevM {
			t.Errorf("on lookup failure, elevation = %f, want fallback to base %f", p.Observer.ElevM, base.ElevM)
		}
	}
}

var errTestLookup = &CollaboratorError{Source: "test", Err: errLookupFailed}

type lookupFailed struct{}

func (lookupFailed) Error() string { return "lookup failed" }

var errLookupFailed = lookupFailed{}

func TestMergeGridEvents_BaseEventWins(t *testing.T) {
	ts := testEpoch
	base := []Event{{Time: ts, Satellite: "ISS", Body: BodySun, Kind: KindTransit}}
	grid := []Event{{
		Time: ts, Satellite: "ISS", Body: BodySun, Kind: KindTransit,
		Grid: &GridAttachment{DistanceKm: 5},
	}}

	merged := mergeGridEvents(base, grid)
	if len(merged) != 1 {
		t.Fatalf("got %d events, want 1 (deduplicated)", len(merged))
	}
	if merged[0].Grid != nil {
		t.Error("base-observer event should win over a grid duplicate, keeping Grid nil")
	}
}

func TestMergeGridEvents_ClosestGridPointWins(t *testing.T) {
	ts := testEpoch
	far := Event{Time: ts, Satellite: "ISS", Body: BodySun, Kind: KindReachable, Grid: &GridAttachment{DistanceKm: 10}}
	near := Event{Time: ts, Satellite: "ISS", Body: BodySun, Kind: KindReachable, Grid: &GridAttachment{DistanceKm: 3}}

	merged := mergeGridEvents(nil, []Event{far, near})
	if len(merged) != 1 {
		t.Fatalf("got %d events, want 1", len(merged))
	}
	if merged[0].Grid.DistanceKm != 3 {
		t.Errorf("kept distance = %f, want 3 (closest candidate)", merged[0].Grid.DistanceKm)
	}
}

func TestMergeGridEvents_DistinctKeysBothKept(t *testing.T) {
	ts := testEpoch
	sun := Event{Time: ts, Satellite: "ISS", Body: BodySun, Kind: KindTransit}
	moon := Event{Time: ts, Satellite: "ISS", Body: BodyMoon, Kind: KindTransit}
	merged := mergeGridEvents([]Event{sun}, []Event{moon})
	if len(merged) != 2 {
		t.Fatalf("got %d events, want 2 (different body is a different key)", len(merged))
	}
}

func TestRunGridSearch_RequiresLookupFuncWhenLookupMode(t *testing.T) {
	q := Query{
		Observer:      testObserver,
		MaxDistanceKm: 4,
		GridStepKm:    2,
		GridElevMode:  GridElevLookup,
		Workers:       1,
	}
	grid := buildGrid(testEpoch, testEpoch.Add(time.Minute), 20*time.Second)
	_, _, err := runGridSearch(context.Background(), q, grid)
	if err == nil {
		t.Fatal("expected an error when GridElevLookup has no ElevationLookup func")
	}
	if _, ok := err.(*InvalidInputError); !ok {
		t.Errorf("got %T, want *InvalidInputError", err)
	}
}
