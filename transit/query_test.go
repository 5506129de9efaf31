package transit

import (
	"context"
	"testing"
	"time"
)

func TestValidateTLEFormat_RejectsShortLines(t *testing.T) {
	spec := SatelliteSpec{Name: "bogus", Line1: "too short", Line2: "too short"}
	err := validateTLEFormat(spec)
	if err == nil {
		t.Fatal("expected an error for malformed TLE lines")
	}
	if _, ok := err.(*TLEParseError); !ok {
		t.Errorf("got %T, want *TLEParseError", err)
	}
}

func TestValidateTLEFormat_AcceptsWellFormed(t *testing.T) {
	spec := SatelliteSpec{Name: testISSName, Line1: testISSLine1, Line2: testISSLine2}
	if err := validateTLEFormat(spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryWithDefaults(t *testing.T) {
	q := Query{}.WithDefaults()
	if q.AltMinDeg != 5.0 {
		t.Errorf("AltMinDeg = %f, want 5.0", q.AltMinDeg)
	}
	if q.NearMarginDeg != 0.5 {
		t.Errorf("NearMarginDeg = %f, want 0.5", q.NearMarginDeg)
	}
	if q.CoarseStep != 20*time.Second {
		t.Errorf("CoarseStep = %v, want 20s", q.CoarseStep)
	}
	if q.FineStep != 1*time.Second {
		t.Errorf("FineStep = %v, want 1s", q.FineStep)
	}
	if q.RefineWindow != 60*time.Second {
		t.Errorf("RefineWindow = %v, want 60s", q.RefineWindow)
	}
	if q.GridStepKm != 2.0 {
		t.Errorf("GridStepKm = %f, want 2.0", q.GridStepKm)
	}
}

func TestRun_EmptyWindowYieldsEmptyResult(t *testing.T) {
	q := Query{
		Observer:   testObserver,
		Satellites: []SatelliteSpec{{Name: testISSName, Line1: testISSLine1, Line2: testISSLine2}},
		Start:      testEpoch,
		End:        testEpoch, // zero-length window
		Ephemeris:  farAwayFakeProvider(),
	}
	result, err := Run(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Events) != 0 {
		t.Errorf("got %d events, want 0 for a zero-length window", len(result.Events))
	}
}

func TestRun_InvalidObserverRejected(t *testing.T) {
	q := Query{
		Observer: Observer{LatDeg: 200, LonDeg: 0},
		Start:    testEpoch,
		End:      testEpoch.Add(time.Hour),
	}
	_, err := Run(context.Background(), q)
	if err == nil {
		t.Fatal("expected an error for out-of-range latitude")
	}
}

func TestRun_MalformedSatelliteSkippedNotFatal(t *testing.T) {
	q := Query{
		Observer: testObserver,
		Satellites: []SatelliteSpec{
			{Name: "bogus", Line1: "bad", Line2: "bad"},
			{Name: testISSName, Line1: testISSLine1, Line2: testISSLine2},
		},
		Start:     testEpoch,
		End:       testEpoch.Add(20 * time.Minute),
		Ephemeris: farAwayFakeProvider(),
	}
	result, err := Run(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1 (only the malformed satellite)", len(result.Errors))
	}
	if _, ok := result.SatelliteInfo[testISSName]; !ok {
		t.Error("expected the well-formed satellite to still produce a summary")
	}
}

func TestRun_EventsSortedByTime(t *testing.T) {
	q := Query{
		Observer:   testObserver,
		Satellites: []SatelliteSpec{{Name: testISSName, Line1: testISSLine1, Line2: testISSLine2}},
		Start:      testEpoch,
		End:        testEpoch.Add(2 * time.Hour),
		Ephemeris:  farAwayFakeProvider(),
	}
	result, err := Run(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(result.Events); i++ {
		if result.Events[i].Time.Before(result.Events[i-1].Time) {
			t.Fatalf("events not sorted: %v before %v", result.Events[i].Time, result.Events[i-1].Time)
		}
	}
}
