package transit

import "testing"

func TestFindPassIntervals_Empty(t *testing.T) {
	if got := findPassIntervals(nil, 5.0); got != nil {
		t.Errorf("empty input: got %v, want nil", got)
	}
}

func TestFindPassIntervals_SinglePass(t *testing.T) {
	alt := []float64{-10, -2, 3, 10, 20, 10, 3, -2, -10}
	got := findPassIntervals(alt, 0.0)
	want := PassInterval{Start: 2, End: 6}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want [%v]", got, want)
	}
}

func TestFindPassIntervals_MultiplePasses(t *testing.T) {
	alt := []float64{10, -5, 10, -5, 10}
	got := findPassIntervals(alt, 0.0)
	want := []PassInterval{{Start: 0, End: 0}, {Start: 2, End: 2}, {Start: 4, End: 4}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindPassIntervals_RunTouchesBothEnds(t *testing.T) {
	alt := []float64{10, 10, 10}
	got := findPassIntervals(alt, 0.0)
	want := PassInterval{Start: 0, End: 2}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want [%v]", got, want)
	}
}

func TestFindPassIntervals_NeverAboveThreshold(t *testing.T) {
	alt := []float64{-10, -20, -1}
	if got := findPassIntervals(alt, 0.0); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
