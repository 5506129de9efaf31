package transit

// findPassIntervals returns maximal contiguous runs of grid indices where
// alt[i] >= altMinDeg, as inclusive (start, end) pairs. A single forward
// scan over the boolean "above threshold" array, equivalent to the
// rising/falling-edge diff approach of the reference implementation but
// without building an intermediate array.
//
// Edge policy: a run touching either end of the grid is kept as-is, with
// no extrapolation past the window. Empty input yields an empty list.
func findPassIntervals(alt []float64, altMinDeg float64) []PassInterval {
	var intervals []PassInterval
	inRun := false
	start := 0
	for i, a := range alt {
		above := a >= altMinDeg
		switch {
		case above && !inRun:
			inRun = true
			start = i
		case !above && inRun:
			inRun = false
			intervals = append(intervals, PassInterval{Start: start, End: i - 1})
		}
	}
	if inRun {
		intervals = append(intervals, PassInterval{Start: start, End: len(alt) - 1})
	}
	return intervals
}
