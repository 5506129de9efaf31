package transit

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ahl/skytransit/coord"
	"github.com/ahl/skytransit/elements"
	"github.com/ahl/skytransit/ephemeris"
	"github.com/ahl/skytransit/satellite"
)

// earthMuKm3s2 is Earth's standard gravitational parameter, used only to
// derive the orbital-element summary attached to Result.SatelliteInfo.
const earthMuKm3s2 = 398600.4418

// Run executes one transit/conjunction query end to end (components E–H):
// pass scanning, minimum finding and refinement, classification, and an
// optional grid search. It is the query's synchronization point — it
// returns only once every worker has completed (spec §5).
func Run(ctx context.Context, q Query) (Result, error) {
	if _, err := NewObserver(q.Observer.LatDeg, q.Observer.LonDeg, q.Observer.ElevM); err != nil {
		return Result{}, err
	}
	if q.Ephemeris == nil {
		return Result{}, &InvalidInputError{Field: "Ephemeris", Reason: "must not be nil"}
	}
	q = q.WithDefaults()

	result := Result{SatelliteInfo: make(map[string]SatelliteSummary)}

	grid := buildGrid(q.Start, q.End, q.CoarseStep)
	if len(grid) == 0 {
		return result, nil
	}

	for _, spec := range q.Satellites {
		if err := validateTLEFormat(spec); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		sat, err := satellite.NewSat(spec.Name, spec.Line1, spec.Line2)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		if minutes, err := sat.EpochMinutesSince(q.Start); err != nil {
			q.Logger.WithField("satellite", spec.Name).WithError(err).Warn("could not decode TLE epoch")
		} else {
			q.Logger.WithFields(logrus.Fields{
				"satellite":         spec.Name,
				"epoch_minutes_ago": minutes,
			}).Debug("TLE epoch age at query start")
		}

		if summary, err := satelliteSummary(sat, q.Start); err == nil {
			result.SatelliteInfo[spec.Name] = summary
		}

		events, errs, err := satelliteEvents(ctx, q, sat, spec, q.Observer, grid)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		for _, e := range errs {
			q.Logger.WithField("satellite", spec.Name).WithError(e).Warn("task reported a non-fatal error")
		}
		result.Errors = append(result.Errors, errs...)
		result.Events = append(result.Events, events...)
	}

	if q.MaxDistanceKm > 0 {
		gridEvents, gridErrs, err := runGridSearch(ctx, q, grid)
		if err != nil {
			result.Errors = append(result.Errors, err)
		} else {
			result.Errors = append(result.Errors, gridErrs...)
			result.Events = mergeGridEvents(result.Events, gridEvents)
		}
	}

	sort.SliceStable(result.Events, func(i, j int) bool {
		return result.Events[i].Time.Before(result.Events[j].Time)
	})

	return result, nil
}

// validateTLEFormat rejects structurally malformed TLEs before handing
// them to SGP4 — line length and the "1 "/"2 " line markers — reporting a
// TLEParseError that fails only this satellite.
func validateTLEFormat(spec SatelliteSpec) error {
	if len(spec.Line1) < 69 || !strings.HasPrefix(spec.Line1, "1 ") {
		return &TLEParseError{Satellite: spec.Name, Reason: "line 1 malformed"}
	}
	if len(spec.Line2) < 69 || !strings.HasPrefix(spec.Line2, "2 ") {
		return &TLEParseError{Satellite: spec.Name, Reason: "line 2 malformed"}
	}
	return nil
}

func satelliteSummary(sat satellite.Sat, t time.Time) (SatelliteSummary, error) {
	pos, err := sat.PositionICRF(t)
	if err != nil {
		return SatelliteSummary{}, err
	}
	vel, err := sat.VelocityICRF(t)
	if err != nil {
		return SatelliteSummary{}, err
	}
	el := elements.FromStateVector(pos, vel, earthMuKm3s2)
	return SatelliteSummary{
		ApogeeKm:  el.ApoapsisDistanceKm,
		PerigeeKm: el.PeriapsisDistanceKm,
		PeriodMin: el.PeriodDays * 24 * 60,
	}, nil
}

// satelliteEvents runs the pass scanner, then refines and classifies every
// (pass, body) combination for one satellite at one observer, in parallel
// across a bounded worker pool. Each task receives its own explicit
// parameters (satellite, pass, body) rather than capturing a shared loop
// variable (spec §9).
func satelliteEvents(ctx context.Context, q Query, sat satellite.Sat, spec SatelliteSpec, obs Observer, grid TimeGrid) ([]Event, []error, error) {
	alt := make([]float64, len(grid))
	for i, t := range grid {
		topo, jdUT1, err := satelliteTopocentric(sat, obs, t)
		if err != nil {
			return nil, nil, err
		}
		a, _, _ := coord.Altaz(topo, obs.LatDeg, obs.LonDeg, jdUT1)
		alt[i] = a
	}

	passes := findPassIntervals(alt, q.AltMinDeg)

	type task struct {
		pass PassInterval
		body Body
	}
	var tasks []task
	for _, p := range passes {
		tasks = append(tasks, task{pass: p, body: BodySun}, task{pass: p, body: BodyMoon})
	}

	results := make([][]Event, len(tasks))
	errs := make([]error, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(q.Workers))
	for i, tk := range tasks {
		i, tk := i, tk // explicit per-task parameters, never a closure over the loop variable
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			events, err := refineAndClassifyPass(sat, q.Ephemeris, obs, spec, q, grid, tk.pass, tk.body)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var events []Event
	var collectedErrs []error
	for i := range results {
		events = append(events, results[i]...)
		if errs[i] != nil {
			collectedErrs = append(collectedErrs, errs[i])
		}
	}
	return events, collectedErrs, nil
}

// refineAndClassifyPass is one work unit: coarse minimum, early reject,
// fine-grid refinement, and classification for a single (pass, body) pair.
// Its own local slice is its only output — no shared mutable state with
// any other task (spec §5).
func refineAndClassifyPass(sat satellite.Sat, eph ephemeris.Provider, obs Observer, spec SatelliteSpec, q Query, grid TimeGrid, pass PassInterval, body Body) ([]Event, error) {
	idx, coarseSep, err := coarseMinimum(grid, pass, sat, eph, obs, body)
	if err != nil {
		return nil, err
	}
	if shouldSkipRefinement(coarseSep, body, q.NearMarginDeg) {
		return nil, nil
	}

	refined, err := refineMinimum(sat, eph, obs, grid[idx], q.RefineWindow, q.FineStep, body)
	if err != nil {
		return nil, err
	}

	ev, err := classify(refined, q, sat, eph, obs, spec, body)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}
	return []Event{*ev}, nil
}

func workerLimit(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.NumCPU()
}
