package transit

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ahl/skytransit/satellite"
)

const earthMeanRadiusKm = 6371.0

// degPerKmLat converts a north-south distance in km to degrees of latitude.
const degPerKmLat = 1.0 / 111.32

// gridPoint is one candidate observer location in the radial search grid.
type gridPoint struct {
	Observer   Observer
	DistanceKm float64
}

// buildSearchGrid constructs the radial grid of candidate observer points
// around the base observer (spec §4.H): distances d = k*step for
// k=1..floor(maxDistanceKm/step) (d=0, the base observer, is excluded here
// since the base query already covers it), with N_theta = max(8,
// ceil(2*pi*d/step)) azimuthal samples per ring.
// On an elevation-lookup failure, the affected point falls back to the
// base observer's elevation and the failure is reported via errs rather
// than aborting the search (spec policy: elevation-lookup failures fall
// back and are only logged, unlike an ephemeris or TLE failure).
func buildSearchGrid(base Observer, maxDistanceKm, stepKm float64, elevMode GridElevMode, lookup func(lat, lon float64) (float64, error)) ([]gridPoint, []error) {
	var points []gridPoint
	var errs []error
	maxK := int(maxDistanceKm / stepKm)
	phiRad := base.LatDeg * math.Pi / 180.0
	cosPhi := math.Cos(phiRad)

	for k := 1; k <= maxK; k++ {
		d := float64(k) * stepKm
		nTheta := int(math.Ceil(2 * math.Pi * d / stepKm))
		if nTheta < 8 {
			nTheta = 8
		}
		for j := 0; j < nTheta; j++ {
			theta := 2 * math.Pi * float64(j) / float64(nTheta)
			dLat := d * degPerKmLat * math.Cos(theta)
			var dLon float64
			if cosPhi != 0 {
				dLon = (d / (111.32 * cosPhi)) * math.Sin(theta)
			}
			lat := base.LatDeg + dLat
			lon := base.LonDeg + dLon

			elevM := base.ElevM
			if elevMode == GridElevLookup {
				e, err := lookup(lat, lon)
				if err != nil {
					errs = append(errs, &CollaboratorError{Source: "elevation", Err: err})
				} else {
					elevM = e
				}
			}

			points = append(points, gridPoint{
				Observer:   Observer{LatDeg: lat, LonDeg: lon, ElevM: elevM},
				DistanceKm: haversineKm(base.LatDeg, base.LonDeg, lat, lon),
			})
		}
	}
	return points, errs
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180.0
	phi2 := lat2 * math.Pi / 180.0
	dPhi := (lat2 - lat1) * math.Pi / 180.0
	dLambda := (lon2 - lon1) * math.Pi / 180.0
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthMeanRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// runGridSearch repeats §4.E–G at every candidate point in the radial
// search grid, parallelized across points (spec §4.H: "implementations
// must parallelize across grid points and passes").
func runGridSearch(ctx context.Context, q Query, grid TimeGrid) ([]Event, []error, error) {
	if q.GridElevMode == GridElevLookup && q.ElevationLookup == nil {
		return nil, nil, &InvalidInputError{Field: "ElevationLookup", Reason: "required when GridElevMode is lookup"}
	}

	points, gridErrs := buildSearchGrid(q.Observer, q.MaxDistanceKm, q.GridStepKm, q.GridElevMode, q.ElevationLookup)
	q.Logger.WithFields(logrus.Fields{
		"points":       len(points),
		"radius_km":    q.MaxDistanceKm,
		"grid_step_km": q.GridStepKm,
	}).Debug("grid search starting")

	satStates := make(map[string]satellite.Sat, len(q.Satellites))
	for _, spec := range q.Satellites {
		if err := validateTLEFormat(spec); err != nil {
			continue
		}
		sat, err := satellite.NewSat(spec.Name, spec.Line1, spec.Line2)
		if err != nil {
			continue
		}
		satStates[spec.Name] = sat
	}

	type pointResult struct {
		events []Event
		errs   []error
	}
	results := make([]pointResult, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(q.Workers))
	for i, p := range points {
		i, p := i, p // explicit per-task parameters
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			var pointEvents []Event
			var pointErrs []error
			for _, spec := range q.Satellites {
				sat, ok := satStates[spec.Name]
				if !ok {
					continue
				}
				events, errs, err := satelliteEvents(gctx, q, sat, spec, p.Observer, grid)
				if err != nil {
					pointErrs = append(pointErrs, err)
					continue
				}
				pointErrs = append(pointErrs, errs...)
				for j := range events {
					events[j].Grid = &GridAttachment{
						LatDeg:     p.Observer.LatDeg,
						LonDeg:     p.Observer.LonDeg,
						ElevM:      p.Observer.ElevM,
						DistanceKm: p.DistanceKm,
					}
				}
				pointEvents = append(pointEvents, events...)
			}
			results[i] = pointResult{events: pointEvents, errs: pointErrs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	events := []Event{}
	errs := gridErrs
	for _, r := range results {
		events = append(events, r.events...)
		errs = append(errs, r.errs...)
	}
	q.Logger.WithFields(logrus.Fields{
		"points": len(points),
		"events": len(events),
		"errors": len(errs),
	}).Debug("grid search complete")
	return events, errs, nil
}

// dedupKey identifies an event for deduplication: time rounded to 1 s,
// body, kind, and satellite (spec invariant 5).
type dedupKey struct {
	time time.Time
	body Body
	kind EventKind
	sat  string
}

func keyOf(e Event) dedupKey {
	return dedupKey{
		time: e.Time.Round(time.Second),
		body: e.Body,
		kind: e.Kind,
		sat:  e.Satellite,
	}
}

// mergeGridEvents combines base-observer events with grid-search events,
// deduplicating by (time rounded to 1s, body, kind, satellite) and keeping
// the entry with minimum ground distance from the base observer (spec
// §4.H, invariant 5). Base-observer events have distance 0 and so are
// never displaced by a grid-discovered duplicate of the same event.
func mergeGridEvents(base, grid []Event) []Event {
	best := make(map[dedupKey]Event, len(base)+len(grid))
	order := make([]dedupKey, 0, len(base)+len(grid))

	consider := func(e Event, distanceKm float64) {
		k := keyOf(e)
		existing, ok := best[k]
		if !ok {
			best[k] = e
			order = append(order, k)
			return
		}
		existingDist := 0.0
		if existing.Grid != nil {
			existingDist = existing.Grid.DistanceKm
		}
		if distanceKm < existingDist {
			best[k] = e
		}
	}

	for _, e := range base {
		consider(e, 0)
	}
	for _, e := range grid {
		d := 0.0
		if e.Grid != nil {
			d = e.Grid.DistanceKm
		}
		consider(e, d)
	}

	merged := make([]Event, 0, len(order))
	for _, k := range order {
		merged = append(merged, best[k])
	}
	return merged
}
