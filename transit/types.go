// Package transit implements the transit/conjunction prediction core: given
// an observer, a time window, and a set of satellites described by TLEs, it
// enumerates every moment a satellite's apparent position passes across, or
// within a configured margin of, the Sun or Moon's apparent disc.
package transit

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ahl/skytransit/ephemeris"
)

// icrfVector documents that a [3]float64 is expressed in the ICRF/GCRS
// frame at epoch — the one frame every position (observer, satellite,
// Sun, Moon) is converted into before any angle between them is taken.
// A lightweight stand-in for a full phantom-typed frame tag: Go has no
// cheap newtype-over-array with zero-cost conversion, so this stays
// documentation rather than a type the compiler enforces.
type icrfVector = [3]float64

// Observer is an immutable ground position for the duration of one query.
type Observer struct {
	LatDeg float64
	LonDeg float64
	ElevM  float64
}

// NewObserver validates and constructs an Observer.
func NewObserver(latDeg, lonDeg, elevM float64) (Observer, error) {
	if latDeg < -90 || latDeg > 90 {
		return Observer{}, &InvalidInputError{Field: "lat", Reason: "must be in [-90, 90]"}
	}
	if lonDeg < -180 || lonDeg > 180 {
		return Observer{}, &InvalidInputError{Field: "lon", Reason: "must be in [-180, 180]"}
	}
	return Observer{LatDeg: latDeg, LonDeg: lonDeg, ElevM: elevM}, nil
}

// SatelliteSpec identifies one satellite by name and TLE pair. DimensionM is
// the nominal maximum linear dimension in meters, used only to derive an
// apparent angular size for reporting; zero means unknown and the field is
// omitted from output.
type SatelliteSpec struct {
	Name       string
	Line1      string
	Line2      string
	DimensionM float64
}

// GridElevMode selects how elevation is assigned to grid search candidate
// points.
type GridElevMode int

const (
	// GridElevBase inherits the base observer's elevation at every grid point.
	GridElevBase GridElevMode = iota
	// GridElevLookup delegates to an external elevation collaborator per point.
	GridElevLookup
)

// Query is the full set of parameters for one transit/conjunction search.
type Query struct {
	Observer    Observer
	Satellites  []SatelliteSpec
	Start       time.Time
	End         time.Time
	Ephemeris   ephemeris.Provider

	AltMinDeg      float64 // default 5.0
	NearMarginDeg  float64 // default 0.5
	CoarseStep     time.Duration // default 20s
	FineStep       time.Duration // default 1s
	RefineWindow   time.Duration // default 60s
	MaxDistanceKm  float64       // default 0 (no grid)
	GridStepKm     float64       // default 2
	GridElevMode   GridElevMode
	Workers        int // 0 = runtime.NumCPU()

	// ElevationLookup is consulted per grid point when GridElevMode ==
	// GridElevLookup. Nil is only valid when GridElevMode == GridElevBase.
	ElevationLookup func(latDeg, lonDeg float64) (elevM float64, err error)

	// Logger receives per-satellite TLE-epoch-minutes-since diagnostics
	// (§4.C), per-task error logs, and grid-search progress. Nil is
	// replaced by a discarding logger in WithDefaults, so callers that
	// don't care about diagnostics never need a nil check (spec §9).
	Logger *logrus.Logger
}

// discardLogger is shared by every Query that leaves Logger nil, avoiding
// a fresh allocation per query.
var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}()

// WithDefaults returns a copy of q with zero-valued tunables replaced by
// their documented defaults (spec §6).
func (q Query) WithDefaults() Query {
	if q.AltMinDeg == 0 {
		q.AltMinDeg = 5.0
	}
	if q.NearMarginDeg == 0 {
		q.NearMarginDeg = 0.5
	}
	if q.CoarseStep == 0 {
		q.CoarseStep = 20 * time.Second
	}
	if q.FineStep == 0 {
		q.FineStep = 1 * time.Second
	}
	if q.RefineWindow == 0 {
		q.RefineWindow = 60 * time.Second
	}
	if q.GridStepKm == 0 {
		q.GridStepKm = 2.0
	}
	if q.Logger == nil {
		q.Logger = discardLogger
	}
	return q
}

// EventKind classifies a refined closest approach.
type EventKind string

const (
	KindTransit   EventKind = "transit"
	KindNear      EventKind = "near"
	KindReachable EventKind = "reachable"
)

// Body identifies the Sun or Moon as the target of a closest approach.
type Body string

const (
	BodySun  Body = "Sun"
	BodyMoon Body = "Moon"
)

// Event is the canonical output record for one classified closest approach.
type Event struct {
	Time      time.Time
	Satellite string
	Body      Body
	Kind      EventKind

	SeparationDeg  float64
	TargetRadiusDeg float64
	SatAltDeg      float64
	SatAzDeg       float64
	SatDistanceKm  float64
	TargetAltDeg   float64

	SpeedDegPerS float64

	// DurationS is non-nil only for transit events (chord duration across
	// the disc).
	DurationS *float64

	// SatAngularSizeArcsec is non-nil only when the satellite's nominal
	// dimension is known.
	SatAngularSizeArcsec *float64

	// SatelliteSunlit reports whether the satellite itself is illuminated
	// by the Sun at closest approach — an enrichment beyond the original
	// reference script, cheaply available from the already-open ephemeris.
	SatelliteSunlit bool

	// Grid attachment, present only for events discovered or refined
	// through a grid search (§4.H). Nil at the base observer.
	Grid *GridAttachment
}

// GridAttachment records the candidate observer location an event was
// evaluated at when the grid searcher finds a better (closer) centerline
// match than the base observer.
type GridAttachment struct {
	LatDeg     float64
	LonDeg     float64
	ElevM      float64
	DistanceKm float64
}

// SatelliteSummary carries orbital-element metadata for one satellite's
// state at query start, exposed on Result.SatelliteInfo — not part of the
// per-event contract. The predict command does not print it.
type SatelliteSummary struct {
	ApogeeKm   float64
	PerigeeKm  float64
	PeriodMin  float64
}

// Result is the outcome of one query: events in time order, per-satellite
// errors that did not abort the whole query, and orbital summaries.
type Result struct {
	Events         []Event
	Errors         []error
	SatelliteInfo  map[string]SatelliteSummary
}

// TimeGrid is a finite arithmetic progression of UTC instants.
type TimeGrid []time.Time

// buildGrid constructs the arithmetic progression [t0, t0+step, ..., t1].
// An inverted or zero-length window yields an empty grid.
func buildGrid(t0, t1 time.Time, step time.Duration) TimeGrid {
	if step <= 0 || !t1.After(t0) {
		return nil
	}
	var grid TimeGrid
	for t := t0; !t.After(t1); t = t.Add(step) {
		grid = append(grid, t)
	}
	return grid
}

// PassInterval is a maximal contiguous run of grid indices, inclusive, for
// which the satellite's altitude meets or exceeds the threshold.
type PassInterval struct {
	Start int
	End   int
}
