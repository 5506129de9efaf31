package transit

import (
	"fmt"

	"github.com/ahl/skytransit/satellite"
)

// InvalidInputError reports a query parameter outside its documented range
// (observer latitude/longitude, an inverted time window, a non-positive
// step). The query aborts immediately; no partial results are returned.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// TLEParseError reports a malformed TLE: a line shorter than 69 characters
// or missing its "1 "/"2 " line marker. Only the affected satellite is
// skipped; other satellites in the same query proceed. An epoch field that
// cannot be decoded is logged as a warning, not reported as this error.
type TLEParseError struct {
	Satellite string
	Reason    string
}

func (e *TLEParseError) Error() string {
	return fmt.Sprintf("satellite %q: malformed TLE: %s", e.Satellite, e.Reason)
}

// PropagatorError reports that SGP4 rejected a satellite's mean elements,
// either at construction or at a specific epoch (decayed orbit, out-of-range
// mean motion). Re-exported from the satellite package so callers can
// errors.As against a single transit-level error taxonomy.
type PropagatorError = satellite.PropagatorError

// EphemerisUnavailableError describes a planetary ephemeris that could not
// be opened. No function in this package returns it: Run takes an
// already-open ephemeris.Provider, and ephemeris.Open reports an open
// failure as *ephemeris.UnavailableError.
type EphemerisUnavailableError struct {
	Path string
	Err  error
}

func (e *EphemerisUnavailableError) Error() string {
	return fmt.Sprintf("ephemeris %q unavailable: %v", e.Path, e.Err)
}

func (e *EphemerisUnavailableError) Unwrap() error { return e.Err }

// CollaboratorError reports a failure from an external HTTP collaborator.
// Source names which collaborator failed. The grid searcher wraps each
// failed elevation lookup in it and falls back to the base elevation; TLE
// fetch failures are not wrapped in it (internal/tlefetch returns plain
// wrapped errors).
type CollaboratorError struct {
	Source string
	Err    error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator %q failed: %v", e.Source, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
