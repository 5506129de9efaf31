// Package ephemeris presents solar-system body positions as a narrow
// interface over the teacher-derived spk package, giving the transit core
// (component B's contract) a single typed failure mode for a missing or
// corrupt ephemeris file instead of spk.Open's raw parse error.
package ephemeris

import (
	"fmt"

	"github.com/ahl/skytransit/spk"
)

// UnavailableError reports that the planetary ephemeris could not be
// opened or does not contain the chains needed to resolve Sun/Moon
// positions relative to Earth.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("ephemeris %q unavailable: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Provider is the Ephemeris provider contract (spec component B): a pure
// function of time returning the geocentric Cartesian position, in km, of a
// NAIF body ID in the ICRF frame.
type Provider interface {
	GeocentricKm(body int, tdbJD float64) [3]float64
}

// SPKProvider adapts a *spk.SPK binary ephemeris file to the Provider
// interface.
type SPKProvider struct {
	spk *spk.SPK
}

// Open loads a JPL-style SPK ephemeris file (e.g. de421.bsp) once; the
// returned provider is safe for concurrent read-only use by every worker in
// a query's pool (spec §5: "ephemeris tables" are query-lifetime read-only
// shared state).
func Open(path string) (*SPKProvider, error) {
	s, err := spk.Open(path)
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}
	return &SPKProvider{spk: s}, nil
}

// GeocentricKm returns the geocentric position of body (a spk.* NAIF ID) in
// km at the given TDB Julian date.
func (p *SPKProvider) GeocentricKm(body int, tdbJD float64) [3]float64 {
	return p.spk.GeocentricPosition(body, tdbJD)
}

// SunKm returns the Sun's geocentric position in km.
func (p *SPKProvider) SunKm(tdbJD float64) [3]float64 {
	return p.spk.GeocentricPosition(spk.Sun, tdbJD)
}

// MoonKm returns the Moon's geocentric position in km.
func (p *SPKProvider) MoonKm(tdbJD float64) [3]float64 {
	return p.spk.GeocentricPosition(spk.Moon, tdbJD)
}
