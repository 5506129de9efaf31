// Package satellite wraps SGP4 propagation of a two-line element set (TLE)
// into the ICRF frame used throughout the rest of skytransit.
package satellite

import (
	"fmt"
	"math"
	"time"

	gosatellite "github.com/joshuaferrara/go-satellite"

	"github.com/ahl/skytransit/coord"
)

// Sat holds a named satellite initialized from a TLE pair, ready for
// repeated propagation at arbitrary epochs.
type Sat struct {
	Name  string
	Line1 string
	Line2 string
	Sat   gosatellite.Satellite
}

// PropagatorError reports that SGP4 rejected a TLE at a given epoch (decayed
// orbit, out-of-range mean motion, or a malformed mean-element set). Code is
// go-satellite's internal SGP4 error code (0 means no error).
type PropagatorError struct {
	Satellite string
	Code      int
}

func (e *PropagatorError) Error() string {
	return fmt.Sprintf("satellite %q: SGP4 propagator error (code %d)", e.Satellite, e.Code)
}

// NewSat builds a Sat from TLE lines using the WGS84 gravity model and
// reports SGP4's own validation of the mean elements. go-satellite's
// TLEToSat does not fail on malformed lines by returning an error value;
// it instead sets Satrec.Error on the returned struct, which the teacher's
// original NewSat discarded. We check it here so a bad TLE is reported as
// a PropagatorError instead of silently producing a satellite that always
// propagates to NaN. Lines shorter than the 69-character TLE format are
// rejected with an error before TLEToSat is called.
func NewSat(name, line1, line2 string) (Sat, error) {
	if len(line1) < 69 || len(line2) < 69 {
		return Sat{}, fmt.Errorf("satellite %q: TLE lines must be 69 characters", name)
	}
	sat := gosatellite.TLEToSat(line1, line2, gosatellite.GravityWGS84)
	if sat.Error != 0 {
		return Sat{}, &PropagatorError{Satellite: name, Code: sat.Error}
	}
	return Sat{Name: name, Line1: line1, Line2: line2, Sat: sat}, nil
}

// PositionICRF propagates the satellite to t and returns its geocentric
// inertial position in km, converted from SGP4's native TEME frame into
// ICRF/GCRS. Returns a *PropagatorError if SGP4 rejects the epoch (e.g. the
// orbit has decayed below the model's validity range).
func (s Sat) PositionICRF(t time.Time) ([3]float64, error) {
	posTEME, _, err := s.propagateTEME(t)
	if err != nil {
		return [3]float64{}, err
	}
	jdUT1 := julianDateUTC(t)
	return coord.TEMEToICRF(posTEME, jdUT1), nil
}

// VelocityICRF estimates the satellite's ICRF velocity (km/s) at t via a
// central finite difference of PositionICRF over a 2-second window. This
// is sufficient for the orbital-element summary in elements.FromStateVector;
// the core transit geometry never needs velocity directly (it measures
// apparent angular speed from altaz differencing instead, see transit.Event).
func (s Sat) VelocityICRF(t time.Time) ([3]float64, error) {
	const h = 1 * time.Second
	pMinus, err := posOrZero(s, t.Add(-h))
	if err != nil {
		return [3]float64{}, err
	}
	pPlus, err := posOrZero(s, t.Add(h))
	if err != nil {
		return [3]float64{}, err
	}
	dt := 2.0 // seconds
	return [3]float64{
		(pPlus[0] - pMinus[0]) / dt,
		(pPlus[1] - pMinus[1]) / dt,
		(pPlus[2] - pMinus[2]) / dt,
	}, nil
}

func posOrZero(s Sat, t time.Time) ([3]float64, error) {
	return s.PositionICRF(t)
}

// EpochMinutesSince decodes the TLE epoch (line 1 columns 19-32: a two-digit
// year with a 1957 pivot, and a fractional day-of-year) and returns the
// number of minutes elapsed between that epoch and t. Callers log this value
// for diagnostic reproducibility, per the propagator's documented contract.
func (s Sat) EpochMinutesSince(t time.Time) (float64, error) {
	epoch, err := decodeTLEEpoch(s.Line1)
	if err != nil {
		return 0, err
	}
	return t.Sub(epoch).Minutes(), nil
}

// decodeTLEEpoch parses line 1 columns 19-32 of a TLE: YYDDD.DDDDDDDD, a
// two-digit year (1957 pivot: 57-99 -> 1957-1999, 00-56 -> 2000-2056) and a
// fractional day of year (1-based).
func decodeTLEEpoch(line1 string) (time.Time, error) {
	if len(line1) < 32 {
		return time.Time{}, fmt.Errorf("TLE line 1 too short for epoch field: %q", line1)
	}
	field := line1[18:32]
	var yy int
	var dayFrac float64
	if _, err := fmt.Sscanf(field, "%2d%f", &yy, &dayFrac); err != nil {
		return time.Time{}, fmt.Errorf("malformed TLE epoch field %q: %w", field, err)
	}
	year := yy + 1900
	if yy < 57 {
		year = yy + 2000
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := dayFrac - 1.0 // day-of-year is 1-based
	return jan1.Add(time.Duration(days * 24 * float64(time.Hour))), nil
}

// propagateTEME runs SGP4 to t and returns the raw TEME position (km) and
// velocity (km/s).
func (s Sat) propagateTEME(t time.Time) (pos, vel [3]float64, err error) {
	tu := t.UTC()
	p, v := gosatellite.Propagate(s.Sat, tu.Year(), int(tu.Month()), tu.Day(), tu.Hour(), tu.Minute(), tu.Second())
	if s.Sat.Error != 0 {
		return [3]float64{}, [3]float64{}, &PropagatorError{Satellite: s.Name, Code: s.Sat.Error}
	}
	return [3]float64{p.X, p.Y, p.Z}, [3]float64{v.X, v.Y, v.Z}, nil
}

// julianDateUTC converts a civil UTC time.Time into a Julian date, using the
// same Meeus algorithm as the rest of skytransit. The core orchestrator
// applies timescale.TTToUT1/UTCToTT for TT/UT1 distinctions where the extra
// precision matters (ephemeris lookup); SGP4's own accuracy does not warrant
// it here, matching the teacher's original TEME conversion call sites.
func julianDateUTC(t time.Time) float64 {
	tu := t.UTC()
	y, mo, d := tu.Date()
	h, mi, s := tu.Clock()
	ns := tu.Nanosecond()

	year, month := y, int(mo)
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100.0)
	b := 2 - a + math.Floor(a/4.0)

	dayFrac := float64(d) + (float64(h)+float64(mi)/60.0+(float64(s)+float64(ns)/1e9)/3600.0)/24.0

	jd := math.Floor(365.25*float64(year+4716)) + math.Floor(30.6001*float64(month+1)) + dayFrac + b - 1524.5
	return jd
}

// TEMEToICRF converts a TEME (True Equator, Mean Equinox) position vector
// from SGP4 propagation to ICRF/GCRS coordinates. Exposed for callers that
// already have a raw TEME vector and a UT1 Julian date on hand (e.g. tests).
func TEMEToICRF(posKmTEME [3]float64, jdUT1 float64) [3]float64 {
	return coord.TEMEToICRF(posKmTEME, jdUT1)
}
