// Package timescale converts between the time scales used across skytransit:
// UTC (civil time, the input to every query), TT (Terrestrial Time, the
// uniform scale ephemeris lookups start from; SGP4 propagation is driven by
// UTC directly), UT1 (the scale Earth's
// rotation angle is measured against), and TDB (the scale planetary
// ephemerides are tabulated in, differing from TT only by a sub-millisecond
// periodic term).
package timescale

import (
	"math"
	"time"
)

// SecPerDay is the number of SI seconds in a day.
const SecPerDay = 86400.0

// j2000JD is the Julian date of the J2000.0 epoch (2000-01-01 12:00 TT).
const j2000JD = 2451545.0

// unixEpochJD is the Julian date of the Unix epoch (1970-01-01 00:00 UTC).
const unixEpochJD = 2440587.5

// TimeToJDUTC converts a civil time.Time (any location) to a UTC Julian date.
func TimeToJDUTC(t time.Time) float64 {
	unixSec := float64(t.UnixNano()) / 1e9
	return unixEpochJD + unixSec/SecPerDay
}

// leapSecondEntry is one row of the historical leap-second table: the UTC
// Julian date at which TAI-UTC took on the given integer offset.
type leapSecondEntry struct {
	jd     float64
	offset float64
}

// leapSeconds is a subset of the IERS leap-second table sufficient to cover
// TLE/ephemeris epochs from 1972 (the start of the leap-second era) to the
// most recent announced leap second (2017-01-01, TAI-UTC = 37s, with none
// announced since).
var leapSeconds = []leapSecondEntry{
	{2441317.5, 10}, // 1972-01-01
	{2441499.5, 11}, // 1972-07-01
	{2441683.5, 12}, // 1973-01-01
	{2442048.5, 13}, // 1974-01-01
	{2442413.5, 14}, // 1975-01-01
	{2442778.5, 15}, // 1976-01-01
	{2443144.5, 16}, // 1977-01-01
	{2443509.5, 17}, // 1978-01-01
	{2443874.5, 18}, // 1979-01-01
	{2444239.5, 19}, // 1980-01-01
	{2444786.5, 20}, // 1981-07-01
	{2445151.5, 21}, // 1982-07-01
	{2445516.5, 22}, // 1983-07-01
	{2446247.5, 23}, // 1985-07-01
	{2447161.5, 24}, // 1988-01-01
	{2447892.5, 25}, // 1990-01-01
	{2448257.5, 26}, // 1991-01-01
	{2448804.5, 27}, // 1992-07-01
	{2449169.5, 28}, // 1993-07-01
	{2449534.5, 29}, // 1994-07-01
	{2450083.5, 30}, // 1996-01-01
	{2450630.5, 31}, // 1997-07-01
	{2451179.5, 32}, // 1999-01-01
	{2453736.5, 33}, // 2006-01-01
	{2454832.5, 34}, // 2009-01-01
	{2456109.5, 35}, // 2012-07-01
	{2457204.5, 36}, // 2015-07-01
	{2457754.5, 37}, // 2017-01-01 (latest)
}

// LeapSecondOffset returns TAI-UTC (whole seconds) for a given UTC Julian
// date. Before the first table entry, the initial 1972 offset (10s) is
// returned; after the last announced leap second, that last offset is
// returned (no future leap second is predicted here).
func LeapSecondOffset(jdUTC float64) float64 {
	if jdUTC < leapSeconds[0].jd {
		return leapSeconds[0].offset
	}
	offset := leapSeconds[0].offset
	for _, e := range leapSeconds {
		if jdUTC < e.jd {
			break
		}
		offset = e.offset
	}
	return offset
}

// deltaTEntry is one row of the decadal ΔT = TT-UT1 table, in seconds.
type deltaTEntry struct {
	year float64
	dt   float64
}

// deltaTTable holds ΔT at 10-year intervals from 1800 to 2200, built from
// historical measurements (1800-2000) and long-range projections
// (2000-2200, following the broad shape of IERS/USNO predictions — far
// future entries are necessarily projections, not measurements). Exact
// table entry: DeltaT(1800) = 18.3670 s. DeltaT(2000) is pinned to the
// well-known measured value of ~63.8 s.
var deltaTTable = []deltaTEntry{
	{1800, 18.3670}, {1810, 15.4210}, {1820, 13.3560}, {1830, 10.4460},
	{1840, 6.4630}, {1850, 6.0740}, {1860, 7.4520}, {1870, 1.8920},
	{1880, -4.8660}, {1890, -5.9990}, {1900, -2.5780}, {1910, 3.8790},
	{1920, 10.9970}, {1930, 17.4460}, {1940, 24.0700}, {1950, 29.0700},
	{1960, 33.1500}, {1970, 40.1800}, {1980, 50.5400}, {1990, 56.8600},
	{2000, 63.8290}, {2010, 66.0700}, {2020, 69.3600}, {2030, 72.9000},
	{2040, 76.6800}, {2050, 80.6200}, {2060, 84.7200}, {2070, 88.9700},
	{2080, 93.3700}, {2090, 97.9200}, {2100, 102.6200}, {2110, 107.4700},
	{2120, 112.4700}, {2130, 117.6200}, {2140, 122.9200}, {2150, 128.3700},
	{2160, 133.9700}, {2170, 139.7200}, {2180, 145.6200}, {2190, 151.6700},
	{2200, 157.8700},
}

// DeltaT returns an estimate of ΔT = TT - UT1, in seconds, for a given
// decimal year. Outside the table range, the nearest endpoint value is
// returned (clamped); inside, linear interpolation between the surrounding
// decadal entries is used.
func DeltaT(year float64) float64 {
	n := len(deltaTTable)
	if year <= deltaTTable[0].year {
		return deltaTTable[0].dt
	}
	if year >= deltaTTable[n-1].year {
		return deltaTTable[n-1].dt
	}

	// Find the bracketing interval [idx, idx+1].
	idx := int((year - deltaTTable[0].year) / 10.0)
	if idx >= n-1 {
		idx = n - 2
	}
	lo, hi := deltaTTable[idx], deltaTTable[idx+1]
	frac := (year - lo.year) / (hi.year - lo.year)
	return lo.dt + frac*(hi.dt-lo.dt)
}

// UTCToTT converts a UTC Julian date to a TT Julian date:
// TT = UTC + (leap seconds + 32.184s).
func UTCToTT(jdUTC float64) float64 {
	offsetSec := LeapSecondOffset(jdUTC) + 32.184
	return jdUTC + offsetSec/SecPerDay
}

// TTToUT1 converts a TT Julian date to a UT1 Julian date:
// UT1 = TT - ΔT, where ΔT is looked up for the decimal year implied by jdTT.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-j2000JD)/365.25
	dt := DeltaT(year)
	return jdTT - dt/SecPerDay
}

// TDBMinusTT returns TDB-TT in seconds for a given Julian date (TT or TDB;
// the distinction is negligible at this precision). This is the Fairhead &
// Bretagnon (1990) approximation as tabulated in USNO Circular 179 eq. 2.6,
// with a peak amplitude under 2 milliseconds. The spk package duplicates
// this exact formula locally (see spk.tdbMinusTT) to avoid a dependency
// cycle between spk and timescale; the two must be kept identical.
func TDBMinusTT(jd float64) float64 {
	t := (jd - j2000JD) / 36525.0
	return 0.001657*math.Sin(628.3076*t+6.2401) +
		0.000022*math.Sin(575.3385*t+4.2970) +
		0.000014*math.Sin(1256.6152*t+6.1969) +
		0.000005*math.Sin(606.9777*t+4.0212) +
		0.000005*math.Sin(52.9691*t+0.4444) +
		0.000002*math.Sin(21.3299*t+5.5431) +
		0.000010*t*math.Sin(628.3076*t+4.2490)
}
