package transit

import (
	"encoding/json"

	"github.com/ahl/skytransit/units"
)

// MarshalJSON projects an Event onto the reference JSON field set (spec
// §6): separation and target radius convert from internal degrees to
// arcminutes, speed is reported in both deg/s and arcmin/s, and optional
// fields are omitted rather than emitted as null/zero (spec's
// tagged-absent-value re-architecture of the original's dynamic optional
// attributes).
func (e Event) MarshalJSON() ([]byte, error) {
	out := struct {
		TimeUTC             string   `json:"time_utc"`
		Satellite            string   `json:"satellite"`
		Body                 Body     `json:"body"`
		Kind                 EventKind `json:"kind"`
		SeparationArcmin     float64  `json:"separation_arcmin"`
		TargetRadiusArcmin   float64  `json:"target_radius_arcmin"`
		SatAltDeg            float64  `json:"sat_alt_deg"`
		SatAzDeg             float64  `json:"sat_az_deg"`
		SatDistanceKm        float64  `json:"sat_distance_km"`
		TargetAltDeg         float64  `json:"target_alt_deg"`
		SpeedDegPerS         float64  `json:"speed_deg_per_s"`
		SpeedArcminPerS      float64  `json:"speed_arcmin_per_s"`
		DurationS            *float64 `json:"duration_s,omitempty"`
		SatAngularSizeArcsec *float64 `json:"sat_angular_size_arcsec,omitempty"`
		SatelliteSunlit      bool     `json:"satellite_sunlit"`
		LatDeg               *float64 `json:"lat,omitempty"`
		LonDeg               *float64 `json:"lon,omitempty"`
		ElevM                *float64 `json:"elev,omitempty"`
		DistanceKm           *float64 `json:"distance_km,omitempty"`
	}{
		TimeUTC:              e.Time.UTC().Format("2006-01-02T15:04:05.000Z"),
		Satellite:            e.Satellite,
		Body:                 e.Body,
		Kind:                 e.Kind,
		SeparationArcmin:     units.AngleFromDegrees(e.SeparationDeg).Arcminutes(),
		TargetRadiusArcmin:   units.AngleFromDegrees(e.TargetRadiusDeg).Arcminutes(),
		SatAltDeg:            e.SatAltDeg,
		SatAzDeg:             e.SatAzDeg,
		SatDistanceKm:        e.SatDistanceKm,
		TargetAltDeg:         e.TargetAltDeg,
		SpeedDegPerS:         e.SpeedDegPerS,
		SpeedArcminPerS:      units.AngleFromDegrees(e.SpeedDegPerS).Arcminutes(),
		DurationS:            e.DurationS,
		SatAngularSizeArcsec: e.SatAngularSizeArcsec,
		SatelliteSunlit:      e.SatelliteSunlit,
	}
	if e.Grid != nil {
		lat, lon, elev, dist := e.Grid.LatDeg, e.Grid.LonDeg, e.Grid.ElevM, e.Grid.DistanceKm
		out.LatDeg, out.LonDeg, out.ElevM, out.DistanceKm = &lat, &lon, &elev, &dist
	}
	return json.Marshal(out)
}
