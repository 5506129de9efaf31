package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahl/skytransit/ephemeris"
	"github.com/ahl/skytransit/internal/elevation"
	"github.com/ahl/skytransit/internal/logging"
	"github.com/ahl/skytransit/internal/tlefetch"
	"github.com/ahl/skytransit/transit"
)

var (
	predictLat          float64
	predictLon          float64
	predictElev         float64
	predictLookupElev   bool
	predictDays         int
	predictAltMin       float64
	predictNearMargin   float64
	predictCoarseStepS  float64
	predictFineStepS    float64
	predictRefineWinS   float64
	predictMaxDistKm    float64
	predictGridStepKm   float64
	predictJSON         bool
	predictLogLevel     string
	predictIncludeISS   bool
	predictIncludeTG    bool
	predictIncludeHST   bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict transit and conjunction events for one or more satellites",
	RunE:  runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().Float64Var(&predictLat, "lat", 0, "observer latitude in degrees")
	predictCmd.Flags().Float64Var(&predictLon, "lon", 0, "observer longitude in degrees")
	predictCmd.Flags().Float64Var(&predictElev, "elev", 0, "observer elevation in meters")
	predictCmd.Flags().BoolVar(&predictLookupElev, "lookup-elev", false, "look up observer/grid elevation over HTTPS instead of using --elev")
	predictCmd.Flags().IntVar(&predictDays, "days", 10, "days to search ahead from now")
	predictCmd.Flags().Float64Var(&predictAltMin, "alt-min", 5.0, "minimum satellite altitude in degrees to consider a pass")
	predictCmd.Flags().Float64Var(&predictNearMargin, "near-margin-deg", 0.5, "margin beyond the disc radius classified as 'near'")
	predictCmd.Flags().Float64Var(&predictCoarseStepS, "coarse-step-s", 20.0, "coarse sampling step in seconds")
	predictCmd.Flags().Float64Var(&predictFineStepS, "fine-step-s", 1.0, "fine refinement step in seconds")
	predictCmd.Flags().Float64Var(&predictRefineWinS, "refine-window-s", 60.0, "half-window around the coarse minimum for refinement, in seconds")
	predictCmd.Flags().Float64Var(&predictMaxDistKm, "max-distance-km", 0, "grid search radius in km (0 disables grid search)")
	predictCmd.Flags().Float64Var(&predictGridStepKm, "grid-step-km", 2.0, "grid search ring spacing in km")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "emit events as a JSON array instead of a table")
	predictCmd.Flags().StringVar(&predictLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	predictCmd.Flags().BoolVar(&predictIncludeISS, "iss", true, "include the ISS")
	predictCmd.Flags().BoolVar(&predictIncludeTG, "tiangong", false, "include Tiangong")
	predictCmd.Flags().BoolVar(&predictIncludeHST, "hubble", false, "include the Hubble Space Telescope")
}

func runPredict(_ *cobra.Command, _ []string) error {
	logger := logging.New(predictLogLevel)

	eph, err := ephemeris.Open(cfg.EphemerisPath)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	httpTimeout := time.Duration(cfg.HTTPTimeoutS) * time.Second
	tleTimeout := httpTimeout
	if tleTimeout > 20*time.Second {
		tleTimeout = 20 * time.Second
	}
	tleClient := tlefetch.NewClient(tleTimeout)

	type satRequest struct {
		name string
		url  string
	}
	var requests []satRequest
	if predictIncludeISS {
		requests = append(requests, satRequest{"ISS (ZARYA)", tlefetch.CelestrakURLISS})
	}
	if predictIncludeTG {
		requests = append(requests, satRequest{"TIANGONG", tlefetch.CelestrakURLTiangong})
	}
	if predictIncludeHST {
		requests = append(requests, satRequest{"HUBBLE SPACE TELESCOPE", tlefetch.CelestrakURLHubble})
	}

	var specs []transit.SatelliteSpec
	for _, r := range requests {
		fetched, err := tleClient.Fetch(r.url, r.name)
		if err != nil {
			logger.WithField("satellite", r.name).WithError(err).Warn("skipping satellite: TLE fetch failed")
			continue
		}
		specs = append(specs, transit.SatelliteSpec{
			Name:       fetched.Name,
			Line1:      fetched.Line1,
			Line2:      fetched.Line2,
			DimensionM: tlefetch.NominalDimensionsM[fetched.Name],
		})
	}
	if len(specs) == 0 {
		return fmt.Errorf("predict: no satellites to search (all TLE fetches failed or none selected)")
	}

	elevM := predictElev
	var lookup func(lat, lon float64) (float64, error)
	elevMode := transit.GridElevBase
	if predictLookupElev {
		elevTimeout := httpTimeout
		if elevTimeout > 10*time.Second {
			elevTimeout = 10 * time.Second
		}
		elevClient := elevation.NewClient(elevTimeout)
		if v, err := elevClient.Lookup(predictLat, predictLon); err != nil {
			logger.WithError(err).Warn("observer elevation lookup failed, falling back to --elev")
		} else {
			elevM = v
		}
		lookup = elevClient.Lookup
		elevMode = transit.GridElevLookup
	}

	obs, err := transit.NewObserver(predictLat, predictLon, elevM)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	start := time.Now().UTC()
	end := start.Add(time.Duration(predictDays) * 24 * time.Hour)

	q := transit.Query{
		Observer:        obs,
		Satellites:      specs,
		Start:           start,
		End:             end,
		Ephemeris:       eph,
		AltMinDeg:       predictAltMin,
		NearMarginDeg:   predictNearMargin,
		CoarseStep:      durationFromSeconds(predictCoarseStepS),
		FineStep:        durationFromSeconds(predictFineStepS),
		RefineWindow:    durationFromSeconds(predictRefineWinS),
		MaxDistanceKm:   predictMaxDistKm,
		GridStepKm:      predictGridStepKm,
		GridElevMode:    elevMode,
		ElevationLookup: lookup,
		Logger:          logger,
	}

	result, err := transit.Run(rootCmd.Context(), q)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	for _, e := range result.Errors {
		logger.WithError(e).Warn("query reported a non-fatal error")
	}

	if predictJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Events)
	}

	printEventsTable(result)
	return nil
}

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func printEventsTable(result transit.Result) {
	if len(result.Events) == 0 {
		fmt.Println("No transit/conjunction events found.")
		return
	}
	fmt.Printf("%-24s %-6s %-6s %-10s %10s %10s %10s\n",
		"TIME (UTC)", "SAT", "BODY", "KIND", "SEP(')", "ALT", "AZ")
	for _, e := range result.Events {
		fmt.Printf("%-24s %-6s %-6s %-10s %10.2f %10.2f %10.2f\n",
			e.Time.UTC().Format(time.RFC3339),
			e.Satellite, e.Body, e.Kind,
			e.SeparationDeg*60.0, e.SatAltDeg, e.SatAzDeg)
	}
}
