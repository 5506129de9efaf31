// Package elevation looks up ground elevation over HTTPS for grid-search
// candidate points (spec §4.H's GridElevLookup mode). Grounded on
// original_source/iss_transits.py's get_elevation, but the cache is owned
// by a Client instance rather than a module-level lru_cache (spec §9:
// module-level mutable state must become an explicit, query-owned cache).
package elevation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const openElevationURL = "https://api.open-elevation.com/api/v1/lookup?locations=%f,%f"

// Client looks up elevations and caches results for the lifetime of the
// instance, keyed by the exact (unrounded) lat/lon pair, like the original's
// float-keyed lru_cache: only a repeated lookup at the identical coordinate
// hits the cache. Failed lookups are not cached.
type Client struct {
	httpClient *http.Client

	mu    sync.Mutex
	cache map[[2]float64]float64
}

// NewClient builds an elevation Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[[2]float64]float64),
	}
}

type lookupResponse struct {
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Lookup returns the elevation in meters at (lat, lon). A failed request
// returns an error; callers that want the original script's
// fall-back-to-zero behavior should substitute 0.0 themselves — the
// grid searcher instead falls back to the base observer's elevation
// (see transit.GridElevMode).
func (c *Client) Lookup(lat, lon float64) (float64, error) {
	key := [2]float64{lat, lon}

	c.mu.Lock()
	if v, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	url := fmt.Sprintf(openElevationURL, lat, lon)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return 0, fmt.Errorf("elevation: requesting %f,%f: %w", lat, lon, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("elevation: %f,%f: unexpected status %d", lat, lon, resp.StatusCode)
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("elevation: decoding response for %f,%f: %w", lat, lon, err)
	}
	if len(parsed.Results) == 0 {
		return 0, fmt.Errorf("elevation: %f,%f: empty results", lat, lon)
	}

	elev := parsed.Results[0].Elevation
	c.mu.Lock()
	c.cache[key] = elev
	c.mu.Unlock()

	return elev, nil
}
