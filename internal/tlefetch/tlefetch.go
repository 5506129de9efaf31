// Package tlefetch retrieves satellite TLEs from Celestrak over HTTPS —
// one of the external collaborators spec.md treats as out of scope for
// the prediction core itself (spec overview).
package tlefetch

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Celestrak GP endpoints for the satellites the reference script names by
// NORAD catalog number.
const (
	CelestrakURLISS      = "https://celestrak.org/NORAD/elements/gp.php?CATNR=25544&FORMAT=TLE"
	CelestrakURLTiangong = "https://celestrak.org/NORAD/elements/gp.php?CATNR=48274&FORMAT=TLE"
	CelestrakURLHubble   = "https://celestrak.org/NORAD/elements/gp.php?CATNR=20580&FORMAT=TLE"
)

// NominalDimensionsM is the approximate maximum linear dimension, in
// meters, for the satellites the reference script knows about — used to
// derive each event's apparent angular size.
var NominalDimensionsM = map[string]float64{
	"ISS (ZARYA)":            108.0,
	"TIANGONG":               16.6,
	"HUBBLE SPACE TELESCOPE": 13.2,
}

// Client fetches TLEs over HTTPS.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// TLE is a fetched two-line element set. Name is the name the caller
// passed to Fetch; a name line in Celestrak's response is not used.
type TLE struct {
	Name  string
	Line1 string
	Line2 string
}

// Fetch retrieves and parses one satellite's TLE from url. Celestrak's
// plain-TLE format is three lines (name, line 1, line 2); a bare two-line
// response is also accepted by scanning for the "1 "/"2 " markers
// directly, matching the reference script's fallback.
func (c *Client) Fetch(url, name string) (TLE, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return TLE{}, fmt.Errorf("tlefetch: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TLE{}, fmt.Errorf("tlefetch: %s: unexpected status %d", url, resp.StatusCode)
	}

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return TLE{}, fmt.Errorf("tlefetch: reading %s: %w", url, err)
	}

	var line1, line2 string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "1 ") && line1 == "":
			line1 = l
		case strings.HasPrefix(l, "2 ") && line2 == "":
			line2 = l
		}
	}
	if line1 == "" || line2 == "" {
		return TLE{}, fmt.Errorf("tlefetch: %s: no valid TLE line pair found", url)
	}

	return TLE{Name: name, Line1: line1, Line2: line2}, nil
}
