package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/skypies/geo"
)

// Unit conversion factors applied at ingestion and display. See the package
// documentation for which feed uses which native unit.
const (
	KnotsToMps = 0.514444
	FeetToM    = 0.3048
	MpsToKmh   = 3.6
)

// Provenance tags where an ObservationSet came from. It is informational
// only: downstream computation is identical for all three values.
type Provenance string

const (
	ProvenanceLive           Provenance = "live"
	ProvenanceCachedSnapshot Provenance = "cached_snapshot"
	ProvenanceSimulated      Provenance = "simulated"
)

// Observation is one aircraft's normalized instantaneous state. Two
// observations of the same airframe in consecutive fetches are unrelated
// values; there is no identity or track continuity across calls.
type Observation struct {
	ICAO24          string  `json:"icao24,omitempty"`
	Callsign        string  `json:"callsign"`
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"lon"`
	SpeedMps        float64 `json:"speed_mps"`
	AltitudeM       float64 `json:"altitude_m"`
	VerticalRateMps float64 `json:"vertical_rate_mps,omitempty"`
	OriginCountry   string  `json:"origin_country,omitempty"`
	OnGround        bool    `json:"on_ground,omitempty"`
}

// Position returns the observation's coordinates as a geo.Latlong.
func (o Observation) Position() geo.Latlong {
	return geo.Latlong{Lat: o.Latitude, Long: o.Longitude}
}

// Valid reports whether the observation satisfies the set invariants:
// a usable callsign and a positive altitude. Latitude/longitude presence is
// enforced earlier, at ingestion, where a missing field is still observable.
func (o Observation) Valid() bool {
	return HasIdentity(o.Callsign) && o.AltitudeM > 0
}

// HasIdentity reports whether a callsign identifies an aircraft for
// user-facing selection. The feeds use "N/A" and blank interchangeably.
func HasIdentity(callsign string) bool {
	cs := strings.TrimSpace(callsign)
	return cs != "" && cs != "N/A"
}

// Filters narrows an observation set at fetch time. Zero values mean
// "no constraint".
type Filters struct {
	MinAltitudeM float64
	MinSpeedMps  float64
}

// Match reports whether the observation passes the filter thresholds.
func (f Filters) Match(o Observation) bool {
	if f.MinAltitudeM > 0 && o.AltitudeM < f.MinAltitudeM {
		return false
	}
	if f.MinSpeedMps > 0 && o.SpeedMps < f.MinSpeedMps {
		return false
	}
	return true
}

// Key returns a stable string form of the filters for cache keying.
func (f Filters) Key() string {
	return fmt.Sprintf("alt>=%.1f|spd>=%.1f", f.MinAltitudeM, f.MinSpeedMps)
}

// ObservationSet is an ordered collection of observations plus the
// provenance of the fetch that produced it.
type ObservationSet struct {
	Provenance   Provenance    `json:"provenance"`
	FetchedAt    time.Time     `json:"fetched_at"`
	Observations []Observation `json:"observations"`
}

// Empty reports whether the set holds no observations.
func (s ObservationSet) Empty() bool { return len(s.Observations) == 0 }

// Callsigns returns the distinct callsigns in set order, for user-facing
// selection lists.
func (s ObservationSet) Callsigns() []string {
	seen := make(map[string]bool, len(s.Observations))
	out := make([]string, 0, len(s.Observations))
	for _, o := range s.Observations {
		if seen[o.Callsign] {
			continue
		}
		seen[o.Callsign] = true
		out = append(out, o.Callsign)
	}
	return out
}

// ByCallsign returns the first observation with the given callsign.
func (s ObservationSet) ByCallsign(callsign string) (Observation, bool) {
	for _, o := range s.Observations {
		if o.Callsign == callsign {
			return o, true
		}
	}
	return Observation{}, false
}

// FlightSource fetches raw observations for a region from one provider.
// Implementations return errors for transport and provider failures; the
// acquisition layer owns the fallback recovery.
type FlightSource interface {
	// Fetch returns normalized observations for the region. A successful
	// response with no traffic is a valid empty slice, not an error.
	Fetch(ctx context.Context, region geo.LatlongBox) ([]Observation, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// FloatOrZero coerces a raw JSON value to a float64, returning 0 for
// anything that is not a number. The feeds occasionally deliver numeric
// fields as strings (and alt_baro as the literal "ground"), so a type
// mismatch is a data-shape quirk, never an error.
func FloatOrZero(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
