package domain

import (
	"fmt"

	"github.com/skypies/geo"
)

// Telemetry is the derived state of one observation relative to a
// destination coordinate.
type Telemetry struct {
	DistanceKm float64 `json:"distance_km"`
	SpeedKmh   float64 `json:"speed_kmh"`
	AltitudeM  float64 `json:"altitude_m"`

	// ETAMinutes is only meaningful when ETAKnown is true. Below
	// minETASpeedKmh the remaining-time estimate degenerates, so the ETA is
	// reported as unavailable instead of dividing by a near-zero speed.
	ETAMinutes int  `json:"eta_minutes"`
	ETAKnown   bool `json:"eta_known"`
}

// minETASpeedKmh is the ground speed below which no ETA is computed.
const minETASpeedKmh = 10.0

// ComputeTelemetry derives distance, display-unit speed, and ETA for an
// observation heading to dest. Distance is great-circle kilometres; see the
// package documentation for the accuracy note.
func ComputeTelemetry(obs Observation, dest geo.Latlong) Telemetry {
	t := Telemetry{
		DistanceKm: obs.Position().Dist(dest),
		SpeedKmh:   obs.SpeedMps * MpsToKmh,
		AltitudeM:  obs.AltitudeM,
	}
	if t.SpeedKmh > minETASpeedKmh {
		t.ETAMinutes = int(t.DistanceKm / t.SpeedKmh * 60)
		t.ETAKnown = true
	}
	return t
}

// Delay-risk rule constants. These thresholds and point values are the tested
// behavior of the heuristic, not tunables.
const (
	strongWindKmh      = 25.0
	strongWindPoints   = 30
	wetPrecipitationMm = 0.5
	precipPoints       = 40

	slowCruiseSpeedKmh  = 600.0
	slowCruiseAltitudeM = 6096.0 // 20,000 ft
	slowCruisePoints    = 20

	longFlightETAMinutes = 120
	longFlightPoints     = 10
)

// RiskAssessment is the additive delay-risk score plus the human-readable
// reasons, in the order the rules fired. There is no cap on Score.
type RiskAssessment struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// RiskCategory buckets a score for presentation. The boundaries are
// exclusive: a score of exactly 20 is still nominal, exactly 50 still
// moderate.
type RiskCategory string

const (
	RiskNominal  RiskCategory = "nominal"
	RiskModerate RiskCategory = "moderate"
	RiskCritical RiskCategory = "critical"
)

// Category maps the score to its presentation bucket.
func (r RiskAssessment) Category() RiskCategory {
	switch {
	case r.Score > 50:
		return RiskCritical
	case r.Score > 20:
		return RiskModerate
	default:
		return RiskNominal
	}
}

// AssessRisk applies the delay-risk rule set to derived telemetry and a
// weather snapshot. Rules are independent and additive: every matching rule
// contributes its points, and rule order defines factor order, not
// precedence. The long-remaining-flight rule scores without a factor entry.
func AssessRisk(t Telemetry, w WeatherSnapshot) RiskAssessment {
	var r RiskAssessment

	if w.WindSpeedKmh > strongWindKmh {
		r.Score += strongWindPoints
		r.Factors = append(r.Factors, fmt.Sprintf("strong wind at destination: %.0f km/h", w.WindSpeedKmh))
	}
	if w.PrecipitationMm > wetPrecipitationMm {
		r.Score += precipPoints
		r.Factors = append(r.Factors, fmt.Sprintf("precipitation at destination: %.1f mm", w.PrecipitationMm))
	}
	if t.SpeedKmh < slowCruiseSpeedKmh && t.AltitudeM > slowCruiseAltitudeM {
		r.Score += slowCruisePoints
		r.Factors = append(r.Factors, "slow cruise at high altitude")
	}
	if t.ETAKnown && t.ETAMinutes > longFlightETAMinutes {
		r.Score += longFlightPoints
	}

	return r
}
