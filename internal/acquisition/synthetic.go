package acquisition

import (
	"fmt"
	"math/rand"

	"github.com/skypies/geo"

	"github.com/couchcryptid/aero-ops/internal/domain"
)

// airlineCodes is the pool synthetic callsigns draw from. Mostly carriers
// seen around the default region.
var airlineCodes = []string{"GLO", "TAM", "AZU", "LAN", "ARG", "UAL", "AAL", "AFR", "DLH"}

// Generator invents cruise-plausible observations inside a region. Output
// satisfies every observation invariant, so a simulated set is shaped exactly
// like a live one apart from its provenance tag.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator from a seed. The same seed yields the
// same sequence, which fixture generation and tests rely on.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Observations returns n synthetic aircraft spread over the region.
func (g *Generator) Observations(region geo.LatlongBox, n int) []domain.Observation {
	out := make([]domain.Observation, 0, n)
	for i := 0; i < n; i++ {
		code := airlineCodes[g.rng.Intn(len(airlineCodes))]
		out = append(out, domain.Observation{
			ICAO24:    fmt.Sprintf("%06x", g.rng.Intn(0xffffff+1)),
			Callsign:  fmt.Sprintf("%s%d", code, 1000+g.rng.Intn(9000)),
			Latitude:  g.between(region.SW.Lat, region.NE.Lat),
			Longitude: g.between(region.SW.Long, region.NE.Long),
			// Cruise regime: 160–260 m/s (~580–940 km/h), 8,000–12,000 m.
			SpeedMps:        160 + g.rng.Float64()*100,
			AltitudeM:       8000 + g.rng.Float64()*4000,
			VerticalRateMps: -5 + g.rng.Float64()*10,
			OriginCountry:   "Unknown",
		})
	}
	return out
}

func (g *Generator) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}
