// Command genflights generates a synthetic observation snapshot usable as
// the SNAPSHOT_PATH fallback fixture. It uses the actual synthetic generator
// so the fixture matches what the acquisition layer would invent itself.
//
// Usage:
//
//	go run ./cmd/genflights \
//	  -out data/snapshot.json \
//	  -count 15 -seed 42 \
//	  -center-lat -23.4356 -center-lon -46.4731 -radius-km 100
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/skypies/geo"

	"github.com/couchcryptid/aero-ops/internal/acquisition"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the snapshot JSON")
	count := flag.Int("count", 15, "number of aircraft to generate")
	seed := flag.Int64("seed", 42, "random seed for reproducible output")
	centerLat := flag.Float64("center-lat", -23.4356, "region center latitude")
	centerLon := flag.Float64("center-lon", -46.4731, "region center longitude")
	radiusKm := flag.Float64("radius-km", 100, "region radius in km")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	dLat := *radiusKm / 111.19
	dLon := *radiusKm / (111.19 * math.Cos(*centerLat*math.Pi/180))
	region := geo.LatlongBox{
		SW: geo.Latlong{Lat: *centerLat - dLat, Long: *centerLon - dLon},
		NE: geo.Latlong{Lat: *centerLat + dLat, Long: *centerLon + dLon},
	}

	observations := acquisition.NewGenerator(*seed).Observations(region, *count)

	data, err := json.MarshalIndent(observations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal observations: %w", err)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	log.Printf("wrote %d observations to %s", len(observations), *out)
	return nil
}
