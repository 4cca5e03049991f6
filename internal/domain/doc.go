// Package domain models aircraft position data and the delay-risk heuristic
// built on top of it.
//
// # Data Sources
//
// Observations come from public ADS-B aggregators. Two feed shapes are
// supported by the adapters in internal/adapter/adsb:
//
//   - adsb.lol / airplanes.live style: one JSON object per aircraft with named
//     fields (hex, flight, lat, lon, gs, alt_baro, baro_rate). Speeds arrive in
//     knots and altitudes in feet.
//   - OpenSky style: positional state vectors, a JSON array per aircraft
//     (icao24, callsign, origin_country, ..., longitude, latitude,
//     baro_altitude, on_ground, velocity, ...). Speeds arrive in m/s and
//     altitudes in metres.
//
// # Units
//
// Everything is normalized at ingestion to metres and metres per second
// (the OpenSky native units). Conversion factors applied by the adapters:
//
//	knots → m/s:  * 0.514444
//	feet  → m:    * 0.3048
//
// The telemetry stage applies a single display conversion, m/s → km/h (* 3.6).
//
// # Observation invariants
//
// Every Observation in a returned ObservationSet has a latitude and longitude,
// a non-empty callsign ("N/A" counts as empty), and a positive altitude.
// Records that fail these checks after coercion are dropped as sensor noise,
// never surfaced as errors.
//
// # Distance
//
// Distances are great-circle kilometres via github.com/skypies/geo, which
// implements the haversine formula on a spherical earth. The approximation is
// a few parts per thousand off a full ellipsoidal solution, which is well
// inside the tolerance of an ETA estimate; it is used consistently everywhere
// a distance is computed.
package domain
