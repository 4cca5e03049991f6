package domain

import "context"

// WeatherSnapshot is the current weather at a coordinate, in the units the
// risk rules are written against.
type WeatherSnapshot struct {
	TemperatureC    float64 `json:"temperature_c"`
	PrecipitationMm float64 `json:"precipitation_mm"`
	WindSpeedKmh    float64 `json:"wind_speed_kmh"`
}

// FallbackWeather is the documented benign placeholder used whenever the
// weather lookup fails: calm, dry, 15°C. With it, no weather rule fires, so a
// missing feed can only under-report risk, never invent it.
var FallbackWeather = WeatherSnapshot{TemperatureC: 15.0}

// WeatherProvider looks up current weather for a coordinate. Implementations
// return errors; the risk engine recovers them with FallbackWeather so that
// evaluation never fails because weather is unavailable.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherSnapshot, error)
}
