package datasource

import (
	"context"
)

// PayloadSource is an interface for services that return raw OpenWeatherMap
// style payloads. Payloads are decoded JSON objects and must be treated as
// read-only by callers, since sources may hand out cached values.
type PayloadSource interface {
	// Weather fetches the current conditions for a city
	Weather(ctx context.Context, city string) (map[string]any, error)

	// Forecast fetches the 5 day / 3 hour forecast for a city
	Forecast(ctx context.Context, city string) (map[string]any, error)

	// Name returns the source's name
	Name() string
}
