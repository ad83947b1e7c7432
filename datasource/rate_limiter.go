package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a PayloadSource with separate rate limits for the
// weather and forecast endpoints
type RateLimitedSource struct {
	source          PayloadSource
	weatherLimiter  *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// NewRateLimitedSource creates a rate limited source.
// weatherRPS and forecastRPS are the maximum requests per second for each
// endpoint (fractional values allow less than one request per second),
// burst is the maximum burst size allowed
func NewRateLimitedSource(source PayloadSource, weatherRPS, forecastRPS float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:          source,
		weatherLimiter:  rate.NewLimiter(rate.Limit(weatherRPS), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(forecastRPS), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// Weather fetches current conditions, respecting the weather rate limit
func (r *RateLimitedSource) Weather(ctx context.Context, city string) (map[string]any, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.weatherLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Weather(ctx, city)
}

// Forecast fetches the forecast, respecting the forecast rate limit
func (r *RateLimitedSource) Forecast(ctx context.Context, city string) (map[string]any, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Forecast(ctx, city)
}

// Name returns the source name
func (r *RateLimitedSource) Name() string {
	return r.name
}

// Ensure RateLimitedSource implements PayloadSource
var _ PayloadSource = (*RateLimitedSource)(nil)
