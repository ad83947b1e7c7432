package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"weathersnap/datasource"
	"weathersnap/logging"
	"weathersnap/models"
)

// Sink receives the outcome of every refresh
type Sink interface {
	Update(report models.RawReport)
	RecordError(city string, err error)
}

// DataCollector periodically refreshes weather and forecast payloads for a
// set of cities
type DataCollector struct {
	source       datasource.PayloadSource
	sink         Sink
	cities       []string
	interval     time.Duration
	fetchTimeout time.Duration
}

// NewDataCollector creates a new data collector for the provided cities
func NewDataCollector(source datasource.PayloadSource, sink Sink, cities []string) *DataCollector {
	return &DataCollector{
		source:       source,
		sink:         sink,
		cities:       cities,
		interval:     5 * time.Minute,
		fetchTimeout: 10 * time.Second,
	}
}

// SetInterval changes how often each city is refreshed
func (dc *DataCollector) SetInterval(interval time.Duration) {
	dc.interval = interval
}

// SetFetchTimeout changes the timeout for a single refresh
func (dc *DataCollector) SetFetchTimeout(timeout time.Duration) {
	dc.fetchTimeout = timeout
}

// Start begins refreshing every city.
// The returned function stops collection and waits for it to finish
func (dc *DataCollector) Start(ctx context.Context) func() {
	collectionCtx, cancelCollection := context.WithCancel(ctx)

	var wg sync.WaitGroup
	for _, city := range dc.cities {
		wg.Add(1)
		go dc.collect(collectionCtx, &wg, city)
	}

	return func() {
		cancelCollection()
		wg.Wait()
	}
}

// collect refreshes one city immediately and then on every tick
func (dc *DataCollector) collect(ctx context.Context, wg *sync.WaitGroup, city string) {
	defer wg.Done()

	ticker := time.NewTicker(dc.interval)
	defer ticker.Stop()

	dc.RefreshOnce(ctx, city)

	for {
		select {
		case <-ticker.C:
			dc.RefreshOnce(ctx, city)
		case <-ctx.Done():
			return
		}
	}
}

// RefreshOnce fetches one city and hands the result to the sink
func (dc *DataCollector) RefreshOnce(ctx context.Context, city string) {
	fetchCtx, cancel := context.WithTimeout(ctx, dc.fetchTimeout)
	defer cancel()

	report, err := FetchReport(fetchCtx, dc.source, city)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.L().Warnw("weather refresh failed", "city", city, "source", dc.source.Name(), "error", err)
		dc.sink.RecordError(city, err)
		return
	}

	logging.L().Infow("weather refreshed", "city", city, "source", dc.source.Name())
	dc.sink.Update(report)
}

// FetchReport loads current conditions and the forecast for a city.
// Failing to get current conditions is an error; a failed forecast is
// logged and leaves the report's Forecast nil, which reads as no forecast
// days.
func FetchReport(ctx context.Context, source datasource.PayloadSource, city string) (models.RawReport, error) {
	weather, err := source.Weather(ctx, city)
	if err != nil {
		return models.RawReport{}, fmt.Errorf("error fetching weather from %s for %s: %w", source.Name(), city, err)
	}

	report := models.RawReport{
		City:    city,
		Weather: weather,
		Fetched: time.Now(),
	}

	forecast, err := source.Forecast(ctx, city)
	if err != nil {
		logging.L().Warnw("forecast fetch failed", "city", city, "source", source.Name(), "error", err)
		report.LastError = err.Error()
		return report, nil
	}
	report.Forecast = forecast
	return report, nil
}
