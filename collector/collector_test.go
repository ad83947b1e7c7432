package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"weathersnap/models"
)

type fakeSource struct {
	weatherErr  error
	forecastErr error
}

func (f *fakeSource) Name() string { return "Fake" }

func (f *fakeSource) Weather(ctx context.Context, city string) (map[string]any, error) {
	if f.weatherErr != nil {
		return nil, f.weatherErr
	}
	return map[string]any{"name": city}, nil
}

func (f *fakeSource) Forecast(ctx context.Context, city string) (map[string]any, error) {
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return map[string]any{"list": []any{}}, nil
}

type recordingSink struct {
	mu      sync.Mutex
	reports []models.RawReport
	errs    map[string]error
	updated chan string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{errs: make(map[string]error), updated: make(chan string, 16)}
}

func (s *recordingSink) Update(report models.RawReport) {
	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()
	s.updated <- report.City
}

func (s *recordingSink) RecordError(city string, err error) {
	s.mu.Lock()
	s.errs[city] = err
	s.mu.Unlock()
	s.updated <- city
}

func TestFetchReport(t *testing.T) {
	report, err := FetchReport(context.Background(), &fakeSource{}, "Pune")
	if err != nil {
		t.Fatalf("FetchReport returned error: %v", err)
	}
	if report.City != "Pune" || report.Weather["name"] != "Pune" || report.Forecast == nil {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Fetched.IsZero() {
		t.Error("expected fetch time to be set")
	}
}

func TestFetchReportForecastFailure(t *testing.T) {
	src := &fakeSource{forecastErr: errors.New("forecast down")}
	report, err := FetchReport(context.Background(), src, "Pune")
	if err != nil {
		t.Fatalf("forecast failure should not fail the report: %v", err)
	}
	if report.Forecast != nil || report.LastError != "forecast down" {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestFetchReportWeatherFailure(t *testing.T) {
	boom := errors.New("weather down")
	if _, err := FetchReport(context.Background(), &fakeSource{weatherErr: boom}, "Pune"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped weather error, got %v", err)
	}
}

func TestCollectorRefreshesEveryCity(t *testing.T) {
	sink := newRecordingSink()
	dc := NewDataCollector(&fakeSource{}, sink, []string{"Pune", "Goa"})
	dc.SetInterval(time.Hour)

	stop := dc.Start(context.Background())
	defer stop()

	seen := map[string]bool{}
	timeout := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case city := <-sink.updated:
			seen[city] = true
		case <-timeout:
			t.Fatalf("timed out waiting for initial refresh, saw %v", seen)
		}
	}
}

func TestCollectorRecordsErrors(t *testing.T) {
	sink := newRecordingSink()
	dc := NewDataCollector(&fakeSource{weatherErr: errors.New("down")}, sink, []string{"Pune"})

	dc.RefreshOnce(context.Background(), "Pune")

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.errs["Pune"] == nil {
		t.Error("expected the error to be recorded")
	}
	if len(sink.reports) != 0 {
		t.Errorf("expected no report, got %d", len(sink.reports))
	}
}

func TestCollectorStopReturns(t *testing.T) {
	sink := newRecordingSink()
	dc := NewDataCollector(&fakeSource{}, sink, []string{"Pune"})
	dc.SetInterval(10 * time.Millisecond)

	stop := dc.Start(context.Background())
	<-sink.updated

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	// drain so a tick in flight never blocks on the channel
	go func() {
		for range sink.updated {
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}
}
