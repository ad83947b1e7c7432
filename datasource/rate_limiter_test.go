package datasource

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimitedSourceForwards(t *testing.T) {
	stub := &stubSource{}
	limited := NewRateLimitedSource(stub, 100, 100, 5)

	if limited.Name() != "Stub [Rate Limited]" {
		t.Errorf("unexpected name %q", limited.Name())
	}

	payload, err := limited.Weather(context.Background(), "Pune")
	if err != nil {
		t.Fatalf("Weather returned error: %v", err)
	}
	if payload["name"] != "Pune" {
		t.Errorf("expected payload from the wrapped source, got %v", payload)
	}
	if _, err := limited.Forecast(context.Background(), "Pune"); err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}
	if stub.weatherCalls.Load() != 1 || stub.forecastCalls.Load() != 1 {
		t.Errorf("expected one call each, got weather=%d forecast=%d",
			stub.weatherCalls.Load(), stub.forecastCalls.Load())
	}
}

func TestRateLimitedSourceHonorsContext(t *testing.T) {
	stub := &stubSource{}
	// One token per minute: the second call has to wait and the deadline
	// cuts it short.
	limited := NewRateLimitedSource(stub, 1.0/60, 1.0/60, 1)

	if _, err := limited.Weather(context.Background(), "Pune"); err != nil {
		t.Fatalf("first call should pass the burst, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := limited.Weather(ctx, "Pune"); err == nil {
		t.Fatal("expected the second call to fail on the context deadline")
	}
	if stub.weatherCalls.Load() != 1 {
		t.Errorf("wrapped source should be called once, got %d", stub.weatherCalls.Load())
	}
}

func TestRateLimitedSourcePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	limited := NewRateLimitedSource(&stubSource{err: boom}, 100, 100, 1)

	if _, err := limited.Forecast(context.Background(), "Pune"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}
