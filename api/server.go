package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"weathersnap/collector"
	"weathersnap/datasource"
	"weathersnap/forecast"
	"weathersnap/logging"
	"weathersnap/models"
	"weathersnap/units"
)

const maxForecastDays = 5

// Defaults are used when a request does not say otherwise
type Defaults struct {
	Units    string
	Days     int
	Location *time.Location // for the date line and sunrise/sunset
}

// Server represents the API server
type Server struct {
	store    *SnapshotStore
	source   datasource.PayloadSource
	defaults Defaults
	router   chi.Router
	server   *http.Server
	now      func() time.Time
}

// NewServer creates a new API server
func NewServer(store *SnapshotStore, port int, defaults Defaults) *Server {
	if defaults.Units == "" {
		defaults.Units = UnitsMetric
	}
	if defaults.Days < 1 {
		defaults.Days = forecast.DefaultDays
	}
	if defaults.Location == nil {
		defaults.Location = time.Local
	}

	s := &Server{
		store:    store,
		defaults: defaults,
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealthCheck)
	r.Get("/api/cities", s.handleGetCities)
	r.Get("/api/snapshot/{city}", s.handleGetSnapshot)
	r.Get("/api/forecast/{city}", s.handleGetForecast)
	r.Get("/api/convert", s.handleConvert)

	s.router = r
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// RegisterSource enables on-demand fetching for cities not in the store
func (s *Server) RegisterSource(source datasource.PayloadSource) {
	s.source = source
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	logging.L().Infow("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleGetSnapshot returns the display-ready weather card for a city
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	unitSystem, err := s.unitsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, status, err := s.lookup(r.Context(), city)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	snapshot, err := BuildSnapshot(report, unitSystem, s.defaults.Days, s.defaults.Location, s.now())
	if err != nil {
		logging.L().Errorw("failed to build snapshot", "city", city, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// handleGetForecast returns the aggregated daily forecast for a city
func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	unitSystem, err := s.unitsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Extract days parameter from query string
	days := s.defaults.Days
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	report, status, err := s.lookup(r.Context(), city)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	views, err := DailyViews(report.Forecast, unitSystem, days)
	if err != nil {
		logging.L().Errorw("failed to aggregate forecast", "city", city, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"city":      report.City,
		"units":     unitSystem,
		"days":      views,
		"timestamp": s.now(),
	})
}

// handleConvert converts a kelvin reading; non-numeric input is echoed back
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("kelvin")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "kelvin not specified")
		return
	}
	if k, ok := units.Float(raw); ok && !isFinite(k) {
		writeError(w, http.StatusBadRequest, "kelvin must be a finite number")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kelvin":     raw,
		"celsius":    units.KelvinToCelsius(raw),
		"fahrenheit": units.KelvinToFahrenheit(raw),
	})
}

// handleGetCities returns all cities with stored data
func (s *Server) handleGetCities(w http.ResponseWriter, r *http.Request) {
	cities := s.store.Cities()
	writeJSON(w, http.StatusOK, map[string]any{
		"cities": cities,
		"count":  len(cities),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

// lookup returns the stored report for a city, fetching it on demand when a
// source is registered. The int is the HTTP status to use on error.
func (s *Server) lookup(ctx context.Context, city string) (models.RawReport, int, error) {
	report, exists := s.store.Get(city)
	if exists && report.Weather != nil {
		return report, http.StatusOK, nil
	}

	if s.source == nil {
		if exists {
			return models.RawReport{}, http.StatusBadGateway, errors.New(report.LastError)
		}
		return models.RawReport{}, http.StatusNotFound, fmt.Errorf("no weather data found for city: %s", city)
	}

	fetched, err := collector.FetchReport(ctx, s.source, city)
	if err != nil {
		var apiErr *datasource.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status == http.StatusNotFound {
				return models.RawReport{}, http.StatusNotFound, errors.New(apiErr.Message)
			}
			return models.RawReport{}, http.StatusBadGateway, errors.New(apiErr.Message)
		}
		return models.RawReport{}, http.StatusBadGateway, err
	}

	s.store.Update(fetched)
	return fetched, http.StatusOK, nil
}

func (s *Server) unitsParam(r *http.Request) (string, error) {
	unitSystem := strings.ToLower(r.URL.Query().Get("units"))
	switch unitSystem {
	case "":
		return s.defaults.Units, nil
	case UnitsMetric, UnitsImperial:
		return unitSystem, nil
	}
	return "", fmt.Errorf("unsupported units %q", unitSystem)
}

// writeJSON encodes v before sending any header, so a value that cannot be
// encoded turns into a 500 instead of an empty 200
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.L().Errorw("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logging.L().Warnw("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger logs each request through zap
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logging.L().Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
