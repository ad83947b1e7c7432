package models

import (
	"time"
)

// RawReport holds the undecoded OpenWeatherMap payloads last fetched for a city
type RawReport struct {
	City      string         `json:"city"`
	Weather   map[string]any `json:"weather"`
	Forecast  map[string]any `json:"forecast"`
	Fetched   time.Time      `json:"fetched"`
	LastError string         `json:"lastError,omitempty"`
}

// SunTimes holds sunrise and sunset as HH:MM, or "--:--" when unknown
type SunTimes struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// Snapshot is everything needed to draw the weather card for one city
type Snapshot struct {
	City        string    `json:"city"`
	DateLine    string    `json:"dateLine"`
	Units       string    `json:"units"`
	TempUnit    string    `json:"tempUnit"`
	Temperature float64   `json:"temperature"`
	Description string    `json:"description"`
	Humidity    float64   `json:"humidity"`  // percentage
	WindSpeed   float64   `json:"windSpeed"` // m/s
	AQI         *int      `json:"aqi"`       // 1 (good) to 5 (very poor), nil if unknown
	Icon        string    `json:"icon"`
	IconURL     string    `json:"iconUrl"`
	Background  [2]string `json:"background"` // gradient start and end colours, "#rrggbb"
	Sun         SunTimes  `json:"sun"`
	Daily       []DayView `json:"daily"`
	Fetched     time.Time `json:"fetched"`
	LastError   string    `json:"lastError,omitempty"`
}
