package units

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestKelvinToCelsius(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{name: "freezing point", input: 273.15, expected: 0.0},
		{name: "rounds to one decimal", input: 300.0, expected: 26.9},
		{name: "integer input", input: 300, expected: 26.9},
		{name: "json number", input: json.Number("283.15"), expected: 10.0},
		{name: "numeric string", input: " 300 ", expected: 26.9},
		{name: "text passes through", input: "warm", expected: "warm"},
		{name: "nil passes through", input: nil, expected: nil},
		{name: "bool passes through", input: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := KelvinToCelsius(tt.input)
			if result != tt.expected {
				t.Errorf("KelvinToCelsius(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKelvinToCelsiusMatchesRoundedDifference(t *testing.T) {
	for _, k := range []float64{0.5, 100, 250.25, 273.16, 291.4, 310.987, 1000} {
		want := math.Round((k-273.15)*10) / 10
		if got := KelvinToCelsius(k); got != want {
			t.Errorf("KelvinToCelsius(%v) = %v, want %v", k, got, want)
		}
	}
}

func TestKelvinToFahrenheit(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{name: "freezing point", input: 273.15, expected: 32.0},
		{name: "warm day", input: 300.0, expected: 80.3},
		{name: "boiling point", input: 373.15, expected: 212.0},
		{name: "map passes through", input: map[string]any{}, expected: nil},
		{name: "text passes through", input: "n/a", expected: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := KelvinToFahrenheit(tt.input)
			if m, ok := tt.input.(map[string]any); ok {
				if got, ok := result.(map[string]any); !ok || len(got) != len(m) {
					t.Errorf("KelvinToFahrenheit(map) = %v, want the map back", result)
				}
				return
			}
			if result != tt.expected {
				t.Errorf("KelvinToFahrenheit(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		name     string
		text     any
		in, out  string
		expected any
	}{
		{name: "defaults", text: "2024-05-07 12:00:00", expected: "Tue, May 07"},
		{name: "weekday name", text: "2024-05-07", in: "%Y-%m-%d", out: "%A", expected: "Tuesday"},
		{name: "unparseable", text: "tomorrow", expected: "tomorrow"},
		{name: "wrong layout", text: "2024-05-07", expected: "2024-05-07"},
		{name: "not a string", text: 42, expected: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatDateTime(tt.text, tt.in, tt.out)
			if result != tt.expected {
				t.Errorf("FormatDateTime(%v) = %v, want %v", tt.text, result, tt.expected)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime("2024-05-07 06:30:00", "", ""); got != "06:30" {
		t.Errorf("FormatTime default = %v, want 06:30", got)
	}
	if got := FormatTime("06:30", "", ""); got != "06:30" {
		t.Errorf("FormatTime on bad input = %v, want input back", got)
	}
	if got := FormatTime(nil, "", ""); got != nil {
		t.Errorf("FormatTime(nil) = %v, want nil", got)
	}
}

func TestFormatClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Unix(1715040000, 0) // 2024-05-07 00:00:00 UTC
	if got := FormatClock("%H:%M", ts, loc); got != "05:30" {
		t.Errorf("FormatClock = %q, want 05:30", got)
	}
}

func TestCapitalizeDescription(t *testing.T) {
	tests := []struct {
		input    any
		expected any
	}{
		{"light rain", "Light Rain"},
		{"OVERCAST  clouds", "Overcast Clouds"},
		{"  scattered clouds ", "Scattered Clouds"},
		{"", ""},
		{nil, nil},
		{7, 7},
	}

	for _, tt := range tests {
		if got := CapitalizeDescription(tt.input); got != tt.expected {
			t.Errorf("CapitalizeDescription(%#v) = %#v, want %#v", tt.input, got, tt.expected)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"light rain": "Light rain",
		"CLEAR SKY":  "Clear sky",
		"é":          "É",
		"":           "",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFloat(t *testing.T) {
	if _, ok := Float("12a"); ok {
		t.Error("Float accepted a non-numeric string")
	}
	if v, ok := Float(int64(5)); !ok || v != 5 {
		t.Errorf("Float(int64(5)) = %v, %v", v, ok)
	}
}
