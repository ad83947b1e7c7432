// Package units holds the temperature, date and text conversions used when
// turning raw OpenWeatherMap payloads into display values.
//
// The conversions fail soft: a value that cannot be converted is returned
// exactly as it was passed in.
package units

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ncruces/go-strftime"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// AbsoluteZeroC is 0 K expressed in degrees Celsius.
	AbsoluteZeroC = 273.15

	// DefaultInputFormat matches the dt_txt field of forecast samples.
	DefaultInputFormat = "%Y-%m-%d %H:%M:%S"
	// DefaultDateFormat renders e.g. "Tue, Jan 02".
	DefaultDateFormat = "%a, %b %d"
	// DefaultTimeFormat renders hour and minute.
	DefaultTimeFormat = "%H:%M"
)

// Celsius converts kelvin to Celsius rounded to one decimal.
func Celsius(kelvin float64) float64 {
	return round1(kelvin - AbsoluteZeroC)
}

// Fahrenheit converts kelvin to Fahrenheit rounded to one decimal.
func Fahrenheit(kelvin float64) float64 {
	return round1((kelvin-AbsoluteZeroC)*9/5 + 32)
}

// KelvinToCelsius converts a raw numeric value. Anything that is not a
// number is returned unchanged.
func KelvinToCelsius(v any) any {
	k, ok := Float(v)
	if !ok {
		return v
	}
	return Celsius(k)
}

// KelvinToFahrenheit converts a raw numeric value. Anything that is not a
// number is returned unchanged.
func KelvinToFahrenheit(v any) any {
	k, ok := Float(v)
	if !ok {
		return v
	}
	return Fahrenheit(k)
}

// FormatDateTime parses text with the strftime layout in and renders it with
// out. Empty layouts select DefaultInputFormat and DefaultDateFormat. If text
// is not a string or does not parse, it is returned unchanged.
func FormatDateTime(text any, in, out string) any {
	if out == "" {
		out = DefaultDateFormat
	}
	return reformat(text, in, out)
}

// FormatTime is FormatDateTime with DefaultTimeFormat as the default output.
func FormatTime(text any, in, out string) any {
	if out == "" {
		out = DefaultTimeFormat
	}
	return reformat(text, in, out)
}

func reformat(text any, in, out string) any {
	s, ok := text.(string)
	if !ok {
		return text
	}
	if in == "" {
		in = DefaultInputFormat
	}
	t, err := strftime.Parse(in, s)
	if err != nil {
		return text
	}
	return strftime.Format(out, t)
}

// FormatClock renders t in loc using a strftime layout.
func FormatClock(layout string, t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return strftime.Format(layout, t.In(loc))
}

// CapitalizeDescription capitalizes every whitespace separated word and
// joins them with single spaces: "light  RAIN" becomes "Light Rain".
// Non-string values are returned unchanged.
func CapitalizeDescription(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first character of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	// Casers keep state, so a fresh one is built per call.
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}

// Float reports the numeric value held by a decoded JSON value. Numeric
// strings count as numbers; booleans do not.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
