// Package forecast reduces the OpenWeatherMap 5 day / 3 hour forecast to
// one representative entry per calendar day.
package forecast

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"weathersnap/models"
	"weathersnap/units"
)

// DefaultDays is the number of days returned when the caller does not ask
// for a positive count.
const DefaultDays = 4

// Midday window. Compared as strings; dt_txt times are fixed width HH:MM:SS.
const (
	middayStart = "12:00:00"
	middayEnd   = "15:00:00"
)

// ErrMalformedSample is returned when a forecast sample lacks a field the
// aggregation needs or holds it with the wrong type.
var ErrMalformedSample = errors.New("malformed forecast sample")

type sample struct {
	date string
	time string
	temp float64
	desc string
	icon string
}

// ExtractDaily picks one sample per date from payload["list"], preferring
// samples inside the midday window, and returns up to days entries sorted by
// date. The date of the first sample counts as today and is left out.
// A days value below 1 means DefaultDays, so up to four entries come back
// even for days == 0.
//
// A nil payload or one without a list yields an empty result. Samples are
// not skipped when broken: the first malformed one aborts with
// ErrMalformedSample.
func ExtractDaily(payload map[string]any, days int) ([]models.DailyForecast, error) {
	if days < 1 {
		days = DefaultDays
	}

	rawList, ok := payload["list"]
	if !ok {
		return []models.DailyForecast{}, nil
	}
	list, ok := rawList.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: list is %T, not an array", ErrMalformedSample, rawList)
	}
	if len(list) == 0 {
		return []models.DailyForecast{}, nil
	}

	daily := make(map[string]sample)
	var today string
	for i, raw := range list {
		s, err := parseSample(raw)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if i == 0 {
			today = s.date
		}

		if _, seen := daily[s.date]; !seen {
			daily[s.date] = s
			continue
		}
		// A later midday sample replaces whatever is stored, even another
		// midday sample.
		if middayStart <= s.time && s.time <= middayEnd {
			daily[s.date] = s
		}
	}

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	result := make([]models.DailyForecast, 0, days)
	for _, d := range dates {
		if d == today {
			continue
		}
		s := daily[d]
		result = append(result, models.DailyForecast{
			Date: d,
			Temp: s.temp,
			Desc: units.Capitalize(s.desc),
			Icon: s.icon,
		})
		if len(result) >= days {
			break
		}
	}
	return result, nil
}

func parseSample(raw any) (sample, error) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return sample{}, fmt.Errorf("%w: entry is %T, not an object", ErrMalformedSample, raw)
	}

	dtTxt, ok := entry["dt_txt"].(string)
	if !ok {
		return sample{}, missing("dt_txt")
	}
	parts := strings.Fields(dtTxt)
	if len(parts) < 2 {
		return sample{}, fmt.Errorf("%w: dt_txt %q has no time part", ErrMalformedSample, dtTxt)
	}

	main, ok := entry["main"].(map[string]any)
	if !ok {
		return sample{}, missing("main")
	}
	temp, ok := units.Float(main["temp"])
	if !ok {
		return sample{}, missing("main.temp")
	}

	conditions, ok := entry["weather"].([]any)
	if !ok || len(conditions) == 0 {
		return sample{}, missing("weather[0]")
	}
	first, ok := conditions[0].(map[string]any)
	if !ok {
		return sample{}, missing("weather[0]")
	}
	desc, ok := first["description"].(string)
	if !ok {
		return sample{}, missing("weather[0].description")
	}
	icon, ok := first["icon"].(string)
	if !ok {
		return sample{}, missing("weather[0].icon")
	}

	return sample{
		date: parts[0],
		time: parts[1],
		temp: temp,
		desc: desc,
		icon: icon,
	}, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing or invalid %s", ErrMalformedSample, field)
}
