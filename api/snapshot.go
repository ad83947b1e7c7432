package api

import (
	"errors"
	"fmt"
	"math"
	"time"

	"weathersnap/datasource"
	"weathersnap/forecast"
	"weathersnap/models"
	"weathersnap/units"
)

// Unit systems accepted by the API
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// ErrIncompleteWeather is returned when a current weather payload lacks a
// field the snapshot needs
var ErrIncompleteWeather = errors.New("incomplete weather payload")

// BuildSnapshot turns a raw report into display values. Temperatures in the
// payload are kelvin and are converted for unitSystem.
func BuildSnapshot(report models.RawReport, unitSystem string, days int, loc *time.Location, now time.Time) (models.Snapshot, error) {
	w := report.Weather
	if w == nil {
		return models.Snapshot{}, fmt.Errorf("%w: nothing fetched for %s", ErrIncompleteWeather, report.City)
	}

	main, ok := w["main"].(map[string]any)
	if !ok {
		return models.Snapshot{}, incomplete("main")
	}
	temp, ok := finiteFloat(main["temp"])
	if !ok {
		return models.Snapshot{}, incomplete("main.temp")
	}
	humidity, _ := finiteFloat(main["humidity"])

	wind, _ := w["wind"].(map[string]any)
	windSpeed, _ := finiteFloat(wind["speed"])

	conditions, ok := w["weather"].([]any)
	if !ok || len(conditions) == 0 {
		return models.Snapshot{}, incomplete("weather[0]")
	}
	current, _ := conditions[0].(map[string]any)
	description, ok := current["description"].(string)
	if !ok {
		return models.Snapshot{}, incomplete("weather[0].description")
	}
	icon, ok := current["icon"].(string)
	if !ok {
		return models.Snapshot{}, incomplete("weather[0].icon")
	}

	name, _ := w["name"].(string)
	if name == "" {
		name = "Unknown"
	}

	var aqi *int
	if v, ok := finiteFloat(w["aqi"]); ok {
		index := int(v)
		aqi = &index
	}

	daily, err := DailyViews(report.Forecast, unitSystem, days)
	if err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{
		City:        name,
		DateLine:    units.FormatClock("%A, %d %b", now, loc),
		Units:       unitSystem,
		TempUnit:    tempSymbol(unitSystem),
		Temperature: convertTemp(temp, unitSystem),
		Description: units.CapitalizeDescription(description).(string),
		Humidity:    humidity,
		WindSpeed:   windSpeed,
		AQI:         aqi,
		Icon:        icon,
		IconURL:     fmt.Sprintf(iconURLFormat, icon),
		Background:  BackgroundFor(description),
		Sun:         datasource.SunTimes(w, loc),
		Daily:       daily,
		Fetched:     report.Fetched,
		LastError:   report.LastError,
	}, nil
}

// DailyViews aggregates a forecast payload into at most days entries, with
// weekday names and converted temperatures
func DailyViews(forecastPayload map[string]any, unitSystem string, days int) ([]models.DayView, error) {
	daily, err := forecast.ExtractDaily(forecastPayload, days)
	if err != nil {
		return nil, err
	}

	views := make([]models.DayView, 0, len(daily))
	for _, d := range daily {
		if !isFinite(d.Temp) {
			return nil, fmt.Errorf("%w: temp for %s is not a finite number", forecast.ErrMalformedSample, d.Date)
		}
		// FormatDateTime hands back the date itself if it does not parse
		day, _ := units.FormatDateTime(d.Date, "%Y-%m-%d", "%A").(string)
		views = append(views, models.DayView{
			Date:    d.Date,
			Day:     day,
			Temp:    convertTemp(d.Temp, unitSystem),
			Desc:    d.Desc,
			Icon:    d.Icon,
			IconURL: fmt.Sprintf(iconURLFormat, d.Icon),
		})
	}
	return views, nil
}

func convertTemp(kelvin float64, unitSystem string) float64 {
	if unitSystem == UnitsImperial {
		return units.Fahrenheit(kelvin)
	}
	return units.Celsius(kelvin)
}

func tempSymbol(unitSystem string) string {
	if unitSystem == UnitsImperial {
		return "°F"
	}
	return "°C"
}

// finiteFloat is units.Float without NaN and the infinities, which JSON
// cannot carry
func finiteFloat(v any) (float64, bool) {
	f, ok := units.Float(v)
	if !ok || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func incomplete(field string) error {
	return fmt.Errorf("%w: missing or invalid %s", ErrIncompleteWeather, field)
}
