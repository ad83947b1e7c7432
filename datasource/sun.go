package datasource

import (
	"time"

	"weathersnap/models"
	"weathersnap/units"
)

const unknownClock = "--:--"

// SunTimes reads sys.sunrise and sys.sunset (unix seconds) from a current
// weather payload and renders them as HH:MM in loc. If either value is
// missing both are reported as "--:--".
func SunTimes(weather map[string]any, loc *time.Location) models.SunTimes {
	unknown := models.SunTimes{Sunrise: unknownClock, Sunset: unknownClock}

	sys, ok := weather["sys"].(map[string]any)
	if !ok {
		return unknown
	}
	sunrise, ok := units.Float(sys["sunrise"])
	if !ok {
		return unknown
	}
	sunset, ok := units.Float(sys["sunset"])
	if !ok {
		return unknown
	}

	return models.SunTimes{
		Sunrise: units.FormatClock("%H:%M", time.Unix(int64(sunrise), 0), loc),
		Sunset:  units.FormatClock("%H:%M", time.Unix(int64(sunset), 0), loc),
	}
}
