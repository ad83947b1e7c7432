package models

// DailyForecast is the representative sample chosen for one calendar day.
// Temp is in the unit the payload was fetched in (kelvin by default).
type DailyForecast struct {
	Date string  `json:"date"` // YYYY-MM-DD
	Temp float64 `json:"temp"`
	Desc string  `json:"desc"`
	Icon string  `json:"icon"`
}

// DayView is a DailyForecast prepared for display
type DayView struct {
	Date    string  `json:"date"`
	Day     string  `json:"day"`  // weekday name
	Temp    float64 `json:"temp"` // in the snapshot's unit system
	Desc    string  `json:"desc"`
	Icon    string  `json:"icon"`
	IconURL string  `json:"iconUrl"`
}
