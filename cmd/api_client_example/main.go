package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

type cityList struct {
	Cities []string `json:"cities"`
	Count  int      `json:"count"`
}

type snapshot struct {
	City        string  `json:"city"`
	DateLine    string  `json:"dateLine"`
	Temperature float64 `json:"temperature"`
	TempUnit    string  `json:"tempUnit"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	AQI         *int    `json:"aqi"`
	Sun         struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"sun"`
	Daily []struct {
		Day  string  `json:"day"`
		Temp float64 `json:"temp"`
		Desc string  `json:"desc"`
	} `json:"daily"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the weather service")
	units := flag.String("units", "metric", "metric or imperial")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Weather Snapshot Client Example")
	fmt.Println("===============================")

	var cities cityList
	if err := getJSON(client, *baseURL+"/api/cities", &cities); err != nil {
		fmt.Printf("Error fetching cities: %v\n", err)
		os.Exit(1)
	}
	if cities.Count == 0 {
		fmt.Println("No cities available yet. Try again later.")
		return
	}

	for _, city := range cities.Cities {
		target := fmt.Sprintf("%s/api/snapshot/%s?units=%s", *baseURL, url.PathEscape(city), url.QueryEscape(*units))

		var snap snapshot
		if err := getJSON(client, target, &snap); err != nil {
			fmt.Printf("\n%s: %v\n", city, err)
			continue
		}
		printSnapshot(snap)
	}
}

func getJSON(client *http.Client, target string, v any) error {
	resp, err := client.Get(target)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func printSnapshot(s snapshot) {
	fmt.Printf("\n%s | %s\n", s.City, s.DateLine)
	fmt.Printf("  %.1f%s, %s\n", s.Temperature, s.TempUnit, s.Description)
	fmt.Printf("  Humidity %.0f%%, wind %.1f m/s\n", s.Humidity, s.WindSpeed)
	if s.AQI != nil {
		fmt.Printf("  AQI %d\n", *s.AQI)
	}
	fmt.Printf("  Sunrise %s, sunset %s\n", s.Sun.Sunrise, s.Sun.Sunset)
	for _, d := range s.Daily {
		fmt.Printf("  %-10s %5.1f%s  %s\n", d.Day, d.Temp, s.TempUnit, d.Desc)
	}
}
