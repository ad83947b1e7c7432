package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"weathersnap/logging"
	"weathersnap/units"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// APIError is returned when OpenWeatherMap answers with a non-200 status.
// Message carries the API's own "message" field when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openweathermap: %s (status %d)", e.Message, e.Status)
}

// OpenWeatherMapClient fetches raw payloads from OpenWeatherMap.
// Temperatures are requested in kelvin; conversion happens at display time.
type OpenWeatherMapClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	aqiClient  *http.Client
	tracer     trace.Tracer
}

// Ensure OpenWeatherMapClient implements PayloadSource
var _ PayloadSource = (*OpenWeatherMapClient)(nil)

// NewOpenWeatherMapClient creates a new OpenWeatherMap client
func NewOpenWeatherMapClient(apiKey string) *OpenWeatherMapClient {
	return &OpenWeatherMapClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
		aqiClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		tracer: otel.Tracer("weathersnap/datasource"),
	}
}

// SetBaseURL points the client at another API root, e.g. a test server
func (c *OpenWeatherMapClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Name returns the provider name
func (c *OpenWeatherMapClient) Name() string {
	return "OpenWeatherMap"
}

// Weather fetches current conditions for a city. When the response carries
// coordinates, the air quality index is looked up and stored under "aqi"
// (nil when unavailable).
func (c *OpenWeatherMapClient) Weather(ctx context.Context, city string) (map[string]any, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("units", "standard")

	payload, err := c.get(ctx, c.httpClient, "weather", params)
	if err != nil {
		return nil, err
	}

	if coord, ok := payload["coord"].(map[string]any); ok {
		lat, latOK := units.Float(coord["lat"])
		lon, lonOK := units.Float(coord["lon"])
		payload["aqi"] = nil
		if latOK && lonOK {
			aqi, err := c.AirQuality(ctx, lat, lon)
			if err != nil {
				logging.L().Debugw("air quality lookup failed", "city", city, "error", err)
			} else if aqi != nil {
				payload["aqi"] = *aqi
			}
		}
	}

	return payload, nil
}

// Forecast fetches the 5 day / 3 hour forecast for a city
func (c *OpenWeatherMapClient) Forecast(ctx context.Context, city string) (map[string]any, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("units", "standard")

	return c.get(ctx, c.httpClient, "forecast", params)
}

// AirQuality returns the air quality index (1-5) at a coordinate, or nil
// when the response holds no reading
func (c *OpenWeatherMapClient) AirQuality(ctx context.Context, lat, lon float64) (*int, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	payload, err := c.get(ctx, c.aqiClient, "air_pollution", params)
	if err != nil {
		return nil, err
	}

	list, ok := payload["list"].([]any)
	if !ok || len(list) == 0 {
		return nil, nil
	}
	first, _ := list[0].(map[string]any)
	main, _ := first["main"].(map[string]any)
	value, ok := units.Float(main["aqi"])
	if !ok {
		return nil, nil
	}
	aqi := int(value)
	return &aqi, nil
}

// get performs a GET against endpoint and decodes the JSON object it returns
func (c *OpenWeatherMapClient) get(ctx context.Context, client *http.Client, endpoint string, params url.Values) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "openweathermap."+endpoint)
	defer span.End()

	params.Add("appid", c.apiKey)
	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	logging.L().Debugw("openweathermap request", "endpoint", endpoint, "query", params.Get("q"))

	payload, err := c.do(ctx, client, requestURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return payload, nil
}

func (c *OpenWeatherMapClient) do(ctx context.Context, client *http.Client, requestURL string) (map[string]any, error) {
	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Execute request
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("failed to parse response: body is not a JSON object")
	}
	return payload, nil
}

// newAPIError prefers the "message" field of a JSON error body and falls
// back to the HTTP status text
func newAPIError(status int, body []byte) *APIError {
	var errBody struct {
		Message string `json:"message"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		message = errBody.Message
	}
	return &APIError{Status: status, Message: message}
}
