package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org"

// Client is a client for the OpenWeatherMap current weather API.
type Client struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewClient creates a new weather client. A zero timeout means no client-side limit
// beyond the request context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// currentResponse is the subset of the OpenWeatherMap payload we read.
type currentResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the current conditions for city in metric units.
func (c *Client) Current(ctx context.Context, city string) (Conditions, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Conditions{}, fmt.Errorf("%w: empty city", ErrUnavailable)
	}
	if c.APIKey == "" {
		return Conditions{}, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", c.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Conditions{}, fmt.Errorf("%w: bad status %d: %s", ErrUnavailable, resp.StatusCode, string(raw))
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Conditions{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Main == nil || len(body.Weather) == 0 {
		return Conditions{}, fmt.Errorf("%w: incomplete response for %q", ErrUnavailable, city)
	}

	return Conditions{
		Temperature: body.Main.Temp,
		Humidity:    body.Main.Humidity,
		Condition:   body.Weather[0].Description,
		WindSpeed:   body.Wind.Speed,
	}, nil
}
