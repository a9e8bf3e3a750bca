// Package weather fetches current conditions for a city.
package weather

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks tourli-ai/internal/weather Gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned when conditions could not be retrieved for a city.
var ErrUnavailable = errors.New("weather unavailable")

// Conditions is a snapshot of the current weather in a city.
type Conditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Condition   string  `json:"condition"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Gateway returns the current conditions for a city.
type Gateway interface {
	Current(ctx context.Context, city string) (Conditions, error)
}

// Describe renders conditions as a short multi-line report for city.
func (c Conditions) Describe(city string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The weather in %s right now:\n", city)
	fmt.Fprintf(&b, "- %s\n", capitalize(c.Condition))
	fmt.Fprintf(&b, "- Temperature: %.1f°C\n", c.Temperature)
	fmt.Fprintf(&b, "- Humidity: %d%%\n", c.Humidity)
	fmt.Fprintf(&b, "- Wind: %.1f m/s", c.WindSpeed)
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
