package rag

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tourli-ai/internal/gazetteer"
)

const (
	cityPlaceholder    = "{city}"
	weatherPlaceholder = "{weather}"

	emptyAnswer              = "Please ask a question."
	askCityAnswer            = "Sure! Which city do you want the weather for?"
	weatherUnavailableAnswer = "I couldn't find the weather for that city. Can you try another one?"
	distanceClarifyAnswer    = "I couldn't identify two cities in your request, can you rephrase or specify the countries?"
)

var (
	printer    = message.NewPrinter(language.English)
	multiSpace = regexp.MustCompile(`[ \t]{2,}`)
)

func fallbackText(region string) string {
	return fmt.Sprintf("I apologize, that seems to be outside my knowledge base. I can only answer questions about %s tourism.", region)
}

func outsideCountryText(country, region string) string {
	return fmt.Sprintf("I'm specialized in %s tourism, so %s is outside my expertise. But if you're interested in visiting %s instead, I'd be happy to help!", region, country, region)
}

func outsideWeatherPrefix(region string) string {
	return fmt.Sprintf("I don't specialize outside %s, but here's the weather:", region)
}

// fillCity substitutes the detected city, or the region when there is none.
func fillCity(answer string, city *gazetteer.CityRecord, region string) string {
	name := region
	if city != nil {
		name = city.Name
	}
	return strings.ReplaceAll(answer, cityPlaceholder, name)
}

// dropWeather removes the weather placeholder and tidies the leftover spacing.
func dropWeather(answer string) string {
	if !strings.Contains(answer, weatherPlaceholder) {
		return strings.TrimSpace(answer)
	}
	answer = strings.ReplaceAll(answer, weatherPlaceholder, "")
	answer = multiSpace.ReplaceAllString(answer, " ")
	return strings.TrimSpace(answer)
}

func distanceText(a, b gazetteer.CityRecord, km float64, outside bool, region string) string {
	reply := printer.Sprintf("The distance between %s and %s is %.1f km.", a.Name, b.Name, km)
	if outside {
		return fmt.Sprintf("My main specialty is %s, but here is the information you requested: %s", region, reply)
	}
	return reply
}

// cityFacts summarizes a city outside the region from its gazetteer record.
func cityFacts(c gazetteer.CityRecord, region string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sorry, %s is not in %s so it's not my specialty.\n", c.Name, region)
	fmt.Fprintf(&b, "But here's what I found about %s:\n", c.Name)

	if c.Country != "" {
		fmt.Fprintf(&b, "- Country: %s\n", c.Country)
	}
	if c.Population > 0 {
		b.WriteString(printer.Sprintf("- Population: %d\n", c.Population))
	}
	if c.Admin != "" {
		fmt.Fprintf(&b, "- Located in: %s\n", c.Admin)
	}
	if capital := strings.ToLower(c.Capital); capital != "" && capital != "admin" {
		fmt.Fprintf(&b, "- Capital: %s\n", strings.ToUpper(capital[:1])+capital[1:])
	}
	fmt.Fprintf(&b, "- Coordinates: %.2f, %.2f\n", c.Lat, c.Lon)

	fmt.Fprintf(&b, "\nIf you want, I can help you explore amazing cities in %s instead!", region)
	return b.String()
}
