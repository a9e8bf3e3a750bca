// Package rag answers free-text travel questions by combining intent
// classification, city detection and TF-IDF retrieval over the corpus.
package rag

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/corpus"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/indexer"
	"tourli-ai/internal/intent"
	"tourli-ai/internal/metrics"
	"tourli-ai/internal/textnorm"
	"tourli-ai/internal/weather"
)

// DefaultConfidenceThreshold is the minimum retrieval score for a corpus answer.
const DefaultConfidenceThreshold = 0.2

// DefaultWeatherTimeout bounds a single weather lookup.
const DefaultWeatherTimeout = 5 * time.Second

// Engine answers questions against the current snapshot.
type Engine interface {
	// Answer never fails; problems are reflected in the result's Outcome.
	Answer(ctx context.Context, text string) QueryResult
	// Reload atomically replaces the snapshot used by subsequent calls.
	Reload(s *Snapshot)
	// Snapshot returns the snapshot currently in use.
	Snapshot() *Snapshot
}

// Config tunes answer selection.
type Config struct {
	// ConfidenceThreshold defaults to DefaultConfidenceThreshold.
	ConfidenceThreshold float64
	// WeatherTimeout defaults to DefaultWeatherTimeout.
	WeatherTimeout time.Duration
}

type ragEngine struct {
	snap    atomic.Pointer[Snapshot]
	weather weather.Gateway
	cfg     Config
}

// NewEngine creates an engine over s. gw may be nil, in which case weather
// placeholders are always dropped.
func NewEngine(s *Snapshot, gw weather.Gateway, cfg Config) Engine {
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if cfg.WeatherTimeout <= 0 {
		cfg.WeatherTimeout = DefaultWeatherTimeout
	}
	e := &ragEngine{weather: gw, cfg: cfg}
	e.snap.Store(s)
	metrics.CorpusEntries.Set(float64(len(s.Entries)))
	return e
}

func (e *ragEngine) Reload(s *Snapshot) {
	e.snap.Store(s)
	metrics.CorpusEntries.Set(float64(len(s.Entries)))
}

func (e *ragEngine) Snapshot() *Snapshot {
	return e.snap.Load()
}

func (e *ragEngine) Answer(ctx context.Context, text string) QueryResult {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	res := e.answer(ctx, e.snap.Load(), text)

	elapsed := time.Since(start)
	metrics.ObserveQuery(string(res.Outcome), string(res.Intent), res.Confidence, elapsed)
	logger.InfoContext(ctx, "question answered",
		"intent", res.Intent,
		"outcome", res.Outcome,
		"confidence", res.Confidence,
		"city", res.CityName(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res
}

func (e *ragEngine) answer(ctx context.Context, snap *Snapshot, text string) QueryResult {
	logger := contextutil.LoggerFromContext(ctx)
	region := snap.Gazetteer.Region()

	if strings.TrimSpace(text) == "" {
		return QueryResult{
			Answer:  emptyAnswer,
			Intent:  snap.Classifier.Fallback(),
			Outcome: OutcomeEmpty,
		}
	}

	tokens := textnorm.NormalizeTokens(text)
	lemmas := snap.Lemmatizer.Lemmatize(tokens)
	label := snap.Classifier.ClassifyTokens(tokens, lemmas)
	res := QueryResult{Intent: label}

	if m, ok := snap.Detector.Detect(tokens); ok {
		city := m.City
		res.City = &city
		res.CityMatch = &m
		metrics.CityDetections.WithLabelValues(string(m.Kind), string(city.Source)).Inc()
		if !snap.Gazetteer.InRegion(city) {
			res.CityFacts = cityFacts(city, region)
		}
	} else if country, ok := snap.Detector.DetectCountry(tokens); ok {
		res.Country = country
	}

	logger.DebugContext(ctx, "query analyzed",
		"tokens", tokens,
		"lemmas", lemmas,
		"intent", label,
		"city", res.CityName(),
		"country", res.Country,
	)

	var queryLabel string
	if label != snap.Classifier.Fallback() {
		queryLabel = string(label)
	}
	matches := snap.Index.QueryIntent(tokens, queryLabel)

	if snap.Classifier.IsCanned(label) {
		if m, ok := bestWithLabel(matches, label); ok {
			entry := m.Entry
			res.Answer = fillCity(entry.Answer, res.City, region)
			res.Answer = strings.TrimSpace(strings.ReplaceAll(res.Answer, weatherPlaceholder, ""))
			res.Confidence = 1
			res.Matched = &entry
			res.Outcome = OutcomeCanned
			return res
		}
	}

	if label == intent.AskDistance {
		return e.distance(snap, tokens, res)
	}

	// Outside the region only weather is looked up; anything else gets the
	// city's facts or a polite refusal.
	if !snap.Classifier.IsWeather(label) {
		if res.CityFacts != "" {
			res.Answer = res.CityFacts
			res.Confidence = 1
			res.Outcome = OutcomeComputed
			return res
		}
		if res.Country != "" {
			res.Answer = outsideCountryText(res.Country, region)
			res.Outcome = OutcomeFallback
			return res
		}
	} else if res.City == nil && res.Country != "" {
		res.Answer = askCityAnswer
		res.Outcome = OutcomeFallback
		return res
	}

	top, ok := bestOpen(snap.Classifier, matches)
	res.Confidence = top.Score
	if !ok || top.Score < e.cfg.ConfidenceThreshold {
		res.Answer = fallbackText(region)
		res.Outcome = OutcomeFallback
		return res
	}

	entry := top.Entry
	res.Matched = &entry
	res.Outcome = OutcomeAnswered
	res.Answer = e.personalize(ctx, snap, entry, &res)
	return res
}

// bestOpen returns the highest-ranked match that is not a canned entry.
// Canned answers are only given when the intent asks for them.
func bestOpen(c *intent.Classifier, matches []indexer.Match) (indexer.Match, bool) {
	for _, m := range matches {
		if !c.IsCanned(intent.Label(m.Entry.Label())) {
			return m, true
		}
	}
	return indexer.Match{}, false
}

// bestWithLabel returns the highest-ranked match carrying label. matches are
// already sorted with ties in corpus order.
func bestWithLabel(matches []indexer.Match, label intent.Label) (indexer.Match, bool) {
	for _, m := range matches {
		if m.Entry.Label() == string(label) {
			return m, true
		}
	}
	return indexer.Match{}, false
}

func (e *ragEngine) distance(snap *Snapshot, tokens []string, res QueryResult) QueryResult {
	found := snap.Detector.DetectAll(tokens, 2)
	if len(found) < 2 {
		res.Answer = distanceClarifyAnswer
		res.Outcome = OutcomeFallback
		return res
	}

	a, b := found[0].City, found[1].City
	km := gazetteer.Distance(a, b)
	outside := !snap.Gazetteer.InRegion(a) || !snap.Gazetteer.InRegion(b)

	res.City = &a
	res.CityMatch = &found[0]
	res.DistanceKm = km
	res.Answer = distanceText(a, b, km, outside, snap.Gazetteer.Region())
	res.Confidence = 1
	res.Outcome = OutcomeComputed
	return res
}

// personalize fills the {city} and {weather} placeholders of a corpus answer.
func (e *ragEngine) personalize(ctx context.Context, snap *Snapshot, entry corpus.QAEntry, res *QueryResult) string {
	region := snap.Gazetteer.Region()
	answer := fillCity(entry.Answer, res.City, region)

	if res.City == nil || !snap.Classifier.IsWeather(res.Intent) {
		answer = dropWeather(answer)
		if answer == "" && snap.Classifier.IsWeather(res.Intent) {
			return askCityAnswer
		}
		return answer
	}

	cond, ok := e.fetchWeather(ctx, res.City.Name)
	if !ok {
		answer = dropWeather(answer)
		if answer == "" {
			return weatherUnavailableAnswer
		}
		return answer
	}
	res.Weather = &cond

	report := cond.Describe(res.City.Name)
	if !snap.Gazetteer.InRegion(*res.City) {
		report = outsideWeatherPrefix(region) + "\n" + report
	}
	if strings.Contains(answer, weatherPlaceholder) {
		return strings.TrimSpace(strings.ReplaceAll(answer, weatherPlaceholder, report))
	}
	return strings.TrimSpace(answer) + "\n\n" + report
}

func (e *ragEngine) fetchWeather(ctx context.Context, city string) (weather.Conditions, bool) {
	if e.weather == nil {
		return weather.Conditions{}, false
	}
	logger := contextutil.LoggerFromContext(ctx)

	wctx, cancel := context.WithTimeout(ctx, e.cfg.WeatherTimeout)
	defer cancel()

	cond, err := e.weather.Current(wctx, city)
	if err != nil {
		metrics.WeatherRequests.WithLabelValues("error").Inc()
		logger.WarnContext(ctx, "weather lookup failed", "city", city, "error", err)
		return weather.Conditions{}, false
	}
	metrics.WeatherRequests.WithLabelValues("ok").Inc()
	return cond, true
}
