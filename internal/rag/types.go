package rag

import (
	"tourli-ai/internal/citydetect"
	"tourli-ai/internal/corpus"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/intent"
	"tourli-ai/internal/weather"
)

// Outcome records which path produced an answer.
type Outcome string

const (
	// OutcomeAnswered is a retrieved corpus answer at or above the confidence threshold.
	OutcomeAnswered Outcome = "answered"
	// OutcomeCanned is a fixed response for an edge-case intent such as a greeting.
	OutcomeCanned Outcome = "canned"
	// OutcomeComputed is an answer computed from gazetteer data, e.g. a distance
	// or the facts about a city outside the region.
	OutcomeComputed Outcome = "computed"
	// OutcomeFallback means no entry scored above the threshold, or the
	// question named a country outside the region.
	OutcomeFallback Outcome = "fallback"
	// OutcomeEmpty means the input was blank.
	OutcomeEmpty Outcome = "empty"
)

// QueryResult is the engine's answer to one question.
type QueryResult struct {
	// Answer is the final, personalized response text.
	Answer string `json:"answer"`
	// Confidence is the cosine similarity of the best entry, or 1 for canned and computed answers.
	Confidence float64 `json:"confidence"`
	// Intent is the classified intent label.
	Intent intent.Label `json:"intent"`
	// City is the detected city, if any.
	City *gazetteer.CityRecord `json:"city,omitempty"`
	// CityMatch describes how the city was detected.
	CityMatch *citydetect.Match `json:"-"`
	// Weather holds the conditions used to personalize the answer.
	Weather *weather.Conditions `json:"weather,omitempty"`
	// Matched is the corpus entry the answer came from.
	Matched *corpus.QAEntry `json:"matched,omitempty"`
	// Outcome is the path that produced the answer.
	Outcome Outcome `json:"outcome"`
	// CityFacts summarizes a detected city outside the region. It is also
	// the Answer unless the question was about weather.
	CityFacts string `json:"city_facts,omitempty"`
	// Country is a country outside the region named in the question when
	// no city was detected.
	Country string `json:"country,omitempty"`
	// DistanceKm is set for computed distance answers.
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// CityName returns the detected city's display name, or "".
func (r QueryResult) CityName() string {
	if r.City == nil {
		return ""
	}
	return r.City.Name
}
