package indexer

import (
	"regexp"

	"tourli-ai/internal/textnorm"
)

// AnalyzerVersion identifies the term extraction scheme. Bump it when
// Terms changes so stored index versions are invalidated.
const AnalyzerVersion = "tfidf-v2"

// intentPrefix marks intent pseudo-terms. Normalized tokens never contain
// a colon, so they cannot collide with words.
const intentPrefix = "intent:"

// placeholders matches template slots such as {city} in corpus questions.
var placeholders = regexp.MustCompile(`\{[A-Za-z_]+\}`)

// Analyzer turns text into index terms: normalized, lemmatized tokens with
// stopwords removed, plus adjacent-token bigrams.
type Analyzer struct {
	lem *textnorm.Lemmatizer
}

// NewAnalyzer creates an Analyzer using lem for lemmatization.
func NewAnalyzer(lem *textnorm.Lemmatizer) *Analyzer {
	return &Analyzer{lem: lem}
}

// Terms returns the unigrams followed by the bigrams of text.
func (a *Analyzer) Terms(text string) []string {
	return a.TermsFromTokens(textnorm.NormalizeTokens(text))
}

// TermsFromTokens is Terms over already-normalized tokens.
func (a *Analyzer) TermsFromTokens(tokens []string) []string {
	words := a.lem.Lemmatize(textnorm.RemoveStopwords(tokens))
	if len(words) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(words)-1)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// DocumentTerms returns the terms of a corpus question. Placeholders are
// dropped so "{city}" does not index the word "city", and a non-empty label
// adds the entry's intent term.
func (a *Analyzer) DocumentTerms(question, label string) []string {
	terms := a.Terms(placeholders.ReplaceAllString(question, " "))
	if t := IntentTerm(label); t != "" {
		terms = append(terms, t)
	}
	return terms
}

// IntentTerm returns the pseudo-term for an intent label, or "" for none.
func IntentTerm(label string) string {
	if label == "" {
		return ""
	}
	return intentPrefix + label
}
