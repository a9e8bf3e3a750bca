package textnorm

import (
	"sort"

	"github.com/kljensen/snowball/english"
)

// irregular maps inflected forms that stemming cannot fold onto their lemma.
var irregular = map[string]string{
	"children": "child",
	"people":   "person",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"went":     "go",
	"gone":     "go",
	"ate":      "eat",
	"eaten":    "eat",
	"took":     "take",
	"saw":      "see",
	"seen":     "see",
	"bought":   "buy",
	"flew":     "fly",
	"slept":    "sleep",
	"better":   "good",
}

// Lemmatizer maps tokens to dictionary forms. The dictionary is the lexicon
// it was built with: every lexicon word is indexed by its Snowball stem and a
// token resolves to the shortest known word sharing its stem. Tokens whose
// stem is unknown pass through unchanged.
//
// A Lemmatizer is immutable after construction and safe for concurrent use.
type Lemmatizer struct {
	byStem map[string]string
}

// NewLemmatizer builds a Lemmatizer from the given lexicon. Words are
// expected to be normalized tokens.
func NewLemmatizer(lexicon []string) *Lemmatizer {
	groups := make(map[string][]string)
	seen := make(map[string]bool, len(lexicon))
	for _, w := range lexicon {
		if seen[w] || !stemmable(w) {
			continue
		}
		seen[w] = true
		if lemma, ok := irregular[w]; ok {
			w = lemma
		}
		stem := english.Stem(w, false)
		groups[stem] = append(groups[stem], w)
	}

	byStem := make(map[string]string, len(groups))
	for stem, words := range groups {
		sort.Slice(words, func(i, j int) bool {
			if len(words[i]) != len(words[j]) {
				return len(words[i]) < len(words[j])
			}
			return words[i] < words[j]
		})
		byStem[stem] = words[0]
	}
	return &Lemmatizer{byStem: byStem}
}

// Lemma returns the dictionary form of a single token.
func (l *Lemmatizer) Lemma(token string) string {
	if lemma, ok := irregular[token]; ok {
		return lemma
	}
	if l == nil || !stemmable(token) {
		return token
	}
	if lemma, ok := l.byStem[english.Stem(token, false)]; ok {
		return lemma
	}
	return token
}

// Lemmatize maps every token to its lemma. The input slice is not modified.
func (l *Lemmatizer) Lemmatize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = l.Lemma(tok)
	}
	return out
}

// Known reports whether token shares a stem with a lexicon word.
func (l *Lemmatizer) Known(token string) bool {
	if _, ok := irregular[token]; ok {
		return true
	}
	if l == nil || !stemmable(token) {
		return false
	}
	_, ok := l.byStem[english.Stem(token, false)]
	return ok
}

// Size reports the number of distinct stems in the dictionary.
func (l *Lemmatizer) Size() int {
	if l == nil {
		return 0
	}
	return len(l.byStem)
}

// stemmable reports whether w is a plain alphabetic word long enough to stem.
func stemmable(w string) bool {
	if len(w) < 3 {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
