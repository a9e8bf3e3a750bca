package intent

import (
	"tourli-ai/internal/textnorm"
)

// FuzzyThreshold is the similarity a misspelled token needs to count as a
// single-word trigger, e.g. "wether" for "weather".
const FuzzyThreshold = 0.75

// minFuzzyLength keeps short words out of fuzzy matching. One edit in a
// four-letter word is already at the threshold.
const minFuzzyLength = 5

type compiledCategory struct {
	label    Label
	triggers [][]string
	lemmas   [][]string
}

// Classifier maps normalized text to a Label. It is immutable and safe for
// concurrent use.
type Classifier struct {
	categories []compiledCategory
	fallback   Label
	canned     map[Label]bool
	weather    map[Label]bool
	lem        *textnorm.Lemmatizer
}

// NewClassifier compiles a catalog. Trigger phrases are normalized and
// lemmatized with lem so that "beaches" in a query matches a "beach"
// trigger. A nil lemmatizer matches surface forms only.
func NewClassifier(c *Catalog, lem *textnorm.Lemmatizer) *Classifier {
	cl := &Classifier{
		categories: make([]compiledCategory, 0, len(c.Intents)),
		fallback:   c.Fallback,
		canned:     toSet(c.Canned),
		weather:    toSet(c.Weather),
		lem:        lem,
	}
	for _, cat := range c.Intents {
		cc := compiledCategory{label: cat.Label}
		for _, trig := range cat.Triggers {
			toks := textnorm.NormalizeTokens(trig)
			if len(toks) == 0 {
				continue
			}
			cc.triggers = append(cc.triggers, toks)
			cc.lemmas = append(cc.lemmas, lem.Lemmatize(toks))
		}
		cl.categories = append(cl.categories, cc)
	}
	return cl
}

// Classify returns the first catalog intent with a trigger found in the
// normalized text, or the fallback label.
func (c *Classifier) Classify(normalized string) Label {
	tokens := textnorm.Tokenize(normalized)
	return c.ClassifyTokens(tokens, c.lem.Lemmatize(tokens))
}

// ClassifyTokens is Classify over pre-split tokens and their lemmas. An
// exact trigger anywhere in the catalog beats a fuzzy one.
func (c *Classifier) ClassifyTokens(tokens, lemmas []string) Label {
	if len(tokens) == 0 {
		return c.fallback
	}
	for _, cat := range c.categories {
		for i, trig := range cat.triggers {
			if containsRun(tokens, trig) || containsRun(lemmas, cat.lemmas[i]) {
				return cat.label
			}
		}
	}
	if l, ok := c.fuzzy(tokens); ok {
		return l
	}
	return c.fallback
}

// fuzzy matches misspelled tokens against single-word triggers in catalog
// order. Canned intents are exact-only: "water" is one edit from "later".
func (c *Classifier) fuzzy(tokens []string) (Label, bool) {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		// A word the lexicon knows is not a typo: "place" must not become "plane".
		if len(t) >= minFuzzyLength && !textnorm.IsStopword(t) && !c.lem.Known(t) {
			words = append(words, t)
		}
	}
	if len(words) == 0 {
		return "", false
	}
	for _, cat := range c.categories {
		if c.canned[cat.label] {
			continue
		}
		for _, trig := range cat.triggers {
			if len(trig) != 1 || len(trig[0]) < minFuzzyLength {
				continue
			}
			for _, w := range words {
				if textnorm.Similarity(w, trig[0]) > FuzzyThreshold {
					return cat.label, true
				}
			}
		}
	}
	return "", false
}

// Fallback returns the label used when nothing matches.
func (c *Classifier) Fallback() Label {
	return c.fallback
}

// IsCanned reports whether l is answered from its own entries regardless of
// retrieval confidence.
func (c *Classifier) IsCanned(l Label) bool {
	return c.canned[l]
}

// IsWeather reports whether l asks about weather.
func (c *Classifier) IsWeather(l Label) bool {
	return c.weather[l]
}

// containsRun reports whether needle occurs as a contiguous run in hay.
func containsRun(hay, needle []string) bool {
	n := len(needle)
	if n == 0 || n > len(hay) {
		return false
	}
outer:
	for i := 0; i+n <= len(hay); i++ {
		for j := 0; j < n; j++ {
			if hay[i+j] != needle[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

func toSet(labels []Label) map[Label]bool {
	m := make(map[Label]bool, len(labels))
	for _, l := range labels {
		m[l] = true
	}
	return m
}
