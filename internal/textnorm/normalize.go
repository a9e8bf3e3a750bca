// Package textnorm canonicalizes free text for matching: case folding,
// diacritic stripping, punctuation removal and dictionary lemmatization.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, strips accents, removes punctuation except
// hyphens and apostrophes inside a word, drops possessive "'s" and collapses
// whitespace. Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ToLower(text)
	if stripped, _, err := transform.String(markStripper(), s); err == nil {
		s = stripped
	}
	// Anything NFD could not decompose (ø, ß, Arabic script) is transliterated.
	s = strings.ToLower(unidecode.Unidecode(s))

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !isWordRune(r) && r != '\'' && r != '-'
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := cleanWord(f); w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

// Tokenize splits normalized text into tokens. Hyphenated and apostrophe
// compounds stay a single token. Empty input yields an empty slice.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}

// NormalizeTokens is Tokenize(Normalize(text)).
func NormalizeTokens(text string) []string {
	return Tokenize(Normalize(text))
}

// markStripper returns a fresh transformer; transform.Chain results carry
// state and are not safe for concurrent use.
func markStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// cleanWord trims joiners from both ends and removes trailing possessives
// until the word is stable.
func cleanWord(w string) string {
	for {
		w = strings.Trim(w, "'-")
		trimmed := strings.TrimSuffix(w, "'s")
		if trimmed == w {
			return w
		}
		w = trimmed
	}
}
