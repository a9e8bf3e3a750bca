// Package citydetect finds the city a query refers to, tolerating
// misspellings, by matching token spans against a gazetteer.
package citydetect

import (
	"math"
	"strings"

	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/textnorm"
)

// Kind describes how a span was matched.
type Kind string

const (
	KindExact Kind = "exact"
	KindAlias Kind = "alias"
	KindFuzzy Kind = "fuzzy"
)

// Match is a detected city together with how it was found.
type Match struct {
	City  gazetteer.CityRecord
	Kind  Kind
	Score float64
	// Span is the matched query text; Start and End are token offsets.
	Span  string
	Start int
	End   int
}

// Options tunes detection thresholds.
type Options struct {
	// Threshold is the minimum fuzzy similarity to accept a match.
	Threshold float64
	// ShortThreshold applies instead of Threshold to spans of at most
	// ShortLength characters.
	ShortThreshold float64
	ShortLength    int
	// MinFuzzyLength is the shortest span considered for fuzzy matching.
	MinFuzzyLength int
	// MinGlobalLength is the shortest span accepted as an exact global hit.
	MinGlobalLength int
	// MaxSpan is the longest n-gram considered.
	MaxSpan int
	// Ignore reports tokens that are never part of a fuzzy span, typically
	// known vocabulary such as intent trigger words.
	Ignore func(token string) bool
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:       0.80,
		ShortThreshold:  0.90,
		ShortLength:     5,
		MinFuzzyLength:  4,
		MinGlobalLength: 4,
		MaxSpan:         3,
	}
}

// Detector matches token sequences against a Gazetteer. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	gaz  *gazetteer.Gazetteer
	opts Options
}

// New creates a Detector. Zero-valued option fields take their defaults.
func New(gaz *gazetteer.Gazetteer, opts Options) *Detector {
	def := DefaultOptions()
	if opts.Threshold <= 0 {
		opts.Threshold = def.Threshold
	}
	if opts.ShortThreshold <= 0 {
		opts.ShortThreshold = math.Max(def.ShortThreshold, opts.Threshold)
	}
	if opts.ShortLength <= 0 {
		opts.ShortLength = def.ShortLength
	}
	if opts.MinFuzzyLength <= 0 {
		opts.MinFuzzyLength = def.MinFuzzyLength
	}
	if opts.MinGlobalLength <= 0 {
		opts.MinGlobalLength = def.MinGlobalLength
	}
	if opts.MaxSpan <= 0 {
		opts.MaxSpan = def.MaxSpan
	}
	return &Detector{gaz: gaz, opts: opts}
}

// epsilon absorbs float error in threshold arithmetic such as (1-0.8)*5.
const epsilon = 1e-9

type span struct {
	text       string
	start, end int
	order      int
}

// spans lists single tokens first, then bigrams, then trigrams. Spans made
// only of stopwords are skipped.
func (d *Detector) spans(tokens []string) []span {
	var out []span
	for n := 1; n <= d.opts.MaxSpan; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			window := tokens[i : i+n]
			if allStopwords(window) {
				continue
			}
			out = append(out, span{
				text:  strings.Join(window, " "),
				start: i,
				end:   i + n,
				order: len(out),
			})
		}
	}
	return out
}

// Detect returns the best city referenced by tokens, which must be
// normalized. Exact regional hits win over exact global hits, which win over
// fuzzy matches.
func (d *Detector) Detect(tokens []string) (Match, bool) {
	spans := d.spans(tokens)
	if len(spans) == 0 {
		return Match{}, false
	}

	for _, s := range spans {
		if m, ok := d.exactRegional(s); ok {
			return m, true
		}
	}
	for _, s := range spans {
		if m, ok := d.exactGlobal(s); ok {
			return m, true
		}
	}

	var best fuzzyHit
	found := false
	for _, s := range spans {
		if h, ok := d.fuzzy(s); ok && (!found || h.beats(best)) {
			best, found = h, true
		}
	}
	if !found {
		return Match{}, false
	}
	return best.match, true
}

// DetectAll scans tokens left to right and returns up to max distinct
// cities, preferring the longest span at each position.
func (d *Detector) DetectAll(tokens []string, max int) []Match {
	var out []Match
	seen := make(map[string]bool)
	for i := 0; i < len(tokens) && len(out) < max; {
		m, ok := d.longestAt(tokens, i)
		if !ok {
			i++
			continue
		}
		key := string(m.City.Source) + "|" + m.City.Normalized + "|" + m.City.Country
		if !seen[key] {
			seen[key] = true
			out = append(out, m)
		}
		i = m.End
	}
	return out
}

func (d *Detector) longestAt(tokens []string, i int) (Match, bool) {
	for n := d.opts.MaxSpan; n >= 1; n-- {
		if i+n > len(tokens) {
			continue
		}
		window := tokens[i : i+n]
		if allStopwords(window) {
			continue
		}
		s := span{text: strings.Join(window, " "), start: i, end: i + n}
		if m, ok := d.exactRegional(s); ok {
			return m, true
		}
		if m, ok := d.exactGlobal(s); ok {
			return m, true
		}
		if h, ok := d.fuzzy(s); ok {
			return h.match, true
		}
	}
	return Match{}, false
}

func (d *Detector) exactRegional(s span) (Match, bool) {
	recs := d.gaz.LookupRegional(s.text)
	if len(recs) == 0 {
		return Match{}, false
	}
	return exactMatch(recs[0], s), true
}

func (d *Detector) exactGlobal(s span) (Match, bool) {
	if len(s.text) < d.opts.MinGlobalLength {
		return Match{}, false
	}
	recs := d.gaz.LookupGlobal(s.text)
	if len(recs) == 0 {
		return Match{}, false
	}
	return exactMatch(recs[0], s), true
}

func exactMatch(rec gazetteer.CityRecord, s span) Match {
	kind := KindExact
	if rec.Normalized != s.text {
		kind = KindAlias
	}
	return Match{City: rec, Kind: kind, Score: 1, Span: s.text, Start: s.start, End: s.end}
}

type fuzzyHit struct {
	match Match
	order int
}

// beats orders fuzzy hits: score, then regional, then population, then
// gazetteer order, then span order.
func (h fuzzyHit) beats(o fuzzyHit) bool {
	if h.match.Score != o.match.Score {
		return h.match.Score > o.match.Score
	}
	a, b := h.match.City, o.match.City
	if a.Source != b.Source || a.Population != b.Population || a.Order != b.Order {
		return gazetteer.Prefer(a, b)
	}
	return h.order < o.order
}

func (d *Detector) threshold(length int) float64 {
	if length <= d.opts.ShortLength {
		return d.opts.ShortThreshold
	}
	return d.opts.Threshold
}

func (d *Detector) fuzzy(s span) (fuzzyHit, bool) {
	la := len(s.text)
	if la < d.opts.MinFuzzyLength || d.ignored(s) {
		return fuzzyHit{}, false
	}
	t := d.threshold(la)
	if t > 1 {
		return fuzzyHit{}, false
	}

	// sim >= t implies lb in [la*t, la/t].
	minLen := int(math.Ceil(float64(la)*t - epsilon))
	maxLen := int(math.Floor(float64(la)/t + epsilon))

	var best fuzzyHit
	found := false
	for _, src := range []gazetteer.Source{gazetteer.Regional, gazetteer.Global} {
		for _, c := range d.gaz.CandidatesForLength(src, minLen, maxLen) {
			m := la
			if len(c.Name) > m {
				m = len(c.Name)
			}
			bound := int(math.Floor((1-t)*float64(m) + epsilon))
			dist := textnorm.EditDistance(s.text, c.Name, bound)
			if dist > bound {
				continue
			}
			score := 1 - float64(dist)/float64(m)
			if score+epsilon < t {
				continue
			}
			hit := fuzzyHit{
				match: Match{City: c.City, Kind: KindFuzzy, Score: score, Span: s.text, Start: s.start, End: s.end},
				order: s.order,
			}
			if !found || hit.beats(best) {
				best, found = hit, true
			}
		}
	}
	return best, found
}

func (d *Detector) ignored(s span) bool {
	if d.opts.Ignore == nil {
		return false
	}
	for _, tok := range strings.Fields(s.text) {
		if d.opts.Ignore(tok) {
			return true
		}
	}
	return false
}

func allStopwords(tokens []string) bool {
	for _, t := range tokens {
		if !textnorm.IsStopword(t) {
			return false
		}
	}
	return true
}

// DetectCountry returns the first country outside the region named in
// tokens. Country names match exactly; the longest name at a position wins.
func (d *Detector) DetectCountry(tokens []string) (string, bool) {
	maxWords := d.gaz.MaxCountryWords()
	for i := range tokens {
		for n := min(maxWords, len(tokens)-i); n >= 1; n-- {
			name, ok := d.gaz.Country(strings.Join(tokens[i:i+n], " "))
			if !ok {
				continue
			}
			if !d.gaz.IsRegion(name) {
				return name, true
			}
			break
		}
	}
	return "", false
}
