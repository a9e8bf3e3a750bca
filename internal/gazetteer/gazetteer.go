// Package gazetteer holds the two city datasets used for place detection:
// a small curated regional list and a large global list. The partitions are
// kept separate and regional precedence is applied by Prefer, not by load
// order.
package gazetteer

import (
	"sort"
	"strings"

	"tourli-ai/internal/textnorm"
)

// Source identifies which partition a CityRecord came from.
type Source string

const (
	// Regional is the curated, high-precision list.
	Regional Source = "regional"
	// Global is the broad world-cities list.
	Global Source = "global"
)

// CityRecord is a single gazetteer entry.
type CityRecord struct {
	Name       string
	Normalized string
	Country    string
	Admin      string
	Capital    string
	Lat        float64
	Lon        float64
	Population int64
	Aliases    []string
	Source     Source
	// Order is the record's position in its source file.
	Order int
}

// Candidate is a (normalized name, record) pair offered to fuzzy search.
// Aliases produce their own candidates pointing at the same record.
type Candidate struct {
	Name string
	City CityRecord
}

type partition struct {
	records []CityRecord
	exact   map[string][]int
	cands   []Candidate
	byLen   map[int][]int
	maxLen  int
}

func newPartition(records []CityRecord) *partition {
	p := &partition{
		records: records,
		exact:   make(map[string][]int, len(records)),
		byLen:   make(map[int][]int),
	}
	for i, rec := range records {
		names := make([]string, 0, 1+len(rec.Aliases))
		names = append(names, rec.Normalized)
		names = append(names, rec.Aliases...)
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			p.exact[name] = append(p.exact[name], i)
			p.byLen[len(name)] = append(p.byLen[len(name)], len(p.cands))
			p.cands = append(p.cands, Candidate{Name: name, City: rec})
			if len(name) > p.maxLen {
				p.maxLen = len(name)
			}
		}
	}
	for name, idx := range p.exact {
		sort.SliceStable(idx, func(a, b int) bool {
			return Prefer(records[idx[a]], records[idx[b]])
		})
		p.exact[name] = idx
	}
	return p
}

func (p *partition) lookup(normalized string) []CityRecord {
	idx := p.exact[normalized]
	if len(idx) == 0 {
		return nil
	}
	out := make([]CityRecord, len(idx))
	for i, j := range idx {
		out[i] = p.records[j]
	}
	return out
}

// Gazetteer is an immutable two-partition city index. It is safe for
// concurrent use.
type Gazetteer struct {
	regional *partition
	global   *partition
	region   string
	// countries maps normalized country names to their display form.
	countries       map[string]string
	maxCountryWords int
}

// Options tunes how a Gazetteer is built.
type Options struct {
	// Region is the country the regional list covers.
	Region string
	// MinGlobalPopulation drops global records below this population.
	// Small places share names with common words and cause false positives.
	MinGlobalPopulation int64
}

// New builds a Gazetteer from already-parsed records.
func New(regional, global []CityRecord, opts Options) *Gazetteer {
	reg := make([]CityRecord, 0, len(regional))
	for i, r := range regional {
		r.Source = Regional
		r.Order = i
		if r.Country == "" {
			r.Country = opts.Region
		}
		reg = append(reg, r)
	}

	glob := make([]CityRecord, 0, len(global))
	for i, r := range global {
		if r.Population < opts.MinGlobalPopulation {
			continue
		}
		r.Source = Global
		r.Order = i
		glob = append(glob, r)
	}

	g := &Gazetteer{
		regional:  newPartition(reg),
		global:    newPartition(glob),
		region:    opts.Region,
		countries: make(map[string]string),
	}
	// Countries come from every global row, including those under the
	// population floor.
	g.addCountry(opts.Region)
	for _, r := range global {
		g.addCountry(r.Country)
	}
	return g
}

func (g *Gazetteer) addCountry(name string) {
	name = strings.TrimSpace(name)
	norm := textnorm.Normalize(name)
	if norm == "" {
		return
	}
	if _, ok := g.countries[norm]; ok {
		return
	}
	g.countries[norm] = name
	if n := len(strings.Fields(norm)); n > g.maxCountryWords {
		g.maxCountryWords = n
	}
}

// Region returns the country the regional partition covers.
func (g *Gazetteer) Region() string {
	return g.region
}

// LookupExact returns every record whose normalized name or alias equals
// normalized: regional records first, then global, each in Prefer order.
func (g *Gazetteer) LookupExact(normalized string) []CityRecord {
	reg := g.regional.lookup(normalized)
	glob := g.global.lookup(normalized)
	if len(glob) == 0 {
		return reg
	}
	return append(reg, glob...)
}

// LookupRegional returns regional records matching normalized.
func (g *Gazetteer) LookupRegional(normalized string) []CityRecord {
	return g.regional.lookup(normalized)
}

// LookupGlobal returns global records matching normalized.
func (g *Gazetteer) LookupGlobal(normalized string) []CityRecord {
	return g.global.lookup(normalized)
}

// Candidates returns all fuzzy-search candidates of a partition in file order.
func (g *Gazetteer) Candidates(src Source) []Candidate {
	return g.part(src).cands
}

// CandidatesForLength returns candidates whose name length lies in
// [minLen, maxLen], in file order.
func (g *Gazetteer) CandidatesForLength(src Source, minLen, maxLen int) []Candidate {
	p := g.part(src)
	if minLen < 1 {
		minLen = 1
	}
	if maxLen > p.maxLen {
		maxLen = p.maxLen
	}
	var idx []int
	for l := minLen; l <= maxLen; l++ {
		idx = append(idx, p.byLen[l]...)
	}
	sort.Ints(idx)
	out := make([]Candidate, len(idx))
	for i, j := range idx {
		out[i] = p.cands[j]
	}
	return out
}

// Len returns the number of records in a partition.
func (g *Gazetteer) Len(src Source) int {
	return len(g.part(src).records)
}

// InRegion reports whether a record belongs to the regional country,
// whichever partition it came from.
func (g *Gazetteer) InRegion(c CityRecord) bool {
	if c.Source == Regional {
		return true
	}
	return g.IsRegion(c.Country)
}

// Country returns the display name of the country whose normalized name is
// normalized.
func (g *Gazetteer) Country(normalized string) (string, bool) {
	name, ok := g.countries[normalized]
	return name, ok
}

// Countries returns every known normalized country name, sorted.
func (g *Gazetteer) Countries() []string {
	out := make([]string, 0, len(g.countries))
	for n := range g.countries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// MaxCountryWords is the word count of the longest country name.
func (g *Gazetteer) MaxCountryWords() int {
	return g.maxCountryWords
}

// IsRegion reports whether a country name refers to the regional country.
func (g *Gazetteer) IsRegion(country string) bool {
	return g.region != "" && strings.EqualFold(strings.TrimSpace(country), g.region)
}

func (g *Gazetteer) part(src Source) *partition {
	if src == Regional {
		return g.regional
	}
	return g.global
}

// Prefer reports whether a should win over b when both match equally well:
// regional before global, then higher population, then earlier in file.
func Prefer(a, b CityRecord) bool {
	if a.Source != b.Source {
		return a.Source == Regional
	}
	if a.Population != b.Population {
		return a.Population > b.Population
	}
	return a.Order < b.Order
}

// Best returns the preferred record among records.
func Best(records []CityRecord) (CityRecord, bool) {
	if len(records) == 0 {
		return CityRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if Prefer(r, best) {
			best = r
		}
	}
	return best, true
}

// normalizeNames normalizes and de-duplicates alias strings.
func normalizeNames(canonical string, raw []string) []string {
	var out []string
	seen := map[string]bool{canonical: true}
	for _, a := range raw {
		n := textnorm.Normalize(a)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
