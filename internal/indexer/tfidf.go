// Package indexer builds the TF-IDF vector space over corpus questions and
// ranks entries against a query by cosine similarity.
package indexer

import (
	"errors"
	"math"
	"sort"

	"tourli-ai/internal/corpus"
	"tourli-ai/internal/textnorm"
)

// ErrEmptyCorpus is returned when Build is given no entries.
var ErrEmptyCorpus = errors.New("cannot build index over an empty corpus")

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 8000

// Options tunes index construction.
type Options struct {
	// MaxFeatures keeps only the most frequent terms. Zero means
	// DefaultMaxFeatures; negative means unlimited.
	MaxFeatures int
}

type sparseVec struct {
	dims    []int
	weights []float64
}

// Match is a ranked corpus entry.
type Match struct {
	Entry corpus.QAEntry
	Score float64
}

// Index is a fitted TF-IDF model. It is read-only after Build and safe for
// concurrent use.
type Index struct {
	entries  []corpus.QAEntry
	analyzer *Analyzer
	vocab    map[string]int
	terms    []string
	idf      []float64
	docs     []sparseVec
	stats    Stats
}

// Build fits the vocabulary and document vectors over entry questions and
// intent labels. Answers are not indexed.
func Build(entries []corpus.QAEntry, lem *textnorm.Lemmatizer, opts Options) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	maxFeatures := opts.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = DefaultMaxFeatures
	}

	analyzer := NewAnalyzer(lem)
	docTerms := make([][]string, len(entries))
	df := make(map[string]int)
	total := make(map[string]int)
	for i, e := range entries {
		terms := analyzer.DocumentTerms(e.Question, e.Label())
		docTerms[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			total[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	vocabTerms := make([]string, 0, len(df))
	for t := range df {
		vocabTerms = append(vocabTerms, t)
	}
	if maxFeatures > 0 && len(vocabTerms) > maxFeatures {
		sort.Slice(vocabTerms, func(i, j int) bool {
			if total[vocabTerms[i]] != total[vocabTerms[j]] {
				return total[vocabTerms[i]] > total[vocabTerms[j]]
			}
			return vocabTerms[i] < vocabTerms[j]
		})
		vocabTerms = vocabTerms[:maxFeatures]
	}
	sort.Strings(vocabTerms)

	n := float64(len(entries))
	vocab := make(map[string]int, len(vocabTerms))
	idf := make([]float64, len(vocabTerms))
	for dim, t := range vocabTerms {
		vocab[t] = dim
		idf[dim] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	ix := &Index{
		entries:  append([]corpus.QAEntry(nil), entries...),
		analyzer: analyzer,
		vocab:    vocab,
		terms:    vocabTerms,
		idf:      idf,
		docs:     make([]sparseVec, len(entries)),
	}
	termCounts := make([]int, len(entries))
	for i, terms := range docTerms {
		ix.docs[i] = ix.vectorize(terms)
		termCounts[i] = len(ix.docs[i].dims)
	}
	ix.stats = computeStats(ix, termCounts)
	return ix, nil
}

// vectorize builds an L2-normalized TF-IDF vector. Terms outside the
// vocabulary are ignored.
func (ix *Index) vectorize(terms []string) sparseVec {
	counts := make(map[int]int, len(terms))
	for _, t := range terms {
		if dim, ok := ix.vocab[t]; ok {
			counts[dim]++
		}
	}
	v := sparseVec{
		dims:    make([]int, 0, len(counts)),
		weights: make([]float64, 0, len(counts)),
	}
	for dim := range counts {
		v.dims = append(v.dims, dim)
	}
	sort.Ints(v.dims)

	var norm float64
	for _, dim := range v.dims {
		w := float64(counts[dim]) * ix.idf[dim]
		v.weights = append(v.weights, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v.weights {
			v.weights[i] /= norm
		}
	}
	return v
}

// dot computes the inner product of two sparse vectors with sorted dims.
func dot(a, b sparseVec) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.dims) && j < len(b.dims) {
		switch {
		case a.dims[i] == b.dims[j]:
			sum += a.weights[i] * b.weights[j]
			i++
			j++
		case a.dims[i] < b.dims[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Query ranks every entry against text by cosine similarity, descending.
// Equal scores keep corpus order. Scores lie in [0,1].
func (ix *Index) Query(text string) []Match {
	return ix.QueryTokens(textnorm.NormalizeTokens(text))
}

// QueryTokens is Query over already-normalized tokens.
func (ix *Index) QueryTokens(tokens []string) []Match {
	return ix.QueryIntent(tokens, "")
}

// QueryIntent is QueryTokens with the query's intent label added as a term,
// which lifts entries tagged with the same intent. An empty label adds
// nothing.
func (ix *Index) QueryIntent(tokens []string, label string) []Match {
	q := ix.vectorize(ix.queryTerms(tokens, label))
	out := make([]Match, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = Match{Entry: e, Score: clamp(dot(q, ix.docs[i]))}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (ix *Index) queryTerms(tokens []string, label string) []string {
	terms := ix.analyzer.TermsFromTokens(tokens)
	if t := IntentTerm(label); t != "" {
		terms = append(terms, t)
	}
	return terms
}

// Entries returns the indexed entries in corpus order.
func (ix *Index) Entries() []corpus.QAEntry {
	return ix.entries
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Dim returns the vocabulary size.
func (ix *Index) Dim() int {
	return len(ix.terms)
}

// Terms returns the vocabulary in dimension order.
func (ix *Index) Terms() []string {
	return ix.terms
}

// Dense returns entry id's vector as a dense float32 slice of length Dim.
func (ix *Index) Dense(id int) []float32 {
	out := make([]float32, len(ix.terms))
	if id < 0 || id >= len(ix.docs) {
		return out
	}
	v := ix.docs[id]
	for i, dim := range v.dims {
		out[dim] = float32(v.weights[i])
	}
	return out
}

// DenseQuery returns the query vector for text and an optional intent label
// as a dense float32 slice of length Dim. It is all zeros when no query term
// is in the vocabulary.
func (ix *Index) DenseQuery(text, label string) []float32 {
	q := ix.vectorize(ix.queryTerms(textnorm.NormalizeTokens(text), label))
	out := make([]float32, len(ix.terms))
	for i, dim := range q.dims {
		out[dim] = float32(q.weights[i])
	}
	return out
}

// Stats returns build statistics.
func (ix *Index) Stats() Stats {
	return ix.stats
}

func clamp(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
