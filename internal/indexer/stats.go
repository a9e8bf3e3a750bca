package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strings"
)

// Stats describes a built index.
type Stats struct {
	// Documents is the number of indexed entries.
	Documents int `json:"documents"`
	// VocabularySize is the number of TF-IDF dimensions.
	VocabularySize int `json:"vocabulary_size"`
	// EmptyDocuments counts entries whose question produced no terms.
	EmptyDocuments int `json:"empty_documents"`
	// TermStats summarizes distinct terms per document.
	TermStats TermStats `json:"term_stats"`
	// AnalyzerVersion is the term extraction scheme used.
	AnalyzerVersion string `json:"analyzer_version"`
	// IndexVersion is a hash of the analyzer version and vocabulary.
	IndexVersion string `json:"index_version"`
}

// TermStats contains statistics about distinct term counts per document.
type TermStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

func computeStats(ix *Index, termCounts []int) Stats {
	stats := Stats{
		Documents:       len(ix.entries),
		VocabularySize:  len(ix.terms),
		TermStats:       computeTermStats(termCounts),
		AnalyzerVersion: AnalyzerVersion,
	}
	for _, c := range termCounts {
		if c == 0 {
			stats.EmptyDocuments++
		}
	}

	h := sha256.New()
	h.Write([]byte(AnalyzerVersion))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(ix.terms, "\x00")))
	stats.IndexVersion = hex.EncodeToString(h.Sum(nil))[:16]
	return stats
}

// computeTermStats computes min, max, mean, and p95 from term counts.
func computeTermStats(counts []int) TermStats {
	if len(counts) == 0 {
		return TermStats{}
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return TermStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
