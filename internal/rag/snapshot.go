package rag

import (
	"fmt"
	"time"

	"tourli-ai/internal/citydetect"
	"tourli-ai/internal/corpus"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/indexer"
	"tourli-ai/internal/intent"
	"tourli-ai/internal/textnorm"
)

// Snapshot bundles everything needed to answer a question. It is immutable
// once built; reloads build a new Snapshot and swap it in.
type Snapshot struct {
	Entries    []corpus.QAEntry
	Index      *indexer.Index
	Gazetteer  *gazetteer.Gazetteer
	Detector   *citydetect.Detector
	Classifier *intent.Classifier
	Lemmatizer *textnorm.Lemmatizer
	BuiltAt    time.Time
}

// SnapshotOptions tunes snapshot construction.
type SnapshotOptions struct {
	// Catalog is the intent catalog. Nil means the built-in catalog.
	Catalog  *intent.Catalog
	Detector citydetect.Options
	Index    indexer.Options
}

// BuildSnapshot fits the lexicon, classifier, detector and index over entries.
func BuildSnapshot(entries []corpus.QAEntry, gaz *gazetteer.Gazetteer, opts SnapshotOptions) (*Snapshot, error) {
	if gaz == nil {
		return nil, fmt.Errorf("gazetteer is required")
	}
	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = intent.DefaultCatalog(); err != nil {
			return nil, fmt.Errorf("failed to load intent catalog: %w", err)
		}
	}

	vocab := cat.Vocabulary()
	lexicon := make([]string, 0, len(vocab)+len(entries)*8)
	lexicon = append(lexicon, vocab...)
	for _, e := range entries {
		lexicon = append(lexicon, textnorm.NormalizeTokens(e.Question)...)
	}
	lem := textnorm.NewLemmatizer(lexicon)

	ix, err := indexer.Build(entries, lem, opts.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	detOpts := opts.Detector
	if detOpts.Ignore == nil {
		// Country names are detected separately; "france" must not fuzzy
		// match a city.
		ignore := append(append([]string(nil), vocab...), gaz.Countries()...)
		detOpts.Ignore = ignoreVocabulary(gaz, ignore)
	}

	return &Snapshot{
		Entries:    ix.Entries(),
		Index:      ix,
		Gazetteer:  gaz,
		Detector:   citydetect.New(gaz, detOpts),
		Classifier: intent.NewClassifier(cat, lem),
		Lemmatizer: lem,
		BuiltAt:    time.Now(),
	}, nil
}

// ignoreVocabulary keeps intent trigger words out of fuzzy city matching
// ("weather" is one edit from "Weatherford"), except where the word is itself
// a known city name.
func ignoreVocabulary(gaz *gazetteer.Gazetteer, vocab []string) func(string) bool {
	set := make(map[string]struct{}, len(vocab))
	for _, w := range vocab {
		if len(gaz.LookupExact(w)) == 0 {
			set[w] = struct{}{}
		}
	}
	return func(tok string) bool {
		_, ok := set[tok]
		return ok
	}
}
