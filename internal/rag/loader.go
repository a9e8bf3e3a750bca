package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks tourli-ai/internal/rag Engine,CorpusSource

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/corpus"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/metrics"
)

// ErrEmptyCorpus is returned when a corpus source yields no entries.
var ErrEmptyCorpus = errors.New("corpus is empty")

// CorpusSource supplies the question/answer entries a snapshot is built from.
type CorpusSource interface {
	LoadEntries(ctx context.Context) ([]corpus.QAEntry, error)
}

// FileSource reads JSON corpus files. A path naming a directory contributes
// every *.json file in it, sorted by name.
type FileSource struct {
	Paths []string
}

// LoadEntries reads all paths in order and numbers entries across them.
func (s FileSource) LoadEntries(_ context.Context) ([]corpus.QAEntry, error) {
	var all []corpus.QAEntry
	for _, p := range s.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat corpus path: %w", err)
		}
		var entries []corpus.QAEntry
		if info.IsDir() {
			entries, err = corpus.LoadDir(p)
		} else {
			entries, err = corpus.LoadFile(p)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return corpus.Renumber(all), nil
}

// Loader builds snapshots from a corpus source against a fixed gazetteer.
type Loader struct {
	Source    CorpusSource
	Gazetteer *gazetteer.Gazetteer
	Options   SnapshotOptions
}

// Load reads the corpus and builds a new snapshot.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	logger := contextutil.LoggerFromContext(ctx)

	entries, err := l.Source.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	snap, err := BuildSnapshot(entries, l.Gazetteer, l.Options)
	if err != nil {
		return nil, err
	}

	stats := snap.Index.Stats()
	logger.InfoContext(ctx, "snapshot built",
		"entries", stats.Documents,
		"vocabulary", stats.VocabularySize,
		"lexicon", snap.Lemmatizer.Size(),
		"index_version", stats.IndexVersion,
	)
	return snap, nil
}

// Reloader rebuilds the snapshot from Loader and swaps it into Engine.
type Reloader struct {
	Loader *Loader
	Engine Engine
}

// Reload builds a fresh snapshot and installs it. On failure the engine keeps
// serving its current snapshot.
func (r *Reloader) Reload(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	snap, err := r.Loader.Load(ctx)
	if err != nil {
		metrics.CorpusReloads.WithLabelValues("error").Inc()
		logger.ErrorContext(ctx, "corpus reload failed, keeping previous snapshot", "error", err)
		return err
	}
	r.Engine.Reload(snap)
	metrics.CorpusReloads.WithLabelValues("ok").Inc()
	logger.InfoContext(ctx, "corpus reloaded", "entries", len(snap.Entries))
	return nil
}
