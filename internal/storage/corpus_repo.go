package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_corpus_store.go -package=mocks tourli-ai/internal/storage CorpusStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tourli-ai/internal/corpus"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CorpusStore defines the interface for corpus storage operations.
type CorpusStore interface {
	// ReplaceSource stores entries under source, replacing anything previously
	// imported under that name. Returns the number of entries written.
	ReplaceSource(ctx context.Context, source string, entries []corpus.QAEntry) (int, error)
	// LoadEntries returns every entry, ordered by source import order then file position.
	LoadEntries(ctx context.Context) ([]corpus.QAEntry, error)
	// GetSource gets a source by name. Returns ErrNotFound if not found.
	GetSource(ctx context.Context, name string) (*Source, error)
	// ListSources returns all sources with their entry counts.
	ListSources(ctx context.Context) ([]Source, error)
	// Count returns the total number of stored entries.
	Count(ctx context.Context) (int, error)
}

// CorpusRepo provides methods for corpus operations.
// It implements the CorpusStore interface.
type CorpusRepo struct {
	db *sqlx.DB
}

// NewCorpusRepo creates a new CorpusRepo.
func NewCorpusRepo(db *sqlx.DB) *CorpusRepo {
	return &CorpusRepo{db: db}
}

// ReplaceSource stores entries under source inside one transaction.
func (r *CorpusRepo) ReplaceSource(ctx context.Context, source string, entries []corpus.QAEntry) (int, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return 0, fmt.Errorf("%s: record %d: %w", source, i, err)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO corpus_sources (name) VALUES (?)
		 ON CONFLICT(name) DO UPDATE SET loaded_at = CURRENT_TIMESTAMP`,
		source,
	); err != nil {
		return 0, fmt.Errorf("failed to upsert source: %w", err)
	}

	var sourceID int64
	if err := tx.GetContext(ctx, &sourceID, "SELECT id FROM corpus_sources WHERE name = ?", source); err != nil {
		return 0, fmt.Errorf("failed to query source id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM qa_entries WHERE source_id = ?", sourceID); err != nil {
		return 0, fmt.Errorf("failed to delete previous entries: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO qa_entries (source_id, position, question, answer, category, intent, city)
		 VALUES (:source_id, :position, :question, :answer, :category, :intent, :city)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, e := range entries {
		row := entryRow{
			SourceID: sourceID,
			Position: i,
			Question: e.Question,
			Answer:   e.Answer,
			Category: e.Category,
			Intent:   e.Intent,
			City:     e.City,
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return 0, fmt.Errorf("failed to insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(entries), nil
}

// LoadEntries returns every stored entry with IDs assigned by position.
// A store with no entries is not an error; callers decide whether an empty
// corpus is acceptable.
func (r *CorpusRepo) LoadEntries(ctx context.Context) ([]corpus.QAEntry, error) {
	var rows []entryRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT e.source_id, e.position, e.question, e.answer, e.category, e.intent, e.city, s.name AS source
		 FROM qa_entries e
		 JOIN corpus_sources s ON s.id = e.source_id
		 ORDER BY s.id, e.position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	entries := make([]corpus.QAEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, corpus.QAEntry{
			Question: row.Question,
			Answer:   row.Answer,
			Category: row.Category,
			Intent:   row.Intent,
			City:     row.City,
			Source:   row.Source,
		})
	}
	return corpus.Renumber(entries), nil
}

// GetSource gets a source by name. Returns ErrNotFound if not found.
func (r *CorpusRepo) GetSource(ctx context.Context, name string) (*Source, error) {
	var src Source
	err := r.db.GetContext(ctx, &src,
		`SELECT s.id, s.name, s.loaded_at, COUNT(e.id) AS entries
		 FROM corpus_sources s
		 LEFT JOIN qa_entries e ON e.source_id = s.id
		 WHERE s.name = ?
		 GROUP BY s.id`,
		name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}
	return &src, nil
}

// ListSources returns all sources in import order.
func (r *CorpusRepo) ListSources(ctx context.Context) ([]Source, error) {
	var sources []Source
	err := r.db.SelectContext(ctx, &sources,
		`SELECT s.id, s.name, s.loaded_at, COUNT(e.id) AS entries
		 FROM corpus_sources s
		 LEFT JOIN qa_entries e ON e.source_id = s.id
		 GROUP BY s.id
		 ORDER BY s.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return sources, nil
}

// Count returns the total number of stored entries.
func (r *CorpusRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM qa_entries"); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}
