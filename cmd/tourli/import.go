package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tourli-ai/internal/corpus"
	"tourli-ai/internal/storage"
)

// sourceStore is the part of storage.CorpusStore the import command needs.
type sourceStore interface {
	ReplaceSource(ctx context.Context, source string, entries []corpus.QAEntry) (int, error)
	Count(ctx context.Context) (int, error)
}

func newImportCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import <file-or-dir>...",
		Short: "Import JSON corpus files into a SQLite corpus database",
		Long: `Each JSON file replaces the entries previously imported from a file with the
same name. Point CORPUS_DB at the database to serve it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			repo, closeDB, err := openCorpusDB(dbPath, cfg.CorpusDB)
			if err != nil {
				return err
			}
			defer closeDB()
			return runImport(ctx, repo, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to CORPUS_DB)")
	return cmd
}

func runImport(ctx context.Context, store sourceStore, paths []string, out io.Writer) error {
	files, err := corpusFiles(paths)
	if err != nil {
		return err
	}
	for _, f := range files {
		entries, err := corpus.LoadFile(f)
		if err != nil {
			return err
		}
		n, err := store.ReplaceSource(ctx, filepath.Base(f), entries)
		if err != nil {
			return fmt.Errorf("import %s: %w", f, err)
		}
		_, _ = fmt.Fprintf(out, "imported %d entries from %s\n", n, f)
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "corpus now holds %d entries\n", total)
	return nil
}

// openCorpusDB opens and migrates the corpus database at path, or at
// fallback when path is empty.
func openCorpusDB(path, fallback string) (*storage.CorpusRepo, func(), error) {
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nil, nil, fmt.Errorf("--db or CORPUS_DB is required")
	}
	db, err := storage.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return storage.NewCorpusRepo(db), func() { _ = db.Close() }, nil
}

// corpusFiles expands directories into their *.json files.
func corpusFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no corpus files found")
	}
	return files, nil
}
