package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tourli-ai/internal/storage"
)

// sourceLister is the read side of storage.CorpusStore.
type sourceLister interface {
	ListSources(ctx context.Context) ([]storage.Source, error)
	GetSource(ctx context.Context, name string) (*storage.Source, error)
}

func newSourcesCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "sources [name]...",
		Short: "List the corpus files imported into the SQLite corpus database",
		Args:  cobra.ArbitraryArgs,
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
			return runSources(ctx, repo, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to CORPUS_DB)")
	return cmd
}

// runSources prints every source, or only the named ones.
func runSources(ctx context.Context, store sourceLister, names []string, out io.Writer) error {
	var sources []storage.Source
	if len(names) == 0 {
		all, err := store.ListSources(ctx)
		if err != nil {
			return err
		}
		sources = all
	}
	for _, name := range names {
		src, err := store.GetSource(ctx, name)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("source %q has not been imported", name)
		}
		if err != nil {
			return err
		}
		sources = append(sources, *src)
	}

	if len(sources) == 0 {
		_, _ = fmt.Fprintln(out, "no sources imported")
		return nil
	}
	for _, s := range sources {
		_, _ = fmt.Fprintf(out, "%-24s %6d entries  loaded %s\n", s.Name, s.Entries, s.LoadedAt)
	}
	return nil
}
