package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tourli-ai/internal/vectorstore"
)

func newExportCmd() *cobra.Command {
	var (
		qdrantURL  string
		collection string
		recreate   bool
	)
	cmd := &cobra.Command{
		Use:   "export-vectors",
		Short: "Export the corpus TF-IDF vectors to a Qdrant collection",
		Long: `Writes one point per corpus entry, keyed by a stable id. The vector size is the
index vocabulary size, so a corpus change usually needs --recreate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()
			if qdrantURL == "" {
				qdrantURL = a.Config.QdrantURL
			}
			if collection == "" {
				collection = a.Config.QdrantCollection
			}

			store, err := vectorstore.NewQdrantStore(qdrantURL)
			if err != nil {
				return fmt.Errorf("connect to qdrant: %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			ix := a.Engine.Snapshot().Index
			if recreate {
				if err := store.Recreate(ctx, collection, ix.Dim()); err != nil {
					return err
				}
			}
			n, err := vectorstore.Export(ctx, store, collection, ix)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d vectors (%d dimensions) to %s\n", n, ix.Dim(), collection)
			return nil
		},
	}
	cmd.Flags().StringVar(&qdrantURL, "qdrant-url", "", "Qdrant URL (defaults to QDRANT_URL)")
	cmd.Flags().StringVar(&collection, "collection", "", "collection name (defaults to QDRANT_COLLECTION)")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop and recreate the collection first")
	return cmd
}
