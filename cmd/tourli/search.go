package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tourli-ai/internal/rag"
	"tourli-ai/internal/textnorm"
	"tourli-ai/internal/vectorstore"
)

// vectorSearcher is the part of vectorstore.VectorStore the search command needs.
type vectorSearcher interface {
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]string) ([]vectorstore.SearchResult, error)
}

func newSearchCmd() *cobra.Command {
	var (
		qdrantURL  string
		collection string
		limit      int
		anyIntent  bool
	)
	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Search exported vectors in Qdrant for the entries closest to a question",
		Long: `Vectorizes the question with the current index and queries the collection written
by export-vectors. Results are restricted to the question's intent unless --any-intent
is set or no intent is recognized.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			q := searchQuery{Text: strings.Join(args, " "), Limit: limit, ByIntent: !anyIntent}
			return runSearch(ctx, store, collection, a.Engine.Snapshot(), q, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&qdrantURL, "qdrant-url", "", "Qdrant URL (defaults to QDRANT_URL)")
	cmd.Flags().StringVar(&collection, "collection", "", "collection name (defaults to QDRANT_COLLECTION)")
	cmd.Flags().IntVarP(&limit, "limit", "k", 5, "number of results")
	cmd.Flags().BoolVar(&anyIntent, "any-intent", false, "do not filter results by the question's intent")
	return cmd
}

type searchQuery struct {
	Text     string
	Limit    int
	ByIntent bool
}

func runSearch(ctx context.Context, store vectorSearcher, collection string, snap *rag.Snapshot, q searchQuery, out io.Writer) error {
	tokens := textnorm.NormalizeTokens(q.Text)
	label := snap.Classifier.ClassifyTokens(tokens, snap.Lemmatizer.Lemmatize(tokens))

	var (
		queryLabel string
		filters    map[string]string
	)
	if label != snap.Classifier.Fallback() {
		queryLabel = string(label)
		if q.ByIntent {
			filters = map[string]string{"intent": queryLabel}
		}
	}

	vec := snap.Index.DenseQuery(q.Text, queryLabel)
	if isZero(vec) {
		return fmt.Errorf("no term of %q is in the corpus vocabulary", q.Text)
	}

	results, err := store.Search(ctx, collection, vec, q.Limit, filters)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "intent: %s\n", label)
	if len(results) == 0 {
		_, _ = fmt.Fprintln(out, "no results")
		return nil
	}
	for _, r := range results {
		_, _ = fmt.Fprintf(out, "%.3f  %v  %v\n", r.Score, r.Meta["intent"], r.Meta["question"])
	}
	return nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
