package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/indexer"
)

// pointNamespace seeds deterministic point ids so re-exports overwrite in place.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tourli-ai/qa-entry"))

// PointID returns the stable point id for corpus entry id.
func PointID(entryID int) string {
	return uuid.NewSHA1(pointNamespace, []byte(strconv.Itoa(entryID))).String()
}

// Export writes every indexed entry's TF-IDF vector to collection. The collection
// must already exist with ix.Dim() dimensions or be creatable by the store.
func Export(ctx context.Context, store VectorStore, collection string, ix *indexer.Index) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if ix.Dim() == 0 {
		return 0, fmt.Errorf("index has an empty vocabulary")
	}
	if err := store.EnsureCollection(ctx, collection, ix.Dim()); err != nil {
		return 0, fmt.Errorf("failed to prepare collection: %w", err)
	}

	stats := ix.Stats()
	entries := ix.Entries()
	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		points = append(points, Point{
			ID:  PointID(e.ID),
			Vec: ix.Dense(e.ID),
			Meta: map[string]any{
				"entry_id":      e.ID,
				"question":      e.Question,
				"intent":        e.Label(),
				"city":          e.City,
				"source":        e.Source,
				"index_version": stats.IndexVersion,
			},
		})
	}

	if err := store.Upsert(ctx, collection, points); err != nil {
		return 0, err
	}
	logger.InfoContext(ctx, "exported index vectors",
		"collection", collection,
		"points", len(points),
		"dim", ix.Dim(),
		"index_version", stats.IndexVersion,
	)
	return len(points), nil
}
