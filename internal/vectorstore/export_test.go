package vectorstore

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"tourli-ai/internal/corpus"
	"tourli-ai/internal/indexer"
	"tourli-ai/internal/vectorstore/mocks"
)

func buildIndex(t *testing.T) *indexer.Index {
	t.Helper()
	entries := corpus.Renumber([]corpus.QAEntry{
		{Question: "Best beaches in Morocco?", Answer: "Taghazout.", Intent: "ask_beaches"},
		{Question: "Riads in Marrakech", Answer: "Riad Yasmine.", Intent: "ask_riads", City: "Marrakech"},
	})
	ix, err := indexer.Build(entries, nil, indexer.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ix
}

func TestPointID_Stable(t *testing.T) {
	if PointID(1) != PointID(1) {
		t.Error("PointID() should be deterministic")
	}
	if PointID(1) == PointID(2) {
		t.Error("PointID() should differ across entries")
	}
}

func TestExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ix := buildIndex(t)
	store := mocks.NewMockVectorStore(ctrl)

	gomock.InOrder(
		store.EXPECT().EnsureCollection(gomock.Any(), "qa", ix.Dim()).Return(nil),
		store.EXPECT().Upsert(gomock.Any(), "qa", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, points []Point) error {
				if len(points) != 2 {
					t.Fatalf("Upsert() got %d points, want 2", len(points))
				}
				for i, p := range points {
					if p.ID != PointID(i) {
						t.Errorf("point %d ID = %s, want %s", i, p.ID, PointID(i))
					}
					if len(p.Vec) != ix.Dim() {
						t.Errorf("point %d dim = %d, want %d", i, len(p.Vec), ix.Dim())
					}
				}
				if points[1].Meta["intent"] != "ask_riads" || points[1].Meta["city"] != "Marrakech" {
					t.Errorf("point 1 meta = %v", points[1].Meta)
				}
				return nil
			}),
	)

	n, err := Export(context.Background(), store, "qa", ix)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d, want 2", n)
	}
}

func TestExport_CollectionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().EnsureCollection(gomock.Any(), "qa", gomock.Any()).Return(errors.New("size mismatch"))

	if _, err := Export(context.Background(), store, "qa", buildIndex(t)); err == nil {
		t.Error("Export() expected error when collection cannot be prepared")
	}
}
