package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tourli-ai/internal/corpus"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/intent"
	"tourli-ai/internal/rag"
	"tourli-ai/internal/storage"
	"tourli-ai/internal/vectorstore"
	"tourli-ai/internal/vectorstore/mocks"
)

type echoEngine struct {
	questions []string
}

func (e *echoEngine) Answer(_ context.Context, text string) rag.QueryResult {
	e.questions = append(e.questions, text)
	return rag.QueryResult{Answer: "answer: " + text, Intent: intent.GeneralQuery, Outcome: rag.OutcomeAnswered, Confidence: 0.5}
}

func TestRunChat(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantQuestions []string
		wantGoodbye   bool
	}{
		{name: "quit ends session", input: "best beaches?\n\nQuit\nignored\n", wantQuestions: []string{"best beaches?"}, wantGoodbye: true},
		{name: "exit ends session", input: " exit \n", wantGoodbye: true},
		{name: "eof ends session", input: "riads in fez\n", wantQuestions: []string{"riads in fez"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &echoEngine{}
			var out bytes.Buffer

			err := runChat(context.Background(), engine, "Morocco", strings.NewReader(tt.input), &out)
			require.NoError(t, err)

			assert.Equal(t, tt.wantQuestions, engine.questions)
			for _, q := range tt.wantQuestions {
				assert.Contains(t, out.String(), "answer: "+q)
			}
			assert.Equal(t, tt.wantGoodbye, strings.Contains(out.String(), "Goodbye! Enjoy your trip to Morocco!"))
		})
	}
}

func TestRunAsk(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAsk(context.Background(), &echoEngine{}, "is it safe", false, &out))
	assert.Equal(t, "answer: is it safe\n", out.String())

	out.Reset()
	require.NoError(t, runAsk(context.Background(), &echoEngine{}, "is it safe", true, &out))
	var res rag.QueryResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, rag.OutcomeAnswered, res.Outcome)
	assert.Equal(t, "answer: is it safe", res.Answer)
}

type memStore struct {
	sources map[string]int
	err     error
}

func (m *memStore) ReplaceSource(_ context.Context, source string, entries []corpus.QAEntry) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.sources[source] = len(entries)
	return len(entries), nil
}

func (m *memStore) Count(context.Context) (int, error) {
	total := 0
	for _, n := range m.sources {
		total += n
	}
	return total, nil
}

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("faq.json", `[{"question":"q1","answer":"a1"},{"question":"q2","answer":"a2"}]`)
	write("cities.json", `[{"question":"q3","assistant":"a3"}]`)
	write("notes.txt", "not a corpus")

	store := &memStore{sources: map[string]int{}}
	var out bytes.Buffer
	require.NoError(t, runImport(context.Background(), store, []string{dir}, &out))

	assert.Equal(t, map[string]int{"faq.json": 2, "cities.json": 1}, store.sources)
	assert.Contains(t, out.String(), "corpus now holds 3 entries")

	failing := &memStore{sources: map[string]int{}, err: errors.New("disk full")}
	assert.Error(t, runImport(context.Background(), failing, []string{dir}, &out))

	assert.Error(t, runImport(context.Background(), store, []string{t.TempDir()}, &out))
	assert.Error(t, runImport(context.Background(), store, []string{filepath.Join(dir, "missing.json")}, &out))
}

func TestIsQuit(t *testing.T) {
	for _, s := range []string{"quit", "EXIT", " Quit "} {
		assert.True(t, isQuit(s), s)
	}
	for _, s := range []string{"", "quite nice", "bye", "goodbye"} {
		assert.False(t, isQuit(s), s)
	}
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"chat", "ask", "import", "sources", "export-vectors", "search"}, names)
}

func testSnapshot(t *testing.T) *rag.Snapshot {
	t.Helper()
	reg, err := gazetteer.ReadCSV(strings.NewReader("city,country,lat,lng,population,aliases\nRabat,Morocco,34.0209,-6.8416,577827,\n"))
	require.NoError(t, err)
	g := gazetteer.New(reg, nil, gazetteer.Options{Region: "Morocco"})
	snap, err := rag.BuildSnapshot(corpus.Renumber([]corpus.QAEntry{
		{Question: "What are the best beaches in Morocco?", Answer: "Taghazout.", Intent: "ask_beaches"},
		{Question: "Where can I learn to surf?", Answer: "Taghazout.", Intent: "ask_surfing"},
	}), g, rag.SnapshotOptions{})
	require.NoError(t, err)
	return snap
}

func TestRunSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	snap := testSnapshot(t)

	t.Run("filters by intent", func(t *testing.T) {
		store := mocks.NewMockVectorStore(ctrl)
		store.EXPECT().
			Search(gomock.Any(), "qa", gomock.Any(), 3, map[string]string{"intent": "ask_beaches"}).
			DoAndReturn(func(_ context.Context, _ string, vec []float32, _ int, _ map[string]string) ([]vectorstore.SearchResult, error) {
				assert.Len(t, vec, snap.Index.Dim())
				return []vectorstore.SearchResult{
					{Score: 0.912, Meta: map[string]any{"intent": "ask_beaches", "question": "What are the best beaches in Morocco?"}},
				}, nil
			})

		var out bytes.Buffer
		err := runSearch(context.Background(), store, "qa", snap, searchQuery{Text: "best beaches", Limit: 3, ByIntent: true}, &out)
		require.NoError(t, err)
		assert.Equal(t, "intent: ask_beaches\n0.912  ask_beaches  What are the best beaches in Morocco?\n", out.String())
	})

	t.Run("any intent", func(t *testing.T) {
		store := mocks.NewMockVectorStore(ctrl)
		store.EXPECT().
			Search(gomock.Any(), "qa", gomock.Any(), 5, map[string]string(nil)).
			Return(nil, nil)

		var out bytes.Buffer
		err := runSearch(context.Background(), store, "qa", snap, searchQuery{Text: "best beaches", Limit: 5}, &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "no results")
	})

	t.Run("out of vocabulary", func(t *testing.T) {
		store := mocks.NewMockVectorStore(ctrl)
		var out bytes.Buffer
		err := runSearch(context.Background(), store, "qa", snap, searchQuery{Text: "asdkjhasd", Limit: 5, ByIntent: true}, &out)
		assert.Error(t, err)
	})

	t.Run("store error", func(t *testing.T) {
		store := mocks.NewMockVectorStore(ctrl)
		store.EXPECT().Search(gomock.Any(), "qa", gomock.Any(), 5, gomock.Any()).Return(nil, errors.New("unavailable"))
		var out bytes.Buffer
		err := runSearch(context.Background(), store, "qa", snap, searchQuery{Text: "surf", Limit: 5, ByIntent: true}, &out)
		assert.Error(t, err)
	})
}

type memSources struct {
	sources []storage.Source
}

func (m *memSources) ListSources(context.Context) ([]storage.Source, error) {
	return m.sources, nil
}

func (m *memSources) GetSource(_ context.Context, name string) (*storage.Source, error) {
	for _, s := range m.sources {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func TestRunSources(t *testing.T) {
	store := &memSources{sources: []storage.Source{
		{ID: 1, Name: "travel.json", Entries: 22, LoadedAt: "2026-10-01 09:00:00"},
		{ID: 2, Name: "edge_cases.json", Entries: 6, LoadedAt: "2026-10-01 09:00:01"},
	}}

	var out bytes.Buffer
	require.NoError(t, runSources(context.Background(), store, nil, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "travel.json")
	assert.Contains(t, lines[0], "22 entries")
	assert.Contains(t, lines[1], "edge_cases.json")

	out.Reset()
	require.NoError(t, runSources(context.Background(), store, []string{"edge_cases.json"}, &out))
	assert.Contains(t, out.String(), "6 entries")
	assert.NotContains(t, out.String(), "travel.json")

	err := runSources(context.Background(), store, []string{"missing.json"}, &out)
	assert.ErrorContains(t, err, `"missing.json"`)

	out.Reset()
	require.NoError(t, runSources(context.Background(), &memSources{}, nil, &out))
	assert.Equal(t, "no sources imported\n", out.String())
}
