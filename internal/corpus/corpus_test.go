package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	doc := `[
		{"question": " Best beaches? ", "answer": "Try Taghazout.", "category": "Beaches", "intent": "ASK_BEACHES"},
		{"question": "hello", "assistant": "Hi there!", "intent": "greeting"},
		{"question": "weather in {city}?", "answer": "Sunny", "city": "Rabat"}
	]`
	entries, err := Decode(strings.NewReader(doc), "test.json")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Decode() len = %d, want 3", len(entries))
	}
	if entries[0].Question != "Best beaches?" {
		t.Errorf("Question = %q, want trimmed", entries[0].Question)
	}
	if entries[0].Intent != "ask_beaches" {
		t.Errorf("Intent = %q, want lowercased", entries[0].Intent)
	}
	if entries[1].Answer != "Hi there!" {
		t.Errorf("Answer = %q, want assistant fallback", entries[1].Answer)
	}
	if entries[2].City != "Rabat" {
		t.Errorf("City = %q, want Rabat", entries[2].City)
	}
	if entries[0].Source != "test.json" {
		t.Errorf("Source = %q, want test.json", entries[0].Source)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty question", doc: `[{"question": "  ", "answer": "x"}]`},
		{name: "empty answer", doc: `[{"question": "q", "answer": ""}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), "bad.json")
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
			if err != nil && !strings.Contains(err.Error(), "bad.json: record 0") {
				t.Errorf("Decode() error = %q, want file and record", err)
			}
		})
	}

	if _, err := Decode(strings.NewReader("{not json"), "x.json"); err == nil {
		t.Error("Decode() expected error for invalid JSON")
	}
}

func TestLabel(t *testing.T) {
	if got := (QAEntry{Intent: "ask_food", Category: "Food"}).Label(); got != "ask_food" {
		t.Errorf("Label() = %q, want ask_food", got)
	}
	if got := (QAEntry{Category: "Greeting"}).Label(); got != "greeting" {
		t.Errorf("Label() = %q, want greeting", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	write("b_edge.json", `[{"question": "bye", "answer": "Goodbye!"}]`)
	write("a_main.json", `[{"question": "q1", "answer": "a1"}, {"question": "q2", "answer": "a2"}]`)
	write("notes.txt", "ignored")

	entries, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("LoadDir() len = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.ID != i {
			t.Errorf("entries[%d].ID = %d, want %d", i, e.ID, i)
		}
	}
	if entries[2].Question != "bye" {
		t.Errorf("files not loaded in name order: last = %q", entries[2].Question)
	}

	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Error("LoadDir() expected error for empty directory")
	}
	if _, err := LoadFiles(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFiles() expected error for missing file")
	}
}
