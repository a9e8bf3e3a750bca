// Package corpus loads the static question/answer dataset.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrMalformed is returned when a corpus record is missing its question or
// answer.
var ErrMalformed = errors.New("malformed corpus entry")

// QAEntry is one question/answer pair. ID is the entry's position in the
// loaded corpus and is stable for the lifetime of a snapshot.
type QAEntry struct {
	ID       int    `json:"-" db:"id"`
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
	Category string `json:"category,omitempty" db:"category"`
	Intent   string `json:"intent,omitempty" db:"intent"`
	City     string `json:"city,omitempty" db:"city"`
	Source   string `json:"-" db:"source"`
}

type rawEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Assistant string `json:"assistant"`
	Category  string `json:"category"`
	Intent    string `json:"intent"`
	City      string `json:"city"`
}

// Decode reads a JSON array of entries. The answer may be given under
// "answer" or "assistant". source names the input in error messages.
func Decode(r io.Reader, source string) ([]QAEntry, error) {
	var raw []rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: failed to decode corpus: %w", source, err)
	}

	entries := make([]QAEntry, 0, len(raw))
	for i, re := range raw {
		answer := re.Answer
		if strings.TrimSpace(answer) == "" {
			answer = re.Assistant
		}
		e := QAEntry{
			Question: strings.TrimSpace(re.Question),
			Answer:   strings.TrimSpace(answer),
			Category: strings.TrimSpace(re.Category),
			Intent:   strings.ToLower(strings.TrimSpace(re.Intent)),
			City:     strings.TrimSpace(re.City),
			Source:   source,
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", source, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Validate checks the non-empty question and answer invariant.
func (e QAEntry) Validate() error {
	if e.Question == "" {
		return fmt.Errorf("%w: empty question", ErrMalformed)
	}
	if e.Answer == "" {
		return fmt.Errorf("%w: empty answer", ErrMalformed)
	}
	return nil
}

// Label returns the entry's intent, falling back to its category.
func (e QAEntry) Label() string {
	if e.Intent != "" {
		return e.Intent
	}
	return strings.ToLower(e.Category)
}

// LoadFile reads a single JSON corpus file.
func LoadFile(path string) ([]QAEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f, filepath.Base(path))
}

// LoadFiles reads corpus files in order and assigns positional IDs across
// all of them.
func LoadFiles(paths ...string) ([]QAEntry, error) {
	var all []QAEntry
	for _, p := range paths {
		entries, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return Renumber(all), nil
}

// LoadDir reads every *.json file in dir, sorted by name.
func LoadDir(dir string) ([]QAEntry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no corpus files in %s", dir)
	}
	sort.Strings(paths)
	return LoadFiles(paths...)
}

// Renumber assigns IDs by position.
func Renumber(entries []QAEntry) []QAEntry {
	for i := range entries {
		entries[i].ID = i
	}
	return entries
}
