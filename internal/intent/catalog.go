// Package intent classifies normalized queries into a closed catalog of
// intent labels by ordered keyword matching.
package intent

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"tourli-ai/internal/textnorm"
)

// Label is an intent name from the catalog.
type Label string

// Labels the retrieval engine treats specially.
const (
	GeneralQuery   Label = "general_query"
	AskWeather     Label = "ask_weather"
	AskTemperature Label = "ask_temperature"
	AskDistance    Label = "ask_distance"
	Greeting       Label = "greeting"
	Farewell       Label = "farewell"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Category is one catalog entry: a label and its trigger phrases.
type Category struct {
	Label    Label    `yaml:"label"`
	Triggers []string `yaml:"triggers"`
}

// Catalog is the ordered list of intents plus the labels with special
// handling. Order in Intents is priority.
type Catalog struct {
	Fallback Label      `yaml:"fallback"`
	Canned   []Label    `yaml:"canned"`
	Weather  []Label    `yaml:"weather"`
	Intents  []Category `yaml:"intents"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open intent catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ParseCatalog(f)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode intent catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.Fallback == "" {
		c.Fallback = GeneralQuery
	}
	if len(c.Intents) == 0 {
		return fmt.Errorf("intent catalog has no intents")
	}
	seen := make(map[Label]bool, len(c.Intents))
	for i, cat := range c.Intents {
		if cat.Label == "" {
			return fmt.Errorf("intent %d has no label", i)
		}
		if seen[cat.Label] {
			return fmt.Errorf("duplicate intent label %q", cat.Label)
		}
		seen[cat.Label] = true
		if len(cat.Triggers) == 0 {
			return fmt.Errorf("intent %q has no triggers", cat.Label)
		}
	}
	if seen[c.Fallback] {
		return fmt.Errorf("fallback label %q must not be a catalog intent", c.Fallback)
	}
	for _, l := range append(append([]Label{}, c.Canned...), c.Weather...) {
		if !seen[l] {
			return fmt.Errorf("label %q is not in the catalog", l)
		}
	}
	return nil
}

// Labels returns the catalog labels in priority order.
func (c *Catalog) Labels() []Label {
	out := make([]Label, len(c.Intents))
	for i, cat := range c.Intents {
		out[i] = cat.Label
	}
	return out
}

// Vocabulary returns every normalized token used by a trigger phrase.
func (c *Catalog) Vocabulary() []string {
	var out []string
	seen := make(map[string]bool)
	for _, cat := range c.Intents {
		for _, trig := range cat.Triggers {
			for _, tok := range textnorm.NormalizeTokens(trig) {
				if !seen[tok] {
					seen[tok] = true
					out = append(out, tok)
				}
			}
		}
	}
	return out
}
