// Package pillar classifies activity categories into top-level life domains.
// Taxonomies are versioned data: they can come from the built-in table or a
// YAML/TOML file, and the normalizer takes one as a parameter.
package pillar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTaxonomy is returned for a built-in version that does not exist.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy version")

// Taxonomy maps lowercase categories to pillars.
type Taxonomy struct {
	Version    string            `yaml:"version" toml:"version"`
	Pillars    []string          `yaml:"pillars" toml:"pillars"`
	Fallback   string            `yaml:"fallback" toml:"fallback"`
	Categories map[string]string `yaml:"categories" toml:"categories"`
}

// Classify returns the pillar for a category, or the fallback when unmapped.
func (t *Taxonomy) Classify(category string) string {
	if p, ok := t.Categories[strings.ToLower(strings.TrimSpace(category))]; ok {
		return p
	}
	return t.Fallback
}

// Has reports whether p is one of the taxonomy's pillars.
func (t *Taxonomy) Has(p string) bool {
	return slices.Contains(t.Pillars, p)
}

// CategoriesOf returns the sorted categories that map to p.
func (t *Taxonomy) CategoriesOf(p string) []string {
	var out []string
	for c, mapped := range t.Categories {
		if mapped == p {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks that the fallback and every mapping target are declared
// pillars, and lowercases category names.
func (t *Taxonomy) Validate() error {
	if len(t.Pillars) == 0 {
		return fmt.Errorf("taxonomy %q: no pillars declared", t.Version)
	}
	if !t.Has(t.Fallback) {
		return fmt.Errorf("taxonomy %q: fallback %q is not a declared pillar", t.Version, t.Fallback)
	}
	normalized := make(map[string]string, len(t.Categories))
	for c, p := range t.Categories {
		if !t.Has(p) {
			return fmt.Errorf("taxonomy %q: category %q maps to undeclared pillar %q", t.Version, c, p)
		}
		normalized[strings.ToLower(strings.TrimSpace(c))] = p
	}
	t.Categories = normalized
	return nil
}

// LoadFile reads a taxonomy from a .yaml/.yml or .toml file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	var t Taxonomy
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing taxonomy yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing taxonomy toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported taxonomy file extension %q", filepath.Ext(path))
	}

	if t.Version == "" {
		t.Version = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
