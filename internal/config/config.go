// Package config loads and validates the site metadata file (meta.json).
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitegen/internal/deps"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// MetaFile is the canonical metadata file name at the project root.
const MetaFile = "meta.json"

// HistoryFile is the canonical persisted fingerprint store file name.
const HistoryFile = "history.json"

// BaseTemplates names the default templates used when rendering content
// that does not pick its own template.
type BaseTemplates struct {
	Templates string `json:"templates"`
	Posts     string `json:"posts"`
}

// Meta is the typed site metadata record. It replaces the loose
// dictionary-of-dictionaries shape: malformed input is rejected on load
// instead of failing deep inside traversal logic.
type Meta struct {
	Base     BaseTemplates       `json:"base"`
	NoOutput map[string][]string `json:"no_output"`
	Deps     deps.Declarations   `json:"deps,omitempty"`
}

// Suppressed reports whether name in category is excluded from output.
func (m *Meta) Suppressed(category, name string) bool {
	for _, n := range m.NoOutput[category] {
		if deps.Normalize(n) == deps.Normalize(name) {
			return true
		}
	}
	return false
}

// Load reads and validates site metadata. Environment variables referenced
// in the file are expanded, with a best-effort .env load first.
func Load(path string) (*Meta, error) {
	// Don't fail if .env doesn't exist; it is optional developer convenience.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sgerrors.ConfigNotFound(path)
		}
		return nil, sgerrors.ConfigInvalid(path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var meta Meta
	dec := json.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&meta); err != nil {
		return nil, sgerrors.ConfigInvalid(path, err)
	}

	if err := meta.validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (m *Meta) validate() error {
	if m.NoOutput == nil {
		m.NoOutput = map[string][]string{}
	}
	known := map[string]bool{}
	for _, c := range Categories() {
		known[c.Name] = true
	}
	for category := range m.NoOutput {
		if !known[category] {
			return sgerrors.ValidationFailed("no_output", fmt.Sprintf("unknown category %q", category))
		}
	}
	for pattern, prereqs := range m.Deps {
		if len(prereqs) == 0 {
			return sgerrors.ValidationFailed("deps", fmt.Sprintf("pattern %q declares no prerequisites", pattern))
		}
	}
	return nil
}

// Init writes the scaffold metadata file.
func Init(path string) error {
	meta := Meta{
		Base: BaseTemplates{},
		NoOutput: map[string][]string{
			"templates": {},
			"posts":     {},
			"assets":    {},
		},
		Deps: deps.Declarations{},
	}
	data, err := json.MarshalIndent(&meta, "", "    ")
	if err != nil {
		return sgerrors.ConfigInvalid(path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return sgerrors.ConfigInvalid(path, err)
	}
	return nil
}
