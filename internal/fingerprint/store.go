package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// StoreVersion is the persisted schema version. Bumped on incompatible change.
const StoreVersion = 1

// Store is the persisted record of every tracked file's last known state,
// grouped by source category.
//
// The store is owned exclusively by the build process: read at the start of
// a run, mutated in memory during reconciliation, and persisted in full at
// the end of a successful run. Absence of a key means "never seen or since
// deleted". If Persist is never reached the previous file remains valid and
// the next run re-derives the same change set.
type Store struct {
	path string

	Version     int                               `json:"version"`
	BuildID     string                            `json:"build_id,omitempty"`
	GeneratedAt time.Time                         `json:"generated_at,omitzero"`
	Categories  map[string]map[string]Fingerprint `json:"categories"`
}

// NewStore creates an empty store that will persist to path.
func NewStore(path string) *Store {
	return &Store{
		path:       path,
		Version:    StoreVersion,
		Categories: map[string]map[string]Fingerprint{},
	}
}

// Load reads the persisted store. A missing file and a file that fails to
// parse are both fatal: the former means the project was never scaffolded,
// the latter means ground truth is unknown and no change set may be computed
// against it.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sgerrors.StateNotFound(path)
		}
		return nil, sgerrors.CorruptState(path, err)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, sgerrors.CorruptState(path, err)
	}
	if store.Version > StoreVersion {
		return nil, sgerrors.CorruptState(path, fmt.Errorf("unsupported store version %d", store.Version))
	}
	if store.Categories == nil {
		store.Categories = map[string]map[string]Fingerprint{}
	}
	store.path = path
	return &store, nil
}

// Section returns the mutable fingerprint map for a category, creating it if
// absent.
func (s *Store) Section(category string) map[string]Fingerprint {
	sec, ok := s.Categories[category]
	if !ok {
		sec = map[string]Fingerprint{}
		s.Categories[category] = sec
	}
	return sec
}

// Get looks up the fingerprint for a path in a category.
func (s *Store) Get(category, path string) (Fingerprint, bool) {
	fp, ok := s.Categories[category][path]
	return fp, ok
}

// Set records a fingerprint for a path in a category.
func (s *Store) Set(category, path string, fp Fingerprint) {
	s.Section(category)[path] = fp
}

// Remove deletes a path from a category section.
func (s *Store) Remove(category, path string) {
	delete(s.Categories[category], path)
}

// Persist writes the full current state, replacing the prior file only once
// the write completed (temp file + rename). Each successful persist stamps a
// fresh build id.
func (s *Store) Persist() error {
	s.Version = StoreVersion
	s.BuildID = uuid.NewString()
	s.GeneratedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return sgerrors.StatePersistError(s.path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return sgerrors.StatePersistError(s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return sgerrors.StatePersistError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return sgerrors.StatePersistError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return sgerrors.StatePersistError(s.path, err)
	}
	return nil
}

// Init writes an empty store with the given category names pre-seeded.
// Used by project scaffolding.
func Init(path string, categories []string) error {
	store := NewStore(path)
	for _, c := range categories {
		store.Categories[c] = map[string]Fingerprint{}
	}
	return store.Persist()
}
