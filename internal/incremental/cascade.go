package incremental

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/deps"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// Forced is the cascade result consumed by the per-category scans. All paths
// are project-relative with forward slashes.
type Forced struct {
	// Paths are dependent files that must be recorded as modified even if
	// their own content is unchanged.
	Paths sets.Set[string]
	// Prereqs carries the fresh fingerprint of every prerequisite that
	// changed, so the scan can record it without re-hashing.
	Prereqs map[string]fingerprint.Fingerprint
	// allPrereqs tracks every declared prerequisite, changed or not, so the
	// scan does not run a second independent detection on them.
	allPrereqs sets.Set[string]
}

// NoForced returns an empty cascade result.
func NoForced() *Forced {
	return &Forced{
		Paths:      sets.New[string](),
		Prereqs:    map[string]fingerprint.Fingerprint{},
		allPrereqs: sets.New[string](),
	}
}

// IsPrereq reports whether the project-relative path is a declared
// prerequisite.
func (f *Forced) IsPrereq(path string) bool {
	return f.allPrereqs.Has(path)
}

// ResolvePrerequisites computes, for every prerequisite in the reverse
// index, whether the prerequisite itself changed, using the same fingerprint
// comparison as the regular scan against the prerequisite's own category
// section. Changed prerequisites force all their concrete dependents.
//
// A prerequisite that no longer exists cascades as deleted while the store
// still remembers it; once reconciliation drops it from the store the
// cascade settles, keeping repeated runs idempotent.
func ResolvePrerequisites(root string, index deps.ReverseIndex, store *fingerprint.Store, fullRescan bool) (*Forced, error) {
	forced := NoForced()

	for prereq, dependents := range index {
		forced.allPrereqs.Add(prereq)

		category, rel := deps.SplitCategoryPath(prereq)
		prior, havePrior := store.Get(category, rel)
		if fullRescan {
			prior, havePrior = fingerprint.Fingerprint{}, false
		}

		absPath := filepath.Join(root, filepath.FromSlash(prereq))
		if _, err := os.Stat(absPath); err != nil {
			if havePrior {
				// Existed at last persist, gone now: dependents may be
				// stale or need cleanup.
				forced.Paths.Union(dependents)
			}
			continue
		}

		fp, changed, err := fingerprint.Probe(absPath, prior, havePrior)
		if err != nil {
			return nil, err
		}
		if changed {
			forced.Prereqs[prereq] = fp
			forced.Paths.Union(dependents)
		}
	}
	return forced, nil
}
