// Package incremental decides which source files changed since the last
// successful build and which derived outputs must regenerate.
//
// The pass is single-threaded and strictly ordered: prerequisite cascades are
// resolved first, then each category is scanned once, then handlers run and
// the fingerprint store is updated. A run either completes and persists, or
// is interrupted and leaves the prior persisted state untouched.
package incremental

import (
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// ChangeSet is the result of scanning one category: files that must
// regenerate, keyed by category-relative path, and files that disappeared
// since the last run. Produced fresh each run and never persisted itself;
// only its effect on the fingerprint store is.
type ChangeSet struct {
	Modified map[string]fingerprint.Fingerprint
	Deleted  sets.Set[string]
}

// NewChangeSet returns an empty change set.
func NewChangeSet() ChangeSet {
	return ChangeSet{
		Modified: map[string]fingerprint.Fingerprint{},
		Deleted:  sets.New[string](),
	}
}

// Empty reports whether the set carries no work.
func (cs ChangeSet) Empty() bool {
	return len(cs.Modified) == 0 && cs.Deleted.Len() == 0
}

// Changes maps category name to its computed change set.
type Changes map[string]ChangeSet

// Empty reports whether no category has any work.
func (c Changes) Empty() bool {
	for _, cs := range c {
		if !cs.Empty() {
			return false
		}
	}
	return true
}
