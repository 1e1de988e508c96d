package incremental

import (
	"slices"

	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// Handler consumes one reconciled path. Implemented by the generation
// collaborators (render, copy, delete).
type Handler func(relPath string) error

// Reconcile applies a computed change set: every modified entry is written
// into the supplied store section and handed to onModified, every deleted
// entry is removed from the section and handed to onDeleted.
//
// Handlers are invoked at most once per path per run, in sorted order, and a
// path is never both modified and deleted: the scan removes every visited
// file from the deletion working set before classifying it.
//
// A nil section means no persistence side effects at all (full rebuilds and
// dry-run diff reports); handlers still run.
func Reconcile(cs ChangeSet, onModified, onDeleted Handler, section map[string]fingerprint.Fingerprint) error {
	modified := make([]string, 0, len(cs.Modified))
	for name := range cs.Modified {
		modified = append(modified, name)
	}
	slices.Sort(modified)

	for _, name := range modified {
		if section != nil {
			section[name] = cs.Modified[name]
		}
		if onModified != nil {
			if err := onModified(name); err != nil {
				return err
			}
		}
	}

	for _, name := range sets.Sorted(cs.Deleted) {
		if section != nil {
			delete(section, name)
		}
		if onDeleted != nil {
			if err := onDeleted(name); err != nil {
				return err
			}
		}
	}
	return nil
}
