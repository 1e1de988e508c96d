package incremental

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// Scanner walks one category tree and classifies every matching file as new,
// modified, unchanged, or (by elimination) deleted.
type Scanner struct {
	// Root is the project root containing the category directories.
	Root string

	// PreferFresh controls the tie-break when a file is both forced via
	// cascade and independently changed: when true the freshly computed
	// fingerprint wins in the persisted record. When false, forced files
	// keep their stored fingerprint without re-hashing.
	PreferFresh bool

	// Recorder receives scan classification counts. Nil means no metrics.
	Recorder metrics.Recorder
}

func (s *Scanner) recorder() metrics.Recorder {
	if s.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return s.Recorder
}

// Scan enumerates every file under the category whose name matches ext
// (empty ext matches all), relative to the category root.
//
// The working set is seeded from the stored keys and each visited path is
// removed from it; whatever remains after the walk is the deletion list.
// fullRescan seeds an empty working set instead, so every file classifies as
// new regardless of stored history.
func (s *Scanner) Scan(category, ext string, prior map[string]fingerprint.Fingerprint, forced *Forced, fullRescan bool) (ChangeSet, error) {
	cs := NewChangeSet()
	rec := s.recorder()

	working := sets.New[string]()
	if !fullRescan {
		working = sets.FromKeys(prior)
	}
	if forced == nil {
		forced = NoForced()
	}

	root := filepath.Join(s.Root, category)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		// No tree at all: everything previously known is gone.
		cs.Deleted = working
		return cs, nil
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext != "" && !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		relOS, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel := filepath.ToSlash(relOS)
		isNew := !working.Has(rel)
		working.Delete(rel)

		full := path.Join(category, rel)

		// Prerequisites were already compared during cascade resolution;
		// changed ones carry their fresh fingerprint, unchanged ones need
		// no second look.
		if fp, ok := forced.Prereqs[full]; ok {
			cs.Modified[rel] = fp
			rec.IncScanResult(category, metrics.ResultModified)
			return nil
		}
		if forced.IsPrereq(full) {
			return nil
		}

		if forced.Paths.Has(full) && !isNew && !fullRescan {
			if s.PreferFresh {
				fp, changed, err := fingerprint.Probe(p, prior[rel], true)
				if err != nil {
					return err
				}
				if changed {
					cs.Modified[rel] = fp
					rec.IncScanResult(category, metrics.ResultModified)
					return nil
				}
			}
			// Forced but not independently changed: handler must still run,
			// the stored fingerprint stays authoritative.
			cs.Modified[rel] = prior[rel]
			rec.IncScanResult(category, metrics.ResultForced)
			return nil
		}

		var priorFP fingerprint.Fingerprint
		havePrior := false
		if !fullRescan && !isNew {
			priorFP, havePrior = prior[rel], true
		}
		fp, changed, err := fingerprint.Probe(p, priorFP, havePrior)
		if err != nil {
			return err
		}
		if changed {
			cs.Modified[rel] = fp
			rec.IncScanResult(category, metrics.ResultModified)
		}
		return nil
	})
	if err != nil {
		return ChangeSet{}, err
	}

	cs.Deleted = working
	for range working {
		rec.IncScanResult(category, metrics.ResultDeleted)
	}
	return cs, nil
}
