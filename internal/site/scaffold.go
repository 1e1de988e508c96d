package site

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
)

// Scaffold creates the project directory structure plus the initial
// metadata and fingerprint state files:
//
//	./
//	    templates/  posts/  assets/  data/  site/
//	    meta.json
//	    history.json
//
// If any directory cannot be created the ones created so far are removed
// again, leaving the target directory as it was.
func Scaffold(root string) error {
	var created []string
	for _, dir := range config.SourceDirs() {
		p := filepath.Join(root, dir)
		if err := os.Mkdir(p, 0o755); err != nil {
			for _, undo := range created {
				_ = os.Remove(undo)
			}
			return sgerrors.ScaffoldError(p, err)
		}
		created = append(created, p)
	}

	if err := config.Init(filepath.Join(root, config.MetaFile)); err != nil {
		return err
	}
	return fingerprint.Init(filepath.Join(root, config.HistoryFile), config.CategoryNames())
}
