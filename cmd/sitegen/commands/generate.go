package commands

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
	"git.home.luguber.info/inful/sitegen/internal/incremental"
	lf "git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Full bool `help:"Regenerate everything, ignoring stored fingerprints"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	meta, store, err := loadProject(root.Dir)
	if err != nil {
		return err
	}

	slog.Info("Detecting changed files", slog.Bool("full", g.Full))
	start := time.Now()

	engine := &incremental.Engine{
		Root:        root.Dir,
		Store:       store,
		Decls:       meta.Deps,
		PreferFresh: true,
	}
	changes, err := engine.Detect(g.Full)
	if err != nil {
		return err
	}

	if !g.Full && changes.Empty() {
		fmt.Println("No changes!")
		return nil
	}

	generator := site.NewGenerator(root.Dir, meta)
	for _, cat := range config.Categories() {
		onModified, onDeleted := generator.Handlers(cat.Name)

		// A full run bypasses bookkeeping entirely: handlers fire for every
		// file but the persisted history is left alone.
		var section map[string]fingerprint.Fingerprint
		if !g.Full {
			section = store.Section(cat.Name)
		}
		if err := incremental.Reconcile(changes[cat.Name], onModified, onDeleted, section); err != nil {
			return err
		}
	}

	if !g.Full {
		if err := store.Persist(); err != nil {
			return err
		}
	}

	slog.Debug("Generation finished", lf.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
	fmt.Println("Done!")
	return nil
}
