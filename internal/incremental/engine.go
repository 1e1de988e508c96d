package incremental

import (
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/deps"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
	lf "git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Engine runs one complete change-detection pass: build the reverse
// dependency index, resolve prerequisite cascades, then scan each category
// in fixed order. Purely a producer of change sets; rendering and copying
// are injected at reconciliation time by the caller.
type Engine struct {
	Root        string
	Store       *fingerprint.Store
	Decls       deps.Declarations
	PreferFresh bool
	Recorder    metrics.Recorder
	Logger      *slog.Logger
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Engine) recorder() metrics.Recorder {
	if e.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return e.Recorder
}

// Detect computes the change set for every tracked category. With fullRescan
// all stored history is ignored and every matching file classifies as new.
func (e *Engine) Detect(fullRescan bool) (Changes, error) {
	log := e.logger()
	rec := e.recorder()

	index, err := deps.BuildReverseIndex(os.DirFS(e.Root), e.Decls)
	if err != nil {
		return nil, err
	}

	forced, err := ResolvePrerequisites(e.Root, index, e.Store, fullRescan)
	if err != nil {
		return nil, err
	}
	if forced.Paths.Len() > 0 {
		log.Debug("Prerequisite cascade resolved", lf.Forced(forced.Paths.Len()))
	}

	scanner := &Scanner{Root: e.Root, PreferFresh: e.PreferFresh, Recorder: e.Recorder}

	all := Changes{}
	for _, cat := range config.Categories() {
		start := time.Now()
		cs, err := scanner.Scan(cat.Name, cat.Ext, e.Store.Section(cat.Name), forced, fullRescan)
		if err != nil {
			return nil, err
		}
		rec.ObserveScanDuration(cat.Name, time.Since(start))
		log.Debug("Category scanned",
			lf.Category(cat.Name),
			lf.Modified(len(cs.Modified)),
			lf.Deleted(cs.Deleted.Len()),
			lf.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
		all[cat.Name] = cs
	}
	return all, nil
}
