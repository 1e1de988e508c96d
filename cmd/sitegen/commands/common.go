package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root state.
type CLI struct {
	Dir     string           `short:"d" help:"Project directory" default:"."`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Create   CreateCmd   `cmd:"" help:"Scaffold a new site project in the current directory"`
	Generate GenerateCmd `cmd:"" help:"Generate the site from changed sources"`
	Diff     DiffCmd     `cmd:"" help:"Show what changed since the last generation without building"`
	Run      RunCmd      `cmd:"" help:"Run the development server with live reload"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadProject loads the site metadata and the persisted fingerprint store
// for commands that run change detection.
func loadProject(dir string) (*config.Meta, *fingerprint.Store, error) {
	meta, err := config.Load(filepath.Join(dir, config.MetaFile))
	if err != nil {
		return nil, nil, err
	}
	store, err := fingerprint.Load(filepath.Join(dir, config.HistoryFile))
	if err != nil {
		return nil, nil, err
	}
	return meta, store, nil
}
