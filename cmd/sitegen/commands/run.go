package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/server"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// RunCmd implements the 'run' command: dev server plus filesystem watcher.
type RunCmd struct {
	Host string `help:"Interface to listen on" default:"localhost"`
	Port int    `short:"p" help:"Port to listen on" default:"8080"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	meta, err := config.Load(filepath.Join(root.Dir, config.MetaFile))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher, err := watch.New(root.Dir)
	if err != nil {
		return err
	}
	watcher.Start(ctx)

	recorder := metrics.NewPrometheusRecorder()
	srv := server.New(root.Dir, meta, watcher, server.WithRecorder(recorder))

	addr := fmt.Sprintf("%s:%d", r.Host, r.Port)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	fmt.Println("Server closed!")
	return nil
}
