package commands

import (
	"fmt"
	"path"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/incremental"
)

// DiffCmd implements the 'diff' command: the same detection pass as
// generate, but handlers only collect names and nothing is persisted.
type DiffCmd struct{}

func (d *DiffCmd) Run(_ *Global, root *CLI) error {
	meta, store, err := loadProject(root.Dir)
	if err != nil {
		return err
	}

	engine := &incremental.Engine{
		Root:        root.Dir,
		Store:       store,
		Decls:       meta.Deps,
		PreferFresh: true,
	}
	changes, err := engine.Detect(false)
	if err != nil {
		return err
	}

	var modifications, deletions []string
	for _, cat := range config.Categories() {
		cs := changes[cat.Name]
		collect := func(bucket *[]string) incremental.Handler {
			return func(name string) error {
				*bucket = append(*bucket, path.Join(cat.Name, name))
				return nil
			}
		}
		if err := incremental.Reconcile(cs, collect(&modifications), collect(&deletions), nil); err != nil {
			return err
		}
	}

	printPaths("Changes:", modifications, color.New(color.FgGreen))
	fmt.Println()
	printPaths("Deletions:", deletions, color.New(color.FgRed))
	return nil
}

func printPaths(heading string, paths []string, c *color.Color) {
	fmt.Print(heading)
	if len(paths) == 0 {
		color.Cyan(" None!")
		return
	}
	fmt.Println()
	for _, p := range paths {
		_, _ = c.Printf("\t%s\n", p)
	}
}
