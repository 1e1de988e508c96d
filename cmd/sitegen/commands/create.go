package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/site"
)

// CreateCmd implements the 'create' command.
type CreateCmd struct{}

func (c *CreateCmd) Run(_ *Global, root *CLI) error {
	fmt.Println("Creating folders for site.")
	if err := site.Scaffold(root.Dir); err != nil {
		fmt.Println(err)
		fmt.Println("Undoing changes...")
		return err
	}
	fmt.Println("Done!")
	return nil
}
