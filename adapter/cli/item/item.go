package item

import (
	"github.com/spf13/cobra"
)

// Cmd is the item command group
var Cmd = &cobra.Command{
	Use:   "item",
	Short: "Manage work items",
	Long:  `Create work items, request placements, and defend or dismiss them.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(suggestCmd)
	Cmd.AddCommand(defendCmd)
	Cmd.AddCommand(dismissCmd)
}
