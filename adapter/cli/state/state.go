package state

import (
	"github.com/spf13/cobra"
)

// Cmd is the state command group
var Cmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and recompute the cognitive state",
	Long:  `Recompute the cognitive state from live signals or show the latest classification.`,
}

func init() {
	Cmd.AddCommand(recomputeCmd)
	Cmd.AddCommand(showCmd)
}
