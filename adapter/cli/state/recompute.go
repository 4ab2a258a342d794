package state

import (
	"fmt"
	"strings"

	"github.com/echo-labs/echo-core/adapter/cli"
	"github.com/echo-labs/echo-core/internal/cognition/application/commands"
	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute the cognitive state from live signals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecomputeStateHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		result, err := app.RecomputeStateHandler.Handle(cmd.Context(), commands.RecomputeStateCommand{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to recompute state: %w", err)
		}

		fmt.Printf("State: %s\n", result.Record.State)
		fmt.Printf("  pressure: %.1f\n", result.Pressure.Value)
		if len(result.Record.Drivers) > 0 {
			fmt.Printf("  drivers: %s\n", strings.Join(result.Record.Drivers, ", "))
		}
		fmt.Printf("  instruction: %s\n", result.Record.Instruction)
		fmt.Printf("  relief: %s\n", result.Record.Relief)

		return nil
	},
}
