package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/echo-labs/echo-core/adapter/cli"
	"github.com/echo-labs/echo-core/internal/cognition/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest stored cognitive state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.LatestStateHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		record, err := app.LatestStateHandler.Handle(cmd.Context(), queries.LatestStateQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			if errors.Is(err, queries.ErrStateNotFound) {
				fmt.Println("No state recorded yet. Run 'echo state recompute' first.")
				return nil
			}
			return fmt.Errorf("failed to load state: %w", err)
		}

		fmt.Printf("State: %s\n", record.State)
		fmt.Printf("  computed: %s\n", record.ComputedAt.Format("2006-01-02 15:04:05"))
		if len(record.Drivers) > 0 {
			fmt.Printf("  drivers: %s\n", strings.Join(record.Drivers, ", "))
		}
		fmt.Printf("  instruction: %s\n", record.Instruction)
		fmt.Printf("  relief: %s\n", record.Relief)
		fmt.Printf("  confidence: %.2f\n", record.Confidence)

		return nil
	},
}
