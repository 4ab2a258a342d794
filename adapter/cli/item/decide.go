package item

import (
	"fmt"

	"github.com/echo-labs/echo-core/adapter/cli"
	"github.com/echo-labs/echo-core/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var defendCmd = &cobra.Command{
	Use:   "defend [item-id]",
	Short: "Defend a suggested block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], true)
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [item-id]",
	Short: "Dismiss a suggested block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], false)
	},
}

func decide(cmd *cobra.Command, rawID string, defend bool) error {
	app := cli.GetApp()
	if app == nil || app.DecideHandler == nil {
		return fmt.Errorf("application not initialized - database connection required")
	}

	itemID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid item ID: %w", err)
	}

	err = app.DecideHandler.Handle(cmd.Context(), commands.DecidePlacementCommand{
		ItemID: itemID,
		UserID: app.CurrentUserID,
		Defend: defend,
	})
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	if defend {
		fmt.Printf("Block defended: %s\n", itemID)
	} else {
		fmt.Printf("Block dismissed: %s\n", itemID)
	}
	return nil
}
