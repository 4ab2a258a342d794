package item

import (
	"fmt"

	"github.com/echo-labs/echo-core/adapter/cli"
	"github.com/echo-labs/echo-core/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [item-id]",
	Short: "Suggest a work block for an item",
	Long: `Place the item into the quietest viable stretch of the day.
Repeating the command returns the stored placement unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SuggestBlockHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		itemID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid item ID: %w", err)
		}

		ctx := cmd.Context()
		result, err := app.SuggestBlockHandler.Handle(ctx, commands.SuggestBlockCommand{
			ItemID: itemID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest block: %w", err)
		}

		if result.Block == nil {
			fmt.Println("No placement fits before the deadline.")
			return nil
		}

		if result.Computed {
			fmt.Println("Block suggested:")
		} else {
			fmt.Println("Block already placed:")
		}
		fmt.Printf("  start: %s\n", result.Block.Start.Format("2006-01-02 15:04"))
		fmt.Printf("  end: %s\n", result.Block.End.Format("2006-01-02 15:04"))
		fmt.Printf("  minutes: %d\n", result.Block.Minutes)
		fmt.Printf("  reason: %s\n", result.Block.Reason)

		return nil
	},
}
