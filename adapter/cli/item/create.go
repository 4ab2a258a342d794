package item

import (
	"fmt"
	"time"

	"github.com/echo-labs/echo-core/adapter/cli"
	"github.com/echo-labs/echo-core/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var (
	estimate int
	deadline string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new work item",
	Long: `Create a work item awaiting a placement.

Examples:
  echo item create "Write quarterly summary" -e 90
  echo item create "Review contract" --estimate 45 --deadline 2026-09-04`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateItemHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		createCmd := commands.CreateWorkItemCommand{
			UserID:           app.CurrentUserID,
			Title:            args[0],
			EstimatedMinutes: estimate,
		}

		if deadline != "" {
			parsed, err := time.Parse("2006-01-02", deadline)
			if err != nil {
				return fmt.Errorf("invalid deadline format (use YYYY-MM-DD): %w", err)
			}
			createCmd.Deadline = &parsed
		}

		ctx := cmd.Context()
		item, err := app.CreateItemHandler.Handle(ctx, createCmd)
		if err != nil {
			return fmt.Errorf("failed to create work item: %w", err)
		}

		fmt.Printf("Work item created: %s\n", item.ID())
		fmt.Printf("  title: %s\n", item.Title())
		fmt.Printf("  estimate: %d minutes\n", item.EstimatedMinutes())
		if d := item.Deadline(); d != nil {
			fmt.Printf("  deadline: %s\n", d.Format("2006-01-02"))
		}

		return nil
	},
}

func init() {
	createCmd.Flags().IntVarP(&estimate, "estimate", "e", 30, "estimated duration in minutes")
	createCmd.Flags().StringVar(&deadline, "deadline", "", "deadline date (YYYY-MM-DD)")
}
