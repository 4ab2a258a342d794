package cli

import (
	"fmt"

	"github.com/echo-labs/echo-core/internal/cognition/application/queries"
	"github.com/spf13/cobra"
)

var opinionCmd = &cobra.Command{
	Use:   "opinion",
	Short: "Get a recommendation for right now",
	Long:  `Compute the pressure index from live signals and print the matching guidance. Nothing is persisted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CurrentOpinionHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		result, err := app.CurrentOpinionHandler.Handle(cmd.Context(), queries.CurrentOpinionQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to compute opinion: %w", err)
		}

		fmt.Printf("Focus: %s\n", result.Opinion.PrimaryFocus)
		fmt.Printf("  reason: %s\n", result.Opinion.Reason)
		for _, dont := range result.Opinion.ExplicitDoNot {
			fmt.Printf("  do not: %s\n", dont)
		}
		fmt.Printf("  window: %d-%d minutes\n",
			result.Opinion.SuggestedWindow.MinMinutes,
			result.Opinion.SuggestedWindow.MaxMinutes,
		)
		fmt.Printf("  confidence: %d%%\n", result.Opinion.Confidence)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(opinionCmd)
}
