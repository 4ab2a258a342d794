package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var serveFn func(ctx context.Context) error

// SetServeFunc installs the function that runs the HTTP API. The CLI
// binary wires it from the container when a database is available.
func SetServeFunc(fn func(ctx context.Context) error) {
	serveFn = fn
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  `Serve the REST API until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveFn == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		return serveFn(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
