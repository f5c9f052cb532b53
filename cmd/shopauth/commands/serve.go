package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/you/shopauth/internal/app"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, _, err := opts.bootstrap(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			return app.Run(ctx, c)
		},
	}
}
