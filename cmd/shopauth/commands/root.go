package commands

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/you/shopauth/internal/app"
	"github.com/you/shopauth/internal/config"
	"github.com/you/shopauth/internal/logging"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "shopauth",
		Short:         "Session authentication for the storefront",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file (default $SHOPAUTH_CONFIG or "+config.DefaultPath+")")

	// Add subcommands
	rootCmd.AddCommand(
		newServeCommand(opts),
		newSweepCommand(opts),
		newUserCommand(opts),
	)

	return rootCmd
}

// bootstrap loads config and builds the container shared by every command
func (o *rootOptions) bootstrap(ctx context.Context) (*app.Container, *logrus.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return c, log, nil
}
