package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject/di"
	"github.com/Ngone6325/autoinject/internal/config"
	"github.com/Ngone6325/autoinject/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	root     string
	envFiles []string
	logLevel string

	// services holds the configuration and logger for subcommands.
	services *di.Container
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "autoinject",
		Short:        "Generate autoinject module files for the packages of a Go module",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger().Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", ".", "directory holding go.mod")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newGenerateCommand(opts),
		newInspectCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// setup loads the configuration and registers it and the logger in a fresh container.
func (o *rootOptions) setup() error {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}

	o.services = di.NewContainer(di.WithLogger(logger))
	if err := o.services.RegisterInstance(cfg, di.Singleton); err != nil {
		return fmt.Errorf("register config: %w", err)
	}
	if err := o.services.RegisterInstance(logger, di.Singleton); err != nil {
		return fmt.Errorf("register logger: %w", err)
	}
	return nil
}

func (o *rootOptions) logger() *zap.Logger {
	if o.services == nil {
		return zap.NewNop()
	}
	logger, err := di.Resolve[*zap.Logger](o.services)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// no configuration needed
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autoinject %s\n", version)
		},
	}
}
