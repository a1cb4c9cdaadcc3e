package main

import (
	"fmt"

	"projecthub/pkg/config"
	"projecthub/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "projecthub",
		Short:         "ProjectHub - a multi-user project and task tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to the YAML config file (falls back to CONFIG_PATH, then config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newAuditCmd(),
		newVersionCmd(),
	)
	return root
}

// loadRuntime reads the config and builds the process logger.
func loadRuntime(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetEnv("CONFIG_PATH", "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
