package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowboard/internal/cli"
	"github.com/aretw0/flowboard/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowboard",
	Short: "Flowboard is a headless editor for pipeline graphs",
	Long: `Flowboard keeps a pipeline editor's graph on the server: typed nodes, derived
handles and edges, submitted to a validator that reports whether the pipeline is a DAG.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with FLOWBOARD_* variables")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig resolves the configuration for cmd. Explicit flags win over every other layer.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Options{File: file, EnvFile: envFile})
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	return cfg, config.Validate(cfg)
}

// buildApp loads the configuration and wires the application objects.
func buildApp(cmd *cobra.Command, mutate func(*config.Config), opts ...cli.AppOption) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cli.Build(cfg, opts...)
}
