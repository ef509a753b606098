package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/config"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/pipeline"
	"github.com/MohammedAswathM/Ontology-System-Aswath/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "ontograph",
	Short: "ontograph - multi-agent knowledge graph ingestion",
	Long: `ontograph turns free-text observations into entities and relationships
in a knowledge graph. Each observation passes through a proposer, a
validator, an optional critic and an applier before the semantic index
is updated.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Set by loadConfig before any subcommand runs.
var (
	loadedConfig *config.Config
	homeDir      string
	configPath   string
)

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the home directory and config path and loads the
// configuration. Commands that must work without one skip loading.
func loadConfig(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags()
	if err != nil {
		return err
	}

	homeDir = flags.HomeDir
	if homeDir == "" {
		homeDir = config.DefaultHomeDir()
	}
	configPath = flags.ConfigFile
	if configPath == "" {
		configPath = config.DefaultConfigPath(homeDir)
	}

	if cmd == versionCmd || cmd == configInitCmd || cmd.Name() == "help" {
		return nil
	}

	loader := config.NewConfigLoader(config.NewValidator(), homeDir)
	var cfg *config.Config
	if flags.ConfigFile != "" {
		cfg, err = loader.Load(configPath)
	} else {
		cfg, err = loader.LoadWithDefaults(configPath)
	}
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to load configuration", err)
	}
	if flags.IsQuiet() {
		cfg.Logging.Level = "error"
	}
	loadedConfig = cfg
	return nil
}

// openPipeline builds the full pipeline from the loaded configuration.
func openPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	return pipeline.New(ctx, loadedConfig)
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.IsJSON() {
			return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(version.Info())
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return err
	},
}
