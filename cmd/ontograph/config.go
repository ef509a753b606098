package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	Long: `Print the configuration after defaults, the config file and environment
variables have been applied. API keys and passwords are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := loadedConfig.Redacted()
		if globalFlags.IsJSON() {
			return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(redacted)
		}
		out, err := yaml.Marshal(redacted)
		if err != nil {
			return internal.WrapError(internal.ExitError, "failed to encode configuration", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to the config path
($ONTOGRAPH_HOME/config.yaml unless --config is given). An existing file
is kept unless --force is set.

Secrets are not written. Set GEMINI_API_KEY and NEO4J_PASSWORD in the
environment, or reference them as ${VAR} in the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configInitForce {
			return internal.NewCLIError(internal.ExitConfigError,
				fmt.Sprintf("config file %s already exists (use --force to overwrite)", configPath))
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return internal.WrapError(internal.ExitConfigError, "failed to check config file", err)
		}

		cfg := config.DefaultConfigAt(homeDir)
		cfg.LLM.APIKey = "${" + config.EnvGeminiAPIKey + "}"
		cfg.Graph.Password = "${" + config.EnvNeo4jPassword + "}"

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return internal.WrapError(internal.ExitConfigError, "failed to encode configuration", err)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return internal.WrapError(internal.ExitConfigError, "failed to create config directory", err)
		}
		if err := os.WriteFile(configPath, out, 0o600); err != nil {
			return internal.WrapError(internal.ExitConfigError, "failed to write config file", err)
		}

		if globalFlags.IsJSON() {
			return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(map[string]string{
				"status": "success",
				"path":   configPath,
			})
		}
		return internal.NewTextFormatter(cmd.OutOrStdout()).PrintSuccess("wrote " + configPath)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
