package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
)

// GlobalFlags holds global flags available to all commands
type GlobalFlags struct {
	Verbose      bool
	Quiet        bool
	OutputFormat string
	ConfigFile   string
	HomeDir      string
}

var globalFlags = &GlobalFlags{}

// RegisterGlobalFlags registers persistent flags on the root command
func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Stream pipeline events to stderr")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "text", "Output format (text|json)")
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "Path to config file (default: $ONTOGRAPH_HOME/config.yaml)")
	cmd.PersistentFlags().StringVar(&globalFlags.HomeDir, "home", "", "ontograph home directory (default: ~/.ontograph)")
}

// ParseGlobalFlags validates the global flags.
func ParseGlobalFlags() (*GlobalFlags, error) {
	format := internal.OutputFormat(globalFlags.OutputFormat)
	if format != internal.FormatText && format != internal.FormatJSON {
		return nil, internal.NewCLIError(internal.ExitError,
			fmt.Sprintf("invalid output format %q (must be text or json)", globalFlags.OutputFormat))
	}
	if globalFlags.Verbose && globalFlags.Quiet {
		return nil, internal.NewCLIError(internal.ExitError, "--verbose and --quiet cannot be used together")
	}
	return globalFlags, nil
}

// IsVerbose reports whether pipeline events should be streamed.
func (f *GlobalFlags) IsVerbose() bool {
	return f.Verbose && !f.Quiet
}

// IsQuiet reports whether only results should be printed.
func (f *GlobalFlags) IsQuiet() bool {
	return f.Quiet
}

// IsJSON reports whether output should be JSON.
func (f *GlobalFlags) IsJSON() bool {
	return internal.OutputFormat(f.OutputFormat) == internal.FormatJSON
}
