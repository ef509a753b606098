package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		flags    GlobalFlags
		wantErr  string
		verbose  bool
		json     bool
		exitCode int
	}{
		{
			name:  "defaults",
			flags: GlobalFlags{OutputFormat: "text"},
		},
		{
			name:    "json verbose",
			flags:   GlobalFlags{OutputFormat: "json", Verbose: true},
			verbose: true,
			json:    true,
		},
		{
			name:     "unknown format",
			flags:    GlobalFlags{OutputFormat: "yaml"},
			wantErr:  "invalid output format",
			exitCode: internal.ExitError,
		},
		{
			name:     "verbose and quiet",
			flags:    GlobalFlags{OutputFormat: "text", Verbose: true, Quiet: true},
			wantErr:  "cannot be used together",
			exitCode: internal.ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := *globalFlags
			t.Cleanup(func() { *globalFlags = saved })
			*globalFlags = tt.flags

			flags, err := ParseGlobalFlags()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var cliErr *internal.CLIError
				require.ErrorAs(t, err, &cliErr)
				assert.Equal(t, tt.exitCode, cliErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.verbose, flags.IsVerbose())
			assert.Equal(t, tt.json, flags.IsJSON())
		})
	}
}

func TestGlobalFlags_QuietSilencesVerbose(t *testing.T) {
	f := &GlobalFlags{Verbose: true, Quiet: true}
	assert.False(t, f.IsVerbose())
	assert.True(t, f.IsQuiet())
}
