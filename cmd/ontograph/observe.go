package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/orchestrator"
)

type observeOptions struct {
	file        string
	concurrency int
	reset       bool
}

var observeFlags observeOptions

var observeCmd = &cobra.Command{
	Use:   "observe [observation...]",
	Short: "Run observations through the ingestion pipeline",
	Long: `Run one or more observations through the pipeline and print each run's
trace, critique and applied changes, followed by the pipeline metrics.

Each argument is one observation. With --file, every non-empty line of the
file that does not start with '#' is an observation. With neither, lines
are read from stdin when it is not a terminal.

Examples:
  ontograph observe "Marketing handles brand campaigns"
  ontograph observe --file observations.txt --concurrency 4
  cat notes.txt | ontograph observe -o json`,
	RunE: runObserve,
}

func init() {
	observeCmd.Flags().StringVarP(&observeFlags.file, "file", "f", "", "Read observations from a file, one per line")
	observeCmd.Flags().IntVarP(&observeFlags.concurrency, "concurrency", "c", 0, "Observations processed at once (default: pipeline.concurrency)")
	observeCmd.Flags().BoolVar(&observeFlags.reset, "reset", false, "Clear pipeline statistics and the proposal cache first")
}

func runObserve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	observations, err := collectObservations(cmd, args)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return internal.NewCLIError(internal.ExitError, "no observations given (pass text, --file, or pipe lines on stdin)")
	}

	concurrency := observeFlags.concurrency
	if concurrency <= 0 {
		concurrency = loadedConfig.Pipeline.Concurrency
	}

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close(context.WithoutCancel(ctx))

	if observeFlags.reset {
		p.Orchestrator.Reset()
	}

	stopVerbose := func() {}
	if globalFlags.IsVerbose() {
		stopVerbose = internal.SetupVerbose(ctx, p.Events, cmd.ErrOrStderr(), globalFlags.IsJSON())
	}

	results := runAll(ctx, p.Orchestrator, observations, concurrency)
	stopVerbose()

	if err := printObserveResults(cmd.OutOrStdout(), results, p.Orchestrator.Metrics()); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	if failed > 0 {
		return internal.NewCLIError(internal.ExitRunFailed,
			fmt.Sprintf("%d of %d observations did not succeed", failed, len(results)))
	}
	return nil
}

// runAll runs every observation, at most limit at a time, and returns the
// results in input order. A failed run does not stop the others.
func runAll(ctx context.Context, orch *orchestrator.Orchestrator, observations []string, limit int) []*orchestrator.RunResult {
	results := make([]*orchestrator.RunResult, len(observations))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, obs := range observations {
		g.Go(func() error {
			// The error is also recorded in the result.
			results[i], _ = orch.Run(ctx, obs)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// collectObservations reads observations from args, --file or stdin, in
// that order of preference.
func collectObservations(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		out := make([]string, 0, len(args))
		for _, a := range args {
			if s := strings.TrimSpace(a); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}

	if observeFlags.file != "" {
		f, err := os.Open(observeFlags.file)
		if err != nil {
			return nil, internal.WrapError(internal.ExitError, "failed to open observation file", err)
		}
		defer f.Close()
		return readObservations(f)
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, nil
	}
	return readObservations(in)
}

// readObservations returns the non-empty lines of r that are not comments.
func readObservations(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, internal.WrapError(internal.ExitError, "failed to read observations", err)
	}
	return out, nil
}
