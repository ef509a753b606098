package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/pipeline"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect and prepare the knowledge store",
	Long: `Commands that talk to the knowledge store directly, without running the
agent pipeline. They need graph connection settings but no LLM credentials.`,
}

var graphInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the knowledge store schema constraints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store graphrag.KnowledgeStore) error {
			if err := store.InitializeOntology(ctx); err != nil {
				return internal.WrapError(internal.ExitStoreError, "failed to initialize ontology", err)
			}
			if globalFlags.IsJSON() {
				return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintSuccess("ontology initialized")
			}
			return internal.NewTextFormatter(cmd.OutOrStdout()).PrintSuccess("ontology initialized")
		})
	},
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node and relationship counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store graphrag.KnowledgeStore) error {
			stats, err := store.Stats(ctx)
			if err != nil {
				return internal.WrapError(internal.ExitStoreError, "failed to read graph stats", err)
			}
			if globalFlags.IsJSON() {
				return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(stats)
			}

			f := internal.NewTextFormatter(cmd.OutOrStdout())
			theme := f.Theme()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %d\n", theme.LabelStyle.Render("Nodes:"), stats.TotalNodes)
			fmt.Fprintf(w, "%s %d\n", theme.LabelStyle.Render("Relationships:"), stats.TotalRelationships)
			if len(stats.NodeTypes) == 0 {
				fmt.Fprintln(w, theme.MutedStyle.Render("No node types yet."))
				return nil
			}
			rows := make([][]string, len(stats.NodeTypes))
			for i, t := range stats.NodeTypes {
				rows[i] = []string{t}
			}
			return f.PrintTable([]string{"type"}, rows)
		})
	},
}

var graphContextLimit int

var graphContextCmd = &cobra.Command{
	Use:   "context",
	Short: "List the most recently updated entities",
	Long: `List the entities the validator and critic would see as graph context,
most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := graphContextLimit
		if limit <= 0 {
			limit = loadedConfig.Pipeline.FetchLimit
		}
		return withStore(cmd, func(ctx context.Context, store graphrag.KnowledgeStore) error {
			entities, err := store.RecentContext(ctx, limit)
			if err != nil {
				return internal.WrapError(internal.ExitStoreError, "failed to read graph context", err)
			}

			rows := make([][]string, len(entities))
			for i, e := range entities {
				rows[i] = []string{e.ID, e.Label, e.Type}
			}
			return internal.NewFormatter(internal.OutputFormat(globalFlags.OutputFormat), cmd.OutOrStdout()).
				PrintTable([]string{"id", "label", "type"}, rows)
		})
	},
}

var graphExportLimit int

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the graph as nodes and edges",
	Long: `Print up to --limit nodes, ordered by id, with the relationships leaving
them. JSON output is {"nodes": [...], "edges": [...]}, ready for a graph
visualization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store graphrag.KnowledgeStore) error {
			view, err := store.Export(ctx, graphExportLimit)
			if err != nil {
				return internal.WrapError(internal.ExitStoreError, "failed to export graph", err)
			}
			if globalFlags.IsJSON() {
				return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(view)
			}

			f := internal.NewTextFormatter(cmd.OutOrStdout())
			w := cmd.OutOrStdout()
			if len(view.Nodes) == 0 {
				fmt.Fprintln(w, f.Theme().MutedStyle.Render("Graph is empty."))
				return nil
			}
			nodes := make([][]string, len(view.Nodes))
			for i, n := range view.Nodes {
				nodes[i] = []string{n.ID, n.Label, n.Type}
			}
			if err := f.PrintTable([]string{"id", "label", "type"}, nodes); err != nil {
				return err
			}
			if len(view.Edges) == 0 {
				return nil
			}
			fmt.Fprintln(w)
			edges := make([][]string, len(view.Edges))
			for i, e := range view.Edges {
				edges[i] = []string{e.From, e.Label, e.To}
			}
			return f.PrintTable([]string{"from", "relationship", "to"}, edges)
		})
	},
}

var graphHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the knowledge store connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store graphrag.KnowledgeStore) error {
			status := store.Health(ctx)
			if globalFlags.IsJSON() {
				if err := internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(status); err != nil {
					return err
				}
			} else {
				f := internal.NewTextFormatter(cmd.OutOrStdout())
				msg := fmt.Sprintf("%s %s", loadedConfig.Graph.Backend, status.State)
				if status.Message != "" {
					msg += ": " + status.Message
				}
				if status.State == types.HealthStateHealthy {
					_ = f.PrintSuccess(msg)
				} else {
					_ = f.PrintError(msg)
				}
			}
			if status.State == types.HealthStateUnhealthy {
				return internal.NewCLIError(internal.ExitStoreError, "knowledge store is unhealthy")
			}
			return nil
		})
	},
}

func init() {
	graphContextCmd.Flags().IntVarP(&graphContextLimit, "limit", "n", 0, "Maximum entities to list (default: pipeline.context_fetch_limit)")

	graphExportCmd.Flags().IntVarP(&graphExportLimit, "limit", "n", 100, "Maximum nodes to export")

	graphCmd.AddCommand(graphInitCmd)
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphContextCmd)
	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphHealthCmd)
}

// withStore opens the configured knowledge store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store graphrag.KnowledgeStore) error) error {
	ctx := cmd.Context()

	logger, closeLog, err := pipeline.NewLogger(loadedConfig.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := graphrag.Open(ctx, loadedConfig.Graph, logger, nil)
	if err != nil {
		return internal.WrapError(internal.ExitStoreError, "failed to open knowledge store", err)
	}
	defer store.Close(context.WithoutCancel(ctx))

	return fn(ctx, store)
}
