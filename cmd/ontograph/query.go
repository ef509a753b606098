package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a question about the knowledge graph",
	Long: `Answer a natural-language question from the stored graph.

Relevant entities are found through the semantic index, or by keyword when
the index has nothing. Their relationships are the only context the model
sees, so questions the graph cannot answer get "I don't know".

Examples:
  ontograph query "Who manages the marketing department?"
  ontograph query -o json "What does Finance approve?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")
		if strings.TrimSpace(question) == "" {
			return internal.NewCLIError(internal.ExitError, "question is empty")
		}

		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close(context.WithoutCancel(ctx))

		ans, err := p.Answerer.Ask(ctx, question)
		if err != nil {
			code := internal.ExitRunFailed
			if types.HasCode(err, agents.ErrCodeEmptyQuestion) {
				code = internal.ExitError
			}
			return internal.WrapError(code, "query failed", err)
		}
		if globalFlags.IsJSON() {
			return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(ans)
		}
		return printAnswer(cmd, ans)
	},
}

func printAnswer(cmd *cobra.Command, ans *agents.Answer) error {
	w := cmd.OutOrStdout()
	f := internal.NewTextFormatter(w)
	theme := f.Theme()

	fmt.Fprintln(w, ans.Answer)
	if globalFlags.IsQuiet() {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", theme.LabelStyle.Render("Strategy:"), ans.Strategy)
	if len(ans.SimilarEntities) > 0 {
		fmt.Fprintf(w, "%s %s\n", theme.LabelStyle.Render("Matched:"), strings.Join(ans.SimilarEntities, ", "))
	}
	if len(ans.Context) == 0 {
		fmt.Fprintln(w, theme.MutedStyle.Render("No graph context."))
		return nil
	}

	rows := make([][]string, len(ans.Context))
	for i, n := range ans.Context {
		rels := make([]string, len(n.Relationships))
		for j, r := range n.Relationships {
			rels[j] = r.String()
		}
		rows[i] = []string{n.Label, n.Type, truncate(strings.Join(rels, "; "), 60)}
	}
	return f.PrintTable([]string{"entity", "type", "relationships"}, rows)
}
