package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/pipeline"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Query the semantic index",
	Long: `Commands for the semantic index of applied entities.

The embedded backend keeps vectors in memory only, so searching it from a
separate process finds nothing. Use the sqlite backend to search what
earlier observe runs indexed.`,
}

var indexTopK int

var indexSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find entities similar to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		index, err := pipeline.OpenIndex(ctx, loadedConfig, nil)
		if err != nil {
			return internal.WrapError(internal.ExitStoreError, "failed to open semantic index", err)
		}
		defer index.Close()

		hits, err := index.Search(ctx, query, indexTopK)
		if types.HasCode(err, vector.ErrCodeIndexDisabled) {
			hits, err = []vector.SearchHit{}, nil
		}
		if err != nil {
			return internal.WrapError(internal.ExitStoreError, "search failed", err)
		}
		if globalFlags.IsJSON() {
			return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(hits)
		}

		f := internal.NewTextFormatter(cmd.OutOrStdout())
		if len(hits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), f.Theme().MutedStyle.Render("No matches."))
			return nil
		}
		rows := make([][]string, len(hits))
		for i, h := range hits {
			rows[i] = []string{h.ID, fmt.Sprintf("%.3f", h.Score), truncate(h.Text, 60)}
		}
		return f.PrintTable([]string{"id", "score", "text"}, rows)
	},
}

func init() {
	indexSearchCmd.Flags().IntVarP(&indexTopK, "top-k", "k", 5, "Number of results")
	indexCmd.AddCommand(indexSearchCmd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
