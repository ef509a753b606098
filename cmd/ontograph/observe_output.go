package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/cmd/ontograph/internal"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/orchestrator"
)

// observeReport is the JSON shape of `ontograph observe -o json`.
type observeReport struct {
	Results []*orchestrator.RunResult `json:"results"`
	Metrics orchestrator.Snapshot     `json:"metrics"`
}

func printObserveResults(w io.Writer, results []*orchestrator.RunResult, snapshot orchestrator.Snapshot) error {
	if globalFlags.IsJSON() {
		return internal.NewJSONFormatter(w).PrintJSON(observeReport{Results: results, Metrics: snapshot})
	}

	f := internal.NewTextFormatter(w)
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := printRun(w, f, res); err != nil {
			return err
		}
	}
	if globalFlags.IsQuiet() {
		return nil
	}
	fmt.Fprintln(w)
	return printSnapshot(w, f, snapshot)
}

func printRun(w io.Writer, f *internal.TextFormatter, res *orchestrator.RunResult) error {
	theme := f.Theme()

	fmt.Fprintf(w, "%s %s  %s\n",
		theme.TitleStyle.Render("Run"),
		res.RunID,
		theme.Status(res.State.String()))
	fmt.Fprintf(w, "%s %s\n", theme.LabelStyle.Render("Observation:"), res.Observation)

	if len(res.Trace) > 0 {
		rows := make([][]string, 0, len(res.Trace))
		for _, step := range res.Trace {
			rows = append(rows, []string{
				step.Agent,
				theme.Status(step.Status.String()),
				formatLatency(step.Latency),
				step.Error,
			})
		}
		if err := f.PrintTable([]string{"agent", "status", "latency", "error"}, rows); err != nil {
			return err
		}
	}

	if c := res.Critique; c != nil {
		line := fmt.Sprintf("%s %s (completeness %.1f, specificity %.1f, utility %.1f, structure %.1f)",
			theme.LabelStyle.Render("Quality:"),
			c.OverallScore,
			c.Dimensions.Completeness, c.Dimensions.Specificity, c.Dimensions.Utility, c.Dimensions.Structure)
		if c.Degraded {
			line += " " + theme.MutedStyle.Render("[degraded]")
		}
		fmt.Fprintln(w, line)
		if len(c.Improvements) > 0 {
			fmt.Fprintf(w, "%s %s\n", theme.LabelStyle.Render("Improvements:"), strings.Join(c.Improvements, "; "))
		}
	}

	if ch := res.Changes; ch != nil {
		fmt.Fprintf(w, "%s %d entities, %d relationships\n",
			theme.LabelStyle.Render("Applied:"), ch.EntitiesApplied, ch.RelationshipsApplied)
		for _, e := range ch.Errors {
			fmt.Fprintf(w, "  %s %s\n", theme.StatusWarning.Render(itemName(e.Entity, e.Relationship)), e.Error)
		}
	}
	if idx := res.Index; idx != nil {
		fmt.Fprintf(w, "%s %d entities\n", theme.LabelStyle.Render("Indexed:"), idx.Indexed)
		for _, e := range idx.Errors {
			fmt.Fprintf(w, "  %s %s\n", theme.StatusWarning.Render(itemName(e.Entity, e.Relationship)), e.Error)
		}
	}

	switch {
	case res.Reason != "":
		fmt.Fprintf(w, "%s %s\n", theme.LabelStyle.Render("Reason:"), res.Reason)
	case res.Error != "":
		fmt.Fprintf(w, "%s %s\n", theme.LabelStyle.Render("Error:"), res.Error)
	}

	fmt.Fprintf(w, "%s %s, %s\n",
		theme.LabelStyle.Render("Latency:"),
		formatLatency(res.Run.TotalLatency),
		res.Run.ThroughputString())
	return nil
}

func printSnapshot(w io.Writer, f *internal.TextFormatter, s orchestrator.Snapshot) error {
	theme := f.Theme()
	sys := s.System

	fmt.Fprintln(w, theme.TitleStyle.Render("Pipeline metrics"))
	fmt.Fprintf(w, "%s %d runs, %d successful, %d failed (%d rejected), %.1f%% success, %.1fms avg\n",
		theme.LabelStyle.Render("System:"),
		sys.TotalOrchestrations, sys.Successful, sys.Failed, sys.Rejected, sys.SuccessRate, sys.AvgTotalLatencyMS)

	a := s.Agents
	rows := [][]string{
		{"Proposer", fmt.Sprint(a.Proposer.TotalRequests), fmt.Sprint(a.Proposer.Errors),
			stageLatency(a.StageLatencyMS, "Proposer"),
			fmt.Sprintf("cache hit rate %.1f%% (%d cached)", a.Proposer.CacheHitRate, a.Proposer.CacheSize)},
		{"Validator", fmt.Sprint(a.Validator.TotalValidations), fmt.Sprint(a.Validator.Errors),
			stageLatency(a.StageLatencyMS, "Validator"),
			fmt.Sprintf("approval rate %.1f%%", a.Validator.ApprovalRate)},
		{"Critic", fmt.Sprint(a.Critic.TotalCritiques), fmt.Sprint(a.Critic.Errors),
			stageLatency(a.StageLatencyMS, "Critic"),
			criticDetail(a.Critic.Enabled, a.Critic.AvgQualityScore)},
		{"Applier", fmt.Sprint(a.Applier.TotalApplies), fmt.Sprint(a.Applier.ItemErrors),
			stageLatency(a.StageLatencyMS, "Applier"),
			fmt.Sprintf("%d entities, %d relationships, %d indexed",
				a.Applier.EntitiesApplied, a.Applier.RelationshipsApplied, a.Applier.Indexed)},
	}
	return f.PrintTable([]string{"agent", "calls", "errors", "avg latency", "detail"}, rows)
}

func criticDetail(enabled bool, avg float64) string {
	if !enabled {
		return "disabled"
	}
	return fmt.Sprintf("avg quality %.1f", avg)
}

func stageLatency(m map[string]float64, agent string) string {
	v, ok := m[agent]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1fms", v)
}

func formatLatency(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func itemName(entity, relationship string) string {
	if entity != "" {
		return entity
	}
	return relationship
}
