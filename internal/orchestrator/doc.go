// Package orchestrator runs observations through the ingestion pipeline.
//
// A run moves through PROPOSE, VALIDATE, CRITIQUE (when the critic is
// enabled), APPLY and INDEX_UPDATE to FINALIZE. Validation can end a run
// early in REJECTED; a proposer failure, a validator system error or a
// store-wide apply failure ends it in FAILED. The critic and the index
// update only ever degrade to a warning step.
//
// Every executed stage appends one StepRecord to the run's trace, so the
// result alone tells which stage did what and why a run stopped:
//
//	res, err := orch.Run(ctx, "Marketing handles brand campaigns")
//	if err != nil {
//	    // res.State == StateFailed, res.Error names the stage
//	}
//	for _, step := range res.Trace {
//	    fmt.Println(step.Agent, step.Status, step.Latency)
//	}
//
// Success is true only when proposal, validation and apply all succeeded.
// Per-item apply errors are reported in res.Changes and do not fail a run.
package orchestrator
