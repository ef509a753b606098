// Package events provides the in-process bus the orchestrator publishes
// run lifecycle notifications on.
//
// Every run publishes run.started, one stage.completed per recorded stage,
// and exactly one terminal event: run.completed, run.rejected or run.failed.
// Subscribers filter by type, run id or agent:
//
//	ch, cleanup := bus.Subscribe(ctx, events.Filter{Types: []events.EventType{events.EventStageCompleted}}, 0)
//	defer cleanup()
//	for ev := range ch {
//		p := ev.Payload.(events.StagePayload)
//		fmt.Println(ev.Agent, p.Status)
//	}
//
// Delivery is best effort. A subscriber whose buffer is full misses events;
// the publisher never waits.
package events
