package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/events"
)

const verboseBufferSize = 256

// SetupVerbose streams pipeline events from bus to w until the returned
// cleanup is called. Cleanup drains what was already delivered before
// returning, so every event published before it is written.
//
// Usage:
//
//	cleanup := SetupVerbose(ctx, p.Events, cmd.ErrOrStderr(), false)
//	defer cleanup()
func SetupVerbose(ctx context.Context, bus events.EventBus, w io.Writer, jsonOutput bool) func() {
	if bus == nil {
		return func() {}
	}

	ch, unsubscribe := bus.Subscribe(context.WithoutCancel(ctx), events.Filter{}, verboseBufferSize)
	theme := DefaultTheme()
	encoder := json.NewEncoder(w)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range ch {
			if jsonOutput {
				_ = encoder.Encode(ev)
				continue
			}
			_, _ = fmt.Fprintln(w, FormatEvent(theme, ev))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			wg.Wait()
		})
	}
}

// FormatEvent renders one event as a single line.
func FormatEvent(theme *Theme, ev events.Event) string {
	prefix := theme.MutedStyle.Render(fmt.Sprintf("[%s] %s", ev.Timestamp.Format("15:04:05.000"), shortID(ev.RunID)))

	switch p := ev.Payload.(type) {
	case events.RunStartedPayload:
		return fmt.Sprintf("%s %s fingerprint=%s", prefix, ev.Type, p.Fingerprint)
	case events.StagePayload:
		line := fmt.Sprintf("%s %-13s %s %s", prefix, ev.Agent, theme.Status(p.Status), p.Latency)
		if p.Error != "" {
			line += " " + theme.MutedStyle.Render(p.Error)
		}
		return line
	case events.RunFinishedPayload:
		line := fmt.Sprintf("%s %s %s %s", prefix, ev.Type, theme.Status(p.State), p.Latency)
		switch {
		case p.Reason != "":
			line += " reason=" + p.Reason
		case p.Error != "":
			line += " error=" + p.Error
		}
		return line
	default:
		return fmt.Sprintf("%s %s", prefix, ev.Type)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
