package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/events"
)

func publishRun(t *testing.T, bus events.EventBus) {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, ev := range []events.Event{
		{Type: events.EventRunStarted, Timestamp: at, RunID: "0f8e2c4a-run", Payload: events.RunStartedPayload{Fingerprint: "abc123"}},
		{Type: events.EventStageCompleted, Timestamp: at, RunID: "0f8e2c4a-run", Agent: "Proposer",
			Payload: events.StagePayload{Status: "success", Latency: 120 * time.Millisecond}},
		{Type: events.EventRunRejected, Timestamp: at, RunID: "0f8e2c4a-run",
			Payload: events.RunFinishedPayload{State: "REJECTED", Reason: "Duplicate detected"}},
	} {
		require.NoError(t, bus.Publish(ctx, ev))
	}
}

func TestSetupVerbose_Text(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()
	var buf bytes.Buffer

	cleanup := SetupVerbose(context.Background(), bus, &buf, false)
	publishRun(t, bus)
	cleanup()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "run.started fingerprint=abc123")
	assert.Contains(t, lines[0], "0f8e2c4a")
	assert.NotContains(t, lines[0], "0f8e2c4a-run", "run ids are shortened")
	assert.Contains(t, lines[1], "Proposer")
	assert.Contains(t, lines[1], "success")
	assert.Contains(t, lines[1], "120ms")
	assert.Contains(t, lines[2], "REJECTED")
	assert.Contains(t, lines[2], "reason=Duplicate detected")
}

func TestSetupVerbose_JSON(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()
	var buf bytes.Buffer

	cleanup := SetupVerbose(context.Background(), bus, &buf, true)
	publishRun(t, bus)
	cleanup()

	dec := json.NewDecoder(&buf)
	n := 0
	for dec.More() {
		var ev map[string]any
		require.NoError(t, dec.Decode(&ev))
		n++
	}
	assert.Equal(t, 3, n)
}

func TestSetupVerbose_NilBusAndDoubleCleanup(t *testing.T) {
	SetupVerbose(context.Background(), nil, &bytes.Buffer{}, false)()

	bus := events.NewEventBus()
	cleanup := SetupVerbose(context.Background(), bus, &bytes.Buffer{}, false)
	require.NoError(t, bus.Close())
	cleanup()
	cleanup()
}
