package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures every event it receives and optionally fails.
type recordingHandler struct {
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestNewTaskRequestEvent(t *testing.T) {
	t.Parallel()

	payload := struct {
		UserID string `json:"user_id"`
		Day    int    `json:"day"`
	}{UserID: "abc", Day: 2}

	event, err := NewTaskRequestEvent("dialogue_prewarm", payload)
	require.NoError(t, err)

	assert.Equal(t, "dialogue_prewarm", event.Type)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded struct {
		UserID string `json:"user_id"`
		Day    int    `json:"day"`
	}
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewTaskRequestEventRejectsUnmarshalablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewTaskRequestEvent("dialogue_prewarm", make(chan int))
	assert.Error(t, err)
}

func TestEmitEventDeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.Default())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event, err := NewTaskRequestEvent("dialogue_prewarm", map[string]int{"day": 1})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestEmitEventContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.Default())
	failing := &recordingHandler{err: errors.New("handler boom")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event, err := NewTaskRequestEvent("dialogue_prewarm", map[string]int{"day": 1})
	require.NoError(t, err)

	err = emitter.EmitEvent(context.Background(), event)
	assert.ErrorContains(t, err, "handler boom")
	assert.Len(t, healthy.events, 1, "healthy handler still receives the event")
}

func TestEmitEventWithoutHandlersIsNoOp(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.Default())
	event, err := NewTaskRequestEvent("dialogue_prewarm", map[string]int{"day": 1})
	require.NoError(t, err)

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}
