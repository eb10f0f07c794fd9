package task

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlab/sprint-api/internal/events"
)

// fakeSubmitter records submitted tasks.
type fakeSubmitter struct {
	tasks []Task
	err   error
}

func (s *fakeSubmitter) Submit(_ context.Context, t Task) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, t)
	return nil
}

func newPrewarmEvent(t *testing.T, userID uuid.UUID, day int) *events.TaskRequestEvent {
	t.Helper()
	event, err := events.NewTaskRequestEvent(TaskTypeDialoguePrewarm, map[string]interface{}{
		"user_id": userID,
		"day":     day,
	})
	require.NoError(t, err)
	return event
}

func TestHandleEventCreatesAndSubmitsTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	factory := NewDialoguePrewarmTaskFactory(&fakeWarmer{}, slog.Default())
	submitter := &fakeSubmitter{}
	handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

	err := handler.HandleEvent(context.Background(), newPrewarmEvent(t, userID, 2))
	require.NoError(t, err)

	require.Len(t, submitter.tasks, 1)
	assert.Equal(t, TaskTypeDialoguePrewarm, submitter.tasks[0].Type())
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	t.Parallel()

	factory := NewDialoguePrewarmTaskFactory(&fakeWarmer{}, slog.Default())
	submitter := &fakeSubmitter{}
	handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

	event, err := events.NewTaskRequestEvent("unrelated_type", map[string]int{"x": 1})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Empty(t, submitter.tasks)
}

func TestHandleEventRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	factory := NewDialoguePrewarmTaskFactory(&fakeWarmer{}, slog.Default())
	handler := NewTaskFactoryEventHandler(factory, &fakeSubmitter{}, slog.Default())

	event, err := events.NewTaskRequestEvent(TaskTypeDialoguePrewarm, map[string]string{
		"user_id": "not-a-uuid",
	})
	require.NoError(t, err)

	err = handler.HandleEvent(context.Background(), event)
	assert.ErrorContains(t, err, "failed to unmarshal payload")
}

func TestHandleEventPropagatesFactoryError(t *testing.T) {
	t.Parallel()

	factory := NewDialoguePrewarmTaskFactory(&fakeWarmer{}, slog.Default())
	handler := NewTaskFactoryEventHandler(factory, &fakeSubmitter{}, slog.Default())

	// Nil user ID fails task construction inside the factory.
	err := handler.HandleEvent(context.Background(), newPrewarmEvent(t, uuid.Nil, 2))
	assert.ErrorContains(t, err, "failed to create task")
}
