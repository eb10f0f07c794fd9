package task

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWarmer records warm requests and optionally fails.
type fakeWarmer struct {
	calls []struct {
		userID uuid.UUID
		day    int
	}
	err error
}

func (w *fakeWarmer) WarmDialogue(_ context.Context, userID uuid.UUID, day int) error {
	w.calls = append(w.calls, struct {
		userID uuid.UUID
		day    int
	}{userID, day})
	return w.err
}

func TestNewDialoguePrewarmTaskValidation(t *testing.T) {
	t.Parallel()

	warmer := &fakeWarmer{}
	logger := slog.Default()
	userID := uuid.New()

	tests := []struct {
		name    string
		userID  uuid.UUID
		day     int
		warmer  DialogueWarmer
		logger  *slog.Logger
		wantErr error
	}{
		{"valid", userID, 1, warmer, logger, nil},
		{"day zero is valid", userID, 0, warmer, logger, nil},
		{"nil warmer", userID, 1, nil, logger, ErrNilDialogueWarmer},
		{"nil logger", userID, 1, warmer, nil, ErrNilLogger},
		{"empty user ID", uuid.Nil, 1, warmer, logger, ErrEmptyUserID},
		{"negative day", userID, -1, warmer, logger, ErrNegativeDay},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			created, err := NewDialoguePrewarmTask(tc.userID, tc.day, tc.warmer, tc.logger)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskTypeDialoguePrewarm, created.Type())
			assert.Equal(t, TaskStatusPending, created.Status())
			assert.NotEqual(t, uuid.Nil, created.ID())
		})
	}
}

func TestDialoguePrewarmTaskExecute(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	warmer := &fakeWarmer{}

	created, err := NewDialoguePrewarmTask(userID, 3, warmer, slog.Default())
	require.NoError(t, err)

	require.NoError(t, created.Execute(context.Background()))
	assert.Equal(t, TaskStatusCompleted, created.Status())
	require.Len(t, warmer.calls, 1)
	assert.Equal(t, userID, warmer.calls[0].userID)
	assert.Equal(t, 3, warmer.calls[0].day)
}

func TestDialoguePrewarmTaskExecuteFailure(t *testing.T) {
	t.Parallel()

	warmer := &fakeWarmer{err: errors.New("generation unavailable")}

	created, err := NewDialoguePrewarmTask(uuid.New(), 2, warmer, slog.Default())
	require.NoError(t, err)

	err = created.Execute(context.Background())
	assert.ErrorContains(t, err, "generation unavailable")
	assert.Equal(t, TaskStatusFailed, created.Status())
}

func TestDialoguePrewarmTaskExecuteCancelledContext(t *testing.T) {
	t.Parallel()

	warmer := &fakeWarmer{}
	created, err := NewDialoguePrewarmTask(uuid.New(), 1, warmer, slog.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = created.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, TaskStatusFailed, created.Status())
	assert.Empty(t, warmer.calls, "warmer is not called after cancellation")
}

func TestDialoguePrewarmTaskPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	created, err := NewDialoguePrewarmTask(userID, 4, &fakeWarmer{}, slog.Default())
	require.NoError(t, err)

	payload := created.Payload()
	assert.Contains(t, string(payload), userID.String())
	assert.Contains(t, string(payload), `"day":4`)
}
