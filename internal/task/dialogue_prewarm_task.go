package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNilDialogueWarmer = errors.New("dialogue warmer cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrNegativeDay       = errors.New("day cannot be negative")
)

// DialogueWarmer defines the interface the prewarm task needs from the
// dialogue service: generate and cache the dialogue for a day so the entry
// is warm before the user opens it.
type DialogueWarmer interface {
	WarmDialogue(ctx context.Context, userID uuid.UUID, day int) error
}

// dialoguePrewarmPayload represents the serialized data stored in the task
type dialoguePrewarmPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Day    int       `json:"day"`
}

// DialoguePrewarmTask implements the Task interface for pre-generating the
// dialogue of a newly unlocked day.
type DialoguePrewarmTask struct {
	id     uuid.UUID
	userID uuid.UUID
	day    int
	warmer DialogueWarmer
	logger *slog.Logger
	status TaskStatus
}

// NewDialoguePrewarmTask creates a new dialogue prewarm task for the given
// user and day.
func NewDialoguePrewarmTask(
	userID uuid.UUID,
	day int,
	warmer DialogueWarmer,
	logger *slog.Logger,
) (*DialoguePrewarmTask, error) {
	if warmer == nil {
		return nil, ErrNilDialogueWarmer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if day < 0 {
		return nil, ErrNegativeDay
	}

	return &DialoguePrewarmTask{
		id:     uuid.New(),
		userID: userID,
		day:    day,
		warmer: warmer,
		logger: logger.With("task_type", TaskTypeDialoguePrewarm, "user_id", userID, "day", day),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *DialoguePrewarmTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *DialoguePrewarmTask) Type() string {
	return TaskTypeDialoguePrewarm
}

// Payload returns the task data as a byte slice
func (t *DialoguePrewarmTask) Payload() []byte {
	payload := dialoguePrewarmPayload{
		UserID: t.userID,
		Day:    t.day,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *DialoguePrewarmTask) Status() TaskStatus {
	return t.status
}

// Execute generates and caches the day's dialogue. Prewarming is best
// effort from the user's perspective; a failure here only means the entry
// is generated lazily when the day is opened.
func (t *DialoguePrewarmTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting dialogue prewarm task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	if err := t.warmer.WarmDialogue(ctx, t.userID, t.day); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to prewarm dialogue", "error", err)
		return fmt.Errorf("failed to prewarm dialogue: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("dialogue prewarm task completed successfully")
	return nil
}

// Ensure DialoguePrewarmTask implements the Task interface
var _ Task = (*DialoguePrewarmTask)(nil)
