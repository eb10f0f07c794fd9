package task

import (
	"log/slog"

	"github.com/google/uuid"
)

// DialoguePrewarmTaskFactory creates DialoguePrewarmTask instances with
// their dependencies already bound, so event handlers only need the user
// and day from the event payload.
type DialoguePrewarmTaskFactory struct {
	warmer DialogueWarmer
	logger *slog.Logger
}

// NewDialoguePrewarmTaskFactory creates a new task factory.
func NewDialoguePrewarmTaskFactory(
	warmer DialogueWarmer,
	logger *slog.Logger,
) *DialoguePrewarmTaskFactory {
	return &DialoguePrewarmTaskFactory{
		warmer: warmer,
		logger: logger,
	}
}

// CreateTask creates a new DialoguePrewarmTask for the given user and day.
func (f *DialoguePrewarmTaskFactory) CreateTask(userID uuid.UUID, day int) (Task, error) {
	return NewDialoguePrewarmTask(userID, day, f.warmer, f.logger)
}
