package generation

import (
	"context"

	"github.com/google/uuid"
)

// LessonInput is the material a dialogue is generated from: the prompt
// template for the day plus the variables substituted into it (lesson
// topic, learner progress, tone). Two inputs with the same fingerprint
// produce interchangeable dialogues.
type LessonInput struct {
	// Day is the curriculum day this lesson belongs to.
	Day int

	// Template is the prompt template text for the day.
	Template string

	// Variables are the named values substituted into the template.
	Variables map[string]string
}

// ContentSource supplies the lesson input for a given user and day.
// Implementations range from static curriculum files to stores that fold
// the user's progress into the variables.
type ContentSource interface {
	// Lesson returns the lesson input for the given user and day.
	// Returns ErrLessonNotFound if the day has no lesson content.
	Lesson(ctx context.Context, userID uuid.UUID, day int) (*LessonInput, error)
}

// Generator defines the interface for generating dialogue from lesson
// input. This interface is the boundary between the application core and
// the external LLM service.
type Generator interface {
	// GenerateDialogue produces the dialogue text for the given lesson and
	// user. Returns an error from errors.go if generation fails; callers
	// use ErrTransientFailure to decide whether a retry is worthwhile.
	GenerateDialogue(ctx context.Context, lesson *LessonInput, userID uuid.UUID) (string, error)
}
