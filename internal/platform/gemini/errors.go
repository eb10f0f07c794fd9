package gemini

import "errors"

// Errors specific to the Gemini dialogue generator.
var (
	// ErrNilLesson is returned when GenerateDialogue is called without a lesson
	ErrNilLesson = errors.New("lesson input cannot be nil")

	// ErrEmptyTemplate is returned when the lesson carries no template text
	ErrEmptyTemplate = errors.New("lesson template cannot be empty")

	// ErrNilLogger is returned when the generator is constructed without a logger
	ErrNilLogger = errors.New("logger cannot be nil")
)
