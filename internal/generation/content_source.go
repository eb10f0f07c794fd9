package generation

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// FileContentSource serves lesson input from a prompt template file and a
// fixed list of per-day topics. The template is read once at construction;
// editing it requires a restart, which also rotates every cached dialogue
// fingerprint.
type FileContentSource struct {
	template string
	topics   []string
}

// NewFileContentSource creates a content source backed by the template at
// templatePath with one topic per curriculum day.
func NewFileContentSource(templatePath string, topics []string) (*FileContentSource, error) {
	if templatePath == "" {
		return nil, fmt.Errorf("%w: template path cannot be empty", ErrInvalidConfig)
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: at least one topic is required", ErrInvalidConfig)
	}

	templateContent, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			ErrInvalidConfig, templatePath, err)
	}

	return &FileContentSource{
		template: string(templateContent),
		topics:   topics,
	}, nil
}

// Ensure FileContentSource implements ContentSource interface
var _ ContentSource = (*FileContentSource)(nil)

// Lesson implements ContentSource.Lesson
func (s *FileContentSource) Lesson(_ context.Context, _ uuid.UUID, day int) (*LessonInput, error) {
	if day < 0 || day >= len(s.topics) {
		return nil, fmt.Errorf("%w: day %d", ErrLessonNotFound, day)
	}

	return &LessonInput{
		Day:      day,
		Template: s.template,
		Variables: map[string]string{
			"day":   strconv.Itoa(day),
			"topic": s.topics[day],
		},
	}, nil
}
