package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	t.Parallel()

	lesson := &LessonInput{
		Day:      2,
		Template: "Teach {{topic}} at {{level}} level.",
		Variables: map[string]string{
			"topic": "goroutines",
			"level": "intermediate",
		},
	}

	assert.Equal(t, lesson.Fingerprint(), lesson.Fingerprint())
}

func TestFingerprintIgnoresVariableInsertionOrder(t *testing.T) {
	t.Parallel()

	a := &LessonInput{
		Template:  "t",
		Variables: map[string]string{"x": "1", "y": "2", "z": "3"},
	}
	b := &LessonInput{
		Template:  "t",
		Variables: map[string]string{"z": "3", "x": "1", "y": "2"},
	}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintChangesWithTemplate(t *testing.T) {
	t.Parallel()

	a := &LessonInput{Template: "original", Variables: map[string]string{"k": "v"}}
	b := &LessonInput{Template: "revised", Variables: map[string]string{"k": "v"}}

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintChangesWithVariables(t *testing.T) {
	t.Parallel()

	a := &LessonInput{Template: "t", Variables: map[string]string{"tone": "formal"}}
	b := &LessonInput{Template: "t", Variables: map[string]string{"tone": "casual"}}

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintSeparatesAdjacentFields(t *testing.T) {
	t.Parallel()

	a := &LessonInput{Template: "t", Variables: map[string]string{"ab": "c"}}
	b := &LessonInput{Template: "t", Variables: map[string]string{"a": "bc"}}

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
