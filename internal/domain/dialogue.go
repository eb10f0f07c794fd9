package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DialogueEntry-specific validation errors.
var (
	// ErrDialogueUserIDEmpty is returned when a dialogue entry's user ID is empty or nil.
	ErrDialogueUserIDEmpty = errors.New("dialogue user ID cannot be empty")

	// ErrDialogueContentEmpty is returned when a dialogue entry's content is empty.
	ErrDialogueContentEmpty = errors.New("dialogue content cannot be empty")

	// ErrDialogueHashEmpty is returned when a dialogue entry's content hash is empty.
	ErrDialogueHashEmpty = errors.New("dialogue content hash cannot be empty")
)

// DialogueEntry is a cached AI-generated lesson dialogue for one (user, day)
// pair. ContentHash fingerprints the lesson inputs the content was generated
// from; a mismatch against the freshly computed fingerprint means the entry
// is stale and must be regenerated. At most one live entry exists per key.
type DialogueEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	Day         int       `json:"day"`
	Content     string    `json:"content"`
	ContentHash string    `json:"content_hash"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewDialogueEntry creates a DialogueEntry with the generation timestamp set
// to now. Returns an error if validation fails.
func NewDialogueEntry(userID uuid.UUID, day int, content, contentHash, model string) (*DialogueEntry, error) {
	entry := &DialogueEntry{
		UserID:      userID,
		Day:         day,
		Content:     content,
		ContentHash: contentHash,
		Model:       model,
		GeneratedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the DialogueEntry has valid data.
// Returns an error if any field fails validation.
func (d *DialogueEntry) Validate() error {
	if d.UserID == uuid.Nil {
		return ErrDialogueUserIDEmpty
	}

	if d.Day < 0 {
		return ErrNegativeDay
	}

	if d.Content == "" {
		return ErrDialogueContentEmpty
	}

	if d.ContentHash == "" {
		return ErrDialogueHashEmpty
	}

	return nil
}

// IsFresh reports whether the entry was generated from inputs with the given
// fingerprint. A false result means the lesson content changed and the entry
// must be invalidated and regenerated.
func (d *DialogueEntry) IsFresh(contentHash string) bool {
	return d.ContentHash == contentHash
}
