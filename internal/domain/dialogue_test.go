package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewDialogueEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	entry, err := NewDialogueEntry(userID, 1, "Welcome back!", "abc123", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, entry.UserID)
	}
	if entry.GeneratedAt.IsZero() {
		t.Error("Expected non-zero GeneratedAt time")
	}

	// Test invalid userID
	_, err = NewDialogueEntry(uuid.Nil, 1, "content", "hash", "model")
	if err != ErrDialogueUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrDialogueUserIDEmpty, err)
	}

	// Test empty content
	_, err = NewDialogueEntry(userID, 1, "", "hash", "model")
	if err != ErrDialogueContentEmpty {
		t.Errorf("Expected error %v, got %v", ErrDialogueContentEmpty, err)
	}

	// Test empty hash
	_, err = NewDialogueEntry(userID, 1, "content", "", "model")
	if err != ErrDialogueHashEmpty {
		t.Errorf("Expected error %v, got %v", ErrDialogueHashEmpty, err)
	}
}

func TestDialogueEntryIsFresh(t *testing.T) {
	t.Parallel()

	entry, err := NewDialogueEntry(uuid.New(), 2, "content", "h1", "model")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !entry.IsFresh("h1") {
		t.Error("Expected entry to be fresh for matching hash")
	}
	if entry.IsFresh("h2") {
		t.Error("Expected entry to be stale for differing hash")
	}
}
