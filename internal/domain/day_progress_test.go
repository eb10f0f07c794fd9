package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewDayProgress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	progress, err := NewDayProgress(userID, 0, DayStatusAvailable)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if progress.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if progress.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, progress.UserID)
	}

	if progress.Status != DayStatusAvailable {
		t.Errorf("Expected status available, got %s", progress.Status)
	}

	if progress.StartedAt != nil || progress.CompletedAt != nil {
		t.Error("Expected nil timestamps on a fresh record")
	}

	// Test invalid userID
	_, err = NewDayProgress(uuid.Nil, 0, DayStatusAvailable)
	if err != ErrDayProgressUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrDayProgressUserIDEmpty, err)
	}

	// Test negative day
	_, err = NewDayProgress(userID, -1, DayStatusLocked)
	if err != ErrNegativeDay {
		t.Errorf("Expected error %v, got %v", ErrNegativeDay, err)
	}

	// Test invalid status
	_, err = NewDayProgress(userID, 2, DayStatus("done"))
	if err != ErrInvalidDayStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidDayStatus, err)
	}
}

func TestDayProgressStart(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	progress, err := NewDayProgress(uuid.New(), 1, DayStatusAvailable)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := progress.Start(now); err != nil {
		t.Fatalf("Expected no error starting available day, got %v", err)
	}
	if progress.Status != DayStatusInProgress {
		t.Errorf("Expected status in_progress, got %s", progress.Status)
	}
	if progress.StartedAt == nil {
		t.Fatal("Expected StartedAt to be recorded")
	}

	// Reopening an in_progress day is a no-op, not an error.
	firstStarted := *progress.StartedAt
	if err := progress.Start(now.Add(time.Hour)); err != nil {
		t.Fatalf("Expected reopening to be a no-op, got %v", err)
	}
	if !progress.StartedAt.Equal(firstStarted) {
		t.Error("Expected StartedAt to be unchanged on reopen")
	}

	// A locked day cannot be started.
	locked, err := NewDayProgress(uuid.New(), 3, DayStatusLocked)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := locked.Start(now); err != ErrDayNotStartable {
		t.Errorf("Expected error %v, got %v", ErrDayNotStartable, err)
	}
}

func TestDayProgressComplete(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	progress, err := NewDayProgress(uuid.New(), 1, DayStatusAvailable)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := progress.Start(now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := progress.Complete(now); err != nil {
		t.Fatalf("Expected no error completing in_progress day, got %v", err)
	}
	if progress.Status != DayStatusCompleted {
		t.Errorf("Expected status completed, got %s", progress.Status)
	}
	if progress.CompletedAt == nil {
		t.Fatal("Expected CompletedAt to be recorded")
	}

	// Completed is terminal.
	if err := progress.Complete(now); err != ErrDayAlreadyCompleted {
		t.Errorf("Expected error %v, got %v", ErrDayAlreadyCompleted, err)
	}
}

func TestDayProgressCompleteDirectFromAvailable(t *testing.T) {
	t.Parallel()

	// Non-interactive days skip in_progress entirely.
	progress, err := NewDayProgress(uuid.New(), 2, DayStatusAvailable)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := progress.Complete(time.Now()); err != nil {
		t.Fatalf("Expected available -> completed to succeed, got %v", err)
	}
	if progress.Status != DayStatusCompleted {
		t.Errorf("Expected status completed, got %s", progress.Status)
	}
}

func TestDayProgressCompleteLockedFails(t *testing.T) {
	t.Parallel()

	progress, err := NewDayProgress(uuid.New(), 4, DayStatusLocked)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := progress.Complete(time.Now()); err != ErrDayNotCompletable {
		t.Errorf("Expected error %v, got %v", ErrDayNotCompletable, err)
	}
	if progress.Status != DayStatusLocked {
		t.Errorf("Expected status to remain locked, got %s", progress.Status)
	}
}

func TestDayProgressUnlock(t *testing.T) {
	t.Parallel()

	progress, err := NewDayProgress(uuid.New(), 1, DayStatusLocked)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	progress.Unlock()
	if progress.Status != DayStatusAvailable {
		t.Errorf("Expected status available, got %s", progress.Status)
	}

	// Unlock never regresses a day that has moved past available.
	if err := progress.Start(time.Now()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	progress.Unlock()
	if progress.Status != DayStatusInProgress {
		t.Errorf("Expected status in_progress after redundant unlock, got %s", progress.Status)
	}
}
