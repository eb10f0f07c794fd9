package progression

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/events"
	"github.com/sprintlab/sprint-api/internal/store"
)

// fakeEnrollmentRepo is an in-memory EnrollmentRepository whose Create
// enforces the single-active-enrollment rule the way the partial unique
// index does in PostgreSQL.
type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[uuid.UUID]*domain.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		enrollments: make(map[uuid.UUID]*domain.Enrollment),
	}
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.UserID == enrollment.UserID && e.Status == domain.EnrollmentStatusActive {
			return store.ErrActiveEnrollmentExists
		}
	}
	clone := *enrollment
	r.enrollments[enrollment.ID] = &clone
	return nil
}

func (r *fakeEnrollmentRepo) GetActive(_ context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.UserID == userID && e.Status == domain.EnrollmentStatusActive {
			clone := *e
			return &clone, nil
		}
	}
	return nil, store.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.EnrollmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[id]
	if !ok {
		return store.ErrEnrollmentNotFound
	}
	if e.Status == domain.EnrollmentStatusActive {
		e.Status = status
		e.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *fakeEnrollmentRepo) WithTx(_ *sql.Tx) EnrollmentRepository { return r }
func (r *fakeEnrollmentRepo) DB() *sql.DB                           { return nil }

// fakeProgressRepo is an in-memory ProgressRepository. Its conditional
// transition methods are atomic under the mutex, matching the single
// statement semantics of the real store.
type fakeProgressRepo struct {
	mu      sync.Mutex
	records map[string]*domain.DayProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{
		records: make(map[string]*domain.DayProgress),
	}
}

func progressKey(userID uuid.UUID, day int) string {
	return fmt.Sprintf("%s:%d", userID, day)
}

func (r *fakeProgressRepo) Create(_ context.Context, progress *domain.DayProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey(progress.UserID, progress.Day)
	if _, ok := r.records[key]; ok {
		return store.ErrDuplicate
	}
	clone := *progress
	r.records[key] = &clone
	return nil
}

func (r *fakeProgressRepo) Get(_ context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[progressKey(userID, day)]
	if !ok {
		return nil, store.ErrDayProgressNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProgressRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.DayProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DayProgress
	for _, p := range r.records {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	// Ordered by day, matching the SQL store.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Day < out[i].Day {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) StartIfAccessible(_ context.Context, userID uuid.UUID, day int, startedAt time.Time) (*domain.DayProgress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[progressKey(userID, day)]
	if !ok {
		return nil, false, store.ErrDayProgressNotFound
	}
	if p.Status == domain.DayStatusAvailable {
		started := startedAt.UTC()
		p.Status = domain.DayStatusInProgress
		p.StartedAt = &started
		p.UpdatedAt = started
		clone := *p
		return &clone, true, nil
	}
	clone := *p
	return &clone, false, nil
}

func (r *fakeProgressRepo) CompleteIfOpen(_ context.Context, userID uuid.UUID, day int, completedAt time.Time) (*domain.DayProgress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[progressKey(userID, day)]
	if !ok {
		return nil, false, store.ErrDayProgressNotFound
	}
	if p.Status == domain.DayStatusAvailable || p.Status == domain.DayStatusInProgress {
		completed := completedAt.UTC()
		p.Status = domain.DayStatusCompleted
		p.CompletedAt = &completed
		if p.StartedAt == nil {
			p.StartedAt = &completed
		}
		p.UpdatedAt = completed
		clone := *p
		return &clone, true, nil
	}
	clone := *p
	return &clone, false, nil
}

func (r *fakeProgressRepo) Unlock(_ context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey(userID, day)
	p, ok := r.records[key]
	if !ok {
		created, err := domain.NewDayProgress(userID, day, domain.DayStatusAvailable)
		if err != nil {
			return nil, err
		}
		r.records[key] = created
		clone := *created
		return &clone, nil
	}
	if p.Status == domain.DayStatusLocked {
		p.Status = domain.DayStatusAvailable
		p.UpdatedAt = time.Now().UTC()
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProgressRepo) WithTx(_ *sql.Tx) ProgressRepository { return r }

// seed inserts a record directly, bypassing transition rules.
func (r *fakeProgressRepo) seed(p *domain.DayProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.records[progressKey(p.UserID, p.Day)] = &clone
}

// fakeDialogueCache records invalidations.
type fakeDialogueCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.DialogueEntry
	invalidated []string
}

func newFakeDialogueCache() *fakeDialogueCache {
	return &fakeDialogueCache{
		entries: make(map[string]*domain.DialogueEntry),
	}
}

func (c *fakeDialogueCache) Get(_ context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[progressKey(userID, day)]
	if !ok {
		return nil, store.ErrDialogueNotFound
	}
	clone := *entry
	return &clone, nil
}

func (c *fakeDialogueCache) Save(_ context.Context, entry *domain.DialogueEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *entry
	c.entries[progressKey(entry.UserID, entry.Day)] = &clone
	return nil
}

func (c *fakeDialogueCache) Invalidate(_ context.Context, userID uuid.UUID, day int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := progressKey(userID, day)
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

func (c *fakeDialogueCache) invalidations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

// fakeEmitter records emitted events.
type fakeEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
}

func (e *fakeEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *fakeEmitter) emitted() []*events.TaskRequestEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.TaskRequestEvent(nil), e.events...)
}
