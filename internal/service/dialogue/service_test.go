package dialogue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/generation"
	"github.com/sprintlab/sprint-api/internal/service/progression"
	"github.com/sprintlab/sprint-api/internal/store"
)

// fakeEnrollments serves a fixed set of actively enrolled users.
type fakeEnrollments struct {
	active map[uuid.UUID]*domain.Enrollment
}

func (f *fakeEnrollments) GetActive(_ context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	if e, ok := f.active[userID]; ok {
		return e, nil
	}
	return nil, store.ErrEnrollmentNotFound
}

// fakeProgress serves fixed day progress records.
type fakeProgress struct {
	records map[string]*domain.DayProgress
}

func progressKey(userID uuid.UUID, day int) string {
	return fmt.Sprintf("%s:%d", userID, day)
}

func (f *fakeProgress) Get(_ context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	if p, ok := f.records[progressKey(userID, day)]; ok {
		return p, nil
	}
	return nil, store.ErrDayProgressNotFound
}

// memoryCache is an in-memory store.DialogueCache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*domain.DialogueEntry
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*domain.DialogueEntry)}
}

func (c *memoryCache) Get(_ context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[progressKey(userID, day)]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, store.ErrDialogueNotFound
}

func (c *memoryCache) Save(_ context.Context, entry *domain.DialogueEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *entry
	c.entries[progressKey(entry.UserID, entry.Day)] = &clone
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID uuid.UUID, day int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, progressKey(userID, day))
	return nil
}

// fakeContentSource serves one lesson per day from an in-memory map.
type fakeContentSource struct {
	lessons map[int]*generation.LessonInput
}

func (f *fakeContentSource) Lesson(_ context.Context, _ uuid.UUID, day int) (*generation.LessonInput, error) {
	if l, ok := f.lessons[day]; ok {
		return l, nil
	}
	return nil, generation.ErrLessonNotFound
}

// countingGenerator counts calls and returns canned content.
type countingGenerator struct {
	mu      sync.Mutex
	calls   int
	content string
	err     error
}

func (g *countingGenerator) GenerateDialogue(_ context.Context, _ *generation.LessonInput, _ uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.content, nil
}

func (g *countingGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type dialogueFixture struct {
	svc       DialogueService
	userID    uuid.UUID
	cache     *memoryCache
	generator *countingGenerator
	source    *fakeContentSource
	progress  *fakeProgress
}

func newDialogueFixture(t *testing.T) *dialogueFixture {
	t.Helper()

	userID := uuid.New()
	enrollment, err := domain.NewEnrollment(userID, uuid.New())
	require.NoError(t, err)

	day0, err := domain.NewDayProgress(userID, 0, domain.DayStatusAvailable)
	require.NoError(t, err)
	day1, err := domain.NewDayProgress(userID, 1, domain.DayStatusLocked)
	require.NoError(t, err)

	progress := &fakeProgress{records: map[string]*domain.DayProgress{
		progressKey(userID, 0): day0,
		progressKey(userID, 1): day1,
	}}

	cache := newMemoryCache()
	generator := &countingGenerator{content: "Welcome to your first lesson."}
	source := &fakeContentSource{lessons: map[int]*generation.LessonInput{
		0: {Day: 0, Template: "intro", Variables: map[string]string{"topic": "basics"}},
		1: {Day: 1, Template: "next", Variables: map[string]string{"topic": "types"}},
	}}

	svc, err := NewDialogueService(
		&fakeEnrollments{active: map[uuid.UUID]*domain.Enrollment{userID: enrollment}},
		progress,
		cache,
		source,
		generator,
		"test-model",
		nil,
	)
	require.NoError(t, err)

	return &dialogueFixture{
		svc:       svc,
		userID:    userID,
		cache:     cache,
		generator: generator,
		source:    source,
		progress:  progress,
	}
}

func TestGetDialogueGeneratesOnMissAndCaches(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)
	ctx := context.Background()

	entry, err := f.svc.GetDialogue(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to your first lesson.", entry.Content)
	assert.Equal(t, "test-model", entry.Model)
	assert.Equal(t, 1, f.generator.callCount())

	// Second read is served from cache.
	again, err := f.svc.GetDialogue(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Equal(t, entry.Content, again.Content)
	assert.Equal(t, 1, f.generator.callCount())
}

func TestGetDialogueRegeneratesWhenLessonChanges(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetDialogue(ctx, f.userID, 0)
	require.NoError(t, err)

	// Changing the lesson rotates its fingerprint.
	f.source.lessons[0] = &generation.LessonInput{
		Day:       0,
		Template:  "intro",
		Variables: map[string]string{"topic": "revised basics"},
	}
	f.generator.content = "Welcome to the revised lesson."

	second, err := f.svc.GetDialogue(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ContentHash, second.ContentHash)
	assert.Equal(t, "Welcome to the revised lesson.", second.Content)
	assert.Equal(t, 2, f.generator.callCount())
}

func TestGetDialogueLockedDay(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)

	_, err := f.svc.GetDialogue(context.Background(), f.userID, 1)
	assert.ErrorIs(t, err, progression.ErrDayLocked)
	assert.Equal(t, 0, f.generator.callCount())
}

func TestGetDialogueUnreachedDay(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)

	// No record at all for day 3.
	_, err := f.svc.GetDialogue(context.Background(), f.userID, 3)
	assert.ErrorIs(t, err, progression.ErrDayLocked)
}

func TestGetDialogueDayZeroWithoutRecord(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)
	delete(f.progress.records, progressKey(f.userID, 0))

	entry, err := f.svc.GetDialogue(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Content)
}

func TestGetDialogueNotEnrolled(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)

	_, err := f.svc.GetDialogue(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, progression.ErrNotEnrolled)
}

func TestGetDialogueGenerationFailure(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)
	f.generator.err = errors.New("model overloaded")

	_, err := f.svc.GetDialogue(context.Background(), f.userID, 0)
	assert.ErrorIs(t, err, ErrDialogueUnavailable)
}

func TestWarmDialoguePopulatesCache(t *testing.T) {
	t.Parallel()

	f := newDialogueFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.WarmDialogue(ctx, f.userID, 0))
	assert.Equal(t, 1, f.generator.callCount())

	// A later read finds the warmed entry.
	_, err := f.svc.GetDialogue(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, f.generator.callCount())
}
