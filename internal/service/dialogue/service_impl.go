package dialogue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/generation"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/service/progression"
	"github.com/sprintlab/sprint-api/internal/store"
)

// dialogueServiceImpl implements the DialogueService interface
type dialogueServiceImpl struct {
	enrollments   EnrollmentReader
	progress      ProgressReader
	cache         store.DialogueCache
	contentSource generation.ContentSource
	generator     generation.Generator
	modelName     string
	logger        *slog.Logger
}

// NewDialogueService creates a new DialogueService.
// It returns an error if any of the required dependencies are nil.
func NewDialogueService(
	enrollments EnrollmentReader,
	progress ProgressReader,
	cache store.DialogueCache,
	contentSource generation.ContentSource,
	generator generation.Generator,
	modelName string,
	log *slog.Logger,
) (DialogueService, error) {
	if enrollments == nil {
		return nil, domain.NewValidationError("enrollments", "cannot be nil", domain.ErrValidation)
	}
	if progress == nil {
		return nil, domain.NewValidationError("progress", "cannot be nil", domain.ErrValidation)
	}
	if cache == nil {
		return nil, domain.NewValidationError("cache", "cannot be nil", domain.ErrValidation)
	}
	if contentSource == nil {
		return nil, domain.NewValidationError("contentSource", "cannot be nil", domain.ErrValidation)
	}
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &dialogueServiceImpl{
		enrollments:   enrollments,
		progress:      progress,
		cache:         cache,
		contentSource: contentSource,
		generator:     generator,
		modelName:     modelName,
		logger:        log.With(slog.String("component", "dialogue_service")),
	}, nil
}

// GetDialogue implements DialogueService.GetDialogue
func (s *dialogueServiceImpl) GetDialogue(ctx context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkAccess(ctx, userID, day); err != nil {
		return nil, err
	}

	lesson, err := s.contentSource.Lesson(ctx, userID, day)
	if err != nil {
		return nil, NewServiceError("get_dialogue", "failed to load lesson content", err)
	}
	fingerprint := lesson.Fingerprint()

	entry, err := s.cache.Get(ctx, userID, day)
	if err == nil {
		if entry.IsFresh(fingerprint) {
			log.Debug("dialogue cache hit",
				slog.String("user_id", userID.String()),
				slog.Int("day", day))
			return entry, nil
		}

		// The lesson inputs changed since this entry was generated.
		log.Info("dialogue cache entry stale, regenerating",
			slog.String("user_id", userID.String()),
			slog.Int("day", day))
		if err := s.cache.Invalidate(ctx, userID, day); err != nil {
			log.Warn("failed to invalidate stale dialogue entry",
				slog.String("user_id", userID.String()),
				slog.Int("day", day),
				slog.String("error", err.Error()))
		}
	} else if !errors.Is(err, store.ErrDialogueNotFound) {
		// A cache read failure degrades to regeneration rather than an error.
		log.Warn("dialogue cache read failed, regenerating",
			slog.String("user_id", userID.String()),
			slog.Int("day", day),
			slog.String("error", err.Error()))
	}

	return s.generateAndCache(ctx, userID, day, lesson, fingerprint)
}

// WarmDialogue implements DialogueService.WarmDialogue
func (s *dialogueServiceImpl) WarmDialogue(ctx context.Context, userID uuid.UUID, day int) error {
	_, err := s.GetDialogue(ctx, userID, day)
	return err
}

// generateAndCache produces a fresh dialogue entry and upserts it.
func (s *dialogueServiceImpl) generateAndCache(
	ctx context.Context,
	userID uuid.UUID,
	day int,
	lesson *generation.LessonInput,
	fingerprint string,
) (*domain.DialogueEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	content, err := s.generator.GenerateDialogue(ctx, lesson, userID)
	if err != nil {
		log.Error("dialogue generation failed",
			slog.String("user_id", userID.String()),
			slog.Int("day", day),
			slog.String("error", err.Error()))
		return nil, NewServiceError("get_dialogue", "generation failed", errors.Join(ErrDialogueUnavailable, err))
	}

	entry, err := domain.NewDialogueEntry(userID, day, content, fingerprint, s.modelName)
	if err != nil {
		return nil, NewServiceError("get_dialogue", "invalid dialogue entry", err)
	}

	// A save failure loses only the cache benefit, not the dialogue.
	if err := s.cache.Save(ctx, entry); err != nil {
		log.Warn("failed to cache dialogue entry",
			slog.String("user_id", userID.String()),
			slog.Int("day", day),
			slog.String("error", err.Error()))
	}

	log.Info("dialogue generated and cached",
		slog.String("user_id", userID.String()),
		slog.Int("day", day),
		slog.String("model", s.modelName))

	return entry, nil
}

// checkAccess verifies the user is enrolled and has reached the day.
// Day 0 is accessible to every active enrollment even before its progress
// record exists.
func (s *dialogueServiceImpl) checkAccess(ctx context.Context, userID uuid.UUID, day int) error {
	if _, err := s.enrollments.GetActive(ctx, userID); err != nil {
		if store.IsNotFoundError(err) {
			return progression.ErrNotEnrolled
		}
		return NewServiceError("check_access", "failed to load active enrollment", err)
	}

	progress, err := s.progress.Get(ctx, userID, day)
	if err != nil {
		if store.IsNotFoundError(err) {
			if day == 0 {
				return nil
			}
			return progression.ErrDayLocked
		}
		return NewServiceError("check_access", "failed to load day progress", err)
	}

	if !progress.IsAccessible() {
		return progression.ErrDayLocked
	}

	return nil
}
