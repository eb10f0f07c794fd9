package progression

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/domain/achievement"
	"github.com/sprintlab/sprint-api/internal/events"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/store"
	"github.com/sprintlab/sprint-api/internal/task"
)

// progressionServiceImpl implements the ProgressionService interface
type progressionServiceImpl struct {
	enrollmentRepo EnrollmentRepository
	progressRepo   ProgressRepository
	dialogueCache  store.DialogueCache
	emitter        events.EventEmitter
	params         *achievement.Params
	logger         *slog.Logger
}

// NewProgressionService creates a new ProgressionService.
// It returns an error if any of the required dependencies are nil.
// dialogueCache and emitter may be nil; cache invalidation and prewarm
// requests are then skipped.
func NewProgressionService(
	enrollmentRepo EnrollmentRepository,
	progressRepo ProgressRepository,
	dialogueCache store.DialogueCache,
	emitter events.EventEmitter,
	params *achievement.Params,
	log *slog.Logger,
) (ProgressionService, error) {
	if enrollmentRepo == nil {
		return nil, domain.NewValidationError("enrollmentRepo", "cannot be nil", domain.ErrValidation)
	}
	if progressRepo == nil {
		return nil, domain.NewValidationError("progressRepo", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	if params == nil || params.SprintDays <= 0 {
		params = achievement.DefaultParams()
	}

	return &progressionServiceImpl{
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		dialogueCache:  dialogueCache,
		emitter:        emitter,
		params:         params,
		logger:         log.With(slog.String("component", "progression_service")),
	}, nil
}

// Enroll implements ProgressionService.Enroll
func (s *progressionServiceImpl) Enroll(ctx context.Context, userID, cohortID uuid.UUID) (*domain.Enrollment, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	enrollment, err := domain.NewEnrollment(userID, cohortID)
	if err != nil {
		return nil, false, err
	}

	err = s.runInTx(ctx, func(ctx context.Context, enrollRepo EnrollmentRepository, progRepo ProgressRepository) error {
		if err := enrollRepo.Create(ctx, enrollment); err != nil {
			return err
		}

		// Day 0 is available the moment enrollment is active.
		if _, err := progRepo.Unlock(ctx, userID, 0); err != nil {
			return NewServiceError("enroll", "failed to seed day 0", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrActiveEnrollmentExists) {
			existing, getErr := s.enrollmentRepo.GetActive(ctx, userID)
			if getErr != nil {
				return nil, false, NewServiceError("enroll", "failed to load existing enrollment", getErr)
			}
			log.Debug("user already enrolled, returning existing enrollment",
				slog.String("user_id", userID.String()),
				slog.String("enrollment_id", existing.ID.String()))
			return existing, false, nil
		}
		return nil, false, err
	}

	log.Info("user enrolled",
		slog.String("user_id", userID.String()),
		slog.String("cohort_id", cohortID.String()),
		slog.String("enrollment_id", enrollment.ID.String()))

	return enrollment, true, nil
}

// StartDay implements ProgressionService.StartDay
func (s *progressionServiceImpl) StartDay(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.requireEnrollment(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkDayInRange(day); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	progress, applied, err := s.progressRepo.StartIfAccessible(ctx, userID, day, now)
	if errors.Is(err, store.ErrDayProgressNotFound) {
		if day != 0 {
			// A missing record means the day was never reached.
			return nil, ErrDayLocked
		}
		// Day 0 records are created lazily.
		if _, err := s.progressRepo.Unlock(ctx, userID, 0); err != nil {
			return nil, NewServiceError("start_day", "failed to lazily create day 0", err)
		}
		progress, applied, err = s.progressRepo.StartIfAccessible(ctx, userID, day, now)
	}
	if err != nil {
		return nil, NewServiceError("start_day", "failed to start day", err)
	}

	if !applied {
		switch progress.Status {
		case domain.DayStatusInProgress, domain.DayStatusCompleted:
			// Reopening a day is a no-op.
			return progress, nil
		default:
			return nil, ErrDayLocked
		}
	}

	log.Info("day started",
		slog.String("user_id", userID.String()),
		slog.Int("day", day))

	return progress, nil
}

// CompleteDay implements ProgressionService.CompleteDay
func (s *progressionServiceImpl) CompleteDay(ctx context.Context, userID uuid.UUID, day int) (*CompletionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	enrollment, err := s.requireEnrollment(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDayInRange(day); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &CompletionResult{}

	err = s.runInTx(ctx, func(ctx context.Context, _ EnrollmentRepository, progRepo ProgressRepository) error {
		progress, applied, err := progRepo.CompleteIfOpen(ctx, userID, day, now)
		if errors.Is(err, store.ErrDayProgressNotFound) {
			if day != 0 {
				return ErrDayLocked
			}
			if _, err := progRepo.Unlock(ctx, userID, 0); err != nil {
				return NewServiceError("complete_day", "failed to lazily create day 0", err)
			}
			progress, applied, err = progRepo.CompleteIfOpen(ctx, userID, day, now)
		}
		if err != nil {
			return NewServiceError("complete_day", "failed to complete day", err)
		}

		result.Progress = progress

		if !applied {
			if progress.Status == domain.DayStatusCompleted {
				// Repeat completion changes nothing: no unlock, no
				// achievements, no cache invalidation.
				result.AlreadyCompleted = true
				return nil
			}
			return ErrDayLocked
		}

		if next := day + 1; next < s.params.SprintDays {
			unlocked, err := progRepo.Unlock(ctx, userID, next)
			if err != nil {
				return NewServiceError("complete_day", "failed to unlock next day", err)
			}
			result.Unlocked = unlocked
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyCompleted {
		return result, nil
	}

	log.Info("day completed",
		slog.String("user_id", userID.String()),
		slog.Int("day", day))

	s.afterCompletion(ctx, userID, day)

	history, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		// The completion itself stands; achievements can be re-derived on
		// the next read.
		log.Error("failed to load progress history for achievement derivation",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return result, nil
	}
	snapshot := make([]domain.DayProgress, 0, len(history))
	for _, p := range history {
		snapshot = append(snapshot, *p)
	}
	result.Achievements = achievement.Evaluate(enrollment, snapshot, now, s.params)

	return result, nil
}

// afterCompletion performs the post-commit side effects of a completion:
// dropping the next day's now-stale dialogue entry and requesting a prewarm.
// Both are best effort; the state transition has already committed.
func (s *progressionServiceImpl) afterCompletion(ctx context.Context, userID uuid.UUID, day int) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	next := day + 1
	if next >= s.params.SprintDays {
		return
	}

	if s.dialogueCache != nil {
		if err := s.dialogueCache.Invalidate(ctx, userID, next); err != nil {
			log.Warn("failed to invalidate dialogue cache for unlocked day",
				slog.String("user_id", userID.String()),
				slog.Int("day", next),
				slog.String("error", err.Error()))
		}
	}

	if s.emitter != nil {
		event, err := events.NewTaskRequestEvent(task.TaskTypeDialoguePrewarm, map[string]interface{}{
			"user_id": userID,
			"day":     next,
		})
		if err != nil {
			log.Warn("failed to build dialogue prewarm event",
				slog.String("error", err.Error()))
			return
		}
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("failed to emit dialogue prewarm event",
				slog.String("user_id", userID.String()),
				slog.Int("day", next),
				slog.String("error", err.Error()))
		}
	}
}

// GetCurrentDay implements ProgressionService.GetCurrentDay
func (s *progressionServiceImpl) GetCurrentDay(ctx context.Context, userID uuid.UUID) (int, error) {
	if _, err := s.requireEnrollment(ctx, userID); err != nil {
		return 0, err
	}

	history, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, NewServiceError("get_current_day", "failed to load progress history", err)
	}

	completed := make(map[int]bool, len(history))
	for _, p := range history {
		if p.IsCompleted() {
			completed[p.Day] = true
		}
	}

	for day := 0; day < s.params.SprintDays; day++ {
		if !completed[day] {
			return day, nil
		}
	}

	// Every day is completed; the frontier stays on the final day.
	return s.params.SprintDays - 1, nil
}

// GetProgress implements ProgressionService.GetProgress
func (s *progressionServiceImpl) GetProgress(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error) {
	if _, err := s.requireEnrollment(ctx, userID); err != nil {
		return nil, err
	}

	history, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_progress", "failed to load progress history", err)
	}
	return history, nil
}

// ExpireEnrollment implements ProgressionService.ExpireEnrollment
func (s *progressionServiceImpl) ExpireEnrollment(ctx context.Context, userID uuid.UUID) error {
	enrollment, err := s.enrollmentRepo.GetActive(ctx, userID)
	if err != nil {
		// No active enrollment means nothing to expire.
		if store.IsNotFoundError(err) {
			return nil
		}
		return NewServiceError("expire_enrollment", "failed to load active enrollment", err)
	}

	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, domain.EnrollmentStatusExpired); err != nil {
		return NewServiceError("expire_enrollment", "failed to expire enrollment", err)
	}
	return nil
}

// requireEnrollment loads the user's active enrollment, mapping a missing
// one to ErrNotEnrolled.
func (s *progressionServiceImpl) requireEnrollment(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetActive(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNotEnrolled
		}
		return nil, NewServiceError("get_enrollment", "failed to load active enrollment", err)
	}
	return enrollment, nil
}

// checkDayInRange validates a day index against the sprint length.
func (s *progressionServiceImpl) checkDayInRange(day int) error {
	if day < 0 || day >= s.params.SprintDays {
		return ErrDayOutOfRange
	}
	return nil
}

// runInTx executes fn with transactional repositories when a database is
// available, and directly against the configured repositories otherwise
// (in-memory test doubles carry no *sql.DB).
func (s *progressionServiceImpl) runInTx(
	ctx context.Context,
	fn func(ctx context.Context, enrollRepo EnrollmentRepository, progRepo ProgressRepository) error,
) error {
	db := s.enrollmentRepo.DB()
	if db == nil {
		return fn(ctx, s.enrollmentRepo, s.progressRepo)
	}

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.enrollmentRepo.WithTx(tx), s.progressRepo.WithTx(tx))
	})
}
