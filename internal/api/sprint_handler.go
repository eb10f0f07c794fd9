package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sprintlab/sprint-api/internal/api/shared"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/domain/achievement"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/service/progression"
)

// DayProgressResponse represents the response data for one day's progress
type DayProgressResponse struct {
	ID          string     `json:"id"`
	Day         int        `json:"day"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AchievementResponse represents one derived achievement event
type AchievementResponse struct {
	Kind      string    `json:"kind"`
	Day       int       `json:"day"`
	EmittedAt time.Time `json:"emitted_at"`
}

// CompleteDayResponse represents the outcome of completing a day
type CompleteDayResponse struct {
	Progress         DayProgressResponse   `json:"progress"`
	Unlocked         *DayProgressResponse  `json:"unlocked,omitempty"`
	Achievements     []AchievementResponse `json:"achievements"`
	AlreadyCompleted bool                  `json:"already_completed"`
}

// CurrentDayResponse represents the user's current accessible day
type CurrentDayResponse struct {
	Day int `json:"day"`
}

// ProgressResponse represents the user's full progress history
type ProgressResponse struct {
	Days []DayProgressResponse `json:"days"`
}

// SprintHandler handles day progression HTTP requests
type SprintHandler struct {
	progressionService progression.ProgressionService
	logger             *slog.Logger
}

// NewSprintHandler creates a new SprintHandler
func NewSprintHandler(
	progressionService progression.ProgressionService,
	logger *slog.Logger,
) *SprintHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SprintHandler")
	}

	return &SprintHandler{
		progressionService: progressionService,
		logger:             logger.With(slog.String("component", "sprint_handler")),
	}
}

// StartDay handles POST /days/{day}/start requests.
// It opens an available day for the authenticated user. Reopening a day
// already in progress returns the unchanged record.
func (h *SprintHandler) StartDay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	day, ok := requireDayParam(w, r)
	if !ok {
		return
	}

	progress, err := h.progressionService.StartDay(r.Context(), userID, day)
	if err != nil {
		h.respondWithProgressionError(w, r, userID, err)
		return
	}

	log.Debug("day started",
		slog.String("user_id", userID.String()),
		slog.Int("day", day),
		slog.String("status", string(progress.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, dayProgressToResponse(progress))
}

// CompleteDay handles POST /days/{day}/complete requests.
// It completes the day, unlocks the next one, and reports any newly earned
// achievements. Completing an already completed day is a no-op success.
func (h *SprintHandler) CompleteDay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	day, ok := requireDayParam(w, r)
	if !ok {
		return
	}

	result, err := h.progressionService.CompleteDay(r.Context(), userID, day)
	if err != nil {
		h.respondWithProgressionError(w, r, userID, err)
		return
	}

	log.Info("day completion handled",
		slog.String("user_id", userID.String()),
		slog.Int("day", day),
		slog.Bool("already_completed", result.AlreadyCompleted),
		slog.Int("achievements", len(result.Achievements)))
	shared.RespondWithJSON(w, r, http.StatusOK, completionToResponse(result))
}

// GetCurrentDay handles GET /days/current requests.
func (h *SprintHandler) GetCurrentDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	day, err := h.progressionService.GetCurrentDay(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CurrentDayResponse{Day: day})
}

// GetProgress handles GET /progress requests.
// It returns the user's full day progress history ordered by day.
func (h *SprintHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	days, err := h.progressionService.GetProgress(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := ProgressResponse{Days: make([]DayProgressResponse, 0, len(days))}
	for _, d := range days {
		response.Days = append(response.Days, dayProgressToResponse(d))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// respondWithProgressionError renders a progression service error. A locked
// day becomes a 303 redirect to the current accessible day; everything else
// follows the central error mapping.
func (h *SprintHandler) respondWithProgressionError(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
	err error,
) {
	if errors.Is(err, progression.ErrDayLocked) {
		redirectToCurrentDay(w, r, h.progressionService, userID, err)
		return
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// redirectToCurrentDay answers a locked-day error with 303 See Other
// pointing at the user's current accessible day.
func redirectToCurrentDay(
	w http.ResponseWriter,
	r *http.Request,
	svc progression.ProgressionService,
	userID uuid.UUID,
	cause error,
) {
	current, err := svc.GetCurrentDay(r.Context(), userID)
	if err != nil {
		// Without a current day there is nothing to redirect to.
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, GetSafeErrorMessage(cause), err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/days/%d", current))
	shared.RespondWithErrorAndLog(w, r, http.StatusSeeOther, GetSafeErrorMessage(cause), cause)
}

// dayProgressToResponse converts a domain.DayProgress to a DayProgressResponse
func dayProgressToResponse(progress *domain.DayProgress) DayProgressResponse {
	return DayProgressResponse{
		ID:          progress.ID.String(),
		Day:         progress.Day,
		Status:      string(progress.Status),
		StartedAt:   progress.StartedAt,
		CompletedAt: progress.CompletedAt,
	}
}

// completionToResponse converts a progression.CompletionResult to a
// CompleteDayResponse
func completionToResponse(result *progression.CompletionResult) CompleteDayResponse {
	response := CompleteDayResponse{
		Progress:         dayProgressToResponse(result.Progress),
		Achievements:     achievementsToResponse(result.Achievements),
		AlreadyCompleted: result.AlreadyCompleted,
	}
	if result.Unlocked != nil {
		unlocked := dayProgressToResponse(result.Unlocked)
		response.Unlocked = &unlocked
	}
	return response
}

func achievementsToResponse(events []achievement.Event) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AchievementResponse{
			Kind:      string(e.Kind),
			Day:       e.Day,
			EmittedAt: e.EmittedAt,
		})
	}
	return out
}
