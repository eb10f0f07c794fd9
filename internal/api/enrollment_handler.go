package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sprintlab/sprint-api/internal/api/shared"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/redact"
	"github.com/sprintlab/sprint-api/internal/service/progression"
)

// EnrollRequest represents the request body for creating an enrollment
type EnrollRequest struct {
	CohortID string `json:"cohort_id" validate:"required,uuid"`
}

// EnrollmentResponse represents the response data for an enrollment
type EnrollmentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CohortID  string    `json:"cohort_id"`
	StartedAt time.Time `json:"started_at"`
	Status    string    `json:"status"`
}

// EnrollmentHandler handles enrollment lifecycle HTTP requests
type EnrollmentHandler struct {
	progressionService progression.ProgressionService
	logger             *slog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(
	progressionService progression.ProgressionService,
	logger *slog.Logger,
) *EnrollmentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EnrollmentHandler")
	}

	return &EnrollmentHandler{
		progressionService: progressionService,
		logger:             logger.With(slog.String("component", "enrollment_handler")),
	}
}

// CreateEnrollment handles POST /enrollments requests.
// It enrolls the authenticated user into a sprint cohort. Enrolling while an
// active enrollment exists returns that enrollment with 200 instead of 201.
func (h *EnrollmentHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req EnrollRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	cohortID, err := uuid.Parse(req.CohortID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid cohort ID format")
		return
	}

	enrollment, created, err := h.progressionService.Enroll(r.Context(), userID, cohortID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	log.Info("enrollment request handled",
		slog.String("user_id", userID.String()),
		slog.String("enrollment_id", enrollment.ID.String()),
		slog.Bool("created", created))
	shared.RespondWithJSON(w, r, status, enrollmentToResponse(enrollment))
}

// ExpireEnrollment handles DELETE /enrollments/current requests.
// It expires the authenticated user's active enrollment. Expiring an already
// terminal enrollment is a no-op success.
func (h *EnrollmentHandler) ExpireEnrollment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.progressionService.ExpireEnrollment(r.Context(), userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("enrollment expired", slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// enrollmentToResponse converts a domain.Enrollment to an EnrollmentResponse
func enrollmentToResponse(enrollment *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        enrollment.ID.String(),
		UserID:    enrollment.UserID.String(),
		CohortID:  enrollment.CohortID.String(),
		StartedAt: enrollment.StartedAt,
		Status:    string(enrollment.Status),
	}
}
