package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sprintlab/sprint-api/internal/api/shared"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/service/dialogue"
	"github.com/sprintlab/sprint-api/internal/service/progression"
)

// DialogueResponse represents the response data for a day's dialogue
type DialogueResponse struct {
	Day         int       `json:"day"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DialogueHandler handles dialogue retrieval HTTP requests
type DialogueHandler struct {
	dialogueService    dialogue.DialogueService
	progressionService progression.ProgressionService
	logger             *slog.Logger
}

// NewDialogueHandler creates a new DialogueHandler. The progression service
// is used to resolve the redirect target for locked days.
func NewDialogueHandler(
	dialogueService dialogue.DialogueService,
	progressionService progression.ProgressionService,
	logger *slog.Logger,
) *DialogueHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DialogueHandler")
	}

	return &DialogueHandler{
		dialogueService:    dialogueService,
		progressionService: progressionService,
		logger:             logger.With(slog.String("component", "dialogue_handler")),
	}
}

// GetDialogue handles GET /days/{day}/dialogue requests.
// It serves the day's dialogue from cache, generating it first when missing
// or stale.
func (h *DialogueHandler) GetDialogue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	day, ok := requireDayParam(w, r)
	if !ok {
		return
	}

	entry, err := h.dialogueService.GetDialogue(r.Context(), userID, day)
	if err != nil {
		if errors.Is(err, progression.ErrDayLocked) {
			redirectToCurrentDay(w, r, h.progressionService, userID, err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("dialogue served",
		slog.String("user_id", userID.String()),
		slog.Int("day", day),
		slog.String("model", entry.Model))
	shared.RespondWithJSON(w, r, http.StatusOK, dialogueToResponse(entry))
}

// dialogueToResponse converts a domain.DialogueEntry to a DialogueResponse
func dialogueToResponse(entry *domain.DialogueEntry) DialogueResponse {
	return DialogueResponse{
		Day:         entry.Day,
		Content:     entry.Content,
		Model:       entry.Model,
		GeneratedAt: entry.GeneratedAt,
	}
}
