package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sprintlab/sprint-api/internal/api/shared"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/redact"
	"github.com/sprintlab/sprint-api/internal/store"
)

// maxPreferenceKeyLength bounds preference key names.
const maxPreferenceKeyLength = 64

// SetPreferenceRequest represents the request body for writing a preference
type SetPreferenceRequest struct {
	Value string `json:"value" validate:"required,max=255"`
}

// PreferenceResponse represents a single preference key-value pair
type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PreferencesResponse represents all of a user's preferences
type PreferencesResponse struct {
	Preferences map[string]string `json:"preferences"`
}

// PreferenceHandler handles display preference HTTP requests
type PreferenceHandler struct {
	preferences store.PreferenceStore
	logger      *slog.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferences store.PreferenceStore, logger *slog.Logger) *PreferenceHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PreferenceHandler")
	}

	return &PreferenceHandler{
		preferences: preferences,
		logger:      logger.With(slog.String("component", "preference_handler")),
	}
}

// GetPreferences handles GET /preferences requests.
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	prefs, err := h.preferences.GetAll(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load preferences", err)
		return
	}
	if prefs == nil {
		prefs = map[string]string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PreferencesResponse{Preferences: prefs})
}

// GetPreference handles GET /preferences/{key} requests.
func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	key, ok := requirePreferenceKey(w, r)
	if !ok {
		return
	}

	value, err := h.preferences.Get(r.Context(), userID, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Preference not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load preference", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PreferenceResponse{Key: key, Value: value})
}

// SetPreference handles PUT /preferences/{key} requests.
// Writing an existing key replaces its value.
func (h *PreferenceHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	key, ok := requirePreferenceKey(w, r)
	if !ok {
		return
	}

	var req SetPreferenceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if err := h.preferences.Set(r.Context(), userID, key, req.Value); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to save preference", err)
		return
	}

	log.Debug("preference saved",
		slog.String("user_id", userID.String()),
		slog.String("key", key))
	w.WriteHeader(http.StatusNoContent)
}

// DeletePreference handles DELETE /preferences/{key} requests.
// Deleting an absent key is a no-op success.
func (h *PreferenceHandler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	key, ok := requirePreferenceKey(w, r)
	if !ok {
		return
	}

	if err := h.preferences.Delete(r.Context(), userID, key); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete preference", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requirePreferenceKey extracts and bounds the {key} URL parameter.
func requirePreferenceKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")
	if key == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Preference key is required")
		return "", false
	}
	if len(key) > maxPreferenceKeyLength {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Preference key too long")
		return "", false
	}
	return key, true
}
