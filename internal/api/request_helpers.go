package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sprintlab/sprint-api/internal/api/shared"
)

// requireUserID extracts the authenticated user ID placed in the context by
// the auth middleware. On failure it writes a 401 response and returns
// ok=false.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// requireDayParam parses the {day} URL parameter. On failure it writes a 400
// response and returns ok=false. Range validation is the service's concern.
func requireDayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "day")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Day is required")
		return 0, false
	}

	day, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid day format")
		return 0, false
	}
	return day, true
}
