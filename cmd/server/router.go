package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sprintlab/sprint-api/internal/api"
	apiMiddleware "github.com/sprintlab/sprint-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	enrollmentHandler := api.NewEnrollmentHandler(app.progressionService, app.logger)
	sprintHandler := api.NewSprintHandler(app.progressionService, app.logger)
	dialogueHandler := api.NewDialogueHandler(app.dialogueService, app.progressionService, app.logger)
	preferenceHandler := api.NewPreferenceHandler(app.preferenceStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Every endpoint trusts the external identity provider's tokens.
		r.Use(authMiddleware.Authenticate)

		// Enrollment lifecycle
		r.Post("/enrollments", enrollmentHandler.CreateEnrollment)
		r.Delete("/enrollments/current", enrollmentHandler.ExpireEnrollment)

		// Day progression
		r.Get("/days/current", sprintHandler.GetCurrentDay)
		r.Post("/days/{day}/start", sprintHandler.StartDay)
		r.Post("/days/{day}/complete", sprintHandler.CompleteDay)
		r.Get("/progress", sprintHandler.GetProgress)

		// Lesson dialogue
		r.Get("/days/{day}/dialogue", dialogueHandler.GetDialogue)

		// Display preferences
		r.Get("/preferences", preferenceHandler.GetPreferences)
		r.Get("/preferences/{key}", preferenceHandler.GetPreference)
		r.Put("/preferences/{key}", preferenceHandler.SetPreference)
		r.Delete("/preferences/{key}", preferenceHandler.DeletePreference)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
