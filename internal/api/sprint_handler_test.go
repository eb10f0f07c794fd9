package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/domain/achievement"
	"github.com/sprintlab/sprint-api/internal/mocks"
	"github.com/sprintlab/sprint-api/internal/service/progression"
)

// newSprintRouter mounts the handler behind chi so {day} URL params resolve.
func newSprintRouter(handler *SprintHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/days/{day}/start", handler.StartDay)
	r.Post("/api/days/{day}/complete", handler.CompleteDay)
	r.Get("/api/days/current", handler.GetCurrentDay)
	r.Get("/api/progress", handler.GetProgress)
	return r
}

func testDayProgress(t *testing.T, userID uuid.UUID, day int, status domain.DayStatus) *domain.DayProgress {
	t.Helper()
	progress, err := domain.NewDayProgress(userID, day, status)
	require.NoError(t, err)
	return progress
}

func TestStartDaySuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	started := testDayProgress(t, userID, 0, domain.DayStatusInProgress)
	svc := &mocks.MockProgressionService{Progress: started}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/0/start", "", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp DayProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Day)
	assert.Equal(t, string(domain.DayStatusInProgress), resp.Status)
	assert.Equal(t, 0, svc.LastDay)
}

func TestStartDayLockedRedirects(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mocks.MockProgressionService{
		StartDayFn: func(_ context.Context, _ uuid.UUID, _ int) (*domain.DayProgress, error) {
			return nil, progression.ErrDayLocked
		},
		CurrentDay: 2,
	}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/5/start", "", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/days/2", w.Header().Get("Location"))
}

func TestStartDayInvalidDayParam(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockProgressionService{}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/abc/start", "", uuid.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.StartDayCalls)
}

func TestCompleteDaySuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	completed := testDayProgress(t, userID, 1, domain.DayStatusCompleted)
	unlocked := testDayProgress(t, userID, 2, domain.DayStatusAvailable)
	svc := &mocks.MockProgressionService{
		Completion: &progression.CompletionResult{
			Progress: completed,
			Unlocked: unlocked,
			Achievements: []achievement.Event{
				{UserID: userID, Kind: achievement.KindFastMover, Day: 1, EmittedAt: time.Now().UTC()},
			},
		},
	}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/1/complete", "", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CompleteDayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.DayStatusCompleted), resp.Progress.Status)
	require.NotNil(t, resp.Unlocked)
	assert.Equal(t, 2, resp.Unlocked.Day)
	require.Len(t, resp.Achievements, 1)
	assert.Equal(t, string(achievement.KindFastMover), resp.Achievements[0].Kind)
	assert.False(t, resp.AlreadyCompleted)
}

func TestCompleteDayRepeatIsNoOp(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	completed := testDayProgress(t, userID, 0, domain.DayStatusCompleted)
	svc := &mocks.MockProgressionService{
		Completion: &progression.CompletionResult{
			Progress:         completed,
			AlreadyCompleted: true,
		},
	}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/0/complete", "", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CompleteDayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.AlreadyCompleted)
	assert.Nil(t, resp.Unlocked)
	assert.Empty(t, resp.Achievements)
}

func TestCompleteDayLockedRedirects(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mocks.MockProgressionService{
		CompleteDayFn: func(_ context.Context, _ uuid.UUID, _ int) (*progression.CompletionResult, error) {
			return nil, progression.ErrDayLocked
		},
		CurrentDay: 1,
	}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/4/complete", "", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/days/1", w.Header().Get("Location"))
}

func TestCompleteDayNotEnrolled(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockProgressionService{Err: progression.ErrNotEnrolled}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/0/complete", "", uuid.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompleteDayOutOfRange(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockProgressionService{Err: progression.ErrDayOutOfRange}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodPost, "/api/days/99/complete", "", uuid.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCurrentDay(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockProgressionService{CurrentDay: 3}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodGet, "/api/days/current", "", uuid.New())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CurrentDayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Day)
}

func TestGetProgress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mocks.MockProgressionService{
		History: []*domain.DayProgress{
			testDayProgress(t, userID, 0, domain.DayStatusCompleted),
			testDayProgress(t, userID, 1, domain.DayStatusInProgress),
		},
	}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	req := authenticatedRequest(http.MethodGet, "/api/progress", "", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 2)
	assert.Equal(t, 0, resp.Days[0].Day)
	assert.Equal(t, 1, resp.Days[1].Day)
}

func TestSprintEndpointsRequireUser(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockProgressionService{}
	router := newSprintRouter(NewSprintHandler(svc, testLogger()))

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/days/0/start"},
		{http.MethodPost, "/api/days/0/complete"},
		{http.MethodGet, "/api/days/current"},
		{http.MethodGet, "/api/progress"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, p.path)
	}
}
