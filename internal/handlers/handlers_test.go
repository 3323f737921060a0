package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/models"
	"github.com/hackfair/domare/internal/scoring"
	"github.com/hackfair/domare/internal/store/sqlite"
)

// setupServer wires the full route table over an in-memory database, with
// auth disabled so handlers can be exercised without Redis.
func setupServer(t *testing.T) (*app.Service, *http.ServeMux, func()) {
	t.Helper()

	st, err := sqlite.NewSQLiteStore(":memory:", "../../migrations")
	require.NoError(t, err, "Failed to create store")

	config := &app.Config{}
	config.Server.Port = ":0"
	config.Retention.JudgeDeletePolicy = app.JudgeDeletePolicyKeep
	config.Leaderboard.Limit = 10

	auth, err := app.NewAuth(config)
	require.NoError(t, err)

	service := &app.Service{
		Config: config,
		Store:  st,
		Auth:   auth,
		Scores: scoring.Policy{},
	}

	studentHandler := NewStudentHandler(service)
	judgeHandler := NewJudgeHandler(service)
	eventHandler := NewEventHandler(service)
	projectHandler := NewProjectHandler(service)
	reviewHandler := NewReviewHandler(service)
	analyticsHandler := NewAnalyticsHandler(service)

	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"POST /api/student/login":    studentHandler.HandleLogin,
		"POST /api/student/register": studentHandler.HandleRegister,
		"PUT /api/student/update":    studentHandler.HandleUpdateProfile,

		"GET /api/judges":         judgeHandler.HandleList,
		"POST /api/judges":        judgeHandler.HandleCreate,
		"DELETE /api/judges/{id}": judgeHandler.HandleDelete,
		"PUT /api/judge/update":   judgeHandler.HandleUpdate,
		"POST /api/judge/login":   judgeHandler.HandleLogin,
		"POST /api/judge_event":   judgeHandler.HandleAssign,

		"GET /api/events":                 eventHandler.HandleList,
		"POST /api/events":                eventHandler.HandleCreate,
		"PUT /api/events/{id}":            eventHandler.HandleUpdate,
		"DELETE /api/events/{id}":         eventHandler.HandleDelete,
		"GET /api/events/judge/{judgeId}": judgeHandler.HandleAssignedEvents,

		"GET /api/projects":                     projectHandler.HandleList,
		"POST /api/projects":                    projectHandler.HandleCreate,
		"DELETE /api/projects/{id}":             projectHandler.HandleDelete,
		"GET /api/projects/event/{eventId}":     projectHandler.HandleListByEvent,
		"GET /api/projects/student/{studentId}": projectHandler.HandleListByStudent,
		"GET /api/project/{id}":                 projectHandler.HandleDetail,
		"POST /api/projects/review":             reviewHandler.HandleSubmit,

		"GET /api/leaderboard":     analyticsHandler.HandleLeaderboard,
		"GET /api/admin/analytics": analyticsHandler.HandleSummary,
	}
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}

	cleanup := func() {
		require.NoError(t, service.Close())
	}
	return service, mux, cleanup
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	if msg, ok := body["message"]; ok {
		return msg
	}
	return body["error"]
}

func registerStudent(t *testing.T, mux *http.ServeMux, name, email, password string) int64 {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/api/student/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, mux, http.MethodPost, "/api/student/login", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		User models.StudentProfile `json:"user"`
	}
	decodeBody(t, rec, &body)
	return body.User.ID
}

func TestStudentRegistrationAndLogin(t *testing.T) {
	_, mux, cleanup := setupServer(t)
	defer cleanup()

	rec := doJSON(t, mux, http.MethodPost, "/api/student/register", map[string]string{
		"name": "Sam", "email": "sam@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Student registered", messageOf(t, rec))

	t.Run("duplicate email rejected", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/student/register", map[string]string{
			"name": "Other", "email": "sam@x.com", "password": "different",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already registered", messageOf(t, rec))
	})

	t.Run("login returns profile without password", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/student/login", map[string]string{
			"email": "sam@x.com", "password": "hunter22",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			User models.StudentProfile `json:"user"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, "Sam", body.User.Name)
		assert.Equal(t, "sam@x.com", body.User.Email)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("wrong password and unknown email fail alike", func(t *testing.T) {
		wrongPass := doJSON(t, mux, http.MethodPost, "/api/student/login", map[string]string{
			"email": "sam@x.com", "password": "nope",
		})
		unknownEmail := doJSON(t, mux, http.MethodPost, "/api/student/login", map[string]string{
			"email": "ghost@x.com", "password": "hunter22",
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/student/register", map[string]string{
			"name": "NoEmail",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("profile update changes name and password", func(t *testing.T) {
		id := registerStudent(t, mux, "Kim", "kim@x.com", "oldpass")

		rec := doJSON(t, mux, http.MethodPut, "/api/student/update", map[string]interface{}{
			"id": id, "name": "Kimberly", "password": "newpass",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Profile updated", messageOf(t, rec))

		old := doJSON(t, mux, http.MethodPost, "/api/student/login", map[string]string{
			"email": "kim@x.com", "password": "oldpass",
		})
		assert.Equal(t, http.StatusUnauthorized, old.Code)

		fresh := doJSON(t, mux, http.MethodPost, "/api/student/login", map[string]string{
			"email": "kim@x.com", "password": "newpass",
		})
		require.Equal(t, http.StatusOK, fresh.Code)
		assert.Contains(t, fresh.Body.String(), "Kimberly")
	})
}

func TestJudgeLifecycle(t *testing.T) {
	_, mux, cleanup := setupServer(t)
	defer cleanup()

	rec := doJSON(t, mux, http.MethodPost, "/api/judges", map[string]string{
		"id": "judge.anna", "password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Judge created", messageOf(t, rec))

	t.Run("duplicate id rejected", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/judges", map[string]string{
			"id": "judge.anna", "password": "other",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Judge already exists", messageOf(t, rec))
	})

	t.Run("list exposes ids only", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/judges", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var judges []map[string]string
		decodeBody(t, rec, &judges)
		require.Len(t, judges, 1)
		assert.Equal(t, "judge.anna", judges[0]["id"])
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("login with valid and invalid credentials", func(t *testing.T) {
		good := doJSON(t, mux, http.MethodPost, "/api/judge/login", map[string]string{
			"id": "judge.anna", "password": "secret",
		})
		require.Equal(t, http.StatusOK, good.Code)

		var info models.TokenInfo
		decodeBody(t, good, &info)
		assert.Equal(t, "judge.anna", info.JudgeID)

		bad := doJSON(t, mux, http.MethodPost, "/api/judge/login", map[string]string{
			"id": "judge.anna", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, bad.Code)
	})

	t.Run("password update takes effect", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPut, "/api/judge/update", map[string]string{
			"id": "judge.anna", "password": "rotated",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Password updated", messageOf(t, rec))

		good := doJSON(t, mux, http.MethodPost, "/api/judge/login", map[string]string{
			"id": "judge.anna", "password": "rotated",
		})
		assert.Equal(t, http.StatusOK, good.Code)
	})

	t.Run("empty password update is a no-op", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPut, "/api/judge/update", map[string]string{
			"id": "judge.anna",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		good := doJSON(t, mux, http.MethodPost, "/api/judge/login", map[string]string{
			"id": "judge.anna", "password": "rotated",
		})
		assert.Equal(t, http.StatusOK, good.Code)
	})

	t.Run("delete removes the credential", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodDelete, "/api/judges/judge.anna", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Judge deleted", messageOf(t, rec))

		gone := doJSON(t, mux, http.MethodPost, "/api/judge/login", map[string]string{
			"id": "judge.anna", "password": "rotated",
		})
		assert.Equal(t, http.StatusUnauthorized, gone.Code)
	})
}

func TestJudgeAssignment(t *testing.T) {
	_, mux, cleanup := setupServer(t)
	defer cleanup()

	rec := doJSON(t, mux, http.MethodPost, "/api/events", map[string]string{
		"name": "Hack1", "date": "2024-03-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/judges", map[string]string{
		"id": "judge.bo", "password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assign := map[string]interface{}{"judgeId": "judge.bo", "eventId": 1}
	for i := 0; i < 2; i++ {
		rec := doJSON(t, mux, http.MethodPost, "/api/judge_event", assign)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Judge assigned", messageOf(t, rec))
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/events/judge/judge.bo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.Event
	decodeBody(t, rec, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "Hack1", events[0].Name)

	t.Run("unassigned judge gets empty list", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/events/judge/judge.nobody", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}

func TestEventCRUD(t *testing.T) {
	_, mux, cleanup := setupServer(t)
	defer cleanup()

	rec := doJSON(t, mux, http.MethodPost, "/api/events", map[string]string{
		"name": "Older", "date": "2024-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, mux, http.MethodPost, "/api/events", map[string]string{
		"name": "Newer", "date": "2024-06-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("list is newest first", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/events", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var events []models.Event
		decodeBody(t, rec, &events)
		require.Len(t, events, 2)
		assert.Equal(t, "Newer", events[0].Name)
		assert.Equal(t, "Older", events[1].Name)
	})

	t.Run("update", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPut, "/api/events/1", map[string]string{
			"name": "Renamed", "date": "2024-01-02",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Event updated", messageOf(t, rec))
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodDelete, "/api/events/2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := doJSON(t, mux, http.MethodGet, "/api/events", nil)
		var events []models.Event
		decodeBody(t, list, &events)
		require.Len(t, events, 1)
		assert.Equal(t, "Renamed", events[0].Name)
	})
}

func TestReviewSubmissionFlow(t *testing.T) {
	service, mux, cleanup := setupServer(t)
	defer cleanup()

	rec := doJSON(t, mux, http.MethodPost, "/api/events", map[string]string{
		"name": "SciFair", "date": "2024-04-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	studentID := registerStudent(t, mux, "Sam", "sam@x.com", "hunter22")

	rec = doJSON(t, mux, http.MethodPost, "/api/projects", map[string]interface{}{
		"title": "Volcano", "description": "baking soda", "event_id": 1, "user_id": studentID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project added", messageOf(t, rec))

	rec = doJSON(t, mux, http.MethodPost, "/api/projects/review", map[string]interface{}{
		"judgeId": "judge.anna", "projectId": 1, "score": 5, "feedback": "ok",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review saved", messageOf(t, rec))

	t.Run("resubmission overwrites", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/projects/review", map[string]interface{}{
			"judgeId": "judge.anna", "projectId": 1, "score": 8, "feedback": "better",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		detail := doJSON(t, mux, http.MethodGet, "/api/project/1", nil)
		require.Equal(t, http.StatusOK, detail.Code)

		var body struct {
			Project models.ProjectDetail `json:"project"`
			Reviews []models.Review      `json:"reviews"`
		}
		decodeBody(t, detail, &body)
		assert.Equal(t, "Volcano", body.Project.Title)
		assert.Equal(t, "SciFair", body.Project.EventName)
		require.Len(t, body.Reviews, 1)
		assert.Equal(t, 8, body.Reviews[0].Score)
		assert.Equal(t, "better", body.Reviews[0].Feedback)
	})

	t.Run("student view embeds reviews", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/projects/student/%d", studentID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var projects []models.ProjectWithReviews
		decodeBody(t, rec, &projects)
		require.Len(t, projects, 1)
		require.Len(t, projects[0].Reviews, 1)
		assert.Equal(t, "judge.anna", projects[0].Reviews[0].JudgeID)
	})

	t.Run("leaderboard reflects mean score", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/leaderboard", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []models.LeaderboardRow
		decodeBody(t, rec, &rows)
		require.Len(t, rows, 1)
		assert.Equal(t, "Volcano", rows[0].Title)
		assert.InDelta(t, 8.0, rows[0].AvgScore, 0.001)
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/projects/review", map[string]interface{}{
			"score": 5,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("range enforcement when enabled", func(t *testing.T) {
		service.Scores = scoring.Policy{EnforceRange: true, MinScore: 1, MaxScore: 10}
		defer func() { service.Scores = scoring.Policy{} }()

		rec := doJSON(t, mux, http.MethodPost, "/api/projects/review", map[string]interface{}{
			"judgeId": "judge.anna", "projectId": 1, "score": 11,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, mux, http.MethodPost, "/api/projects/review", map[string]interface{}{
			"judgeId": "judge.anna", "projectId": 1, "score": 10, "feedback": "capped",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("project not found", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/project/999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Project not found", messageOf(t, rec))
	})
}

func TestAnalyticsSummaryEndpoint(t *testing.T) {
	_, mux, cleanup := setupServer(t)
	defer cleanup()

	t.Run("empty database", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/api/admin/analytics", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary models.AnalyticsSummary
		decodeBody(t, rec, &summary)
		assert.Zero(t, summary.TotalStudents)
		assert.Nil(t, summary.TopEvent)
		assert.Nil(t, summary.TopProject)
	})

	t.Run("populated", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodPost, "/api/events", map[string]string{
			"name": "Hack1", "date": "2024-03-01",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		studentID := registerStudent(t, mux, "Sam", "sam@x.com", "hunter22")
		rec = doJSON(t, mux, http.MethodPost, "/api/projects", map[string]interface{}{
			"title": "Volcano", "event_id": 1, "user_id": studentID,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, mux, http.MethodGet, "/api/admin/analytics", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary models.AnalyticsSummary
		decodeBody(t, rec, &summary)
		assert.Equal(t, int64(1), summary.TotalStudents)
		assert.Equal(t, int64(1), summary.TotalEvents)
		assert.Equal(t, int64(1), summary.TotalProjects)
		require.NotNil(t, summary.TopEvent)
		assert.Equal(t, "Hack1", *summary.TopEvent)
	})
}
