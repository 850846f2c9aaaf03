package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist/internal/models"
	"checklist/internal/store"
)

var testStatic = fstest.MapFS{
	"index.html": {Data: []byte("<h1>DevOps Checklist Tracker</h1>")},
	"app.js":     {Data: []byte("console.log('ok')")},
}

func setupTestHandlers(t *testing.T, strict bool) (*Handlers, store.Store) {
	t.Helper()
	s := store.NewMemoryStore(store.DefaultSeed())
	t.Cleanup(func() { s.Close() })

	h := New(s, Options{Static: testStatic, Strict: strict})
	return h, s
}

// do sends a request through the full router.
func do(t *testing.T, h *Handlers, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	assert.Equal(t, code, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, message, decode[errorResponse](t, rec).Error)
}

func TestListTasks(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	tasks := decode[[]models.Task](t, rec)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Setup CI/CD Pipeline", tasks[1].Title)
	assert.Len(t, tasks[2].Steps, 10)
}

func TestListTasks_WireFormat(t *testing.T) {
	h, s := setupTestHandlers(t, false)
	_, err := s.CreateTask(context.Background(), models.NewTask{Title: "empty"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	raw := decode[[]map[string]any](t, rec)
	require.Len(t, raw, 4)
	assert.ElementsMatch(t, []string{"id", "title", "description", "steps", "createdAt"}, keys(raw[0]))
	assert.Equal(t, []any{}, raw[3]["steps"], "steps is never null")

	step := raw[0]["steps"].([]any)[0].(map[string]any)
	assert.ElementsMatch(t, []string{"id", "text", "completed"}, keys(step))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestGetTask(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodGet, "/api/tasks/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	task := decode[models.Task](t, rec)
	assert.Equal(t, int64(2), task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestGetTask_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	for _, target := range []string{"/api/tasks/99", "/api/tasks/abc", "/api/tasks/-1"} {
		t.Run(target, func(t *testing.T) {
			assertError(t, do(t, h, http.MethodGet, target, ""), http.StatusNotFound, "Task not found")
		})
	}
}

func TestGetTaskHandler_WithRouteContext(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	req := httptest.NewRequest("GET", "/api/tasks/3", nil)
	rec := httptest.NewRecorder()

	// Set up chi URL params
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "3")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	h.GetTask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deploy to Kubernetes", decode[models.Task](t, rec).Title)
}

func TestCreateTask(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"T","description":"D","steps":["a","b"]}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[models.Task](t, rec)
	assert.Equal(t, int64(4), task.ID)
	assert.Equal(t, "T", task.Title)
	assert.Equal(t, "D", task.Description)
	require.Len(t, task.Steps, 2)
	assert.Equal(t, models.Step{ID: 11, Text: "a"}, task.Steps[0])
	assert.Equal(t, models.Step{ID: 12, Text: "b"}, task.Steps[1])
}

func TestCreateTask_LenientAcceptsMissingFields(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	for _, body := range []string{"", "{}", `{"title":null,"steps":null}`, `{"title":"only"}`} {
		t.Run(body, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/tasks", body)

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			task := decode[models.Task](t, rec)
			assert.Empty(t, task.Steps)
			assert.Empty(t, task.Description)
		})
	}
}

func TestCreateTask_MalformedBody(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	tests := []struct {
		name      string
		body      string
		wantError string
		wantField string
	}{
		{name: "not json", body: `{"title":`, wantError: "invalid json"},
		{name: "trailing data", body: `{} {}`, wantError: "invalid json"},
		{name: "array body", body: `["a"]`, wantError: "invalid request body", wantField: "body"},
		{name: "steps not an array", body: `{"title":"T","steps":"a"}`, wantError: "invalid request body", wantField: "steps"},
		{name: "step not a string", body: `{"steps":["a",2]}`, wantError: "invalid request body", wantField: "steps/1"},
		{name: "title not a string", body: `{"title":5}`, wantError: "invalid request body", wantField: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/tasks", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decode[errorResponse](t, rec)
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.wantField != "" {
				assert.Contains(t, resp.Fields, tt.wantField)
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/api/tasks", "")
	assert.Len(t, decode[[]models.Task](t, rec), 3, "rejected bodies create nothing")
}

func TestCreateTask_Strict(t *testing.T) {
	h, _ := setupTestHandlers(t, true)

	rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"  ","steps":["ok",""]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Fields, "title")
	assert.Contains(t, resp.Fields, "description")
	assert.Contains(t, resp.Fields, "steps[1]")

	rec = do(t, h, http.MethodPost, "/api/tasks", `{"title":"T","description":"D","steps":["a"]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateTask(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodPut, "/api/tasks/1", `{"title":"Write a Dockerfile"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	task := decode[models.Task](t, rec)
	assert.Equal(t, "Write a Dockerfile", task.Title)
	assert.Equal(t, "Learn how to containerize an application using Docker", task.Description)
	assert.Len(t, task.Steps, 10)

	rec = do(t, h, http.MethodPut, "/api/tasks/1", `{"title":"","description":"New"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	task = decode[models.Task](t, rec)
	assert.Equal(t, "Write a Dockerfile", task.Title, "empty title keeps the old one")
	assert.Equal(t, "New", task.Description)
}

func TestUpdateTask_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	assertError(t, do(t, h, http.MethodPut, "/api/tasks/42", `{"title":"x"}`), http.StatusNotFound, "Task not found")
	assertError(t, do(t, h, http.MethodPut, "/api/tasks/42", `not json`), http.StatusNotFound, "Task not found")
}

func TestUpdateTask_MalformedBody(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	assertError(t, do(t, h, http.MethodPut, "/api/tasks/1", `{"title":`), http.StatusBadRequest, "invalid json")
	assertError(t, do(t, h, http.MethodPut, "/api/tasks/1", `{"title":["x"]}`), http.StatusBadRequest, "invalid request body")
}

func TestDeleteTask(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"message": "Task deleted successfully"}, decode[map[string]string](t, rec))

	assertError(t, do(t, h, http.MethodGet, "/api/tasks/1", ""), http.StatusNotFound, "Task not found")
	assertError(t, do(t, h, http.MethodDelete, "/api/tasks/1", ""), http.StatusNotFound, "Task not found")
}

func TestToggleStep(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodPatch, "/api/tasks/1/steps/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	task := decode[models.Task](t, rec)
	assert.True(t, task.Steps[2].Completed)
	assert.False(t, task.Steps[1].Completed)

	rec = do(t, h, http.MethodPatch, "/api/tasks/1/steps/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Task](t, rec).Steps[2].Completed)
}

func TestToggleStep_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	assertError(t, do(t, h, http.MethodPatch, "/api/tasks/9/steps/1", ""), http.StatusNotFound, "Task not found")
	assertError(t, do(t, h, http.MethodPatch, "/api/tasks/1/steps/99", ""), http.StatusNotFound, "Step not found")
	assertError(t, do(t, h, http.MethodPatch, "/api/tasks/1/steps/x", ""), http.StatusNotFound, "Step not found")
	assertError(t, do(t, h, http.MethodPatch, "/api/tasks/x/steps/x", ""), http.StatusNotFound, "Task not found")
}

func TestAddStep(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodPost, "/api/tasks/2/steps", `{"text":"Add a status badge"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[models.Task](t, rec)
	require.Len(t, task.Steps, 11)
	assert.Equal(t, models.Step{ID: 11, Text: "Add a status badge"}, task.Steps[10])
}

func TestAddStep_Errors(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	assertError(t, do(t, h, http.MethodPost, "/api/tasks/8/steps", `{"text":"x"}`), http.StatusNotFound, "Task not found")
	assertError(t, do(t, h, http.MethodPost, "/api/tasks/1/steps", `{"text":1}`), http.StatusBadRequest, "invalid request body")

	rec := do(t, h, http.MethodPost, "/api/tasks/1/steps", "")
	assert.Equal(t, http.StatusCreated, rec.Code, "lenient mode stores an empty step")
}

func TestAddStep_Strict(t *testing.T) {
	h, _ := setupTestHandlers(t, true)

	rec := do(t, h, http.MethodPost, "/api/tasks/1/steps", `{"text":" "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Fields, "text")
}

func TestDeleteStep(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodDelete, "/api/tasks/3/steps/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	task := decode[models.Task](t, rec)
	require.Len(t, task.Steps, 9)
	assert.Equal(t, int64(2), task.Steps[0].ID)
}

func TestDeleteStep_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	assertError(t, do(t, h, http.MethodDelete, "/api/tasks/1/steps/77", ""), http.StatusNotFound, "Step not found")
	assertError(t, do(t, h, http.MethodDelete, "/api/tasks/77/steps/77", ""), http.StatusNotFound, "Task not found")
}

func TestStats(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Stats{TotalTasks: 3, TotalSteps: 30}, decode[models.Stats](t, rec))

	raw := decode[map[string]any](t, rec)
	assert.ElementsMatch(t,
		[]string{"totalTasks", "completedTasks", "totalSteps", "completedSteps", "completionPercentage"},
		keys(raw))
}

func TestStats_Empty(t *testing.T) {
	s := store.NewMemoryStore(nil)
	h := New(s, Options{})

	rec := do(t, h, http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Stats{}, decode[models.Stats](t, rec))
}

func TestScenario_CreateToggleStats(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"T","description":"D","steps":["a","b"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[models.Task](t, rec)
	require.Len(t, task.Steps, 2)
	for _, step := range task.Steps {
		assert.False(t, step.Completed)
	}

	rec = do(t, h, http.MethodPatch, "/api/tasks/4/steps/11", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Task](t, rec).Steps[0].Completed)

	rec = do(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Stats{
		TotalTasks:           4,
		CompletedTasks:       0,
		TotalSteps:           32,
		CompletedSteps:       1,
		CompletionPercentage: 3,
	}, decode[models.Stats](t, rec))
}

func TestHealth(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, rec))
}

func TestStaticFrontend(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "DevOps Checklist Tracker")

	rec = do(t, h, http.MethodGet, "/app.js", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")
}

func TestUnknownAPIRoute(t *testing.T) {
	h, _ := setupTestHandlers(t, false)

	assertError(t, do(t, h, http.MethodGet, "/api/nope", ""), http.StatusNotFound, "Not found")
}

func TestSQLiteBackend(t *testing.T) {
	s, err := store.NewSQLiteStore(store.DefaultSeed())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	h := New(s, Options{})

	rec := do(t, h, http.MethodPost, "/api/tasks/1/steps", `{"text":"Scan the image"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(11), decode[models.Task](t, rec).Steps[10].ID)

	assertError(t, do(t, h, http.MethodDelete, "/api/tasks/1/steps/50", ""), http.StatusNotFound, "Step not found")
}
