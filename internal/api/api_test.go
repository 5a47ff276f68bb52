package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"daily-routine/internal/analyzer"
	"daily-routine/internal/model"
	"daily-routine/internal/notify"
	"daily-routine/internal/repository"
	"daily-routine/internal/service"
	"daily-routine/internal/storage"
	"daily-routine/internal/template"
)

type grantAll struct{ delivered int }

func (p *grantAll) Status(context.Context, string) (bool, error)            { return true, nil }
func (p *grantAll) RequestPermission(context.Context, string) (bool, error) { return true, nil }
func (p *grantAll) Deliver(context.Context, string, notify.Notification) error {
	p.delivered++
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *storage.MemoryKV) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := storage.NewMemoryKV()
	store := storage.NewAdapter(kv)
	notifier := notify.NewService(&grantAll{}, notify.WithLocation(time.UTC))
	tasks := service.NewTaskService(store, notifier, 0)
	trackers := service.NewTrackerService(store, notifier, tasks, time.UTC)
	catalog, err := template.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	router := NewRouter(Deps{
		Tasks:     tasks,
		Templates: service.NewTemplateService(catalog, tasks),
		Trackers:  trackers,
		Reports:   service.NewReportService(tasks, trackers),
		Auth:      service.NewAuthService(repository.NewUserRepository(db)),
		Notifier:  notifier,
		Location:  time.UTC,
	})
	return router, kv
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Error string `json:"error"`
		Data  T      `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return env.Data
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)
	if w := do(t, router, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("/health = %d", w.Code)
	}
	do(t, router, http.MethodGet, "/api/profiles/p/tasks", nil)
	w := do(t, router, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "routine_http_requests_total") {
		t.Errorf("/metrics = %d", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	base := "/api/profiles/p1/tasks"

	w := do(t, router, http.MethodPost, base, map[string]interface{}{
		"name": "Read", "time": "08:00", "category": "Study", "priority": "low",
		"repeat": "none", "duration": 30, "goal": 1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	task := decode[model.Task](t, w)
	if task.ID == "" || task.Order != 0 || task.Completed {
		t.Fatalf("created = %+v", task)
	}

	w = do(t, router, http.MethodPost, base+"/"+task.ID+"/toggle", nil)
	if got := decode[model.Task](t, w); !got.Completed || got.Streak != 1 {
		t.Errorf("toggle = %+v", got)
	}

	w = do(t, router, http.MethodPut, base+"/"+task.ID, map[string]interface{}{
		"name": "Read more", "time": "21:00", "category": "Study", "priority": "high", "repeat": "daily",
	})
	if got := decode[model.Task](t, w); got.Name != "Read more" || !got.Completed || got.Streak != 1 {
		t.Errorf("update = %d %+v", w.Code, got)
	}

	w = do(t, router, http.MethodGet, base, nil)
	if tasks := decode[[]model.Task](t, w); len(tasks) != 1 {
		t.Errorf("list = %+v", tasks)
	}

	if w = do(t, router, http.MethodDelete, base+"/"+task.ID, nil); w.Code != http.StatusOK {
		t.Errorf("delete = %d", w.Code)
	}
	if w = do(t, router, http.MethodDelete, base+"/"+task.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", w.Code)
	}
	if w = do(t, router, http.MethodGet, base+"/"+task.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", w.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	cases := []map[string]interface{}{
		{"name": "x", "time": "8:00", "category": "Study", "priority": "low", "repeat": "none"},
		{"name": "", "time": "08:00", "category": "Study", "priority": "low", "repeat": "none"},
		{"name": "x", "time": "08:00", "category": "Chores", "priority": "low", "repeat": "none"},
		{"name": "x", "time": "08:00", "category": "Study", "priority": "urgent", "repeat": "none"},
	}
	for _, body := range cases {
		if w := do(t, router, http.MethodPost, "/api/profiles/p/tasks", body); w.Code != http.StatusBadRequest {
			t.Errorf("%v = %d %s", body, w.Code, w.Body.String())
		}
	}
}

func TestTemplatesReorderAndReport(t *testing.T) {
	router, _ := newTestRouter(t)
	base := "/api/profiles/p2"

	w := do(t, router, http.MethodPost, base+"/templates/morning-routine/apply", nil)
	if added := decode[[]model.Task](t, w); w.Code != http.StatusCreated || len(added) != 4 {
		t.Fatalf("apply = %d %+v", w.Code, added)
	}
	if w = do(t, router, http.MethodPost, base+"/templates/missing/apply", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown template = %d", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/reorder", map[string]int{"from": 3, "to": 0})
	tasks := decode[[]model.Task](t, w)
	if len(tasks) != 4 || tasks[0].Name != "Top 3 Priority Tasks" || tasks[3].Order != 3 {
		t.Errorf("reorder = %d %+v", w.Code, tasks)
	}
	if w = do(t, router, http.MethodPost, base+"/reorder", map[string]int{"from": 9, "to": 0}); w.Code != http.StatusBadRequest {
		t.Errorf("out of range reorder = %d", w.Code)
	}

	do(t, router, http.MethodPut, base+"/mood?date=2024-03-04", map[string]string{"mood": "good"})
	w = do(t, router, http.MethodGet, base+"/report?date=2024-03-04", nil)
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.HasPrefix(body, "DAILY ROUTINE REPORT\nDate: Monday, March 4, 2024\n") ||
		!strings.Contains(body, "Today's Mood: 😊 good") || !strings.Contains(body, "○ Top 3 Priority Tasks (09:00) - Work") {
		t.Errorf("report = %d %q", w.Code, body)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "daily-routine-2024-03-04.txt") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestAnalysisEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	base := "/api/profiles/p3"

	w := do(t, router, http.MethodPost, base+"/analysis", nil)
	res := decode[analyzer.Result](t, w)
	if len(res.Activities) != 3 {
		t.Fatalf("analysis = %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, base+"/analysis", nil)
	if !strings.Contains(w.Body.String(), `"state":"ready"`) {
		t.Errorf("state = %s", w.Body.String())
	}

	w = do(t, router, http.MethodPost, base+"/analysis/apply", map[string]string{"name": res.Activities[0].Name})
	if task := decode[model.Task](t, w); task.Time != "09:00" || task.Icon != "✨" {
		t.Errorf("apply = %+v", task)
	}
}

func TestTrackerEndpoints(t *testing.T) {
	router, kv := newTestRouter(t)
	base := "/api/profiles/p4"

	for i := 0; i < 2; i++ {
		do(t, router, http.MethodPost, base+"/water?date=2024-03-04", map[string]int{"delta": -1})
	}
	w := do(t, router, http.MethodPost, base+"/water?date=2024-03-04", struct{}{})
	if water := decode[model.WaterIntake](t, w); water.Amount != 1 || water.Goal != 8 {
		t.Errorf("water = %+v", water)
	}
	for _, delta := range []int{5, -3, 0} {
		if w = do(t, router, http.MethodPost, base+"/water?date=2024-03-04", map[string]int{"delta": delta}); w.Code != http.StatusBadRequest {
			t.Errorf("water delta %d = %d", delta, w.Code)
		}
	}
	for _, path := range []string{"/mood?date=garbage", "/journal?date=2024-13-40"} {
		if w = do(t, router, http.MethodGet, base+path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}

	if w = do(t, router, http.MethodPut, base+"/journal?date=2024-03-04", map[string]string{"content": " "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank journal = %d", w.Code)
	}
	if w = do(t, router, http.MethodGet, base+"/mood?date=2024-03-04", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing mood = %d", w.Code)
	}
	if w = do(t, router, http.MethodPut, base+"/mood?date=yesterday", map[string]string{"mood": "good"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d", w.Code)
	}
	if w = do(t, router, http.MethodPut, base+"/mood", map[string]string{"mood": "ecstatic"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad mood = %d", w.Code)
	}

	w = do(t, router, http.MethodGet, base+"/health?date=2024-03-04", nil)
	if snap := decode[model.HealthSnapshot](t, w); snap.Sleep.Quality != 5 {
		t.Errorf("default health = %+v", snap)
	}
	w = do(t, router, http.MethodPut, base+"/health?date=2024-03-04", map[string]interface{}{"sleep": map[string]int{"quality": 12}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad health = %d", w.Code)
	}

	if w = do(t, router, http.MethodPost, base+"/focus/toggle", nil); w.Code != http.StatusNotFound {
		t.Errorf("toggle unset focus = %d", w.Code)
	}

	if w = do(t, router, http.MethodPost, base+"/settings/test", nil); w.Code != http.StatusBadRequest {
		t.Errorf("test before enabling = %d", w.Code)
	}
	w = do(t, router, http.MethodPost, base+"/settings/permission", map[string]bool{"enabled": true})
	if !strings.Contains(w.Body.String(), `"granted":true`) {
		t.Errorf("permission = %s", w.Body.String())
	}
	if w = do(t, router, http.MethodPost, base+"/settings/test", nil); w.Code != http.StatusOK {
		t.Errorf("test after enabling = %d", w.Code)
	}
	if w = do(t, router, http.MethodPut, base+"/settings", map[string]interface{}{"enabled": true, "reminderMinutes": 0}); w.Code != http.StatusBadRequest {
		t.Errorf("bad settings = %d", w.Code)
	}

	kv.Put(context.Background(), "p4", storage.KeyMoods, []byte("not json"))
	if w = do(t, router, http.MethodGet, base+"/mood", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("corrupt mood = %d", w.Code)
	}
}

func TestAuthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	reg := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1", "confirmPassword": "secret1"}

	w := do(t, router, http.MethodPost, "/api/auth/register", reg)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"profile":"user-1"`) {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}
	if w = do(t, router, http.MethodPost, "/api/auth/register", reg); w.Code != http.StatusConflict {
		t.Errorf("duplicate = %d", w.Code)
	}
	reg["email"] = "b@example.com"
	reg["confirmPassword"] = "other"
	w = do(t, router, http.MethodPost, "/api/auth/register", reg)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "passwords do not match") {
		t.Errorf("mismatch = %d %s", w.Code, w.Body.String())
	}

	if w = do(t, router, http.MethodPost, "/api/auth/login", map[string]string{"email": "ada@example.com", "password": "secret1"}); w.Code != http.StatusOK {
		t.Errorf("login = %d", w.Code)
	}
	if w = do(t, router, http.MethodPost, "/api/auth/login", map[string]string{"email": "ada@example.com", "password": "nope"}); w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d", w.Code)
	}
}
