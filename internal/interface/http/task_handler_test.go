package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/router"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
	"github.com/oksasatya/go-task-manager/pkg/apperr"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// in-memory stores standing in for postgres; same (id, owner) scoping rules.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User // by email
	byID  map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}, byID: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return apperr.New(apperr.Conflict, "email already registered")
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%03d", m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.Email] = &cp
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]entity.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[string]entity.Task{}}
}

func (m *memTaskRepo) Create(_ context.Context, t *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = fmt.Sprintf("task-%03d", m.seq)
	t.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	t.UpdatedAt = t.CreatedAt
	m.tasks[t.ID] = *t
	return nil
}

func (m *memTaskRepo) ListByOwner(_ context.Context, userID, search string) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == userID && (search == "" || strings.Contains(t.Title, search)) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memTaskRepo) GetByID(_ context.Context, id, userID string) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "task not found")
	}
	cp := t
	return &cp, nil
}

func (m *memTaskRepo) Update(_ context.Context, id, userID string, patch entity.TaskPatch) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return nil, apperr.New(apperr.NotFound, "task not found")
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now().Add(time.Second)
	m.tasks[id] = t
	cp := t
	return &cp, nil
}

func (m *memTaskRepo) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return apperr.New(apperr.NotFound, "task not found")
	}
	delete(m.tasks, id)
	return nil
}

type envelope struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func newTestServer(t *testing.T) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	authSvc := application.NewAuthService(newMemUserRepo(), jwt, nil, nil, nil, "go-task-manager")
	taskSvc := application.NewTaskService(newMemTaskRepo(), nil)

	engine := gin.New()
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, nil)))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(authSvc, nil), jwt))
	reg.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, nil), jwt))
	reg.RegisterAll()
	return engine, jwt
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func registerUser(t *testing.T, engine *gin.Engine, name, email string) string {
	t.Helper()
	w, env := doJSON(t, engine, http.MethodPost, "/auth/register", "", gin.H{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginProfile(t *testing.T) {
	engine, _ := newTestServer(t)

	token := registerUser(t, engine, "John Doe", "john@example.com")

	w, env := doJSON(t, engine, http.MethodPost, "/auth/login", "", gin.H{
		"email": "john@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	user := env.Data["user"].(map[string]any)
	require.Equal(t, "john@example.com", user["email"])
	require.NotContains(t, user, "password")
	require.NotContains(t, user, "password_hash")

	w, env = doJSON(t, engine, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := env.Data["user"].(map[string]any)
	require.Equal(t, "John Doe", profile["name"])

	w, _ = doJSON(t, engine, http.MethodGet, "/user/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidationAndConflict(t *testing.T) {
	engine, _ := newTestServer(t)

	// Password below the minimum.
	w, _ := doJSON(t, engine, http.MethodPost, "/auth/register", "", gin.H{
		"name": "John", "email": "john@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	registerUser(t, engine, "John", "john@example.com")
	w, _ = doJSON(t, engine, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Someone Else", "email": "john@example.com", "password": "password456",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	engine, _ := newTestServer(t)
	registerUser(t, engine, "John", "john@example.com")

	w1, env1 := doJSON(t, engine, http.MethodPost, "/auth/login", "", gin.H{
		"email": "john@example.com", "password": "wrongpass",
	})
	w2, env2 := doJSON(t, engine, http.MethodPost, "/auth/login", "", gin.H{
		"email": "ghost@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, w1.Code)
	require.Equal(t, http.StatusUnauthorized, w2.Code)
	require.Equal(t, env1.Message, env2.Message, "login failures must be indistinguishable")
}

func TestTaskCRUDFlow(t *testing.T) {
	engine, _ := newTestServer(t)
	token := registerUser(t, engine, "John", "john@example.com")

	w, env := doJSON(t, engine, http.MethodPost, "/tasks", token, gin.H{
		"title": "  Write report  ", "description": "quarterly numbers",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	task := env.Data["task"].(map[string]any)
	require.Equal(t, "Write report", task["title"])
	require.Equal(t, "pending", task["status"])
	taskID := task["id"].(string)

	w, env = doJSON(t, engine, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := env.Data["tasks"].([]any)
	require.Len(t, tasks, 1)

	w, env = doJSON(t, engine, http.MethodPut, "/tasks/"+taskID, token, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := env.Data["task"].(map[string]any)
	require.Equal(t, "completed", updated["status"])
	require.Equal(t, "Write report", updated["title"])

	w, env = doJSON(t, engine, http.MethodGet, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "completed", env.Data["task"].(map[string]any)["status"])

	w, _ = doJSON(t, engine, http.MethodDelete, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, engine, http.MethodGet, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskValidationErrors(t *testing.T) {
	engine, _ := newTestServer(t)
	token := registerUser(t, engine, "John", "john@example.com")

	w, _ := doJSON(t, engine, http.MethodPost, "/tasks", token, gin.H{"title": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doJSON(t, engine, http.MethodPost, "/tasks", token, gin.H{"title": "Real task"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := env.Data["task"].(map[string]any)["id"].(string)

	w, _ = doJSON(t, engine, http.MethodPut, "/tasks/"+taskID, token, gin.H{"status": "done"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Rejected update must not have touched the record.
	w, env = doJSON(t, engine, http.MethodGet, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pending", env.Data["task"].(map[string]any)["status"])
}

func TestTaskOwnershipIsolation(t *testing.T) {
	engine, _ := newTestServer(t)
	tokenA := registerUser(t, engine, "Alice", "alice@example.com")
	tokenB := registerUser(t, engine, "Bob", "bob@example.com")

	_, env := doJSON(t, engine, http.MethodPost, "/tasks", tokenA, gin.H{"title": "Alice's secret"})
	taskID := env.Data["task"].(map[string]any)["id"].(string)

	w, _ := doJSON(t, engine, http.MethodGet, "/tasks/"+taskID, tokenB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, engine, http.MethodPut, "/tasks/"+taskID, tokenB, gin.H{"title": "hijacked"})
	require.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, engine, http.MethodDelete, "/tasks/"+taskID, tokenB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, engine, http.MethodGet, "/tasks", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, env.Data["tasks"])

	// Still intact for the owner.
	w, env = doJSON(t, engine, http.MethodGet, "/tasks/"+taskID, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Alice's secret", env.Data["task"].(map[string]any)["title"])
}

func TestTaskSearch(t *testing.T) {
	engine, _ := newTestServer(t)
	token := registerUser(t, engine, "John", "john@example.com")

	for _, title := range []string{"Write report", "Report taxes", "Walk dog"} {
		w, _ := doJSON(t, engine, http.MethodPost, "/tasks", token, gin.H{"title": title})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := doJSON(t, engine, http.MethodGet, "/tasks?search=eport", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.Data["tasks"].([]any), 2)

	w, env = doJSON(t, engine, http.MethodGet, "/tasks?search=", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.Data["tasks"].([]any), 3)
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	engine, _ := newTestServer(t)

	expired := helpers.NewJWTManager("test-secret", -time.Hour)
	expiredTok, _, err := expired.Generate("user-001")
	require.NoError(t, err)
	forged := helpers.NewJWTManager("evil-secret", time.Hour)
	forgedTok, _, err := forged.Generate("user-001")
	require.NoError(t, err)

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks/task-001"},
		{http.MethodPut, "/tasks/task-001"},
		{http.MethodDelete, "/tasks/task-001"},
		{http.MethodGet, "/user/profile"},
	}
	for _, rt := range routes {
		for name, tok := range map[string]string{"none": "", "expired": expiredTok, "forged": forgedTok} {
			w, _ := doJSON(t, engine, rt.method, rt.path, tok, gin.H{})
			require.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s with %s token", rt.method, rt.path, name)
		}
	}
}
