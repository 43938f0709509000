package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/progression"
	"learnpath_backend/internal/service"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaths map[string]*model.LearningPath

func (s stubPaths) FetchPath(ctx context.Context, pathID string) (*model.LearningPath, error) {
	if p, ok := s[pathID]; ok {
		return p, nil
	}
	return nil, util.ErrPathNotFound
}

type stubStore struct {
	completed progression.CompletedSet
	loadErr   error
	saveErr   error
}

func (s *stubStore) LoadCompleted(ctx context.Context, learnerID, pathID string) (progression.CompletedSet, error) {
	if s.loadErr != nil {
		return nil, &progression.ProgressLoadError{LearnerID: learnerID, PathID: pathID, Err: s.loadErr}
	}
	return progression.NewCompletedSet(s.completed.IDs()...), nil
}

func (s *stubStore) MarkComplete(ctx context.Context, learnerID, pathID, unitID, moduleID string) error {
	if s.saveErr != nil {
		return &progression.ProgressSaveError{LearnerID: learnerID, PathID: pathID, ModuleID: moduleID, Err: s.saveErr}
	}
	s.completed.Add(moduleID)
	return nil
}

func rawPath() *model.LearningPath {
	return &model.LearningPath{
		UUIDBase: model.UUIDBase{ID: "P1"},
		Title:    "Go 入门",
		Units: []model.Unit{
			{UUIDBase: model.UUIDBase{ID: "U1"}, OrderNumber: 1, Modules: []model.Module{
				{UUIDBase: model.UUIDBase{ID: "M1"}, OrderNumber: 1},
				{UUIDBase: model.UUIDBase{ID: "M2"}, OrderNumber: 2},
			}},
		},
	}
}

func brokenPath() *model.LearningPath {
	return &model.LearningPath{
		UUIDBase: model.UUIDBase{ID: "BROKEN"},
		Units:    []model.Unit{{UUIDBase: model.UUIDBase{ID: "U1"}, OrderNumber: 1}},
	}
}

// fakeAuth 以 X-Learner 头模拟已登录学员
func fakeAuth(c *gin.Context) {
	if id := c.GetHeader("X-Learner"); id != "" {
		util.SetUser(c, &util.Claims{UserID: id, Role: "student"})
	}
	c.Next()
}

func newTestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewLearningPathService(stubPaths{"P1": rawPath(), "BROKEN": brokenPath()}, store, nil, nil)
	ctrl := NewLearningPathController(svc)

	r := gin.New()
	g := r.Group("/api/learning-paths/:id", fakeAuth)
	g.GET("", ctrl.GetPath)
	g.GET("/navigator", ctrl.Open)
	g.POST("/navigator/units/:unitId/modules/:moduleId", ctrl.SelectModule)
	g.POST("/navigator/complete", ctrl.Complete)
	g.POST("/navigator/advance", ctrl.Advance)
	g.GET("/progress", ctrl.GetProgress)
	return r
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    *service.NavigatorView `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, url, learner string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if learner != "" {
		req.Header.Set("X-Learner", learner)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestLearningPathController_GetPathErrors(t *testing.T) {
	r := newTestRouter(&stubStore{completed: progression.NewCompletedSet()})

	tests := []struct {
		url  string
		want int
	}{
		{"/api/learning-paths/P1", http.StatusOK},
		{"/api/learning-paths/missing", http.StatusNotFound},
		{"/api/learning-paths/BROKEN", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		w, _ := do(t, r, http.MethodGet, tt.url, "", nil)
		assert.Equal(t, tt.want, w.Code, tt.url)
	}
}

func TestLearningPathController_Open(t *testing.T) {
	store := &stubStore{completed: progression.NewCompletedSet("M1")}
	r := newTestRouter(store)

	w, env := do(t, r, http.MethodGet, "/api/learning-paths/P1/navigator", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Data)
	assert.Equal(t, "M2", env.Data.Selection.ModuleID)

	w, env = do(t, r, http.MethodGet, "/api/learning-paths/P1/navigator?narrow=maybe", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLearningPathController_SaveFailureReturns503WithState(t *testing.T) {
	store := &stubStore{completed: progression.NewCompletedSet(), saveErr: errors.New("db down")}
	r := newTestRouter(store)

	// 无服务端会话，选择通过请求体携带
	session := progression.Snapshot{Kind: progression.KindModule, UnitID: "U1", ModuleID: "M1"}
	w, env := do(t, r, http.MethodPost, "/api/learning-paths/P1/navigator/complete", "alice", ActionRequest{Session: &session})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotNil(t, env.Data)
	assert.Equal(t, "M1", env.Data.Selection.ModuleID)
	assert.Empty(t, env.Data.CompletedModules)
}

func TestLearningPathController_InvalidSelectionIsIgnored(t *testing.T) {
	r := newTestRouter(&stubStore{completed: progression.NewCompletedSet()})

	w, env := do(t, r, http.MethodPost, "/api/learning-paths/P1/navigator/units/U1/modules/M9", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Data)
	assert.NotEmpty(t, env.Data.Warning)
	assert.Equal(t, progression.KindIntroduction, env.Data.Selection.Kind)
}

func TestLearningPathController_Progress(t *testing.T) {
	r := newTestRouter(&stubStore{completed: progression.NewCompletedSet("M1")})

	w, _ := do(t, r, http.MethodGet, "/api/learning-paths/P1/progress", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/learning-paths/P1/progress", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data progression.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.CompletedModules)
	assert.Equal(t, 50.0, body.Data.Percent)

	// 读取进度失败时返回零进度与 warning
	r = newTestRouter(&stubStore{loadErr: errors.New("db down")})
	w, _ = do(t, r, http.MethodGet, "/api/learning-paths/P1/progress", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var degraded struct {
		Data service.ProgressView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &degraded))
	assert.Equal(t, 0, degraded.Data.CompletedModules)
	assert.Equal(t, 2, degraded.Data.TotalModules)
	assert.NotEmpty(t, degraded.Data.Warning)
}

func TestLearningPathController_ChunkedBodyIsBound(t *testing.T) {
	r := newTestRouter(&stubStore{completed: progression.NewCompletedSet()})

	body := `{"session":{"kind":"module","unitId":"U1","moduleId":"M1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/P1/navigator/complete", io.NopCloser(strings.NewReader(body)))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Data)
	assert.Empty(t, env.Data.Warning)
	assert.Equal(t, "M2", env.Data.Selection.ModuleID)
	assert.Equal(t, []string{"M1"}, env.Data.CompletedModules)
}

func TestLearningPathController_EmptyBodyIsAccepted(t *testing.T) {
	r := newTestRouter(&stubStore{completed: progression.NewCompletedSet()})

	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/P1/navigator/advance", io.NopCloser(strings.NewReader("")))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
