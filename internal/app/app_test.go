package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"playful_math_backend/internal/config"
	"playful_math_backend/internal/model"
	"playful_math_backend/pkg/database"
	"playful_math_backend/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	app    *App
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Session: config.SessionConfig{
			Secret:     "test-secret",
			ExpireTime: time.Hour,
			CookieName: "pm_session",
		},
		Storage:     config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Problems:    config.ProblemsConfig{PerCategory: 2, SeedOnStart: true},
		DailyPuzzle: config.DailyPuzzleConfig{Points: 10, Grade: 4},
	}

	a := Build(cfg, db, nil, session.NewMemoryStore())
	require.NoError(t, a.Bootstrap(context.Background()))
	return a
}

func (c *client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.app.Router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name != c.app.Config.Session.CookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}

	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func register(t *testing.T, a *App, username string) *client {
	t.Helper()
	c := &client{t: t, app: a}
	code, _ := c.do(http.MethodPost, "/api/register", gin.H{"username": username, "password": "secret-pass"})
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, c.cookie)
	return c
}

func TestRegisterLoginLogout(t *testing.T) {
	a := newTestApp(t)
	c := register(t, a, "ada")

	code, env := c.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[map[string]interface{}](t, env)
	assert.Equal(t, "ada", me["username"])
	assert.EqualValues(t, 1, me["level"])

	code, env = (&client{t: t, app: a}).do(http.MethodPost, "/api/register", gin.H{"username": "ada", "password": "secret-pass"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Username already exists", env.Message)

	code, _ = c.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, c.cookie)

	code, env = c.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authenticated", env.Message)

	code, _ = c.do(http.MethodPost, "/api/login", gin.H{"username": "ada", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/api/login", gin.H{"username": "ada", "password": "secret-pass"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLogoutRevokesCopiedCookie(t *testing.T) {
	a := newTestApp(t)
	c := register(t, a, "ada")
	stolen := &client{t: t, app: a, cookie: c.cookie}

	code, _ := c.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = stolen.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, app: a}

	code, env := c.do(http.MethodPost, "/api/register", gin.H{"username": "ab", "password": "secret-pass"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username must be at least 3 characters", env.Message)

	code, env = c.do(http.MethodPost, "/api/register", gin.H{"username": "ada", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "password must be at least 8 characters", env.Message)

	code, _ = c.do(http.MethodPost, "/api/register", gin.H{"username": "ada", "password": "secret-pass", "grade": 6})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProblemsFilteredByGrade(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, app: a}

	code, env := c.do(http.MethodGet, "/api/problems?grade=3", nil)
	require.Equal(t, http.StatusOK, code)
	problems := decode[[]model.Problem](t, env)
	require.NotEmpty(t, problems)
	for _, p := range problems {
		assert.Equal(t, 3, p.Grade)
	}

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/problems/%d", problems[0].ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, problems[0].Question, decode[model.Problem](t, env).Question)

	code, _ = c.do(http.MethodGet, "/api/problems?grade=6", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodGet, "/api/problems", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodGet, "/api/problems/999999", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSubmitProgressAndAchievements(t *testing.T) {
	a := newTestApp(t)
	c := register(t, a, "ada")

	_, env := c.do(http.MethodGet, "/api/problems?grade=3&type=division", nil)
	problems := decode[[]model.Problem](t, env)
	require.NotEmpty(t, problems)
	p := problems[0]

	code, env := c.do(http.MethodPost, "/api/progress", gin.H{"problemId": p.ID, "answer": p.Answer})
	require.Equal(t, http.StatusOK, code)
	result := decode[map[string]interface{}](t, env)
	assert.Equal(t, true, result["correct"])
	assert.EqualValues(t, 10*p.Difficulty, result["pointsAwarded"])
	assert.Len(t, result["newAchievements"], 1)

	code, env = c.do(http.MethodPost, "/api/progress", gin.H{"problemId": p.ID, "answer": p.Answer})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, decode[map[string]interface{}](t, env)["pointsAwarded"])

	for i := 0; i < 2; i++ {
		code, env = c.do(http.MethodPost, "/api/achievements/check", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, decode[[]model.Achievement](t, env))
	}

	_, env = c.do(http.MethodGet, "/api/achievements", nil)
	assert.Len(t, decode[[]model.Achievement](t, env), 1)

	_, env = c.do(http.MethodGet, "/api/progress/summary", nil)
	summary := decode[model.ProgressSummary](t, env)
	assert.Equal(t, int64(1), summary.CompletedProblems)
	assert.Equal(t, int64(2), summary.TotalAttempts)

	code, _ = c.do(http.MethodPost, "/api/progress", gin.H{"problemId": 999999, "answer": "1"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestProgressOfOtherUserIsForbidden(t *testing.T) {
	a := newTestApp(t)
	ada := register(t, a, "ada")
	bob := register(t, a, "bob")

	_, env := bob.do(http.MethodGet, "/api/user", nil)
	bobID := decode[map[string]interface{}](t, env)["id"]

	code, env := ada.do(http.MethodGet, fmt.Sprintf("/api/progress/%v", bobID), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You can only access your own records", env.Message)
	code, _ = bob.do(http.MethodGet, fmt.Sprintf("/api/progress/%v", bobID), nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = ada.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access required", env.Message)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, app: a}

	code, env := c.do(http.MethodGet, "/api/no-such-route", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Equal(t, "Route not found", env.Message)
}

func TestDailyPuzzleRewardOnce(t *testing.T) {
	a := newTestApp(t)
	c := register(t, a, "ada")

	code, env := c.do(http.MethodGet, "/api/daily-puzzle", nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[map[string]interface{}](t, env)
	assert.NotContains(t, view, "answer")
	assert.EqualValues(t, 10, view["points"])

	puzzle, err := a.services.dailyPuzzle.EnsureToday()
	require.NoError(t, err)

	code, env = c.do(http.MethodPost, "/api/daily-puzzle/solve", gin.H{"answer": puzzle.Problem.Answer})
	require.Equal(t, http.StatusOK, code)
	first := decode[map[string]interface{}](t, env)
	assert.Equal(t, true, first["correct"])
	assert.EqualValues(t, 10, first["score"])

	code, env = c.do(http.MethodPost, "/api/daily-puzzle/solve", gin.H{"answer": puzzle.Problem.Answer})
	require.Equal(t, http.StatusOK, code)
	second := decode[map[string]interface{}](t, env)
	assert.Equal(t, true, second["alreadySolved"])
	assert.EqualValues(t, 0, second["pointsAwarded"])
	assert.EqualValues(t, 10, second["score"])

	_, env = c.do(http.MethodGet, "/api/daily-puzzle/status", nil)
	status := decode[map[string]interface{}](t, env)
	assert.Equal(t, true, status["solved"])
	assert.EqualValues(t, 2, status["attempts"])
}

func TestDailyPuzzleProblemHiddenFromBankRoutes(t *testing.T) {
	a := newTestApp(t)
	c := register(t, a, "ada")

	puzzle, err := a.services.dailyPuzzle.EnsureToday()
	require.NoError(t, err)
	problemPath := fmt.Sprintf("/api/problems/%d", puzzle.ProblemID)

	anonymous := &client{t: t, app: a}
	code, env := anonymous.do(http.MethodGet, problemPath, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Empty(t, env.Data)

	code, _ = c.do(http.MethodPost, "/api/progress", gin.H{"problemId": puzzle.ProblemID, "answer": puzzle.Problem.Answer})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = c.do(http.MethodPost, "/api/daily-puzzle/solve", gin.H{"answer": puzzle.Problem.Answer})
	require.Equal(t, http.StatusOK, code)
	solved := decode[map[string]interface{}](t, env)
	assert.EqualValues(t, 10, solved["pointsAwarded"])
	assert.EqualValues(t, 10, solved["score"], "the puzzle reward is the only credit")
}

func TestProfileAndPasswordFlows(t *testing.T) {
	a := newTestApp(t)
	c := register(t, a, "ada")

	_, env := c.do(http.MethodGet, "/api/user/profile-status", nil)
	assert.Equal(t, false, decode[map[string]interface{}](t, env)["isComplete"])

	code, env := c.do(http.MethodPatch, "/api/user/profile", gin.H{"name": "Ada", "grade": 6})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "grade must be one of 3 4 5", env.Message)

	code, _ = c.do(http.MethodPatch, "/api/user/profile", gin.H{
		"name":  "Ada",
		"grade": 4,
		"securityQuestions": []gin.H{
			{"question": "What is your favorite color?", "answer": "Blue"},
			{"question": "What is your favorite food?", "answer": "Pasta"},
			{"question": "What is your favorite book?", "answer": "Matilda"},
		},
	})
	require.Equal(t, http.StatusOK, code)

	_, env = c.do(http.MethodGet, "/api/user/profile-status", nil)
	assert.Equal(t, true, decode[map[string]interface{}](t, env)["isComplete"])

	code, env = c.do(http.MethodPost, "/api/user/password", gin.H{
		"currentPassword": "secret-pass", "newPassword": "better-pass", "confirmPassword": "other-pass",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Passwords do not match", env.Message)

	code, env = c.do(http.MethodPost, "/api/user/password", gin.H{
		"currentPassword": "nope-nope", "newPassword": "better-pass", "confirmPassword": "better-pass",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Current password is incorrect", env.Message)

	code, _ = c.do(http.MethodPost, "/api/user/password", gin.H{
		"currentPassword": "secret-pass", "newPassword": "better-pass", "confirmPassword": "better-pass",
	})
	require.Equal(t, http.StatusOK, code)

	anon := &client{t: t, app: a}
	code, env = anon.do(http.MethodPost, "/api/reset-password", gin.H{
		"username": "ada", "securityQuestion": "What is your favorite food?", "securityAnswer": "pizza",
		"newPassword": "reset-pass", "confirmPassword": "reset-pass",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid username or security answer", env.Message)

	code, _ = anon.do(http.MethodPost, "/api/reset-password", gin.H{
		"username": "ada", "securityQuestion": "What is your favorite food?", "securityAnswer": "pasta",
		"newPassword": "reset-pass", "confirmPassword": "reset-pass",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, code, "reset revokes existing sessions")

	code, _ = anon.do(http.MethodPost, "/api/login", gin.H{"username": "ada", "password": "reset-pass"})
	assert.Equal(t, http.StatusOK, code)
}

func TestChangePasswordRevokesOtherSessions(t *testing.T) {
	a := newTestApp(t)
	laptop := register(t, a, "ada")
	tablet := &client{t: t, app: a}
	code, _ := tablet.do(http.MethodPost, "/api/login", gin.H{"username": "ada", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, code)

	code, _ = laptop.do(http.MethodPost, "/api/user/password", gin.H{
		"currentPassword": "secret-pass", "newPassword": "better-pass", "confirmPassword": "better-pass",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = laptop.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = tablet.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminRoutes(t *testing.T) {
	a := newTestApp(t)
	admin := register(t, a, "teacher")
	_, err := a.PromoteUser("teacher")
	require.NoError(t, err)

	code, env := admin.do(http.MethodPost, "/api/users", gin.H{"username": "kid", "password": "kid-password", "grade": 3})
	require.Equal(t, http.StatusCreated, code)
	kid := decode[model.User](t, env)

	code, env = admin.do(http.MethodGet, "/api/users?page=1&limit=10", nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[map[string]interface{}](t, env)
	assert.EqualValues(t, 2, page["total"])

	code, env = admin.do(http.MethodPost, "/api/problems/regenerate", gin.H{"perCategory": 1})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, len(model.ProblemTypes)*len(model.Grades), decode[map[string]interface{}](t, env)["generated"])

	code, _ = admin.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", kid.ID), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = admin.do(http.MethodGet, fmt.Sprintf("/api/users/%d", kid.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPublicCatalogs(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, app: a}

	code, env := c.do(http.MethodGet, "/api/memory-cards?category=Fractions", nil)
	require.Equal(t, http.StatusOK, code)
	for _, card := range decode[[]model.MemoryCard](t, env) {
		assert.Equal(t, "Fractions", card.Category)
	}

	code, env = c.do(http.MethodGet, "/api/security-questions", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.SuggestedSecurityQuestions, decode[[]string](t, env))

	code, _ = c.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
}
