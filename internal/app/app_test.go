package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/database"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-with-enough-length-000"

const testCatalog = `
courses:
  - title: Les bases du Go
    slug: go-basics
    difficulty: beginner
    published: true
    modules:
      - title: Démarrer
        lessons:
          - title: Installer Go
            quiz:
              questions:
                - text: Quelle commande compile ?
                  options:
                    - text: go build
                      correct: true
                    - text: go fmt
          - title: Hello world
`

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Type: util.DatabaseSQLite, SQLitePath: "file::memory:"}, gin.TestMode)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
	return newApp(cfg, db, nil), db
}

func doJSON(t *testing.T, app *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func importCatalog(t *testing.T, app *App, db *gorm.DB) string {
	t.Helper()
	admin := &model.User{Name: "admin", Email: "admin@example.com", Password: "x", Role: model.Admin}
	require.NoError(t, db.Create(admin).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/catalog/import", bytes.NewBufferString(testCatalog))
	req.Header.Set("Content-Type", "application/x-yaml")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return tokenFor(t, admin)
}

func registerAndLogin(t *testing.T, app *App, name string) string {
	t.Helper()
	w, _ := doJSON(t, app, http.MethodPost, "/api/register", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := doJSON(t, app, http.MethodPost, "/api/login", "", gin.H{
		"email": name + "@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	return login.Token
}

func TestLearnerJourney(t *testing.T) {
	app, db := newTestApp(t)
	importCatalog(t, app, db)
	token := registerAndLogin(t, app, "alice")

	w, env := doJSON(t, app, http.MethodGet, "/api/courses/go-basics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "isCorrect")
	assert.NotContains(t, string(env.Data), "IsCorrect")

	var course model.Course
	require.NoError(t, json.Unmarshal(env.Data, &course))
	require.Len(t, course.Modules, 1)
	lessons := course.Modules[0].Lessons
	require.Len(t, lessons, 2)
	quiz := lessons[0].Quiz
	require.NotNil(t, quiz)

	// 选中正确选项（第一个）
	w, env = doJSON(t, app, http.MethodPost, "/api/quiz", token, gin.H{
		"quizId": quiz.ID,
		"answers": []gin.H{{
			"questionId":        quiz.Questions[0].ID,
			"selectedOptionIds": []uint{quiz.Questions[0].Options[0].ID},
		}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var graded struct {
		Score      int  `json:"score"`
		Percentage int  `json:"percentage"`
		Passed     bool `json:"passed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	assert.Equal(t, 1, graded.Score)
	assert.Equal(t, 100, graded.Percentage)
	assert.True(t, graded.Passed)

	for _, l := range lessons {
		w, _ = doJSON(t, app, http.MethodPost, "/api/progress", token, gin.H{"lessonId": l.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/progress?courseId=%d", course.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var progress struct {
		Percentage int `json:"percentage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	assert.Equal(t, 100, progress.Percentage)

	w, env = doJSON(t, app, http.MethodGet, "/api/certificates", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var certs []model.Certificate
	require.NoError(t, json.Unmarshal(env.Data, &certs))
	require.Len(t, certs, 1)

	w, env = doJSON(t, app, http.MethodGet, "/api/certificates/verify/"+certs[0].Code, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "alice")

	w, env = doJSON(t, app, http.MethodGet, "/api/certificates/"+certs[0].Code+"/document", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "/uploads/certificates/")

	w, env = doJSON(t, app, http.MethodGet, "/api/badges", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var badges []model.UserBadge
	require.NoError(t, json.Unmarshal(env.Data, &badges))
	assert.NotEmpty(t, badges)

	w, _ = doJSON(t, app, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorMapping(t *testing.T) {
	app, db := newTestApp(t)
	importCatalog(t, app, db)
	token := registerAndLogin(t, app, "bob")

	w, _ := doJSON(t, app, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, app, http.MethodGet, "/api/courses/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, app, http.MethodPost, "/api/progress", token, gin.H{"lessonId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, app, http.MethodPost, "/api/quiz", token, gin.H{"quizId": 999, "answers": []gin.H{}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, app, http.MethodPost, "/api/quiz", token, gin.H{"quizId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, app, http.MethodGet, "/api/courses?difficulty=expert", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, app, http.MethodGet, "/api/progress", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, app, http.MethodPost, "/api/register", "", gin.H{
		"name": "bob", "email": "bob@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, app, http.MethodPost, "/api/admin/catalog/import", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	w, env := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"cache":"disabled"`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
