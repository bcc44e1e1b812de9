package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	repos    *db.Repositories
	handler  *Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cyclecast-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	repos := db.NewRepositories(database)
	source := db.NewSource(repos)
	predictions := services.NewPredictionService(source, source)
	handler := NewHandler(Dependencies{
		Accounts:    services.NewAccountService(repos.Users),
		Auth:        services.NewAuthService(repos.Users, testSecretKey, time.Hour),
		Entries:     services.NewEntryService(repos.Entries, predictions),
		Predictions: predictions,
	}, time.UTC, false)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testApp{app: app, database: database, repos: repos, handler: handler}
}

// freezeToday pins the handler clock to noon UTC on day.
func (env *testApp) freezeToday(t *testing.T, day string) {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("parse day %q: %v", day, err)
	}
	env.handler.now = func() time.Time { return parsed.Add(12 * time.Hour) }
}

func (env *testApp) createUser(t *testing.T, email string, password string, role string) models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now().UTC()}
	if err := env.database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (env *testApp) login(t *testing.T, email string, password string) string {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	decodeJSON(t, response, &payload)
	if payload.Token == "" {
		t.Fatal("expected token in login response")
	}
	return payload.Token
}

func (env *testApp) request(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode body %q: %v", strings.TrimSpace(string(raw)), err)
	}
}

func expectStatus(t *testing.T, response *http.Response, status int) {
	t.Helper()

	if response.StatusCode != status {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", status, response.StatusCode, strings.TrimSpace(string(raw)))
	}
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
