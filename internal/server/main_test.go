package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"waypost/internal/config"
	"waypost/internal/database"
	"waypost/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

// newTestEnv wires a Server against an in-memory SQLite database with routes
// but without the production middleware stack.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "test-secret-key",
		TokenTTLHours: 1,
		UploadDir:     t.TempDir(),
		Env:           "test",
	}

	srv := NewServerWithDeps(cfg, db, nil)
	app := fiber.New(fiber.Config{BodyLimit: 64 * 1024 * 1024})
	srv.SetupRoutes(app)
	return &testEnv{srv: srv, app: app, db: db}
}

// jsonRequest performs a JSON request, optionally authenticated.
func (e *testEnv) jsonRequest(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser creates an account through the API and returns its token and record.
func (e *testEnv) registerUser(t *testing.T, email, username, password string) (string, models.User) {
	t.Helper()

	resp := e.jsonRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	require.NotZero(t, out.User.ID)
	return out.Token, out.User
}

// pngBytes returns a small valid PNG payload.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
