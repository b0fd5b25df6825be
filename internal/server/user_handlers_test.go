package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"waypost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadAvatarRequest submits a multipart avatar upload.
func (e *testEnv) uploadAvatarRequest(t *testing.T, token string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/me/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGetMyProfile(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.registerUser(t, "traveler@example.com", "traveler", "password123")

	resp := env.jsonRequest(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "traveler@example.com", me.Email)
}

func TestGetMyProfileRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.jsonRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateMyProfile(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "traveler@example.com", "traveler", "password123")

	resp := env.jsonRequest(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{
		"username": "globetrotter",
		"bio":      "Forever chasing the next departure board.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, "globetrotter", me.Username)
	assert.Equal(t, "Forever chasing the next departure board.", me.Bio)
}

func TestUpdateMyProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "traveler@example.com", "traveler", "password123")

	resp := env.jsonRequest(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{
		"username": "ab",
		"bio":      strings.Repeat("x", 501),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, models.CodeValidationFailed, errResp.Code)
	assert.Contains(t, errResp.Fields, "username")
	assert.Contains(t, errResp.Fields, "bio")
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "traveler@example.com", "traveler", "password123")

	wrong := env.jsonRequest(t, http.MethodPatch, "/api/v1/users/me/password", token, map[string]string{
		"currentPassword": "not-my-password",
		"newPassword":     "another-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)

	ok := env.jsonRequest(t, http.MethodPatch, "/api/v1/users/me/password", token, map[string]string{
		"currentPassword": "password123",
		"newPassword":     "another-pass",
	})
	require.Equal(t, http.StatusOK, ok.StatusCode)

	login := env.jsonRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "traveler@example.com", "password": "another-pass",
	})
	assert.Equal(t, http.StatusOK, login.StatusCode)
}

func TestAvatarLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.registerUser(t, "traveler@example.com", "traveler", "password123")
	avatarPath := "/api/v1/users/" + itoa(user.ID) + "/avatar"

	// No avatar yet.
	missing := env.jsonRequest(t, http.MethodGet, avatarPath, "", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	// Upload replaces the avatar wholly.
	uploaded := env.uploadAvatarRequest(t, token, pngBytes(t))
	require.Equal(t, http.StatusNoContent, uploaded.StatusCode)

	// Public fetch serves the raw bytes with the stored MIME type.
	fetched := env.jsonRequest(t, http.MethodGet, avatarPath, "", nil)
	require.Equal(t, http.StatusOK, fetched.StatusCode)
	assert.Equal(t, "image/png", fetched.Header.Get("Content-Type"))
	body, err := io.ReadAll(fetched.Body)
	require.NoError(t, err)
	fetched.Body.Close()
	assert.Equal(t, pngBytes(t), body)

	// The profile flag follows the blob.
	profile := env.jsonRequest(t, http.MethodGet, "/api/v1/users/me", token, nil)
	var me models.User
	decodeBody(t, profile, &me)
	assert.True(t, me.HasAvatar)

	// Delete clears everything at once.
	deleted := env.jsonRequest(t, http.MethodDelete, "/api/v1/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode)

	gone := env.jsonRequest(t, http.MethodGet, avatarPath, "", nil)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestUploadAvatarRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.registerUser(t, "traveler@example.com", "traveler", "password123")

	resp := env.uploadAvatarRequest(t, token, []byte("just some plain text"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, models.CodeUnsupportedMediaType, errResp.Code)

	// Nothing was stored.
	check := env.jsonRequest(t, http.MethodGet, "/api/v1/users/"+itoa(user.ID)+"/avatar", "", nil)
	assert.Equal(t, http.StatusNotFound, check.StatusCode)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
