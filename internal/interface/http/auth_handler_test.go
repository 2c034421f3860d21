package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
	"github.com/ocmafia/server/pkg/helpers"
	"github.com/ocmafia/server/pkg/validation"
)

// memUserRepo is the minimal in-memory store the auth endpoints need.
type memUserRepo struct {
	byID map[string]*entity.User
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	cp.ID = uuid.NewString()
	if cp.Clearance == "" {
		cp.Clearance = entity.ClearanceUser
	}
	r.byID[cp.ID] = &cp
	*u = cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) Follow(_ context.Context, _, _ string) error   { return nil }
func (r *memUserRepo) Unfollow(_ context.Context, _, _ string) error { return nil }

func (r *memUserRepo) SearchByUsernamePrefix(_ context.Context, _ string, _ int) ([]*entity.User, error) {
	return nil, nil
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &memUserRepo{byID: map[string]*entity.User{}}
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	sessions := application.NewSessionIssuer(rdb, jwt, 24*time.Hour)
	svc := application.NewAuthService(repo, helpers.NewPasswordHasher(bcrypt.MinCost, 2), sessions,
		validation.DefaultUsernamePolicy(), validation.DefaultPasswordPolicy(), nil, nil, nil)

	h := NewAuthHandler(svc, nil, "localhost", false)
	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/signup", h.Signup)
	r.GET("/api/reset-password", h.SecurityQuestion)
	r.POST("/api/reset-password", h.ResetPassword)
	return r, repo
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func signupPayload() map[string]any {
	return map[string]any{
		"username":         "Cassius",
		"password":         "sharp4blade",
		"confirmPassword":  "sharp4blade",
		"securityQuestion": "First pet?",
		"securityAnswer":   "Brutus",
	}
}

func cookieNames(w *httptest.ResponseRecorder) []string {
	var names []string
	for _, c := range w.Result().Cookies() {
		names = append(names, c.Name)
	}
	return names
}

func TestSignupEndpoint(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := postJSON(r, "/api/signup", signupPayload())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, cookieNames(w), "access_token")
	assert.Contains(t, cookieNames(w), "refresh_token")

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "/", data["redirect_to"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "Cassius", user["username"])
	// No secrets in the payload.
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "securityAnswer")
}

func TestSignupEndpointBindingErrors(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := postJSON(r, "/api/signup", map[string]any{
		"username":        "ab",
		"password":        "short",
		"confirmPassword": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	details := body["error"].(map[string]any)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "password")
}

func TestSignupEndpointPasswordMismatch(t *testing.T) {
	r, _ := setupAuthRouter(t)

	p := signupPayload()
	p["confirmPassword"] = "different9x"
	w := postJSON(r, "/api/signup", p)
	require.Equal(t, http.StatusBadRequest, w.Code)

	details := decodeBody(t, w)["error"].(map[string]any)
	assert.Contains(t, details, "confirmPassword")
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := setupAuthRouter(t)
	require.Equal(t, http.StatusOK, postJSON(r, "/api/signup", signupPayload()).Code)

	w := postJSON(r, "/api/login", map[string]any{
		"username":   "cassius",
		"password":   "sharp4blade",
		"redirectTo": "/games",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "/games", data["redirect_to"])
	assert.Contains(t, cookieNames(w), "access_token")
}

func TestLoginEndpointOpaqueFailure(t *testing.T) {
	r, _ := setupAuthRouter(t)
	require.Equal(t, http.StatusOK, postJSON(r, "/api/signup", signupPayload()).Code)

	unknown := postJSON(r, "/api/login", map[string]any{"username": "nobody", "password": "sharp4blade"})
	wrong := postJSON(r, "/api/login", map[string]any{"username": "Cassius", "password": "wrong5pass"})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, decodeBody(t, unknown)["message"], decodeBody(t, wrong)["message"])
	assert.Empty(t, cookieNames(wrong))
}

func TestResetPasswordEndpoints(t *testing.T) {
	r, _ := setupAuthRouter(t)
	require.Equal(t, http.StatusOK, postJSON(r, "/api/signup", signupPayload()).Code)

	// Step 1: fetch the stored question.
	req := httptest.NewRequest(http.MethodGet, "/api/reset-password?username=Cassius", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "First pet?", data["securityQuestion"])

	// Unknown accounts are a plain 404 here; the reset form shows the
	// stored question anyway, so there is nothing to hide.
	req = httptest.NewRequest(http.MethodGet, "/api/reset-password?username=nobody", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Step 2: answer and set a new password; logs in on success.
	w = postJSON(r, "/api/reset-password", map[string]any{
		"username":        "Cassius",
		"securityAnswer":  "brutus",
		"newPassword":     "newer8pass",
		"confirmPassword": "newer8pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, cookieNames(w), "access_token")

	login := postJSON(r, "/api/login", map[string]any{"username": "Cassius", "password": "newer8pass"})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestResetPasswordEndpointWrongAnswer(t *testing.T) {
	r, _ := setupAuthRouter(t)
	require.Equal(t, http.StatusOK, postJSON(r, "/api/signup", signupPayload()).Code)

	w := postJSON(r, "/api/reset-password", map[string]any{
		"username":        "Cassius",
		"securityAnswer":  "caesar",
		"newPassword":     "newer8pass",
		"confirmPassword": "newer8pass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decodeBody(t, w)["error"].(map[string]any)
	assert.Contains(t, details, "securityAnswer")
	assert.Empty(t, cookieNames(w))
}
