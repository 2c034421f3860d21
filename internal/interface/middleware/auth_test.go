package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocmafia/server/pkg/helpers"
)

func setupAuthEngine(t *testing.T) (*gin.Engine, *redis.Client, *helpers.JWTManager, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)

	r := gin.New()
	r.GET("/protected", Auth(rdb, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+":"+c.GetString(CtxClearanceKey))
	})
	r.GET("/admin", Auth(rdb, jwt), Clearance("ADMIN"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/page", OptionalAuth(rdb, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "viewer="+c.GetString(CtxUserIDKey))
	})
	return r, rdb, jwt, mr
}

func storeSession(t *testing.T, mr *miniredis.Miniredis, userID, sid, clearance string) {
	t.Helper()
	mr.HSet("user:session:"+userID, "sid", sid, "user_id", userID, "username", "Cassius", "clearance", clearance)
}

func accessCookie(t *testing.T, jwt *helpers.JWTManager, userID, sid string) *http.Cookie {
	t.Helper()
	token, _, err := jwt.GenerateAccessToken(userID, sid)
	require.NoError(t, err)
	return &http.Cookie{Name: "access_token", Value: token}
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsLiveSession(t *testing.T) {
	r, _, jwt, mr := setupAuthEngine(t)
	storeSession(t, mr, "u1", "sid-1", "USER")

	w := get(r, "/protected", accessCookie(t, jwt, "u1", "sid-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1:USER", w.Body.String())
}

func TestAuthRejectsMissingOrBadToken(t *testing.T) {
	r, _, _, mr := setupAuthEngine(t)
	storeSession(t, mr, "u1", "sid-1", "USER")

	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		get(r, "/protected", &http.Cookie{Name: "access_token", Value: "garbage"}).Code)
}

func TestAuthRejectsStaleSessionID(t *testing.T) {
	r, _, jwt, mr := setupAuthEngine(t)
	storeSession(t, mr, "u1", "sid-1", "USER")
	stale := accessCookie(t, jwt, "u1", "sid-1")

	// A later login replaces the sid; the old token must stop working.
	storeSession(t, mr, "u1", "sid-2", "USER")
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", stale).Code)
}

func TestAuthRejectsLoggedOutSession(t *testing.T) {
	r, _, jwt, _ := setupAuthEngine(t)
	// Valid token, no session record.
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", accessCookie(t, jwt, "u1", "sid-1")).Code)
}

func TestClearanceGate(t *testing.T) {
	r, _, jwt, mr := setupAuthEngine(t)
	storeSession(t, mr, "u1", "sid-1", "USER")
	storeSession(t, mr, "u2", "sid-2", "ADMIN")

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", accessCookie(t, jwt, "u1", "sid-1")).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", accessCookie(t, jwt, "u2", "sid-2")).Code)
}

func TestOptionalAuth(t *testing.T) {
	r, _, jwt, mr := setupAuthEngine(t)
	storeSession(t, mr, "u1", "sid-1", "USER")

	w := get(r, "/page", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer=", w.Body.String())

	w = get(r, "/page", accessCookie(t, jwt, "u1", "sid-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer=u1", w.Body.String())
}
