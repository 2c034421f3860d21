package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/internal/domain/entity"
)

func setupFetchRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memUserRepo{byID: map[string]*entity.User{}}
	svc := application.NewFetchService(repo, nil, nil, nil, nil, nil, nil)
	h := NewFetchHandler(svc, nil)
	r := gin.New()
	r.GET("/api/fetch/users", h.Users)
	return r, repo
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFetchUsersReturnParams(t *testing.T) {
	r, repo := setupFetchRouter(t)
	u := &entity.User{
		Username: "Cassius",
		Avatar:   entity.Avatar{Type: entity.AvatarColor, Color: "#fff"},
	}
	require.NoError(t, repo.Create(context.Background(), u))

	// The picker clients pass returnUsernames/returnAvatars to opt into
	// the fields they render.
	w := getPath(r, "/api/fetch/users?id="+u.ID+"&returnUsernames=true&returnAvatars=true")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decodeBody(t, w)["data"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Cassius", item["username"])
	assert.Contains(t, item, "avatar")

	// Without the flags, only the id comes back.
	w = getPath(r, "/api/fetch/users?id="+u.ID)
	require.Equal(t, http.StatusOK, w.Code)
	item = decodeBody(t, w)["data"].([]any)[0].(map[string]any)
	assert.NotContains(t, item, "username")
	assert.NotContains(t, item, "avatar")
}
