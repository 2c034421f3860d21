package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ocmafia/server/pkg/helpers"
	"github.com/ocmafia/server/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUsernameKey  = "username"
	CtxClearanceKey = "clearance"
)

// Auth validates the access token cookie and checks an active session in
// Redis whose sid matches the token. Sets userID, username and clearance in
// the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, data, ok := sessionFromRequest(c, rdb, jwt)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, data["username"])
		c.Set(CtxClearanceKey, data["clearance"])
		c.Next()
	}
}

// OptionalAuth populates the viewer identity when a valid session cookie is
// present and stays anonymous otherwise. Used on public pages that render
// differently for logged-in users.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, data, ok := sessionFromRequest(c, rdb, jwt); ok {
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUsernameKey, data["username"])
			c.Set(CtxClearanceKey, data["clearance"])
		}
		c.Next()
	}
}

func sessionFromRequest(c *gin.Context, rdb *redis.Client, jwt *helpers.JWTManager) (*helpers.Claims, map[string]string, bool) {
	token, err := c.Cookie("access_token")
	if err != nil || token == "" {
		return nil, nil, false
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return nil, nil, false
	}

	// Session of record lives in Redis; a stale sid means logged out.
	data, err := rdb.HGetAll(c.Request.Context(), "user:session:"+claims.UserID).Result()
	if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
		return nil, nil, false
	}
	return claims, data, true
}
