package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ocmafia/server/pkg/response"
)

// Clearance gates a route behind a minimum clearance level. Must run after
// Auth so the clearance value is already in the context.
func Clearance(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxClearanceKey) != required {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
