package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ocmafia/server/internal/container"
	handlers "github.com/ocmafia/server/internal/interface/http"
	"github.com/ocmafia/server/internal/interface/middleware"
	"github.com/ocmafia/server/pkg/helpers"
)

// UserModule exposes profiles:
// Public (viewer-aware): GET /api/profile/:id
// Protected: GET /api/profile, PUT /api/profile,
// POST /api/profile/avatar, POST /api/profile/:id/follow
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Profiles are public pages; OptionalAuth keeps the owner/following
	// flags working for logged-in viewers.
	rg.GET("/profile/:id", middleware.OptionalAuth(container.GetRedis(), m.JWT), m.Handler.GetProfile)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.POST("/profile/:id/follow", m.Handler.Follow)
	}
}
