package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ocmafia/server/internal/container"
	handlers "github.com/ocmafia/server/internal/interface/http"
	"github.com/ocmafia/server/internal/interface/middleware"
	"github.com/ocmafia/server/pkg/helpers"
)

// AuthModule exposes the account lifecycle:
// Public: POST /api/login, POST /api/signup,
//
//	GET /api/reset-password, POST /api/reset-password
//
// Protected: POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get tight per-IP-per-route limits.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.GET("/reset-password", resetLimiter, m.Handler.SecurityQuestion)
	rg.POST("/reset-password", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
