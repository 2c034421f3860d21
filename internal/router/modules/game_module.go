package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ocmafia/server/internal/container"
	"github.com/ocmafia/server/internal/domain/entity"
	handlers "github.com/ocmafia/server/internal/interface/http"
	"github.com/ocmafia/server/internal/interface/middleware"
	"github.com/ocmafia/server/pkg/helpers"
)

// GameModule exposes games:
// Public (viewer-aware): GET /api/games, GET /api/games/:id
// Admin only: POST /api/games
type GameModule struct {
	Handler *handlers.GameHandler
	JWT     *helpers.JWTManager
}

func NewGameModule(h *handlers.GameHandler, jwt *helpers.JWTManager) *GameModule {
	return &GameModule{Handler: h, JWT: jwt}
}

func (m *GameModule) Register(rg *gin.RouterGroup) {
	rg.GET("/games", middleware.OptionalAuth(container.GetRedis(), m.JWT), m.Handler.Overview)
	rg.GET("/games/:id", m.Handler.Get)

	admin := rg.Group("/")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.Clearance(string(entity.ClearanceAdmin)))
	admin.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUser(), nil))
	{
		admin.POST("/games", m.Handler.Create)
	}
}
