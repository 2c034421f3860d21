package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ocmafia/server/internal/container"
	handlers "github.com/ocmafia/server/internal/interface/http"
	"github.com/ocmafia/server/internal/interface/middleware"
)

// FetchModule exposes the typeahead lookups:
// GET /api/fetch/users, GET /api/fetch/roles, GET /api/fetch/games
type FetchModule struct {
	Handler *handlers.FetchHandler
}

func NewFetchModule(h *handlers.FetchHandler) *FetchModule {
	return &FetchModule{Handler: h}
}

func (m *FetchModule) Register(rg *gin.RouterGroup) {
	// Typeahead fires on every keystroke, so the per-IP budget is generous.
	rl := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	fetch := rg.Group("/fetch", rl)
	{
		fetch.GET("/users", m.Handler.Users)
		fetch.GET("/roles", m.Handler.Roles)
		fetch.GET("/games", m.Handler.Games)
	}
}
