package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/internal/domain/repository"
	"github.com/ocmafia/server/pkg/response"
	"github.com/ocmafia/server/pkg/validation"
)

type GameHandler struct {
	Svc    *application.GameService
	Logger *logrus.Logger
}

func NewGameHandler(svc *application.GameService, logger *logrus.Logger) *GameHandler {
	return &GameHandler{Svc: svc, Logger: logger}
}

type createGameRequest struct {
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location"`
	MainHostID   string `json:"mainHostId"`
	PlayerCount  int    `json:"playerCount" binding:"required,min=1"`
	WinnerCrowns int    `json:"winnerCrowns" binding:"omitempty,min=0"`
	WinnerRubies int    `json:"winnerRubies" binding:"omitempty,min=0"`
	LoserRubies  int    `json:"loserRubies" binding:"omitempty,min=0"`
	LoserStrikes int    `json:"loserStrikes" binding:"omitempty,min=0"`
}

// Overview backs the games landing page: recent games, the viewer's
// current game and anything they host.
func (h *GameHandler) Overview(c *gin.Context) {
	view, err := h.Svc.Overview(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.fail(c, err, "games overview failed")
		return
	}
	response.Success(c, http.StatusOK, view, "games overview", nil)
}

func (h *GameHandler) Create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	// Admins may assign any host; the caller is only the default.
	hostID := req.MainHostID
	if hostID == "" {
		hostID = c.GetString("userID")
	}

	g, err := h.Svc.CreateGame(c.Request.Context(), application.CreateGameInput{
		Name:         req.Name,
		Location:     req.Location,
		PlayerCount:  req.PlayerCount,
		MainHostID:   hostID,
		WinnerCrowns: req.WinnerCrowns,
		WinnerRubies: req.WinnerRubies,
		LoserRubies:  req.LoserRubies,
		LoserStrikes: req.LoserStrikes,
	})
	if err != nil {
		h.fail(c, err, "game create failed")
		return
	}
	response.Success(c, http.StatusCreated, g, "game created", nil)
}

func (h *GameHandler) Get(c *gin.Context) {
	detail, err := h.Svc.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "game not found", nil)
			return
		}
		h.fail(c, err, "game load failed")
		return
	}
	response.Success(c, http.StatusOK, detail, "game", nil)
}

func (h *GameHandler) fail(c *gin.Context, err error, logMsg string) {
	if fe, ok := application.AsFieldErrors(err); ok {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string(fe))
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(logMsg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
