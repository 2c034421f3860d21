package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/pkg/response"
)

// FetchHandler serves the search-as-you-type endpoints used by pickers and
// the site-wide search box.
type FetchHandler struct {
	Svc    *application.FetchService
	Logger *logrus.Logger
}

func NewFetchHandler(svc *application.FetchService, logger *logrus.Logger) *FetchHandler {
	return &FetchHandler{Svc: svc, Logger: logger}
}

func (h *FetchHandler) Users(c *gin.Context) {
	f := application.UserFilter{
		ID:               c.Query("id"),
		Username:         c.Query("username"),
		ReturnUsernames:  queryBool(c, "returnUsernames"),
		ReturnAvatars:    queryBool(c, "returnAvatars"),
		ReturnCharacters: queryBool(c, "returnCharacters"),
		Take:             queryInt(c, "take"),
	}
	users, err := h.Svc.FilteredUsers(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "user fetch failed")
		return
	}
	response.Success(c, http.StatusOK, users, "users", nil)
}

func (h *FetchHandler) Roles(c *gin.Context) {
	roles, err := h.Svc.FilteredRoles(c.Request.Context(), c.Query("id"), c.Query("name"))
	if err != nil {
		h.fail(c, err, "role fetch failed")
		return
	}
	response.Success(c, http.StatusOK, roles, "roles", nil)
}

func (h *FetchHandler) Games(c *gin.Context) {
	games, err := h.Svc.FilteredGames(c.Request.Context(), c.Query("id"), c.Query("name"), queryInt(c, "take"))
	if err != nil {
		h.fail(c, err, "game fetch failed")
		return
	}
	response.Success(c, http.StatusOK, games, "games", nil)
}

func (h *FetchHandler) fail(c *gin.Context, err error, logMsg string) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(logMsg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}
