package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/pkg/response"
	"github.com/ocmafia/server/pkg/validation"
)

const maxAvatarUploadBytes = 5 << 20

type UserHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.ProfileService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Tagline          string `json:"tagline"`
	AvatarType       string `json:"avatarType" binding:"omitempty,oneof=COLOR IMAGE"`
	AvatarColor      string `json:"avatarColor"`
	AvatarURL        string `json:"avatarUrl"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

type followRequest struct {
	Action string `json:"action" binding:"required,oneof=follow unfollow"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID := c.GetString("userID")
	profileID := c.Param("id")
	if profileID == "" {
		profileID = viewerID
	}

	view, err := h.Svc.GetProfile(c.Request.Context(), viewerID, profileID)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.fail(c, err, "profile load failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":       userSummary(view.User),
		"characters": view.Characters,
		"owner":      view.Owner,
		"following":  view.Following,
	}, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Tagline:          req.Tagline,
		AvatarType:       entity.AvatarType(req.AvatarType),
		AvatarColor:      req.AvatarColor,
		AvatarURL:        req.AvatarURL,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		h.fail(c, err, "profile update failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": userSummary(u)}, "profile updated", nil)
}

// Follow handles POST /profile/:id/follow with {"action": "follow"|"unfollow"}.
func (h *UserHandler) Follow(c *gin.Context) {
	uid := c.GetString("userID")
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	follow := req.Action == "follow"

	if err := h.Svc.Follow(c.Request.Context(), uid, c.Param("id"), follow); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.fail(c, err, "follow update failed")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": follow}, "follow updated", nil)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")

	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{
			"avatar": "Avatar file is required",
		})
		return
	}
	if file.Size > maxAvatarUploadBytes {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{
			"avatar": "Avatar must be 5MB or smaller",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.fail(c, err, "avatar open failed")
		return
	}
	defer src.Close()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err, "avatar upload failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

func (h *UserHandler) fail(c *gin.Context, err error, logMsg string) {
	if fe, ok := application.AsFieldErrors(err); ok {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string(fe))
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(logMsg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
