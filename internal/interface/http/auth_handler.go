package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/application"
	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/pkg/helpers"
	"github.com/ocmafia/server/pkg/response"
	"github.com/ocmafia/server/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RedirectTo string `json:"redirectTo"`
}

type signupRequest struct {
	Username         string `json:"username" binding:"required,uname"`
	Email            string `json:"email" binding:"omitempty,email"`
	Password         string `json:"password" binding:"required,pwd"`
	ConfirmPassword  string `json:"confirmPassword" binding:"required"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
	RedirectTo       string `json:"redirectTo"`
}

type resetPasswordRequest struct {
	Username        string `json:"username" binding:"required"`
	SecurityAnswer  string `json:"securityAnswer" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password, req.RedirectTo)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.fail(c, err, "login failed")
		return
	}
	h.respondAuth(c, res, "login successful")
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
		RedirectTo:       req.RedirectTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrPasswordMismatch):
			response.Error[any](c, http.StatusBadRequest, "invalid signup", map[string]string{
				"confirmPassword": "Passwords do not match",
			})
		case errors.Is(err, application.ErrSecurityPairIncomplete):
			response.Error[any](c, http.StatusBadRequest, "invalid signup", map[string]string{
				"securityAnswer": "Security question and answer must be provided together",
			})
		default:
			h.fail(c, err, "signup failed")
		}
		return
	}
	h.respondAuth(c, res, "account created")
}

// SecurityQuestion serves the first step of the reset flow: look up the
// account and reveal its stored question so the form can render it.
func (h *AuthHandler) SecurityQuestion(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{
			"username": "Username is required",
		})
		return
	}

	u, err := h.Svc.SecurityQuestionFor(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.fail(c, err, "security question lookup failed")
		return
	}
	if !u.HasSecurityAnswer() {
		response.Error[any](c, http.StatusBadRequest, "no security question configured for this account", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"username":         u.Username,
		"securityQuestion": u.SecurityQuestion,
	}, "security question", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		response.Error[any](c, http.StatusBadRequest, "invalid reset", map[string]string{
			"confirmPassword": "Passwords do not match",
		})
		return
	}

	res, err := h.Svc.ResetPassword(c.Request.Context(), req.Username, req.SecurityAnswer, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrNoSecurityAnswer):
			response.Error[any](c, http.StatusBadRequest, "no security question configured for this account", nil)
		case errors.Is(err, application.ErrWrongAnswer):
			response.Error[any](c, http.StatusBadRequest, "invalid reset", map[string]string{
				"securityAnswer": "Answer is incorrect",
			})
		default:
			h.fail(c, err, "password reset failed")
		}
		return
	}
	h.respondAuth(c, res, "password reset")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if uid := c.GetString("userID"); uid != "" {
		if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
			h.fail(c, err, "logout failed")
			return
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) respondAuth(c *gin.Context, res *application.AuthResult, msg string) {
	pair := res.Tokens
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"user":        userSummary(res.User),
		"redirect_to": res.RedirectTo,
	}, msg, map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// fail maps the remaining error shapes: aggregated field errors become a
// 400 with per-field details, anything else is an internal failure.
func (h *AuthHandler) fail(c *gin.Context, err error, logMsg string) {
	if fe, ok := application.AsFieldErrors(err); ok {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string(fe))
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(logMsg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}

func userSummary(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"tagline":   u.Tagline,
		"avatar":    u.Avatar,
		"crowns":    u.Crowns,
		"rubies":    u.Rubies,
		"clearance": u.Clearance,
	}
}
