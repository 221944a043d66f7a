package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// AuthHandler serves registration, sessions and password reset. Only
// logout requires a token.
type AuthHandler struct {
	handler
}

func NewAuthHandler(svc *workspace.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{handler{svc: svc, logger: logger}}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.GetUser(c), middleware.GetToken(c)); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type resetRequest struct {
	Email string `json:"email"`
}

// RequestReset handles POST /v1/auth/passwordreset/request. It answers
// the same whether or not the email is registered.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req resetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type resetPasswordRequest struct {
	ResetCode   string `json:"resetCode"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword handles POST /v1/auth/passwordreset/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), req.ResetCode, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}
