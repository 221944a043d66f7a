package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// UserHandler serves profiles, notifications and statistics.
type UserHandler struct {
	handler
}

func NewUserHandler(svc *workspace.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{handler{svc: svc, logger: logger}}
}

// Profile handles GET /v1/user/profile?uId=
func (h *UserHandler) Profile(c *gin.Context) {
	var q userQuery
	if !bindQuery(c, &q) {
		return
	}
	p, err := h.svc.Profile(middleware.GetUser(c), q.UID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

// All handles GET /v1/users/all
func (h *UserHandler) All(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.svc.AllUsers(middleware.GetUser(c))})
}

type setNameRequest struct {
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
}

// SetName handles PUT /v1/user/profile/setname
func (h *UserHandler) SetName(c *gin.Context) {
	var req setNameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SetName(c.Request.Context(), middleware.GetUser(c), req.NameFirst, req.NameLast); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type setEmailRequest struct {
	Email string `json:"email"`
}

// SetEmail handles PUT /v1/user/profile/setemail
func (h *UserHandler) SetEmail(c *gin.Context) {
	var req setEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SetEmail(c.Request.Context(), middleware.GetUser(c), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type setHandleRequest struct {
	HandleStr string `json:"handleStr"`
}

// SetHandle handles PUT /v1/user/profile/sethandle
func (h *UserHandler) SetHandle(c *gin.Context) {
	var req setHandleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SetHandle(c.Request.Context(), middleware.GetUser(c), req.HandleStr); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Notifications handles GET /v1/notifications
func (h *UserHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.svc.Notifications(middleware.GetUser(c))})
}

// UserStats handles GET /v1/user/stats
func (h *UserHandler) UserStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"userStats": h.svc.UserStats(middleware.GetUser(c))})
}

// WorkspaceStats handles GET /v1/users/stats
func (h *UserHandler) WorkspaceStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workspaceStats": h.svc.WorkspaceStats(middleware.GetUser(c))})
}
