package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// AdminHandler serves global-owner operations and the test-only clear.
type AdminHandler struct {
	handler
}

func NewAdminHandler(svc *workspace.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{handler{svc: svc, logger: logger}}
}

type userQuery struct {
	UID int64 `form:"uId" binding:"required"`
}

// RemoveUser handles DELETE /v1/admin/user/remove?uId=
func (h *AdminHandler) RemoveUser(c *gin.Context) {
	var q userQuery
	if !bindQuery(c, &q) {
		return
	}
	if err := h.svc.RemoveUser(c.Request.Context(), middleware.GetUser(c), q.UID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type permissionRequest struct {
	UID          int64 `json:"uId" binding:"required"`
	PermissionID int   `json:"permissionId"`
}

// SetPermission handles POST /v1/admin/userpermission/change
func (h *AdminHandler) SetPermission(c *gin.Context) {
	var req permissionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SetPermission(c.Request.Context(), middleware.GetUser(c), req.UID, req.PermissionID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Clear handles DELETE /v1/clear. It is only routed outside production.
func (h *AdminHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Warn("workspace cleared over http")
	okEmpty(c)
}
