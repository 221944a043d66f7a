package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

type DMHandler struct {
	handler
}

func NewDMHandler(svc *workspace.Service, logger *zap.Logger) *DMHandler {
	return &DMHandler{handler{svc: svc, logger: logger}}
}

type createDMRequest struct {
	UIDs []int64 `json:"uIds"`
}

// Create handles POST /v1/dm/create
func (h *DMHandler) Create(c *gin.Context) {
	var req createDMRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.svc.CreateDM(c.Request.Context(), middleware.GetUser(c), req.UIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dmId": id})
}

// List handles GET /v1/dm/list
func (h *DMHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dms": h.svc.ListDMs(middleware.GetUser(c))})
}

type dmQuery struct {
	DMID int64 `form:"dmId" binding:"required"`
}

// Details handles GET /v1/dm/details?dmId=
func (h *DMHandler) Details(c *gin.Context) {
	var q dmQuery
	if !bindQuery(c, &q) {
		return
	}
	d, err := h.svc.DMDetails(middleware.GetUser(c), q.DMID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type dmRequest struct {
	DMID int64 `json:"dmId" binding:"required"`
}

// Leave handles POST /v1/dm/leave
func (h *DMHandler) Leave(c *gin.Context) {
	var req dmRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.LeaveDM(c.Request.Context(), middleware.GetUser(c), req.DMID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Remove handles DELETE /v1/dm/remove?dmId=
func (h *DMHandler) Remove(c *gin.Context) {
	var q dmQuery
	if !bindQuery(c, &q) {
		return
	}
	if err := h.svc.RemoveDM(c.Request.Context(), middleware.GetUser(c), q.DMID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Messages handles GET /v1/dm/messages?dmId=&start=
func (h *DMHandler) Messages(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.DMMessages(middleware.GetUser(c), q.DMID, *q.Start)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
