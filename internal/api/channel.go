package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/models"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// ChannelHandler serves channel creation, listing and membership.
type ChannelHandler struct {
	handler
}

func NewChannelHandler(svc *workspace.Service, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{handler{svc: svc, logger: logger}}
}

type createChannelRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"isPublic"`
}

// Create handles POST /v1/channels/create
func (h *ChannelHandler) Create(c *gin.Context) {
	var req createChannelRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.svc.CreateChannel(c.Request.Context(), middleware.GetUser(c), req.Name, req.IsPublic)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channelId": id})
}

// List handles GET /v1/channels/list
func (h *ChannelHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.svc.ListChannels(middleware.GetUser(c))})
}

// ListAll handles GET /v1/channels/listall
func (h *ChannelHandler) ListAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.svc.ListAllChannels(middleware.GetUser(c))})
}

type channelQuery struct {
	ChannelID int64 `form:"channelId" binding:"required"`
}

// Details handles GET /v1/channel/details?channelId=
func (h *ChannelHandler) Details(c *gin.Context) {
	var q channelQuery
	if !bindQuery(c, &q) {
		return
	}
	d, err := h.svc.ChannelDetails(middleware.GetUser(c), q.ChannelID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type channelRequest struct {
	ChannelID int64 `json:"channelId" binding:"required"`
}

// Join handles POST /v1/channel/join
func (h *ChannelHandler) Join(c *gin.Context) {
	var req channelRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Join(c.Request.Context(), middleware.GetUser(c), req.ChannelID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Leave handles POST /v1/channel/leave
func (h *ChannelHandler) Leave(c *gin.Context) {
	var req channelRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), middleware.GetUser(c), req.ChannelID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type channelUserRequest struct {
	ChannelID int64 `json:"channelId" binding:"required"`
	UID       int64 `json:"uId" binding:"required"`
}

// Invite handles POST /v1/channel/invite
func (h *ChannelHandler) Invite(c *gin.Context) {
	h.withChannelUser(c, h.svc.Invite)
}

// AddOwner handles POST /v1/channel/addowner
func (h *ChannelHandler) AddOwner(c *gin.Context) {
	h.withChannelUser(c, h.svc.AddOwner)
}

// RemoveOwner handles POST /v1/channel/removeowner
func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	h.withChannelUser(c, h.svc.RemoveOwner)
}

type channelUserOp func(ctx context.Context, actor *models.User, channelID, uid int64) error

func (h *ChannelHandler) withChannelUser(c *gin.Context, op channelUserOp) {
	var req channelUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := op(c.Request.Context(), middleware.GetUser(c), req.ChannelID, req.UID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type pageQuery struct {
	ChannelID int64 `form:"channelId"`
	DMID      int64 `form:"dmId"`
	Start     *int  `form:"start" binding:"required"`
}

// Messages handles GET /v1/channel/messages?channelId=&start=
func (h *ChannelHandler) Messages(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.ChannelMessages(middleware.GetUser(c), q.ChannelID, *q.Start)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
