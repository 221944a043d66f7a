package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// MessageHandler serves the message lifecycle: send, edit, remove,
// search, share, reactions and pins.
type MessageHandler struct {
	handler
}

func NewMessageHandler(svc *workspace.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{handler{svc: svc, logger: logger}}
}

// sendRequest covers all four send endpoints. Exactly one of ChannelID
// and DMID is read, depending on the route.
type sendRequest struct {
	ChannelID int64  `json:"channelId"`
	DMID      int64  `json:"dmId"`
	Message   string `json:"message"`
	TimeSent  *int64 `json:"timeSent"`
}

// Send handles POST /v1/message/send
func (h *MessageHandler) Send(c *gin.Context) {
	h.send(c, func(r sendRequest) int64 { return r.ChannelID }, false)
}

// SendLater handles POST /v1/message/sendlater
func (h *MessageHandler) SendLater(c *gin.Context) {
	h.send(c, func(r sendRequest) int64 { return r.ChannelID }, true)
}

// SendDM handles POST /v1/message/senddm
func (h *MessageHandler) SendDM(c *gin.Context) {
	h.send(c, func(r sendRequest) int64 { return r.DMID }, false)
}

// SendLaterDM handles POST /v1/message/sendlaterdm
func (h *MessageHandler) SendLaterDM(c *gin.Context) {
	h.send(c, func(r sendRequest) int64 { return r.DMID }, true)
}

func (h *MessageHandler) send(c *gin.Context, chatID func(sendRequest) int64, later bool) {
	var req sendRequest
	if !bindJSON(c, &req) {
		return
	}
	if later && req.TimeSent == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "timeSent is required"})
		return
	}
	id, err := h.svc.Send(c.Request.Context(), middleware.GetUser(c), chatID(req), req.Message, req.TimeSent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": id})
}

type editRequest struct {
	MessageID int64  `json:"messageId" binding:"required"`
	Message   string `json:"message"`
}

// Edit handles PUT /v1/message/edit
func (h *MessageHandler) Edit(c *gin.Context) {
	var req editRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Edit(c.Request.Context(), middleware.GetUser(c), req.MessageID, req.Message); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type messageQuery struct {
	MessageID int64 `form:"messageId" binding:"required"`
}

// Remove handles DELETE /v1/message/remove?messageId=
func (h *MessageHandler) Remove(c *gin.Context) {
	var q messageQuery
	if !bindQuery(c, &q) {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), middleware.GetUser(c), q.MessageID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type searchQuery struct {
	QueryStr string `form:"queryStr"`
}

// Search handles GET /v1/search?queryStr=
func (h *MessageHandler) Search(c *gin.Context) {
	var q searchQuery
	if !bindQuery(c, &q) {
		return
	}
	msgs, err := h.svc.Search(middleware.GetUser(c), q.QueryStr)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type shareRequest struct {
	OgMessageID int64  `json:"ogMessageId" binding:"required"`
	Message     string `json:"message"`
	ChannelID   int64  `json:"channelId" binding:"required"`
	DMID        int64  `json:"dmId" binding:"required"`
}

// Share handles POST /v1/message/share
func (h *MessageHandler) Share(c *gin.Context) {
	var req shareRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.svc.Share(c.Request.Context(), middleware.GetUser(c), req.OgMessageID, req.ChannelID, req.DMID, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sharedMessageId": id})
}

type reactRequest struct {
	MessageID int64 `json:"messageId" binding:"required"`
	ReactID   int   `json:"reactId"`
}

// React handles POST /v1/message/react
func (h *MessageHandler) React(c *gin.Context) {
	var req reactRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.React(c.Request.Context(), middleware.GetUser(c), req.MessageID, req.ReactID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Unreact handles POST /v1/message/unreact
func (h *MessageHandler) Unreact(c *gin.Context) {
	var req reactRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Unreact(c.Request.Context(), middleware.GetUser(c), req.MessageID, req.ReactID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

type pinRequest struct {
	MessageID int64 `json:"messageId" binding:"required"`
}

// Pin handles POST /v1/message/pin
func (h *MessageHandler) Pin(c *gin.Context) {
	var req pinRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Pin(c.Request.Context(), middleware.GetUser(c), req.MessageID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}

// Unpin handles POST /v1/message/unpin
func (h *MessageHandler) Unpin(c *gin.Context) {
	var req pinRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Unpin(c.Request.Context(), middleware.GetUser(c), req.MessageID); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}
