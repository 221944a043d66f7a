package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

type StandupHandler struct {
	handler
}

func NewStandupHandler(svc *workspace.Service, logger *zap.Logger) *StandupHandler {
	return &StandupHandler{handler{svc: svc, logger: logger}}
}

type startStandupRequest struct {
	ChannelID int64 `json:"channelId" binding:"required"`
	Length    int64 `json:"length"`
}

// Start handles POST /v1/standup/start
func (h *StandupHandler) Start(c *gin.Context) {
	var req startStandupRequest
	if !bindJSON(c, &req) {
		return
	}
	finish, err := h.svc.StartStandup(c.Request.Context(), middleware.GetUser(c), req.ChannelID, req.Length)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeFinish": finish})
}

// Active handles GET /v1/standup/active?channelId=
func (h *StandupHandler) Active(c *gin.Context) {
	var q channelQuery
	if !bindQuery(c, &q) {
		return
	}
	st, err := h.svc.ActiveStandup(c.Request.Context(), middleware.GetUser(c), q.ChannelID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type standupSendRequest struct {
	ChannelID int64  `json:"channelId" binding:"required"`
	Message   string `json:"message"`
}

// Send handles POST /v1/standup/send
func (h *StandupHandler) Send(c *gin.Context) {
	var req standupSendRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SendStandup(c.Request.Context(), middleware.GetUser(c), req.ChannelID, req.Message); err != nil {
		h.fail(c, err)
		return
	}
	okEmpty(c)
}
