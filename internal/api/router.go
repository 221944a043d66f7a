package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/middleware"
	"github.com/lalith-99/beans/internal/observ"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Service *workspace.Service
	Logger  *zap.Logger
	// Lock serializes every request. It must be the lock the scheduler
	// takes before firing callbacks.
	Lock sync.Locker
	// Ready checks the snapshot backend for /v1/health. Optional.
	Ready func(ctx context.Context) error
	// EnableClear routes DELETE /v1/clear.
	EnableClear bool
}

// NewRouter wires every endpoint under /v1. Health is public, auth
// endpoints that issue tokens are public, everything else needs a session.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), observ.RequestLogger(cfg.Logger))

	r.GET("/v1/health", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(c.Request.Context()); err != nil {
				cfg.Logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(cfg.Service, cfg.Logger)
	userH := NewUserHandler(cfg.Service, cfg.Logger)
	channelH := NewChannelHandler(cfg.Service, cfg.Logger)
	dmH := NewDMHandler(cfg.Service, cfg.Logger)
	msgH := NewMessageHandler(cfg.Service, cfg.Logger)
	standupH := NewStandupHandler(cfg.Service, cfg.Logger)
	adminH := NewAdminHandler(cfg.Service, cfg.Logger)

	v1 := r.Group("/v1")
	v1.Use(middleware.Serialize(cfg.Lock))

	v1.POST("/auth/register", authH.Register)
	v1.POST("/auth/login", authH.Login)
	v1.POST("/auth/passwordreset/request", authH.RequestReset)
	v1.POST("/auth/passwordreset/reset", authH.ResetPassword)
	if cfg.EnableClear {
		v1.DELETE("/clear", adminH.Clear)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.Service))

	authed.POST("/auth/logout", authH.Logout)

	authed.GET("/user/profile", userH.Profile)
	authed.GET("/users/all", userH.All)
	authed.PUT("/user/profile/setname", userH.SetName)
	authed.PUT("/user/profile/setemail", userH.SetEmail)
	authed.PUT("/user/profile/sethandle", userH.SetHandle)
	authed.GET("/user/stats", userH.UserStats)
	authed.GET("/users/stats", userH.WorkspaceStats)
	authed.GET("/notifications", userH.Notifications)

	authed.POST("/channels/create", channelH.Create)
	authed.GET("/channels/list", channelH.List)
	authed.GET("/channels/listall", channelH.ListAll)
	authed.GET("/channel/details", channelH.Details)
	authed.POST("/channel/join", channelH.Join)
	authed.POST("/channel/invite", channelH.Invite)
	authed.POST("/channel/leave", channelH.Leave)
	authed.POST("/channel/addowner", channelH.AddOwner)
	authed.POST("/channel/removeowner", channelH.RemoveOwner)
	authed.GET("/channel/messages", channelH.Messages)

	authed.POST("/dm/create", dmH.Create)
	authed.GET("/dm/list", dmH.List)
	authed.GET("/dm/details", dmH.Details)
	authed.POST("/dm/leave", dmH.Leave)
	authed.DELETE("/dm/remove", dmH.Remove)
	authed.GET("/dm/messages", dmH.Messages)

	authed.POST("/message/send", msgH.Send)
	authed.POST("/message/sendlater", msgH.SendLater)
	authed.POST("/message/senddm", msgH.SendDM)
	authed.POST("/message/sendlaterdm", msgH.SendLaterDM)
	authed.PUT("/message/edit", msgH.Edit)
	authed.DELETE("/message/remove", msgH.Remove)
	authed.POST("/message/share", msgH.Share)
	authed.POST("/message/react", msgH.React)
	authed.POST("/message/unreact", msgH.Unreact)
	authed.POST("/message/pin", msgH.Pin)
	authed.POST("/message/unpin", msgH.Unpin)
	authed.GET("/search", msgH.Search)

	authed.POST("/standup/start", standupH.Start)
	authed.GET("/standup/active", standupH.Active)
	authed.POST("/standup/send", standupH.Send)

	authed.DELETE("/admin/user/remove", adminH.RemoveUser)
	authed.POST("/admin/userpermission/change", adminH.SetPermission)

	return r
}
