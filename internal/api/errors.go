package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/apperr"
	"github.com/lalith-99/beans/internal/auth"
	"github.com/lalith-99/beans/internal/workspace"
	"go.uber.org/zap"
)

// handler carries what every endpoint group needs.
type handler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

// statusOf maps an engine error onto an HTTP status.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidRequest:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": "..."}. Internal faults are logged and
// reported to Sentry; their detail never reaches the client.
func (h *handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := apperr.MessageOf(err)
	switch status {
	case http.StatusUnauthorized:
		msg = "invalid or expired token"
	case http.StatusInternalServerError:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		sentry.CaptureException(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindJSON decodes the body into req, answering 400 on malformed input.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func okEmpty(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}
