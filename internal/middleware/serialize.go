package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// Serialize runs every request under lock, one at a time. The workspace
// engine assumes a single writer; the scheduler shares the same lock.
func Serialize(lock sync.Locker) gin.HandlerFunc {
	return func(c *gin.Context) {
		lock.Lock()
		defer lock.Unlock()
		c.Next()
	}
}
