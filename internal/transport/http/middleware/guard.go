package middleware

import (
	"net/http"

	"github.com/ErlanBelekov/bookshelf/internal/guard"
	"github.com/gin-gonic/gin"
)

// Guard redirects away from pages the visitor may not see. Runs after Session.
func Guard(kind guard.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		hasUser := CurrentSession(c).Store.Auth.Snapshot().Authenticated()
		if redirect, ok := guard.Decide(kind, hasUser); !ok {
			c.Redirect(http.StatusSeeOther, redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}
