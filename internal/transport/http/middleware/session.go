package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/reqctx"
	"github.com/ErlanBelekov/bookshelf/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// sessionGetter is the subset of session.Manager the middleware needs.
type sessionGetter interface {
	Get(ctx context.Context, id string) (*session.Session, bool)
}

// Session attaches the browser's session to the gin context, creating one on
// first visit. The cookie is re-issued on every request so its Max-Age
// counts from the last use.
func Session(manager sessionGetter, secure bool, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(session.CookieName)
		sess, _ := manager.Get(c.Request.Context(), id)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, sess.ID, int(maxAge.Seconds()), "/", "", secure, true)

		ctx := reqctx.WithSessionID(c.Request.Context(), sess.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session set by Session. It panics when the
// middleware is missing from the chain.
func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
