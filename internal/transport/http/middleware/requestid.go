package middleware

import (
	"github.com/ErlanBelekov/bookshelf/internal/reqctx"
	"github.com/gin-gonic/gin"
)

// RequestID injects a request ID into the context and response header.
// If the incoming request already carries X-Request-ID, it is preserved;
// otherwise a new UUID v4 is generated. The same id is forwarded to the
// remote API by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(reqctx.HeaderRequestID)
		if id == "" {
			id = reqctx.NewID()
		}

		ctx := reqctx.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(reqctx.HeaderRequestID, id)
		c.Next()
	}
}
