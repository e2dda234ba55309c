package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/model"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
)

// RequestID tags every request with an id, honoring one supplied by the
// caller. Generated ids use the same timestamp-prefixed form as record ids
// so a request can be placed in time straight from the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = model.NewID()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
