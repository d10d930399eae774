package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/shared"
)

const HeaderRequestID = "X-Request-ID"

// RequestID giữ X-Request-ID của client nếu có, không thì sinh uuid mới
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(shared.ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
