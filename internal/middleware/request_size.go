package middleware

import (
	"company-data-manager/pkg/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultMaxRequestSize = 1 << 20
	multipartOverhead     = 1 << 20
)

// RequestSizeLimitMiddleware caps JSON bodies at DefaultMaxRequestSize and
// multipart uploads at maxUpload plus form overhead.
func RequestSizeLimitMiddleware(maxUpload int64) gin.HandlerFunc {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		limit := int64(DefaultMaxRequestSize)
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = maxUpload + multipartOverhead
		}

		if c.Request.ContentLength > limit {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
