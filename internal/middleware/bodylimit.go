package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultBodyLimit 全局请求体大小上限。
	// 比 5MiB 的附件上限宽松，给 multipart 编码和其余字段留余量；
	// 精确的附件校验在管线内完成。
	DefaultBodyLimit = 10 * 1024 * 1024 // 10MB
)

// BodySizeLimit 限制请求体大小的中间件
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"message": "Request body too large",
			})
			return
		}

		// Content-Length 可能缺失或撒谎，读取侧再限制一次
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		c.Next()
	}
}
