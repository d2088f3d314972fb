package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构，所有端点都返回这个形状
type Response struct {
	Success bool   `json:"success"` // 管线是否成功完成
	Message string `json:"message"` // 用户可见的提示信息
}

// 通用错误消息
const MsgServerError = "Server error"

// OK 成功响应（200）
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// BadRequest 校验失败响应（400）
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: message,
	})
}

// ServerError 服务器错误响应（500），不暴露内部细节
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: MsgServerError,
	})
}
