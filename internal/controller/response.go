package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

// ==================== 统一响应 ====================

// respondError 统一错误响应
// 业务错误按其状态码和错误码返回；其余一律 500，细节只进日志不出接口
func respondError(c *gin.Context, err error) {
	if be, ok := service.AsBizError(err); ok {
		c.JSON(be.Status, gin.H{"error": be.Message, "code": be.Code})
		return
	}

	log.Printf("%s %s 内部错误: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "服务器内部错误",
		"code":  "INTERNAL_ERROR",
	})
}

// respondData 统一成功响应
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}
