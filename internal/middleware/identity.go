package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

// ==================== 购物车归属解析 ====================

// 游客会话头，前端收到后存起来随后续请求回传
const SessionHeader = "x-session-id"

// ContextKeyCartOwner 归属对象的 Context Key
const ContextKeyCartOwner = "cart_owner"

// ShopperIdentity 购物车归属解析中间件
// 每请求解析一次：登录用户取 JWT（优先），游客取 x-session-id 头，
// 都没有就发一个新会话 ID 并回写响应头。后续各层只认这个归属对象
func ShopperIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := service.CartOwner{}

		if userID := GetUserID(c); userID > 0 {
			owner.UserID = &userID
			owner.Role = GetUserRole(c)
		} else {
			sessionID := c.GetHeader(SessionHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			// 回写响应头，游客首次请求拿到会话 ID
			c.Header(SessionHeader, sessionID)
			owner.SessionID = &sessionID
		}

		c.Set(ContextKeyCartOwner, owner)
		c.Next()
	}
}

// GetCartOwner 从 Context 获取购物车归属
func GetCartOwner(c *gin.Context) service.CartOwner {
	if v, exists := c.Get(ContextKeyCartOwner); exists {
		return v.(service.CartOwner)
	}
	return service.CartOwner{}
}
