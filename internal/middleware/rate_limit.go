package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// CooldownLimiter 按键冷却限流器
// 防止结算、验签这类写接口被快速重复提交
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &CooldownLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *CooldownLimiter {
	return globalLimiter
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时顺带记录本次时间
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的限流
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Gin 中间件 ====================

// WriteCooldown 写接口冷却中间件
// 按登录用户（游客按会话）对同一接口限频，双击下单直接 429
//
// 使用示例:
//
//	checkout.POST("/create-order",
//	    middleware.WriteCooldown("checkout", 2*time.Second),
//	    ctl.CreateOrder,
//	)
func WriteCooldown(scope string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if userID := GetUserID(c); userID > 0 {
			key = fmt.Sprintf("%s:u:%d", scope, userID)
		} else if sessionID := c.GetHeader(SessionHeader); sessionID != "" {
			key = fmt.Sprintf("%s:s:%s", scope, sessionID)
		} else {
			key = fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())
		}

		result := GetLimiter().Check(key, interval)
		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "操作过于频繁，请稍后重试",
				"code":  "TOO_MANY_REQUESTS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
