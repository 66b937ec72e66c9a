package middleware

import (
	"testing"
	"time"
)

// ==================== Token 测试 ====================

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "Ravi", "wholesale")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("userID = %d, want 42", claims.UserID)
	}
	if claims.Role != "wholesale" {
		t.Errorf("role = %s, want wholesale", claims.Role)
	}
	if claims.Subject != "access" {
		t.Errorf("subject = %s, want access", claims.Subject)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Errorf("非法 Token 应报错")
	}

	// 换密钥签的 Token 不认
	original := GetJWTConfig()
	SetJWTConfig(&JWTConfig{SecretKey: "other-secret", AccessTokenTTL: time.Hour, Issuer: "other"})
	foreign, err := GenerateAccessToken(1, "x", "customer")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	SetJWTConfig(original)

	if _, err := ParseToken(foreign); err == nil {
		t.Errorf("异签 Token 应报错")
	}
}

func TestParseToken_Expired(t *testing.T) {
	original := GetJWTConfig()
	SetJWTConfig(&JWTConfig{SecretKey: original.SecretKey, AccessTokenTTL: -time.Minute, Issuer: original.Issuer})
	expired, err := GenerateAccessToken(1, "x", "customer")
	SetJWTConfig(original)
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := ParseToken(expired); err == nil {
		t.Errorf("过期 Token 应报错")
	}
}

// ==================== 冷却限流测试 ====================

func TestCooldownLimiter_Check(t *testing.T) {
	limiter := &CooldownLimiter{}

	first := limiter.Check("checkout:u:1", 50*time.Millisecond)
	if !first.Allowed {
		t.Fatalf("首次应放行")
	}

	second := limiter.Check("checkout:u:1", 50*time.Millisecond)
	if second.Allowed {
		t.Errorf("冷却期内应拒绝")
	}
	if second.RetryAfter <= 0 {
		t.Errorf("retryAfter = %v, 应为正", second.RetryAfter)
	}

	// 不同键互不影响
	other := limiter.Check("checkout:u:2", 50*time.Millisecond)
	if !other.Allowed {
		t.Errorf("不同键不应被限")
	}

	// 冷却结束后放行
	time.Sleep(60 * time.Millisecond)
	third := limiter.Check("checkout:u:1", 50*time.Millisecond)
	if !third.Allowed {
		t.Errorf("冷却结束应放行")
	}

	limiter.Reset("checkout:u:1")
	if !limiter.Check("checkout:u:1", time.Hour).Allowed {
		t.Errorf("重置后应放行")
	}
}
