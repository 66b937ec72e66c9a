package dto

// ==================== 请求 DTO ====================

// RegisterReq 注册请求
type RegisterReq struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ==================== 响应 DTO ====================

// UserVO 用户信息
type UserVO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role"`
	WholesaleStatus string `json:"wholesaleStatus,omitempty"` // pending, approved, rejected
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token string  `json:"token"`
	User  *UserVO `json:"user"`
}
