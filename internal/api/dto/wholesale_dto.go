package dto

import "time"

// ==================== 请求 DTO ====================

// WholesaleApplyReq 批发资质申请请求
type WholesaleApplyReq struct {
	BusinessName  string `json:"businessName" binding:"required"`
	GSTNumber     string `json:"gstNumber" binding:"required"`
	LicenseNumber string `json:"licenseNumber"`
	Address       string `json:"address" binding:"required"`
	Notes         string `json:"notes"`

	// 归属拦截字段
	UserID    *int64 `json:"userId"`
	UserIDAlt *int64 `json:"user_id"`
}

// TamperFields 请求体是否携带了归属字段
func (r *WholesaleApplyReq) TamperFields() bool {
	return r.UserID != nil || r.UserIDAlt != nil
}

// ListWholesaleReq 批发申请列表请求（管理端）
type ListWholesaleReq struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ReviewWholesaleReq 批发申请审核请求（管理端）
type ReviewWholesaleReq struct {
	Status string `json:"status" binding:"required"` // approved, rejected
	Notes  string `json:"notes"`
}

// ==================== 响应 DTO ====================

// WholesaleProfileVO 批发申请
type WholesaleProfileVO struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	UserName      string    `json:"userName,omitempty"`
	UserEmail     string    `json:"userEmail,omitempty"`
	BusinessName  string    `json:"businessName"`
	GSTNumber     string    `json:"gstNumber"`
	LicenseNumber string    `json:"licenseNumber,omitempty"`
	Address       string    `json:"address"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListWholesaleResponse 批发申请列表响应
type ListWholesaleResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
	List     []WholesaleProfileVO `json:"list"`
}
