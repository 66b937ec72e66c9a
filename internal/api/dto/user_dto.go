package dto

// ==================== 请求 DTO ====================

// CreateAddressReq 新建地址请求
type CreateAddressReq struct {
	Type       string `json:"type" binding:"required"` // shipping, billing
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}
