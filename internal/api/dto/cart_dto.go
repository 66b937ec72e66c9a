package dto

// ==================== 请求 DTO ====================

// AddCartItemReq 加购请求
// UserID/SessionID 字段仅用于拦截：归属只信中间件解析结果，请求体传了就拒绝
type AddCartItemReq struct {
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	PriceType string `json:"priceType"` // 默认 retail

	UserID    *int64  `json:"userId"`
	UserIDAlt *int64  `json:"user_id"`
	SessionID *string `json:"sessionId"`
}

// TamperFields 请求体是否携带了归属字段
func (r *AddCartItemReq) TamperFields() bool {
	return r.UserID != nil || r.UserIDAlt != nil || r.SessionID != nil
}

// UpdateCartItemReq 修改购物车项数量请求
type UpdateCartItemReq struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ==================== 响应 DTO ====================

// CartItemVO 购物车项
type CartItemVO struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	ProductSlug string  `json:"productSlug"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Stock       int     `json:"stock"`
	PriceType   string  `json:"priceType"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	TaxRate     float64 `json:"taxRate"`
}

// CartResponse 购物车快照
// 每次变更都返回完整快照，前端无需自行累计
type CartResponse struct {
	ID        int64        `json:"id"`
	Items     []CartItemVO `json:"items"`
	ItemCount int          `json:"itemCount"`
	Subtotal  float64      `json:"subtotal"`
	Tax       float64      `json:"tax"`
	Total     float64      `json:"total"`
}
