package dto

// ==================== 请求 DTO ====================

// CreateOrderReq 创建订单请求
type CreateOrderReq struct {
	Currency          string `json:"currency"` // 仅支持 INR，留空视为 INR
	ShippingAddressID *int64 `json:"shippingAddressId"`
	BillingAddressID  *int64 `json:"billingAddressId"`
	AgeVerified       bool   `json:"ageVerified"`
	Notes             string `json:"notes"`

	// 归属拦截字段，见 AddCartItemReq
	UserID    *int64  `json:"userId"`
	UserIDAlt *int64  `json:"user_id"`
	SessionID *string `json:"sessionId"`
}

// TamperFields 请求体是否携带了归属字段
func (r *CreateOrderReq) TamperFields() bool {
	return r.UserID != nil || r.UserIDAlt != nil || r.SessionID != nil
}

// VerifyPaymentReq 支付回调验签请求
type VerifyPaymentReq struct {
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	Signature         string `json:"signature" binding:"required"`
}

// ==================== 响应 DTO ====================

// CreateOrderResponse 创建订单响应
type CreateOrderResponse struct {
	OrderID         int64   `json:"orderId"`
	OrderNumber     string  `json:"orderNumber"`
	RazorpayOrderID string  `json:"razorpayOrderId"`
	Amount          float64 `json:"amount"` // 卢比
	Currency        string  `json:"currency"`
}

// VerifyPaymentResponse 验签响应
type VerifyPaymentResponse struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"` // 订单状态
	Captured    bool   `json:"captured"`
}
