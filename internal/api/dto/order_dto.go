package dto

import "time"

// ==================== 请求 DTO ====================

// ListOrdersReq 订单列表请求（管理端）
type ListOrdersReq struct {
	Status      string `form:"status"`
	IsWholesale *bool  `form:"isWholesale"`
	StartDate   string `form:"startDate"` // 2006-01-02
	EndDate     string `form:"endDate"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
}

// UpdateOrderReq 订单更新请求（管理端）
// status / notes / trackingNumber 至少传一个
type UpdateOrderReq struct {
	Status         *string `json:"status"`
	Notes          *string `json:"notes"`
	TrackingNumber *string `json:"trackingNumber"`
	Carrier        *string `json:"carrier"`
}

// Empty 是否一个字段都没传
func (r *UpdateOrderReq) Empty() bool {
	return r.Status == nil && r.Notes == nil && r.TrackingNumber == nil
}

// ==================== 响应 DTO ====================

// OrderListItem 订单列表项
type OrderListItem struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	IsWholesale bool      `json:"isWholesale"`
	ItemCount   int       `json:"itemCount"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`

	Items         []OrderItemVO `json:"items,omitempty"`
	LatestPayment *PaymentVO    `json:"latestPayment,omitempty"`
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	List     []OrderListItem `json:"list"`
}

// OrderItemVO 订单项
type OrderItemVO struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	ProductSlug string  `json:"productSlug,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Quantity    int     `json:"quantity"`
	PriceType   string  `json:"priceType"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// PaymentVO 支付记录
type PaymentVO struct {
	ID              int64     `json:"id"`
	Provider        string    `json:"provider"`
	Status          string    `json:"status"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	RazorpayOrderID string    `json:"razorpayOrderId,omitempty"`
	TransactionID   string    `json:"transactionId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ShipmentVO 发货信息
type ShipmentVO struct {
	ID                    int64      `json:"id"`
	Carrier               string     `json:"carrier,omitempty"`
	TrackingNumber        string     `json:"trackingNumber"`
	Status                string     `json:"status"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actualDeliveryDate,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// BuyerVO 买家信息
type BuyerVO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// AddressVO 地址
type AddressVO struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// AuditEntryVO 审计日志项
type AuditEntryVO struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	UserID    *int64    `json:"userId,omitempty"`
	OldValues string    `json:"oldValues,omitempty"`
	NewValues string    `json:"newValues,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderDetailResponse 订单详情响应
// 地址可能为空（游客转正前的历史数据），缺了不报错
type OrderDetailResponse struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	IsWholesale bool      `json:"isWholesale"`
	AgeVerified bool      `json:"ageVerified"`
	Subtotal    float64   `json:"subtotal"`
	Tax         float64   `json:"tax"`
	ShippingFee float64   `json:"shippingFee"`
	Discount    float64   `json:"discount"`
	Total       float64   `json:"total"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Items           []OrderItemVO  `json:"items"`
	LatestPayment   *PaymentVO     `json:"latestPayment,omitempty"`
	Shipment        *ShipmentVO    `json:"shipment,omitempty"`
	Buyer           *BuyerVO       `json:"buyer,omitempty"`
	ShippingAddress *AddressVO     `json:"shippingAddress,omitempty"`
	BillingAddress  *AddressVO     `json:"billingAddress,omitempty"`
	AuditTrail      []AuditEntryVO `json:"auditTrail"`
}
