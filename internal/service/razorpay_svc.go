package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 网关接口 ====================

// GatewayOrder 网关侧订单
type GatewayOrder struct {
	ID         string // 网关订单 ID
	RawPayload []byte // 原始返回，落库备查
}

// PaymentGateway 支付网关
// 下单服务只依赖这个接口，测试时用假网关替换
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error)
	VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) bool
}

// ==================== RazorpayService ====================

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayService Razorpay 网关客户端
type RazorpayService struct {
	client    *resty.Client
	keyID     string
	keySecret string
}

// NewRazorpayService 创建 Razorpay 客户端
func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	client := resty.New().
		SetBaseURL(razorpayBaseURL).
		SetTimeout(15 * time.Second).
		SetBasicAuth(keyID, keySecret).
		SetHeader("Content-Type", "application/json")

	return &RazorpayService{
		client:    client,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// razorpayOrderResp 网关下单响应（只解析用到的字段）
type razorpayOrderResp struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder 在网关创建支付订单，金额为派萨
func (s *RazorpayService) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error) {
	body := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("请求支付网关失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("支付网关返回错误 [%d]: %s", resp.StatusCode(), resp.String())
	}

	var orderResp razorpayOrderResp
	if err := json.Unmarshal(resp.Body(), &orderResp); err != nil {
		return nil, fmt.Errorf("解析网关响应失败: %w", err)
	}
	if orderResp.ID == "" {
		return nil, fmt.Errorf("网关响应缺少订单 ID: %s", resp.String())
	}

	return &GatewayOrder{
		ID:         orderResp.ID,
		RawPayload: resp.Body(),
	}, nil
}

// VerifySignature 校验回调签名
// 算法：HMAC-SHA256(secret, orderId + "|" + paymentId) 的十六进制
func (s *RazorpayService) VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
