package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// ==================== 假网关 ====================

// fakeGateway 测试用支付网关
type fakeGateway struct {
	failCreate  bool
	signatureOK bool
	createCalls int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error) {
	g.createCalls++
	if g.failCreate {
		return nil, errors.New("网关超时")
	}
	return &GatewayOrder{
		ID:         "order_fake_123",
		RawPayload: []byte(`{"id":"order_fake_123","status":"created"}`),
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.signatureOK
}

// ==================== 测试辅助 ====================

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(
		&model.User{}, &model.Address{},
		&model.Category{}, &model.Product{}, &model.ProductPrice{}, &model.ProductImage{},
		&model.Cart{}, &model.CartItem{},
		&model.Order{}, &model.OrderItem{}, &model.Payment{},
		&model.AuditLog{},
	)
	return db
}

func newCheckoutTestService(db *gorm.DB, gateway PaymentGateway) *CheckoutService {
	cartSvc := newCartTestService(db)
	return NewCheckoutService(
		repository.NewCheckoutUnitOfWork(db),
		repository.NewCartRepository(db),
		repository.NewAddressRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewCategoryRepository(db),
		gateway,
		cartSvc,
	)
}

// seedCheckoutFixture 用户 + 地址 + 分类 + 商品 + 购物车一整套
// 返回地址 ID
func seedCheckoutFixture(t *testing.T, db *gorm.DB, userID int64, stock, qty int, unitPaise int64, ageRestricted bool) int64 {
	user := model.User{ID: userID, Name: "测试用户", Email: "buyer@test.in", PasswordHash: "x", Role: model.RoleCustomer, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	addr := model.Address{UserID: userID, Type: model.AddressTypeShipping, Line1: "1 MG Road", City: "Sivakasi", State: "TN", PostalCode: "626123"}
	if err := db.Create(&addr).Error; err != nil {
		t.Fatalf("创建地址失败: %v", err)
	}
	category := model.Category{ID: 1, Name: "花炮", Slug: "crackers", IsActive: true, RequiresAgeVerification: ageRestricted}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	product := model.Product{ID: 1, CategoryID: 1, Slug: "sparkler", Name: "电光花", SKU: "SPK-1", Stock: stock, Status: model.ProductStatusActive}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	price := model.ProductPrice{ProductID: 1, RetailPrice: unitPaise, TaxRate: 0.18}
	db.Create(&price)

	cart := model.Cart{UserID: &userID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("创建购物车失败: %v", err)
	}
	item := model.CartItem{CartID: cart.ID, ProductID: 1, Quantity: qty, UnitPrice: unitPaise, PriceType: model.PriceTypeRetail}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("创建购物车项失败: %v", err)
	}
	return addr.ID
}

// ==================== 创建订单 ====================

func TestCheckoutService_CreateOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	gw := &fakeGateway{}
	svc := newCheckoutTestService(db, gw)
	ctx := context.Background()

	// 2 件 100 卢比，小计 200 不到免运费门槛
	addrID := seedCheckoutFixture(t, db, 1, 10, 2, 10000, false)

	resp, err := svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{
		ShippingAddressID: &addrID,
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	if !strings.HasPrefix(resp.OrderNumber, "ORD-") {
		t.Errorf("orderNumber = %s, 应以 ORD- 开头", resp.OrderNumber)
	}
	if resp.RazorpayOrderID != "order_fake_123" {
		t.Errorf("razorpayOrderId = %s", resp.RazorpayOrderID)
	}

	// 金额：小计 20000 + 税 18% 3600 + 运费 15000 = 38600 派萨
	var order model.Order
	if err := db.First(&order, resp.OrderID).Error; err != nil {
		t.Fatalf("查订单失败: %v", err)
	}
	if order.Subtotal != 20000 {
		t.Errorf("subtotal = %d, want 20000", order.Subtotal)
	}
	if order.Tax != 3600 {
		t.Errorf("tax = %d, want 3600", order.Tax)
	}
	if order.ShippingFee != 15000 {
		t.Errorf("shippingFee = %d, want 15000", order.ShippingFee)
	}
	if order.Total != 38600 {
		t.Errorf("total = %d, want 38600", order.Total)
	}
	if order.Status != model.OrderStatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}

	// 库存已扣
	var product model.Product
	db.First(&product, 1)
	if product.Stock != 8 {
		t.Errorf("stock = %d, want 8", product.Stock)
	}

	// 购物车已清
	var cartCount int64
	db.Model(&model.Cart{}).Count(&cartCount)
	if cartCount != 0 {
		t.Errorf("carts = %d, want 0", cartCount)
	}

	// 支付记录挂在网关订单号下
	var payment model.Payment
	if err := db.Where("razorpay_order_id = ?", "order_fake_123").First(&payment).Error; err != nil {
		t.Fatalf("查支付记录失败: %v", err)
	}
	if payment.Amount != order.Total {
		t.Errorf("payment.amount = %d, want %d", payment.Amount, order.Total)
	}
	if payment.Status != model.PaymentStatusCreated {
		t.Errorf("payment.status = %s, want created", payment.Status)
	}
}

func TestCheckoutService_CreateOrder_WholesaleRates(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{})
	ctx := context.Background()

	// 5 件 1000 卢比，小计 500000 派萨，过免运费门槛
	addrID := seedCheckoutFixture(t, db, 1, 10, 5, 100000, false)
	db.Model(&model.User{}).Where("id = ?", 1).Update("role", model.RoleWholesale)

	resp, err := svc.CreateOrder(ctx, 1, model.RoleWholesale, &dto.CreateOrderReq{
		ShippingAddressID: &addrID,
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	var order model.Order
	db.First(&order, resp.OrderID)
	if !order.IsWholesale {
		t.Errorf("isWholesale 应为 true")
	}
	// 批发税率 12%
	if order.Tax != 60000 {
		t.Errorf("tax = %d, want 60000", order.Tax)
	}
	// 免运费
	if order.ShippingFee != 0 {
		t.Errorf("shippingFee = %d, want 0", order.ShippingFee)
	}
}

func TestCheckoutService_CreateOrder_Validation(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{})
	ctx := context.Background()

	addrID := seedCheckoutFixture(t, db, 1, 10, 1, 10000, false)

	// 币种
	_, err := svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{Currency: "USD", ShippingAddressID: &addrID})
	assertBizCode(t, err, "INVALID_CURRENCY")

	// 缺收货地址
	_, err = svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{})
	assertBizCode(t, err, "MISSING_FIELDS")

	// 别人的地址
	other := model.User{ID: 2, Name: "别人", Email: "other@test.in", PasswordHash: "x", IsActive: true}
	db.Create(&other)
	otherAddr := model.Address{UserID: 2, Type: model.AddressTypeShipping, Line1: "x", City: "x", State: "x", PostalCode: "1"}
	db.Create(&otherAddr)
	_, err = svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{ShippingAddressID: &otherAddr.ID})
	assertBizCode(t, err, "ADDRESS_NOT_FOUND")

	// 没有购物车
	_, err = svc.CreateOrder(ctx, 2, model.RoleCustomer, &dto.CreateOrderReq{ShippingAddressID: &otherAddr.ID})
	assertBizCode(t, err, "CART_NOT_FOUND")
}

func TestCheckoutService_CreateOrder_EmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{})
	ctx := context.Background()

	addrID := seedCheckoutFixture(t, db, 1, 10, 1, 10000, false)
	db.Where("1 = 1").Delete(&model.CartItem{})

	_, err := svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{ShippingAddressID: &addrID})
	assertBizCode(t, err, "CART_EMPTY")
}

func TestCheckoutService_CreateOrder_AgeVerification(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{})
	ctx := context.Background()

	addrID := seedCheckoutFixture(t, db, 1, 10, 1, 10000, true)

	// 含年龄限制商品未确认年龄
	_, err := svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{ShippingAddressID: &addrID})
	assertBizCode(t, err, "AGE_VERIFICATION_REQUIRED")

	// 确认后放行
	resp, err := svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{
		ShippingAddressID: &addrID,
		AgeVerified:       true,
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	var order model.Order
	db.First(&order, resp.OrderID)
	if !order.AgeVerified {
		t.Errorf("ageVerified 应为 true")
	}
}

func TestCheckoutService_CreateOrder_GatewayFailureCompensates(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{failCreate: true})
	ctx := context.Background()

	addrID := seedCheckoutFixture(t, db, 1, 10, 3, 10000, false)

	_, err := svc.CreateOrder(ctx, 1, model.RoleCustomer, &dto.CreateOrderReq{ShippingAddressID: &addrID})
	assertBizCode(t, err, "GATEWAY_ERROR")

	// 库存回补
	var product model.Product
	db.First(&product, 1)
	if product.Stock != 10 {
		t.Errorf("stock = %d, want 10（补偿应回补库存）", product.Stock)
	}

	// 订单转取消
	var order model.Order
	if err := db.First(&order).Error; err != nil {
		t.Fatalf("查订单失败: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Errorf("status = %s, want cancelled", order.Status)
	}

	// 补偿留审计
	var auditCount int64
	db.Model(&model.AuditLog{}).
		Where("action = ?", model.AuditActionCancelOrderOnFailed).
		Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("补偿审计 = %d, want 1", auditCount)
	}

	// 没有支付记录
	var payCount int64
	db.Model(&model.Payment{}).Count(&payCount)
	if payCount != 0 {
		t.Errorf("payments = %d, want 0", payCount)
	}
}

// ==================== 支付验签 ====================

func seedPendingPayment(t *testing.T, db *gorm.DB) (*model.Order, *model.Payment) {
	order := model.Order{UserID: 1, OrderNumber: "ORD-10000001-TEST", Status: model.OrderStatusPending, Total: 38600}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	payment := model.Payment{
		OrderID:         order.ID,
		Provider:        model.PaymentProviderRazorpay,
		Status:          model.PaymentStatusCreated,
		Amount:          order.Total,
		Currency:        "INR",
		RazorpayOrderID: "order_fake_123",
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("创建支付记录失败: %v", err)
	}
	return &order, &payment
}

func TestCheckoutService_VerifyPayment(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{signatureOK: true})
	ctx := context.Background()

	order, payment := seedPendingPayment(t, db)

	resp, err := svc.VerifyPayment(ctx, &dto.VerifyPaymentReq{
		RazorpayOrderID:   "order_fake_123",
		RazorpayPaymentID: "pay_abc",
		Signature:         "sig",
	})
	if err != nil {
		t.Fatalf("验签失败: %v", err)
	}
	if resp.Status != model.OrderStatusPaid {
		t.Errorf("status = %s, want paid", resp.Status)
	}
	if !resp.Captured {
		t.Errorf("captured 应为 true")
	}

	var updated model.Payment
	db.First(&updated, payment.ID)
	if updated.Status != model.PaymentStatusCaptured {
		t.Errorf("payment.status = %s, want captured", updated.Status)
	}
	if updated.TransactionID != "pay_abc" {
		t.Errorf("transactionId = %s, want pay_abc", updated.TransactionID)
	}

	var freshOrder model.Order
	db.First(&freshOrder, order.ID)
	if freshOrder.Status != model.OrderStatusPaid {
		t.Errorf("order.status = %s, want paid", freshOrder.Status)
	}

	var auditCount int64
	db.Model(&model.AuditLog{}).
		Where("action = ?", model.AuditActionPaymentCaptured).
		Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("验签审计 = %d, want 1", auditCount)
	}
}

func TestCheckoutService_VerifyPayment_Idempotent(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{signatureOK: true})
	ctx := context.Background()

	seedPendingPayment(t, db)

	req := &dto.VerifyPaymentReq{
		RazorpayOrderID:   "order_fake_123",
		RazorpayPaymentID: "pay_abc",
		Signature:         "sig",
	}
	if _, err := svc.VerifyPayment(ctx, req); err != nil {
		t.Fatalf("首次验签失败: %v", err)
	}

	// 重复回调按成功返回，审计不再追加
	resp, err := svc.VerifyPayment(ctx, req)
	if err != nil {
		t.Fatalf("重复验签应幂等: %v", err)
	}
	if !resp.Captured {
		t.Errorf("captured 应为 true")
	}

	var auditCount int64
	db.Model(&model.AuditLog{}).
		Where("action = ?", model.AuditActionPaymentCaptured).
		Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("审计 = %d, want 1（幂等不重复写）", auditCount)
	}
}

func TestCheckoutService_VerifyPayment_BadSignature(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{signatureOK: false})
	ctx := context.Background()

	order, _ := seedPendingPayment(t, db)

	_, err := svc.VerifyPayment(ctx, &dto.VerifyPaymentReq{
		RazorpayOrderID:   "order_fake_123",
		RazorpayPaymentID: "pay_abc",
		Signature:         "forged",
	})
	assertBizCode(t, err, "INVALID_SIGNATURE")

	// 订单保持待支付
	var freshOrder model.Order
	db.First(&freshOrder, order.ID)
	if freshOrder.Status != model.OrderStatusPending {
		t.Errorf("status = %s, want pending", freshOrder.Status)
	}
}

func TestCheckoutService_VerifyPayment_NotFound(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(db, &fakeGateway{signatureOK: true})

	_, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentReq{
		RazorpayOrderID:   "order_unknown",
		RazorpayPaymentID: "pay_x",
		Signature:         "sig",
	})
	assertBizCode(t, err, "PAYMENT_NOT_FOUND")
}

// ==================== 签名算法 ====================

func TestRazorpayService_VerifySignature(t *testing.T) {
	svc := NewRazorpayService("key", "secret")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_1|pay_1"))
	sig := hex.EncodeToString(mac.Sum(nil))

	if !svc.VerifySignature("order_1", "pay_1", sig) {
		t.Errorf("合法签名应通过")
	}
	if svc.VerifySignature("order_1", "pay_1", "deadbeef") {
		t.Errorf("伪造签名应拒绝")
	}
	if svc.VerifySignature("order_2", "pay_1", sig) {
		t.Errorf("换单号后签名应失效")
	}
}
