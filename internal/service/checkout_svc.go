package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/pkg/utils"
)

// ==================== 结算常量 ====================

const (
	// 税率：批发客户 12%，零售 18%（订单级统一税率）
	wholesaleOrderTaxRate = 0.12
	retailOrderTaxRate    = 0.18

	// 免运费门槛 5000 卢比，不足收 150 卢比运费（派萨）
	freeShippingThresholdPaise = 500000
	shippingFeePaise           = 15000

	// 订单号撞唯一索引时的重试次数
	orderNumberRetries = 3
)

// ==================== CheckoutService 结算服务 ====================

// CheckoutService 结算服务
// 下单走两段：本地事务先落订单扣库存，提交后再去网关建支付单，
// 网关失败则取消订单并回补库存
type CheckoutService struct {
	uow          *repository.CheckoutUnitOfWork
	cartRepo     repository.CartRepository
	addressRepo  repository.AddressRepository
	paymentRepo  repository.PaymentRepository
	categoryRepo repository.CategoryRepository
	gateway      PaymentGateway

	// 与购物车服务共享同一把归属锁，结算和加购互斥
	cartSvc *CartService
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	uow *repository.CheckoutUnitOfWork,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	paymentRepo repository.PaymentRepository,
	categoryRepo repository.CategoryRepository,
	gateway PaymentGateway,
	cartSvc *CartService,
) *CheckoutService {
	return &CheckoutService{
		uow:          uow,
		cartRepo:     cartRepo,
		addressRepo:  addressRepo,
		paymentRepo:  paymentRepo,
		categoryRepo: categoryRepo,
		gateway:      gateway,
		cartSvc:      cartSvc,
	}
}

// ==================== 创建订单 ====================

// CreateOrder 从购物车创建订单并在网关建支付单
// 金额一律服务端按购物车行重算，客户端传来的金额不作数
func (s *CheckoutService) CreateOrder(ctx context.Context, userID int64, role string, req *dto.CreateOrderReq) (*dto.CreateOrderResponse, error) {
	owner := CartOwner{UserID: &userID, Role: role}
	unlock := s.cartSvc.locks.Lock(owner.LockKey())
	defer unlock()

	// 1. 币种
	if req.Currency != "" && req.Currency != "INR" {
		return nil, errBadRequest("INVALID_CURRENCY", "仅支持 INR 结算")
	}

	// 2. 购物车与行校验
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errNotFound("CART_NOT_FOUND", "购物车不存在")
	}
	cart, err = s.cartRepo.GetWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("查询购物车失败: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, errBadRequest("CART_EMPTY", "购物车是空的")
	}

	var subtotalPaise int64
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product.ID == 0 || !item.Product.IsActive() {
			return nil, errNotFound("PRODUCT_NOT_FOUND",
				fmt.Sprintf("商品 %d 已下架", item.ProductID))
		}
		if item.Product.Stock < item.Quantity {
			return nil, errConflict("INSUFFICIENT_STOCK",
				fmt.Sprintf("商品 %s 库存不足", item.Product.Name))
		}
		subtotalPaise += item.LineTotalPaise()
	}

	// 含年龄限制类目的订单必须确认年龄
	if !req.AgeVerified {
		restricted, err := s.hasAgeRestrictedItem(ctx, cart.Items)
		if err != nil {
			return nil, fmt.Errorf("查询商品类目失败: %w", err)
		}
		if restricted {
			return nil, errBadRequest("AGE_VERIFICATION_REQUIRED", "含年龄限制商品，需确认年满 18 岁")
		}
	}

	// 3. 地址归属
	if req.ShippingAddressID == nil {
		return nil, errBadRequest("MISSING_FIELDS", "缺少收货地址")
	}
	if _, err := s.addressRepo.GetByIDAndUser(ctx, *req.ShippingAddressID, userID); err != nil {
		return nil, errNotFound("ADDRESS_NOT_FOUND", "收货地址不存在")
	}
	if req.BillingAddressID != nil {
		if _, err := s.addressRepo.GetByIDAndUser(ctx, *req.BillingAddressID, userID); err != nil {
			return nil, errNotFound("ADDRESS_NOT_FOUND", "账单地址不存在")
		}
	}

	// 4-6. 金额：订单级统一税率 + 运费
	isWholesale := role == model.RoleWholesale
	taxRate := retailOrderTaxRate
	if isWholesale {
		taxRate = wholesaleOrderTaxRate
	}
	taxPaise := int64(math.Round(float64(subtotalPaise) * taxRate))
	var feePaise int64
	if subtotalPaise < freeShippingThresholdPaise {
		feePaise = shippingFeePaise
	}
	totalPaise := subtotalPaise + taxPaise + feePaise

	// 7-8. 事务落单，订单号撞唯一索引则重新生成重试
	var order *model.Order
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		order, err = s.placeOrder(ctx, userID, cart, req, isWholesale, subtotalPaise, taxPaise, feePaise, totalPaise)
		if err == nil {
			break
		}
		if isDuplicateKey(err) {
			continue
		}
		return nil, err
	}
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("生成订单号失败: %w", err)
		}
		return nil, err
	}

	// 9. 网关建支付单，失败走补偿：取消订单 + 回补库存
	gwOrder, err := s.gateway.CreateOrder(ctx, totalPaise, "INR", order.OrderNumber)
	if err != nil {
		log.Printf("网关建单失败，回滚订单 %s: %v", order.OrderNumber, err)
		if cErr := s.compensateOrder(ctx, order); cErr != nil {
			log.Printf("订单 %s 补偿失败: %v", order.OrderNumber, cErr)
		}
		return nil, errBadGateway("GATEWAY_ERROR", "支付网关暂不可用，请稍后重试")
	}

	// 10. 支付记录
	payment := &model.Payment{
		OrderID:         order.ID,
		Provider:        model.PaymentProviderRazorpay,
		Status:          model.PaymentStatusCreated,
		Amount:          totalPaise,
		Currency:        "INR",
		RazorpayOrderID: gwOrder.ID,
		PayloadJSON:     datatypes.JSON(gwOrder.RawPayload),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("创建支付记录失败: %w", err)
	}

	return &dto.CreateOrderResponse{
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		RazorpayOrderID: gwOrder.ID,
		Amount:          order.GetTotal(),
		Currency:        "INR",
	}, nil
}

// placeOrder 单事务：条件扣库存、建订单与行快照、清空购物车
func (s *CheckoutService) placeOrder(
	ctx context.Context,
	userID int64,
	cart *model.Cart,
	req *dto.CreateOrderReq,
	isWholesale bool,
	subtotal, tax, fee, total int64,
) (*model.Order, error) {
	order := &model.Order{
		UserID:            userID,
		OrderNumber:       generateOrderNumber(),
		Status:            model.OrderStatusPending,
		Subtotal:          subtotal,
		Tax:               tax,
		ShippingFee:       fee,
		Total:             total,
		IsWholesale:       isWholesale,
		AgeVerified:       req.AgeVerified,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		Notes:             req.Notes,
	}

	err := s.uow.Transaction(ctx, func(uow *repository.CheckoutUnitOfWork) error {
		// 条件扣减：0 行生效说明被并发买空，整单回滚
		for i := range cart.Items {
			item := &cart.Items[i]
			ok, err := uow.Products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("扣减库存失败: %w", err)
			}
			if !ok {
				return errConflict("INSUFFICIENT_STOCK",
					fmt.Sprintf("商品 %s 库存不足", item.Product.Name))
			}
		}

		if err := uow.Orders.Create(ctx, order); err != nil {
			return err
		}

		items := make([]model.OrderItem, len(cart.Items))
		for i := range cart.Items {
			src := &cart.Items[i]
			items[i] = model.OrderItem{
				OrderID:   order.ID,
				ProductID: src.ProductID,
				Quantity:  src.Quantity,
				UnitPrice: src.UnitPrice,
				LineTotal: src.LineTotalPaise(),
				PriceType: src.PriceType,
			}
		}
		if err := uow.OrderItems.BatchCreate(ctx, items); err != nil {
			return fmt.Errorf("创建订单项失败: %w", err)
		}

		// 下单即清车
		if err := uow.Carts.Delete(ctx, cart.ID); err != nil {
			return fmt.Errorf("清空购物车失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// compensateOrder 网关失败补偿：订单转取消、回补库存、记审计
func (s *CheckoutService) compensateOrder(ctx context.Context, order *model.Order) error {
	return s.uow.Transaction(ctx, func(uow *repository.CheckoutUnitOfWork) error {
		items, err := uow.OrderItems.ListByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		for i := range items {
			if err := uow.Products.RestoreStock(ctx, items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
		}
		if err := uow.Orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled); err != nil {
			return err
		}

		newVals, _ := json.Marshal(map[string]string{"status": model.OrderStatusCancelled, "reason": "gateway_error"})
		oldVals, _ := json.Marshal(map[string]string{"status": order.Status})
		return uow.AuditLogs.Create(ctx, &model.AuditLog{
			Action:    model.AuditActionCancelOrderOnFailed,
			Table:     "orders",
			RecordID:  order.ID,
			OldValues: oldVals,
			NewValues: newVals,
		})
	})
}

// ==================== 支付验签 ====================

// VerifyPayment 支付回调验签
// 已捕获的支付重复回调按成功返回，不再写库（幂等）
func (s *CheckoutService) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentReq) (*dto.VerifyPaymentResponse, error) {
	payment, err := s.paymentRepo.GetByRazorpayOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, errNotFound("PAYMENT_NOT_FOUND", "支付记录不存在")
	}

	order, err := s.uow.Orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, errNotFound("ORDER_NOT_FOUND", "订单不存在")
	}

	if payment.IsCaptured() {
		return &dto.VerifyPaymentResponse{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Captured:    true,
		}, nil
	}

	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.Signature) {
		return nil, errBadRequest("INVALID_SIGNATURE", "签名校验失败")
	}

	// 支付转捕获、订单转已支付、审计，三者同事务
	err = s.uow.Transaction(ctx, func(uow *repository.CheckoutUnitOfWork) error {
		payment.Status = model.PaymentStatusCaptured
		payment.TransactionID = req.RazorpayPaymentID
		if err := uow.Payments.Update(ctx, payment); err != nil {
			return err
		}

		if order.Status == model.OrderStatusPending {
			if err := uow.Orders.UpdateStatus(ctx, order.ID, model.OrderStatusPaid); err != nil {
				return err
			}
			order.Status = model.OrderStatusPaid
		}

		oldVals, _ := json.Marshal(map[string]string{"status": model.PaymentStatusCreated})
		newVals, _ := json.Marshal(map[string]string{
			"status":         model.PaymentStatusCaptured,
			"transaction_id": req.RazorpayPaymentID,
		})
		return uow.AuditLogs.Create(ctx, &model.AuditLog{
			Action:    model.AuditActionPaymentCaptured,
			Table:     "payments",
			RecordID:  payment.ID,
			OldValues: oldVals,
			NewValues: newVals,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("更新支付状态失败: %w", err)
	}

	return &dto.VerifyPaymentResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Captured:    true,
	}, nil
}

// ==================== 辅助方法 ====================

// hasAgeRestrictedItem 是否有行商品挂在年龄限制类目下
func (s *CheckoutService) hasAgeRestrictedItem(ctx context.Context, items []model.CartItem) (bool, error) {
	checked := make(map[int64]bool)
	for i := range items {
		categoryID := items[i].Product.CategoryID
		if categoryID == 0 {
			continue
		}
		restricted, ok := checked[categoryID]
		if !ok {
			category, err := s.categoryRepo.GetByID(ctx, categoryID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					checked[categoryID] = false
					continue
				}
				return false, err
			}
			restricted = category.RequiresAgeVerification
			checked[categoryID] = restricted
		}
		if restricted {
			return true, nil
		}
	}
	return false, nil
}

// generateOrderNumber 生成人读订单号 ORD-<时间戳后8位>-<4位随机>
func generateOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	return fmt.Sprintf("ORD-%s-%s", ts, utils.RandomUpperString(4))
}

// isDuplicateKey 唯一索引冲突判定（订单号撞号）
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
