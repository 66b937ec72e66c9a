package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// 订单详情附带的审计条数
const orderAuditLimit = 10

// ==================== OrderService 订单服务 ====================

// OrderService 订单服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	shipmentRepo repository.ShipmentRepository
	userRepo     repository.UserRepository
	addressRepo  repository.AddressRepository
	auditRepo    repository.AuditLogRepository
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	shipmentRepo repository.ShipmentRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	auditRepo repository.AuditLogRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		shipmentRepo: shipmentRepo,
		userRepo:     userRepo,
		addressRepo:  addressRepo,
		auditRepo:    auditRepo,
	}
}

// ==================== 订单列表 ====================

// ListOrders 订单列表
// 管理员看全量并可筛选，普通用户强制只看自己的
func (s *OrderService) ListOrders(ctx context.Context, callerID int64, callerRole string, req *dto.ListOrdersReq) (*dto.ListOrdersResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := &repository.OrderFilter{
		Status:      req.Status,
		IsWholesale: req.IsWholesale,
		Page:        page,
		PageSize:    pageSize,
	}
	if callerRole != model.RoleAdmin {
		filter.UserID = &callerID
	}
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			filter.StartDate = &t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndDate = &endOfDay
		}
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}

	list := make([]dto.OrderListItem, len(orders))
	for i := range orders {
		order := &orders[i]
		list[i] = dto.OrderListItem{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			IsWholesale: order.IsWholesale,
			ItemCount:   len(order.Items),
			Total:       order.GetTotal(),
			CreatedAt:   order.CreatedAt,
			Items:       toOrderItemVOs(order.Items),
		}
		if len(order.Payments) > 0 {
			list[i].LatestPayment = toPaymentVO(&order.Payments[0])
		}
	}

	return &dto.ListOrdersResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     list,
	}, nil
}

// ==================== 订单详情 ====================

// GetOrderDetail 订单详情
// 本人或管理员可见；地址可能已被删，缺了不影响返回
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID, callerID int64, callerRole string) (*dto.OrderDetailResponse, error) {
	order, err := s.orderRepo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, errNotFound("ORDER_NOT_FOUND", "订单不存在")
	}
	if order.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, errForbidden("ACCESS_DENIED", "无权查看该订单")
	}

	resp := &dto.OrderDetailResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		IsWholesale: order.IsWholesale,
		AgeVerified: order.AgeVerified,
		Subtotal:    order.GetSubtotal(),
		Tax:         order.GetTax(),
		ShippingFee: order.GetShippingFee(),
		Discount:    order.GetDiscount(),
		Total:       order.GetTotal(),
		Notes:       order.Notes,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		Items:       toOrderItemVOs(order.Items),
		AuditTrail:  []dto.AuditEntryVO{},
	}

	if payment, err := s.paymentRepo.GetLatestByOrderID(ctx, order.ID); err == nil {
		resp.LatestPayment = toPaymentVO(payment)
	}

	if order.Shipment != nil {
		resp.Shipment = toShipmentVO(order.Shipment)
	}

	if buyer, err := s.userRepo.GetByID(ctx, order.UserID); err == nil {
		resp.Buyer = &dto.BuyerVO{
			ID:    buyer.ID,
			Name:  buyer.Name,
			Email: buyer.Email,
			Phone: buyer.Phone,
			Role:  buyer.Role,
		}
	}

	if order.ShippingAddressID != nil {
		if addr, err := s.addressRepo.GetByID(ctx, *order.ShippingAddressID); err == nil {
			resp.ShippingAddress = toAddressVO(addr)
		}
	}
	if order.BillingAddressID != nil {
		if addr, err := s.addressRepo.GetByID(ctx, *order.BillingAddressID); err == nil {
			resp.BillingAddress = toAddressVO(addr)
		}
	}

	if logs, err := s.auditRepo.ListByRecord(ctx, "orders", order.ID, orderAuditLimit); err == nil {
		for i := range logs {
			resp.AuditTrail = append(resp.AuditTrail, dto.AuditEntryVO{
				ID:        logs[i].ID,
				Action:    logs[i].Action,
				UserID:    logs[i].UserID,
				OldValues: string(logs[i].OldValues),
				NewValues: string(logs[i].NewValues),
				CreatedAt: logs[i].CreatedAt,
			})
		}
	}

	return resp, nil
}

// ==================== 订单更新（管理端） ====================

// UpdateOrder 管理员更新订单
// 状态必须沿流转表前进；转已发货时带运单号则顺手建/更发货记录
func (s *OrderService) UpdateOrder(ctx context.Context, orderID, adminID int64, req *dto.UpdateOrderReq) (*dto.OrderDetailResponse, error) {
	if req.Empty() {
		return nil, errBadRequest("MISSING_FIELDS", "status、notes、trackingNumber 至少传一个")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errNotFound("ORDER_NOT_FOUND", "订单不存在")
	}

	oldStatus := order.Status
	if req.Status != nil {
		newStatus := *req.Status
		if !model.ValidOrderStatus(newStatus) {
			return nil, errBadRequest("INVALID_STATUS", "状态值无效")
		}
		if newStatus == order.Status {
			return nil, errBadRequest("DUPLICATE_STATUS", "订单已是该状态")
		}
		if !order.CanTransitionTo(newStatus) {
			return nil, errBadRequest("INVALID_STATUS_TRANSITION",
				fmt.Sprintf("订单不能从 %s 流转到 %s", order.Status, newStatus))
		}
		order.Status = newStatus
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("更新订单失败: %w", err)
	}

	// 发货记录按订单幂等更新
	if req.TrackingNumber != nil && *req.TrackingNumber != "" {
		if err := s.upsertShipment(ctx, order, req); err != nil {
			return nil, fmt.Errorf("更新发货记录失败: %w", err)
		}
	}

	if req.Status != nil {
		oldVals, _ := json.Marshal(map[string]string{"status": oldStatus})
		newVals, _ := json.Marshal(map[string]string{"status": order.Status})
		if err := s.auditRepo.Create(ctx, &model.AuditLog{
			UserID:    &adminID,
			Action:    model.AuditActionUpdateOrderStatus,
			Table:     "orders",
			RecordID:  order.ID,
			OldValues: oldVals,
			NewValues: newVals,
		}); err != nil {
			return nil, fmt.Errorf("写审计日志失败: %w", err)
		}
	}

	return s.GetOrderDetail(ctx, orderID, adminID, model.RoleAdmin)
}

// upsertShipment 按订单取或建发货记录并更新运单号
func (s *OrderService) upsertShipment(ctx context.Context, order *model.Order, req *dto.UpdateOrderReq) error {
	shipment, err := s.shipmentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		shipment = &model.Shipment{
			OrderID: order.ID,
			Status:  model.ShipmentStatusPending,
		}
	}

	shipment.TrackingNumber = *req.TrackingNumber
	if req.Carrier != nil {
		shipment.Carrier = *req.Carrier
	}
	if order.Status == model.OrderStatusShipped {
		shipment.Status = model.ShipmentStatusShipped
	}
	if order.Status == model.OrderStatusDelivered {
		shipment.Status = model.ShipmentStatusDelivered
		now := time.Now()
		shipment.ActualDeliveryDate = &now
	}

	if shipment.ID == 0 {
		return s.shipmentRepo.Create(ctx, shipment)
	}
	return s.shipmentRepo.Update(ctx, shipment)
}

// ==================== 辅助方法 ====================

func toOrderItemVOs(items []model.OrderItem) []dto.OrderItemVO {
	vos := make([]dto.OrderItemVO, len(items))
	for i := range items {
		item := &items[i]
		vos[i] = dto.OrderItemVO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			ProductSlug: item.Product.Slug,
			Quantity:    item.Quantity,
			PriceType:   item.PriceType,
			UnitPrice:   item.GetUnitPrice(),
			LineTotal:   item.GetLineTotal(),
		}
		if len(item.Product.Images) > 0 {
			vos[i].ImageURL = item.Product.Images[0].URL
		}
	}
	return vos
}

func toPaymentVO(p *model.Payment) *dto.PaymentVO {
	return &dto.PaymentVO{
		ID:              p.ID,
		Provider:        p.Provider,
		Status:          p.Status,
		Amount:          p.GetAmount(),
		Currency:        p.Currency,
		RazorpayOrderID: p.RazorpayOrderID,
		TransactionID:   p.TransactionID,
		CreatedAt:       p.CreatedAt,
	}
}

func toShipmentVO(sh *model.Shipment) *dto.ShipmentVO {
	return &dto.ShipmentVO{
		ID:                    sh.ID,
		Carrier:               sh.Carrier,
		TrackingNumber:        sh.TrackingNumber,
		Status:                sh.Status,
		EstimatedDeliveryDate: sh.EstimatedDeliveryDate,
		ActualDeliveryDate:    sh.ActualDeliveryDate,
		CreatedAt:             sh.CreatedAt,
	}
}

func toAddressVO(a *model.Address) *dto.AddressVO {
	return &dto.AddressVO{
		ID:         a.ID,
		Type:       a.Type,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}
