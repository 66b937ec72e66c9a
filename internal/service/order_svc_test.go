package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// ==================== 测试辅助 ====================

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(
		&model.User{}, &model.Address{},
		&model.Category{}, &model.Product{}, &model.ProductPrice{}, &model.ProductImage{},
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.Shipment{},
		&model.AuditLog{},
	)
	return db
}

func newOrderTestService(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewShipmentRepository(db),
		repository.NewUserRepository(db),
		repository.NewAddressRepository(db),
		repository.NewAuditLogRepository(db),
	)
}

func seedOrder(t *testing.T, db *gorm.DB, userID int64, orderNumber, status string) *model.Order {
	order := model.Order{
		UserID:      userID,
		OrderNumber: orderNumber,
		Status:      status,
		Subtotal:    20000,
		Tax:         3600,
		ShippingFee: 15000,
		Total:       38600,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	return &order
}

func strPtr(s string) *string { return &s }

// ==================== 列表 ====================

func TestOrderService_ListOrders_ScopedToCaller(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(db)
	ctx := context.Background()

	seedOrder(t, db, 1, "ORD-00000001-AAAA", model.OrderStatusPending)
	seedOrder(t, db, 1, "ORD-00000002-BBBB", model.OrderStatusPaid)
	seedOrder(t, db, 2, "ORD-00000003-CCCC", model.OrderStatusPending)

	// 普通用户只看自己的
	resp, err := svc.ListOrders(ctx, 1, model.RoleCustomer, &dto.ListOrdersReq{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}

	// 管理员看全量
	resp, err = svc.ListOrders(ctx, 99, model.RoleAdmin, &dto.ListOrdersReq{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}

	// 管理员按状态筛选
	resp, err = svc.ListOrders(ctx, 99, model.RoleAdmin, &dto.ListOrdersReq{Status: model.OrderStatusPaid})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

// ==================== 详情 ====================

func TestOrderService_GetOrderDetail_AccessControl(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(db)
	ctx := context.Background()

	order := seedOrder(t, db, 1, "ORD-00000001-AAAA", model.OrderStatusPending)

	// 本人可见
	if _, err := svc.GetOrderDetail(ctx, order.ID, 1, model.RoleCustomer); err != nil {
		t.Fatalf("本人查询失败: %v", err)
	}

	// 其他用户拒绝
	_, err := svc.GetOrderDetail(ctx, order.ID, 2, model.RoleCustomer)
	assertBizCode(t, err, "ACCESS_DENIED")

	// 管理员可见
	if _, err := svc.GetOrderDetail(ctx, order.ID, 99, model.RoleAdmin); err != nil {
		t.Fatalf("管理员查询失败: %v", err)
	}

	// 不存在的订单
	_, err = svc.GetOrderDetail(ctx, 9999, 1, model.RoleCustomer)
	assertBizCode(t, err, "ORDER_NOT_FOUND")
}

// ==================== 状态流转 ====================

func TestOrderService_UpdateOrder_Transitions(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(db)
	ctx := context.Background()

	order := seedOrder(t, db, 1, "ORD-00000001-AAAA", model.OrderStatusPending)

	// 空请求
	_, err := svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{})
	assertBizCode(t, err, "MISSING_FIELDS")

	// 非法状态值
	_, err = svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Status: strPtr("refunded")})
	assertBizCode(t, err, "INVALID_STATUS")

	// 同状态
	_, err = svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Status: strPtr(model.OrderStatusPending)})
	assertBizCode(t, err, "DUPLICATE_STATUS")

	// 跳步：pending 不能直接 delivered
	_, err = svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Status: strPtr(model.OrderStatusDelivered)})
	assertBizCode(t, err, "INVALID_STATUS_TRANSITION")

	// 合法：pending → paid
	resp, err := svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Status: strPtr(model.OrderStatusPaid)})
	if err != nil {
		t.Fatalf("流转失败: %v", err)
	}
	if resp.Status != model.OrderStatusPaid {
		t.Errorf("status = %s, want paid", resp.Status)
	}

	// 状态变更留审计
	var auditCount int64
	db.Model(&model.AuditLog{}).
		Where("action = ?", model.AuditActionUpdateOrderStatus).
		Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("审计 = %d, want 1", auditCount)
	}

	// 终态后不可再动
	svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Status: strPtr(model.OrderStatusCancelled)})
	_, err = svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Status: strPtr(model.OrderStatusShipped)})
	assertBizCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestOrderService_UpdateOrder_ShipmentUpsert(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(db)
	ctx := context.Background()

	order := seedOrder(t, db, 1, "ORD-00000001-AAAA", model.OrderStatusPaid)

	// 转已发货并带运单号，发货记录懒创建
	resp, err := svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{
		Status:         strPtr(model.OrderStatusShipped),
		TrackingNumber: strPtr("AWB123456"),
		Carrier:        strPtr("BlueDart"),
	})
	if err != nil {
		t.Fatalf("流转失败: %v", err)
	}
	if resp.Shipment == nil {
		t.Fatalf("发货记录应随详情返回")
	}
	if resp.Shipment.TrackingNumber != "AWB123456" {
		t.Errorf("trackingNumber = %s", resp.Shipment.TrackingNumber)
	}
	if resp.Shipment.Status != model.ShipmentStatusShipped {
		t.Errorf("shipment.status = %s, want shipped", resp.Shipment.Status)
	}

	// 转签收时同一条记录更新并落实际送达时间
	resp, err = svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{
		Status:         strPtr(model.OrderStatusDelivered),
		TrackingNumber: strPtr("AWB123456"),
	})
	if err != nil {
		t.Fatalf("流转失败: %v", err)
	}
	if resp.Shipment.Status != model.ShipmentStatusDelivered {
		t.Errorf("shipment.status = %s, want delivered", resp.Shipment.Status)
	}
	if resp.Shipment.ActualDeliveryDate == nil {
		t.Errorf("actualDeliveryDate 应已填")
	}

	var shipmentCount int64
	db.Model(&model.Shipment{}).Count(&shipmentCount)
	if shipmentCount != 1 {
		t.Errorf("shipments = %d, want 1（应幂等更新）", shipmentCount)
	}
}

func TestOrderService_UpdateOrder_NotesOnly(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(db)
	ctx := context.Background()

	order := seedOrder(t, db, 1, "ORD-00000001-AAAA", model.OrderStatusPending)

	// 只改备注不碰状态，也不写状态审计
	resp, err := svc.UpdateOrder(ctx, order.ID, 99, &dto.UpdateOrderReq{Notes: strPtr("客户要求傍晚送达")})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.Notes != "客户要求傍晚送达" {
		t.Errorf("notes = %s", resp.Notes)
	}
	if resp.Status != model.OrderStatusPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}

	var auditCount int64
	db.Model(&model.AuditLog{}).Count(&auditCount)
	if auditCount != 0 {
		t.Errorf("审计 = %d, want 0", auditCount)
	}
}
