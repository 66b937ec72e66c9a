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

const testGSTNumber = "33AAAAA0000A1Z5"

func setupWholesaleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(&model.User{}, &model.WholesaleProfile{}, &model.AuditLog{})
	return db
}

func newWholesaleTestService(db *gorm.DB) *WholesaleService {
	return NewWholesaleService(
		repository.NewWholesaleRepository(db),
		repository.NewUserRepository(db),
		repository.NewAuditLogRepository(db),
	)
}

func seedWholesaleUser(t *testing.T, db *gorm.DB, id int64) {
	user := model.User{ID: id, Name: "测试商户", Email: "trader@test.in", PasswordHash: "x", Role: model.RoleCustomer, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
}

func applyReq() *dto.WholesaleApplyReq {
	return &dto.WholesaleApplyReq{
		BusinessName: "Sri Fireworks Depot",
		GSTNumber:    testGSTNumber,
		Address:      "12 Bazaar St, Sivakasi",
	}
}

// ==================== 申请 ====================

func TestWholesaleService_Apply(t *testing.T) {
	db := setupWholesaleTestDB(t)
	svc := newWholesaleTestService(db)
	ctx := context.Background()

	seedWholesaleUser(t, db, 1)

	// GST 长度不对
	_, _, err := svc.Apply(ctx, 1, &dto.WholesaleApplyReq{BusinessName: "x", GSTNumber: "123", Address: "x"})
	assertBizCode(t, err, "INVALID_GST_NUMBER")

	// 首次提交新建
	vo, created, err := svc.Apply(ctx, 1, applyReq())
	if err != nil {
		t.Fatalf("申请失败: %v", err)
	}
	if !created {
		t.Errorf("created 应为 true")
	}
	if vo.Status != model.WholesaleStatusPending {
		t.Errorf("status = %s, want pending", vo.Status)
	}
	if vo.UserEmail != "trader@test.in" {
		t.Errorf("userEmail = %s", vo.UserEmail)
	}

	// 待审核期间重复提交原地更新
	req := applyReq()
	req.BusinessName = "Sri Fireworks Depot (Updated)"
	vo, created, err = svc.Apply(ctx, 1, req)
	if err != nil {
		t.Fatalf("二次申请失败: %v", err)
	}
	if created {
		t.Errorf("created 应为 false")
	}
	if vo.BusinessName != "Sri Fireworks Depot (Updated)" {
		t.Errorf("businessName 未更新")
	}

	var count int64
	db.Model(&model.WholesaleProfile{}).Count(&count)
	if count != 1 {
		t.Errorf("profiles = %d, want 1（一人一条）", count)
	}
}

func TestWholesaleService_GetMyApplication(t *testing.T) {
	db := setupWholesaleTestDB(t)
	svc := newWholesaleTestService(db)
	ctx := context.Background()

	seedWholesaleUser(t, db, 1)

	_, err := svc.GetMyApplication(ctx, 1)
	assertBizCode(t, err, "PROFILE_NOT_FOUND")

	svc.Apply(ctx, 1, applyReq())

	vo, err := svc.GetMyApplication(ctx, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if vo.GSTNumber != testGSTNumber {
		t.Errorf("gstNumber = %s", vo.GSTNumber)
	}
}

// ==================== 审核 ====================

func TestWholesaleService_Review_Approve(t *testing.T) {
	db := setupWholesaleTestDB(t)
	svc := newWholesaleTestService(db)
	ctx := context.Background()

	seedWholesaleUser(t, db, 1)
	vo, _, _ := svc.Apply(ctx, 1, applyReq())

	// 审核结果只能是 approved / rejected
	_, err := svc.Review(ctx, vo.ID, 99, &dto.ReviewWholesaleReq{Status: "pending"})
	assertBizCode(t, err, "INVALID_STATUS")

	reviewed, err := svc.Review(ctx, vo.ID, 99, &dto.ReviewWholesaleReq{Status: model.WholesaleStatusApproved, Notes: "证照齐全"})
	if err != nil {
		t.Fatalf("审核失败: %v", err)
	}
	if reviewed.Status != model.WholesaleStatusApproved {
		t.Errorf("status = %s, want approved", reviewed.Status)
	}

	// 通过后用户角色同步提升
	var user model.User
	db.First(&user, 1)
	if user.Role != model.RoleWholesale {
		t.Errorf("role = %s, want wholesale", user.Role)
	}

	// 申请更新 + 角色提升各一条审计
	var appAudit, roleAudit int64
	db.Model(&model.AuditLog{}).Where("action = ?", model.AuditActionUpdateWholesaleApp).Count(&appAudit)
	db.Model(&model.AuditLog{}).Where("action = ?", model.AuditActionPromoteUserRole).Count(&roleAudit)
	if appAudit != 1 || roleAudit != 1 {
		t.Errorf("审计 = (%d, %d), want (1, 1)", appAudit, roleAudit)
	}

	// 已审核过的不能再审
	_, err = svc.Review(ctx, vo.ID, 99, &dto.ReviewWholesaleReq{Status: model.WholesaleStatusRejected})
	assertBizCode(t, err, "ALREADY_PROCESSED")

	// 已通过的不能再申请
	_, _, err = svc.Apply(ctx, 1, applyReq())
	assertBizCode(t, err, "ALREADY_APPROVED")
}

func TestWholesaleService_Review_RejectThenReapply(t *testing.T) {
	db := setupWholesaleTestDB(t)
	svc := newWholesaleTestService(db)
	ctx := context.Background()

	seedWholesaleUser(t, db, 1)
	vo, _, _ := svc.Apply(ctx, 1, applyReq())

	reviewed, err := svc.Review(ctx, vo.ID, 99, &dto.ReviewWholesaleReq{Status: model.WholesaleStatusRejected, Notes: "GST 无法核验"})
	if err != nil {
		t.Fatalf("驳回失败: %v", err)
	}
	if reviewed.Status != model.WholesaleStatusRejected {
		t.Errorf("status = %s, want rejected", reviewed.Status)
	}

	// 驳回不提升角色
	var user model.User
	db.First(&user, 1)
	if user.Role != model.RoleCustomer {
		t.Errorf("role = %s, want customer", user.Role)
	}

	// 被驳回后允许重新提交，状态重置回待审核
	vo, created, err := svc.Apply(ctx, 1, applyReq())
	if err != nil {
		t.Fatalf("重新申请失败: %v", err)
	}
	if created {
		t.Errorf("created 应为 false（复用原记录）")
	}
	if vo.Status != model.WholesaleStatusPending {
		t.Errorf("status = %s, want pending", vo.Status)
	}
}

func TestWholesaleService_ListApplications(t *testing.T) {
	db := setupWholesaleTestDB(t)
	svc := newWholesaleTestService(db)
	ctx := context.Background()

	seedWholesaleUser(t, db, 1)
	user2 := model.User{ID: 2, Name: "商户二", Email: "t2@test.in", PasswordHash: "x", IsActive: true}
	db.Create(&user2)

	vo1, _, _ := svc.Apply(ctx, 1, applyReq())
	svc.Apply(ctx, 2, applyReq())
	svc.Review(ctx, vo1.ID, 99, &dto.ReviewWholesaleReq{Status: model.WholesaleStatusApproved})

	resp, err := svc.ListApplications(ctx, &dto.ListWholesaleReq{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}

	resp, err = svc.ListApplications(ctx, &dto.ListWholesaleReq{Status: model.WholesaleStatusPending})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}
