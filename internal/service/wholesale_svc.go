package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// GST 税号固定长度
const gstNumberLength = 15

// ==================== WholesaleService 批发资质服务 ====================

// WholesaleService 批发资质服务
type WholesaleService struct {
	wholesaleRepo repository.WholesaleRepository
	userRepo      repository.UserRepository
	auditRepo     repository.AuditLogRepository
}

// NewWholesaleService 创建批发资质服务
func NewWholesaleService(
	wholesaleRepo repository.WholesaleRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) *WholesaleService {
	return &WholesaleService{
		wholesaleRepo: wholesaleRepo,
		userRepo:      userRepo,
		auditRepo:     auditRepo,
	}
}

// ==================== 申请 ====================

// Apply 提交批发资质申请
// 待审核的申请原地更新；被驳回的允许重新提交，重置回待审核；
// 已通过的不允许再提交。返回值 created 表示是否新建
func (s *WholesaleService) Apply(ctx context.Context, userID int64, req *dto.WholesaleApplyReq) (*dto.WholesaleProfileVO, bool, error) {
	if len(req.GSTNumber) != gstNumberLength {
		return nil, false, errBadRequest("INVALID_GST_NUMBER", "GST 税号必须是 15 位")
	}

	profile, err := s.wholesaleRepo.GetByUserID(ctx, userID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("查询批发申请失败: %w", err)
	}

	if profile != nil {
		if profile.IsApproved() {
			return nil, false, errBadRequest("ALREADY_APPROVED", "批发资质已通过，无需重复申请")
		}
		// pending 原地更新，rejected 重置回 pending
		profile.BusinessName = req.BusinessName
		profile.GSTNumber = req.GSTNumber
		profile.LicenseNumber = req.LicenseNumber
		profile.Address = req.Address
		profile.Notes = req.Notes
		profile.Status = model.WholesaleStatusPending
		if err := s.wholesaleRepo.Update(ctx, profile); err != nil {
			return nil, false, fmt.Errorf("更新批发申请失败: %w", err)
		}
		return s.toProfileVO(ctx, profile), false, nil
	}

	profile = &model.WholesaleProfile{
		UserID:        userID,
		BusinessName:  req.BusinessName,
		GSTNumber:     req.GSTNumber,
		LicenseNumber: req.LicenseNumber,
		Address:       req.Address,
		Notes:         req.Notes,
		Status:        model.WholesaleStatusPending,
	}
	if err := s.wholesaleRepo.Create(ctx, profile); err != nil {
		return nil, false, fmt.Errorf("创建批发申请失败: %w", err)
	}
	return s.toProfileVO(ctx, profile), true, nil
}

// GetMyApplication 查询本人的批发申请
func (s *WholesaleService) GetMyApplication(ctx context.Context, userID int64) (*dto.WholesaleProfileVO, error) {
	profile, err := s.wholesaleRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errNotFound("PROFILE_NOT_FOUND", "尚未提交批发申请")
	}
	return s.toProfileVO(ctx, profile), nil
}

// ==================== 审核（管理端） ====================

// ListApplications 批发申请列表
func (s *WholesaleService) ListApplications(ctx context.Context, req *dto.ListWholesaleReq) (*dto.ListWholesaleResponse, error) {
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

	profiles, total, err := s.wholesaleRepo.List(ctx, &repository.WholesaleFilter{
		Status:   req.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("查询批发申请列表失败: %w", err)
	}

	list := make([]dto.WholesaleProfileVO, len(profiles))
	for i := range profiles {
		list[i] = *s.toProfileVO(ctx, &profiles[i])
	}
	return &dto.ListWholesaleResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     list,
	}, nil
}

// Review 审核批发申请
// 只能审待审核的；通过时同步提升用户角色，申请更新和角色提升各记一条审计
func (s *WholesaleService) Review(ctx context.Context, applicationID, adminID int64, req *dto.ReviewWholesaleReq) (*dto.WholesaleProfileVO, error) {
	if req.Status != model.WholesaleStatusApproved && req.Status != model.WholesaleStatusRejected {
		return nil, errBadRequest("INVALID_STATUS", "审核结果只能是 approved 或 rejected")
	}

	profile, err := s.wholesaleRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, errNotFound("APPLICATION_NOT_FOUND", "批发申请不存在")
	}
	if !profile.IsPending() {
		return nil, errBadRequest("ALREADY_PROCESSED", "该申请已审核过")
	}

	oldStatus := profile.Status
	profile.Status = req.Status
	if req.Notes != "" {
		profile.Notes = req.Notes
	}
	if err := s.wholesaleRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("更新批发申请失败: %w", err)
	}

	oldVals, _ := json.Marshal(map[string]string{"status": oldStatus})
	newVals, _ := json.Marshal(map[string]string{"status": profile.Status})
	if err := s.auditRepo.Create(ctx, &model.AuditLog{
		UserID:    &adminID,
		Action:    model.AuditActionUpdateWholesaleApp,
		Table:     "wholesale_profiles",
		RecordID:  profile.ID,
		OldValues: oldVals,
		NewValues: newVals,
	}); err != nil {
		return nil, fmt.Errorf("写审计日志失败: %w", err)
	}

	if profile.IsApproved() {
		if err := s.userRepo.UpdateRole(ctx, profile.UserID, model.RoleWholesale); err != nil {
			return nil, fmt.Errorf("提升用户角色失败: %w", err)
		}
		roleOld, _ := json.Marshal(map[string]string{"role": model.RoleCustomer})
		roleNew, _ := json.Marshal(map[string]string{"role": model.RoleWholesale})
		if err := s.auditRepo.Create(ctx, &model.AuditLog{
			UserID:    &adminID,
			Action:    model.AuditActionPromoteUserRole,
			Table:     "users",
			RecordID:  profile.UserID,
			OldValues: roleOld,
			NewValues: roleNew,
		}); err != nil {
			return nil, fmt.Errorf("写审计日志失败: %w", err)
		}
	}

	return s.toProfileVO(ctx, profile), nil
}

// ==================== 辅助方法 ====================

// toProfileVO 申请转 VO，带上申请人信息（查不到不影响返回）
func (s *WholesaleService) toProfileVO(ctx context.Context, p *model.WholesaleProfile) *dto.WholesaleProfileVO {
	vo := &dto.WholesaleProfileVO{
		ID:            p.ID,
		UserID:        p.UserID,
		BusinessName:  p.BusinessName,
		GSTNumber:     p.GSTNumber,
		LicenseNumber: p.LicenseNumber,
		Address:       p.Address,
		Status:        p.Status,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if user, err := s.userRepo.GetByID(ctx, p.UserID); err == nil {
		vo.UserName = user.Name
		vo.UserEmail = user.Email
	}
	return vo
}
