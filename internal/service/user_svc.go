package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// ==================== UserService 用户服务 ====================

// UserService 用户服务（当前用户信息 + 地址簿）
type UserService struct {
	userRepo      repository.UserRepository
	addressRepo   repository.AddressRepository
	wholesaleRepo repository.WholesaleRepository
}

// NewUserService 创建用户服务
func NewUserService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	wholesaleRepo repository.WholesaleRepository,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		addressRepo:   addressRepo,
		wholesaleRepo: wholesaleRepo,
	}
}

// ==================== 当前用户 ====================

// GetMe 当前用户信息，带批发申请状态
func (s *UserService) GetMe(ctx context.Context, userID int64) (*dto.UserVO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errNotFound("USER_NOT_FOUND", "用户不存在")
	}

	vo := &dto.UserVO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
	}
	if profile, err := s.wholesaleRepo.GetByUserID(ctx, userID); err == nil {
		vo.WholesaleStatus = profile.Status
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("查询批发申请失败: %w", err)
	}
	return vo, nil
}

// ==================== 地址簿 ====================

// ListAddresses 当前用户的地址列表
func (s *UserService) ListAddresses(ctx context.Context, userID int64) ([]dto.AddressVO, error) {
	addresses, err := s.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询地址列表失败: %w", err)
	}
	vos := make([]dto.AddressVO, len(addresses))
	for i := range addresses {
		vos[i] = *toAddressVO(&addresses[i])
	}
	return vos, nil
}

// CreateAddress 新建地址
func (s *UserService) CreateAddress(ctx context.Context, userID int64, req *dto.CreateAddressReq) (*dto.AddressVO, error) {
	if req.Type != model.AddressTypeShipping && req.Type != model.AddressTypeBilling {
		return nil, errBadRequest("INVALID_ADDRESS_TYPE", "地址类型只能是 shipping 或 billing")
	}

	address := &model.Address{
		UserID:     userID,
		Type:       req.Type,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if address.Country == "" {
		address.Country = "India"
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("创建地址失败: %w", err)
	}
	return toAddressVO(address), nil
}
