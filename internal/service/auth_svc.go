package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// ==================== AuthService 认证服务 ====================

// AuthService 认证服务
// 只负责账号本身，签发 Token 在控制器层做
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// ==================== 注册 / 登录 ====================

// Register 注册新用户，默认零售角色
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterReq) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if existing != nil {
		return nil, errBadRequest("EMAIL_EXISTS", "该邮箱已注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// Login 登录校验
// 账号不存在和密码错误返回同一个错误，不给枚举邮箱的机会
func (s *AuthService) Login(ctx context.Context, req *dto.LoginReq) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errUnauthorized("INVALID_CREDENTIALS", "邮箱或密码错误")
	}
	if !user.IsActive {
		return nil, errForbidden("ACCOUNT_DISABLED", "账号已停用")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errUnauthorized("INVALID_CREDENTIALS", "邮箱或密码错误")
	}
	return user, nil
}
