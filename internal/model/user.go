package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 用户角色常量 ====================

// UserRole 用户角色
const (
	RoleCustomer  = "customer"  // 零售客户
	RoleWholesale = "wholesale" // 批发客户（审批通过）
	RoleAdmin     = "admin"     // 管理员
)

// ==================== User 用户 ====================

// User 商城用户
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Name         string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Phone        string `gorm:"size:32"`
	PasswordHash string `gorm:"size:255;not null"`

	// 角色: customer, wholesale, admin
	Role     string `gorm:"size:20;index;default:customer"`
	IsActive bool   `gorm:"default:true"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联
	Addresses        []Address         `gorm:"foreignKey:UserID"`
	WholesaleProfile *WholesaleProfile `gorm:"foreignKey:UserID"`
}

func (*User) TableName() string {
	return "users"
}

// IsWholesale 是否批发账号
func (u *User) IsWholesale() bool {
	return u.Role == RoleWholesale
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ==================== Address 收货/账单地址 ====================

// AddressType 地址类型
const (
	AddressTypeShipping = "shipping" // 收货地址
	AddressTypeBilling  = "billing"  // 账单地址
)

// Address 用户地址
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"index;not null"`

	Type       string `gorm:"size:20;not null"`
	Line1      string `gorm:"size:255;not null"`
	Line2      string `gorm:"size:255"`
	City       string `gorm:"size:100;not null"`
	State      string `gorm:"size:100;not null"`
	PostalCode string `gorm:"size:20;not null"`
	Country    string `gorm:"size:64;default:India"`
	Phone      string `gorm:"size:32"`
	IsDefault  bool   `gorm:"default:false"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Address) TableName() string {
	return "addresses"
}
