package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ==================== 商品状态常量 ====================

// ProductStatus 商品状态
const (
	ProductStatusActive = "active" // 上架
	ProductStatusDraft  = "draft"  // 草稿（不可见、不可购买）
)

// DefaultTaxRate 默认税率（18% GST）
const DefaultTaxRate = 0.18

// ==================== Product 商品主表 ====================

// Product 商品
type Product struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	CategoryID int64 `gorm:"index;not null"`

	Slug        string `gorm:"size:255;uniqueIndex;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	SKU         string `gorm:"size:100;uniqueIndex;not null"`

	// 库存，扣减只走条件更新，禁止读改写
	Stock int `gorm:"default:0"`

	Status string `gorm:"size:20;index;default:active"`
	Unit   string `gorm:"size:20;default:piece"` // box, piece, pack

	// 季节性标签，JSON 数组字符串
	Tags string `gorm:"type:text"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联
	Category Category         `gorm:"foreignKey:CategoryID"`
	Price    *ProductPrice    `gorm:"foreignKey:ProductID"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}

func (*Product) TableName() string {
	return "products"
}

// IsActive 是否上架可售
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// ParseTags 解析标签 JSON
// 脏数据兜底：解析失败一律返回空列表，绝不让商品详情请求失败
func (p *Product) ParseTags() []string {
	if p.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(p.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}

// ==================== ProductPrice 商品价格 ====================

// ProductPrice 商品价格（与商品一对一）
// 金额以派萨（分）为单位存储
type ProductPrice struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"uniqueIndex;not null"`

	// 零售价（必填）
	RetailPrice int64 `gorm:"not null"`

	// 批发价（可空，未设置则该商品不支持批发购买）
	WholesalePrice *int64

	// 批发最低起订量
	MinWholesaleQty int `gorm:"default:1"`

	// 税率（默认 18% GST）
	TaxRate float64 `gorm:"default:0.18"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*ProductPrice) TableName() string {
	return "product_prices"
}

// GetRetailPrice 获取零售价（卢比）
func (p *ProductPrice) GetRetailPrice() float64 {
	return float64(p.RetailPrice) / 100
}

// GetWholesalePrice 获取批发价（卢比），未设置返回 nil
func (p *ProductPrice) GetWholesalePrice() *float64 {
	if p.WholesalePrice == nil {
		return nil
	}
	v := float64(*p.WholesalePrice) / 100
	return &v
}

// GetTaxRate 获取税率，兜底默认值
func (p *ProductPrice) GetTaxRate() float64 {
	if p.TaxRate <= 0 {
		return DefaultTaxRate
	}
	return p.TaxRate
}

// ==================== ProductImage 商品图片 ====================

// ProductImage 商品图片
type ProductImage struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"index;not null"`

	URL       string `gorm:"size:500;not null"`
	Alt       string `gorm:"size:255"`
	SortOrder int    `gorm:"default:0"` // 0 为主图

	CreatedAt time.Time
}

func (*ProductImage) TableName() string {
	return "product_images"
}

// ==================== ProductVariant 商品规格 ====================

// ProductVariant 商品规格（可选）
type ProductVariant struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"index;not null"`

	Name  string `gorm:"size:100;not null"` // 规格名，如 "装箱数"
	Value string `gorm:"size:100;not null"` // 规格值，如 "10 盒/箱"

	// 相对主商品的价格/库存修正
	PriceModifier int64 `gorm:"default:0"`
	StockModifier int   `gorm:"default:0"`

	SKU string `gorm:"size:100;uniqueIndex;not null"`

	CreatedAt time.Time
}

func (*ProductVariant) TableName() string {
	return "product_variants"
}
