package model

import (
	"time"
)

// ==================== Category 商品分类 ====================

// Category 商品分类（自引用树形结构）
type Category struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Name        string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:255;uniqueIndex;not null"`
	Description string `gorm:"type:text"`

	// 树形结构：顶级分类 ParentID 为空
	ParentID *int64 `gorm:"index"`

	SortOrder int  `gorm:"default:0"`
	IsActive  bool `gorm:"default:true"`

	// 烟花爆竹类目需要年龄验证，下挂商品按查询继承该标记
	RequiresAgeVerification bool `gorm:"default:false"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联
	Children []Category `gorm:"foreignKey:ParentID"`
	Products []Product  `gorm:"foreignKey:CategoryID"`
}

func (*Category) TableName() string {
	return "categories"
}
