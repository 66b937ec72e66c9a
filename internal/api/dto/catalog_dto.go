package dto

// ==================== 请求 DTO ====================

// CategoryTreeReq 分类树请求
type CategoryTreeReq struct {
	IncludeInactive bool `form:"includeInactive"`
}

// ProductListReq 商品列表请求
type ProductListReq struct {
	Q             string   `form:"q"`             // 名称/描述/SKU 模糊搜索
	Category      string   `form:"category"`      // 分类 slug 或 id
	MinPrice      *float64 `form:"minPrice"`      // 卢比
	MaxPrice      *float64 `form:"maxPrice"`      // 卢比
	InStock       bool     `form:"inStock"`       // 仅有货
	WholesaleOnly bool     `form:"wholesaleOnly"` // 仅支持批发的商品
	Sort          string   `form:"sort"`          // name, price, created
	Order         string   `form:"order"`         // asc, desc
	Page          int      `form:"page"`          // 默认 1
	PageSize      int      `form:"pageSize"`      // 默认 12，上限 100
}

// ==================== 响应 DTO ====================

// CategoryNode 分类树节点
type CategoryNode struct {
	ID                      int64          `json:"id"`
	Slug                    string         `json:"slug"`
	Name                    string         `json:"name"`
	Description             string         `json:"description,omitempty"`
	SortOrder               int            `json:"sortOrder"`
	IsActive                bool           `json:"isActive"`
	RequiresAgeVerification bool           `json:"requiresAgeVerification"`
	ProductCount            int64          `json:"productCount"`
	Children                []CategoryNode `json:"children"`
}

// ProductListItem 商品列表项
type ProductListItem struct {
	ID              int64    `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	SKU             string   `json:"sku"`
	CategoryID      int64    `json:"categoryId"`
	CategoryName    string   `json:"categoryName,omitempty"`
	RetailPrice     float64  `json:"retailPrice"`
	WholesalePrice  *float64 `json:"wholesalePrice,omitempty"`
	MinWholesaleQty int      `json:"minWholesaleQty,omitempty"`
	Stock           int      `json:"stock"`
	Unit            string   `json:"unit"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Tags            []string `json:"tags"`
}

// ProductListResponse 商品列表响应
type ProductListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	List     []ProductListItem `json:"list"`
}

// ProductImageVO 商品图片
type ProductImageVO struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

// ProductVariantVO 商品规格
type ProductVariantVO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Value         string  `json:"value"`
	SKU           string  `json:"sku"`
	PriceModifier float64 `json:"priceModifier"`
	StockModifier int     `json:"stockModifier"`
}

// ProductDetailVO 商品详情
type ProductDetailVO struct {
	ID                      int64              `json:"id"`
	Slug                    string             `json:"slug"`
	Name                    string             `json:"name"`
	Description             string             `json:"description"`
	SKU                     string             `json:"sku"`
	CategoryID              int64              `json:"categoryId"`
	CategoryName            string             `json:"categoryName"`
	CategorySlug            string             `json:"categorySlug"`
	RequiresAgeVerification bool               `json:"requiresAgeVerification"`
	RetailPrice             float64            `json:"retailPrice"`
	WholesalePrice          *float64           `json:"wholesalePrice,omitempty"`
	MinWholesaleQty         int                `json:"minWholesaleQty"`
	TaxRate                 float64            `json:"taxRate"`
	Stock                   int                `json:"stock"`
	Unit                    string             `json:"unit"`
	Tags                    []string           `json:"tags"`
	Images                  []ProductImageVO   `json:"images"`
	Variants                []ProductVariantVO `json:"variants,omitempty"`
}

// ProductDetailResponse 商品详情响应
type ProductDetailResponse struct {
	Product *ProductDetailVO  `json:"product"`
	Related []ProductListItem `json:"related"`
}
