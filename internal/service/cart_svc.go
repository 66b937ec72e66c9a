package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
)

// ==================== CartOwner 购物车归属 ====================

// CartOwner 购物车归属
// 由中间件每请求解析一次：登录用户取 JWT，游客取 x-session-id。
// 服务层只认这个对象，绝不信请求体里的归属字段
type CartOwner struct {
	UserID    *int64
	SessionID *string
	Role      string // 登录用户的角色，游客为空
}

// IsUser 是否登录用户
func (o CartOwner) IsUser() bool {
	return o.UserID != nil
}

// LockKey 归属对应的锁键
func (o CartOwner) LockKey() string {
	if o.UserID != nil {
		return fmt.Sprintf("u:%d", *o.UserID)
	}
	if o.SessionID != nil {
		return "s:" + *o.SessionID
	}
	return ""
}

// ==================== 按键互斥锁 ====================

// keyedMutex 按归属串行化购物车写操作
// 同一归属的并发加购/改量排队执行，跨归属互不阻塞
type keyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ==================== CartService 购物车服务 ====================

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	cartItemRepo repository.CartItemRepository
	productRepo  repository.ProductRepository

	locks keyedMutex
}

// NewCartService 创建购物车服务
func NewCartService(
	cartRepo repository.CartRepository,
	cartItemRepo repository.CartItemRepository,
	productRepo repository.ProductRepository,
) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// ==================== 查询 ====================

// GetCart 获取当前购物车快照，没有购物车时返回空快照（不落库）
func (s *CartService) GetCart(ctx context.Context, owner CartOwner) (*dto.CartResponse, error) {
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return emptyCartResponse(), nil
		}
		return nil, fmt.Errorf("查询购物车失败: %w", err)
	}
	return s.buildSnapshot(ctx, cart.ID)
}

// ==================== 加购 ====================

// AddItem 加入购物车
// 校验顺序固定：数量/价格类型 → 商品存在且上架 → 库存 → 价格行 → 批发资格
func (s *CartService) AddItem(ctx context.Context, owner CartOwner, req *dto.AddCartItemReq) (*dto.CartResponse, error) {
	unlock := s.locks.Lock(owner.LockKey())
	defer unlock()

	// 1. 入参
	if req.Quantity < 1 {
		return nil, errBadRequest("INVALID_QUANTITY", "数量必须大于 0")
	}
	priceType := req.PriceType
	if priceType == "" {
		priceType = model.PriceTypeRetail
	}
	if !model.ValidPriceType(priceType) {
		return nil, errBadRequest("INVALID_PRICE_TYPE", "价格类型无效")
	}

	// 2. 商品存在且上架
	product, err := s.productRepo.GetWithPrice(ctx, req.ProductID)
	if err != nil || !product.IsActive() {
		return nil, errNotFound("PRODUCT_NOT_FOUND", "商品不存在")
	}

	// 3. 库存
	if product.Stock < req.Quantity {
		return nil, errConflict("INSUFFICIENT_STOCK", "库存不足")
	}

	// 4. 价格行
	if product.Price == nil {
		return nil, errNotFound("PRICING_NOT_FOUND", "商品未配置价格")
	}

	// 5. 批发资格
	unitPrice := product.Price.RetailPrice
	if priceType == model.PriceTypeWholesale {
		if !owner.IsUser() || owner.Role != model.RoleWholesale {
			return nil, errForbidden("WHOLESALE_ACCESS_DENIED", "当前账号无批发购买资格")
		}
		if req.Quantity < product.Price.MinWholesaleQty {
			return nil, errBadRequest("BELOW_MIN_WHOLESALE_QTY",
				fmt.Sprintf("批发购买最低 %d 件起订", product.Price.MinWholesaleQty))
		}
		if product.Price.WholesalePrice == nil {
			return nil, errBadRequest("WHOLESALE_PRICE_UNAVAILABLE", "该商品未设置批发价")
		}
		unitPrice = *product.Price.WholesalePrice
	}

	// 取或建购物车
	cart, err := s.findOrCreateCart(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("获取购物车失败: %w", err)
	}

	// 同 (商品, 价格类型) 已在车中则合并数量，库存按合并后的总量复核
	existing, err := s.cartItemRepo.GetByCartProductType(ctx, cart.ID, product.ID, priceType)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("查询购物车项失败: %w", err)
	}
	if existing != nil {
		newQty := existing.Quantity + req.Quantity
		if product.Stock < newQty {
			return nil, errConflict("INSUFFICIENT_STOCK", "库存不足")
		}
		existing.Quantity = newQty
		existing.UnitPrice = unitPrice
		if err := s.cartItemRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("更新购物车项失败: %w", err)
		}
	} else {
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
			PriceType: priceType,
		}
		if err := s.cartItemRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("创建购物车项失败: %w", err)
		}
	}

	return s.buildSnapshot(ctx, cart.ID)
}

// ==================== 改量 / 删除 ====================

// UpdateQuantity 修改购物车项数量
func (s *CartService) UpdateQuantity(ctx context.Context, owner CartOwner, itemID int64, quantity int) (*dto.CartResponse, error) {
	unlock := s.locks.Lock(owner.LockKey())
	defer unlock()

	if quantity < 1 {
		return nil, errBadRequest("INVALID_QUANTITY", "数量必须大于 0")
	}

	cart, item, err := s.findOwnedItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, errNotFound("PRODUCT_NOT_FOUND", "商品不存在")
	}
	if product.Stock < quantity {
		return nil, errConflict("INSUFFICIENT_STOCK", "库存不足")
	}

	item.Quantity = quantity
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("更新购物车项失败: %w", err)
	}

	return s.buildSnapshot(ctx, cart.ID)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(ctx context.Context, owner CartOwner, itemID int64) (*dto.CartResponse, error) {
	unlock := s.locks.Lock(owner.LockKey())
	defer unlock()

	cart, item, err := s.findOwnedItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartItemRepo.Delete(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("删除购物车项失败: %w", err)
	}

	return s.buildSnapshot(ctx, cart.ID)
}

// ==================== 内部方法 ====================

// findCart 按归属查购物车
func (s *CartService) findCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	if owner.UserID != nil {
		return s.cartRepo.GetByUserID(ctx, *owner.UserID)
	}
	if owner.SessionID != nil {
		return s.cartRepo.GetBySessionID(ctx, *owner.SessionID)
	}
	return nil, gorm.ErrRecordNotFound
}

// findOrCreateCart 一个归属只有一个购物车
// 归属上有互斥锁，这里不会并发建出两个
func (s *CartService) findOrCreateCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	cart, err := s.findCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cart = &model.Cart{UserID: owner.UserID, SessionID: owner.SessionID}
	if owner.UserID != nil {
		cart.SessionID = nil
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// findOwnedItem 查归属名下的购物车项，越权一律按不存在处理
func (s *CartService) findOwnedItem(ctx context.Context, owner CartOwner, itemID int64) (*model.Cart, *model.CartItem, error) {
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		return nil, nil, errNotFound("CART_NOT_FOUND", "购物车不存在")
	}

	item, err := s.cartItemRepo.GetByID(ctx, itemID)
	if err != nil || item.CartID != cart.ID {
		return nil, nil, errNotFound("ITEM_NOT_FOUND", "购物车项不存在")
	}
	return cart, item, nil
}

// buildSnapshot 组装完整购物车快照
// 税按行计算：每行用各自价格行的税率，默认 0.18
func (s *CartService) buildSnapshot(ctx context.Context, cartID int64) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.GetWithItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("查询购物车失败: %w", err)
	}

	resp := &dto.CartResponse{
		ID:    cart.ID,
		Items: make([]dto.CartItemVO, 0, len(cart.Items)),
	}

	var subtotalPaise, taxPaise int64
	for i := range cart.Items {
		item := &cart.Items[i]
		linePaise := item.LineTotalPaise()
		taxRate := model.DefaultTaxRate
		if item.Product.Price != nil {
			taxRate = item.Product.Price.GetTaxRate()
		}

		subtotalPaise += linePaise
		taxPaise += int64(math.Round(float64(linePaise) * taxRate))

		vo := dto.CartItemVO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			ProductSlug: item.Product.Slug,
			Unit:        item.Product.Unit,
			Stock:       item.Product.Stock,
			PriceType:   item.PriceType,
			Quantity:    item.Quantity,
			UnitPrice:   item.GetUnitPrice(),
			LineTotal:   item.GetLineTotal(),
			TaxRate:     taxRate,
		}
		if len(item.Product.Images) > 0 {
			vo.ImageURL = item.Product.Images[0].URL
		}
		resp.Items = append(resp.Items, vo)
		resp.ItemCount += item.Quantity
	}

	resp.Subtotal = float64(subtotalPaise) / 100
	resp.Tax = float64(taxPaise) / 100
	resp.Total = float64(subtotalPaise+taxPaise) / 100
	return resp, nil
}

func emptyCartResponse() *dto.CartResponse {
	return &dto.CartResponse{Items: []dto.CartItemVO{}}
}
