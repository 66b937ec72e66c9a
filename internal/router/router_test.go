package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/controller"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

// ==================== 测试辅助 ====================

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	db.AutoMigrate(
		&model.User{}, &model.Address{},
		&model.Category{}, &model.Product{}, &model.ProductPrice{}, &model.ProductImage{}, &model.ProductVariant{},
		&model.Cart{}, &model.CartItem{},
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.Shipment{},
		&model.WholesaleProfile{}, &model.AuditLog{},
	)

	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	cartItemRepo := repository.NewCartItemRepository(db)
	wholesaleRepo := repository.NewWholesaleRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	cartSvc := service.NewCartService(cartRepo, cartItemRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(
		repository.NewCheckoutUnitOfWork(db), cartRepo, addressRepo,
		repository.NewPaymentRepository(db), categoryRepo,
		service.NewRazorpayService("test-key", "test-secret"),
		cartSvc,
	)

	ctl := &Controllers{
		Auth:    controller.NewAuthController(service.NewAuthService(userRepo)),
		User:    controller.NewUserController(service.NewUserService(userRepo, addressRepo, wholesaleRepo)),
		Catalog: controller.NewCatalogController(service.NewCatalogService(categoryRepo, productRepo)),
		Cart:    controller.NewCartController(cartSvc),
		Checkout: controller.NewCheckoutController(checkoutSvc),
		Order: controller.NewOrderController(service.NewOrderService(
			repository.NewOrderRepository(db), repository.NewPaymentRepository(db),
			repository.NewShipmentRepository(db), userRepo, addressRepo, auditRepo,
		)),
		Wholesale: controller.NewWholesaleController(service.NewWholesaleService(wholesaleRepo, userRepo, auditRepo)),
	}

	r := gin.New()
	InitRoutes(r, ctl)
	return r, db
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedRouterProduct(t *testing.T, db *gorm.DB) {
	db.Create(&model.Category{ID: 1, Name: "花炮", Slug: "crackers", IsActive: true})
	if err := db.Create(&model.Product{
		ID: 1, CategoryID: 1, Slug: "sparkler", Name: "电光花", SKU: "SPK-1",
		Stock: 10, Status: model.ProductStatusActive,
	}).Error; err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	db.Create(&model.ProductPrice{ProductID: 1, RetailPrice: 10000, TaxRate: 0.18})
}

func registerUser(t *testing.T, r *gin.Engine, email string) string {
	w := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Ravi",
		"email":    email,
		"password": "secret-pass-1",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("注册返回 %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatalf("注册应返回 token: %s", w.Body.String())
	}
	return resp.Data.Token
}

// ==================== 路由测试 ====================

func TestRoutes_GuestSessionIssued(t *testing.T) {
	r, db := setupTestRouter(t)
	seedRouterProduct(t, db)

	// 游客首次加购：无会话头，响应头发一个新的
	w := doJSON(r, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 2}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("加购返回 %d: %s", w.Code, w.Body.String())
	}
	sessionID := w.Header().Get("x-session-id")
	if sessionID == "" {
		t.Fatalf("游客请求应下发 x-session-id")
	}

	// 带回会话头命中同一购物车
	w = doJSON(r, http.MethodGet, "/api/cart", nil, map[string]string{"x-session-id": sessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("查车返回 %d", w.Code)
	}
	var resp struct {
		Data struct {
			ItemCount int `json:"itemCount"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ItemCount != 2 {
		t.Errorf("itemCount = %d, want 2", resp.Data.ItemCount)
	}
}

func TestRoutes_CartTamperRejected(t *testing.T) {
	r, db := setupTestRouter(t)
	seedRouterProduct(t, db)

	// 请求体里塞 userId 直接拒绝
	w := doJSON(r, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 1, "userId": 42}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("返回 %d, want 400", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != "USER_ID_NOT_ALLOWED" {
		t.Errorf("code = %s, want USER_ID_NOT_ALLOWED", resp.Code)
	}

	// snake_case 变体同样拦截
	w = doJSON(r, http.MethodPost, "/api/cart/items", gin.H{"productId": 1, "quantity": 1, "user_id": 42}, nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusBadRequest || resp.Code != "USER_ID_NOT_ALLOWED" {
		t.Errorf("返回 %d / %s", w.Code, resp.Code)
	}
}

func TestRoutes_AuthRequired(t *testing.T) {
	r, _ := setupTestRouter(t)

	// 结算与个人接口必须登录
	for _, path := range []string{"/api/checkout/create-order", "/api/checkout/verify"} {
		w := doJSON(r, http.MethodPost, path, gin.H{}, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s 返回 %d, want 401", path, w.Code)
		}
	}
	w := doJSON(r, http.MethodGet, "/api/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("/api/me 返回 %d, want 401", w.Code)
	}
}

func TestRoutes_AuthFlow(t *testing.T) {
	r, _ := setupTestRouter(t)

	token := registerUser(t, r, "ravi@test.in")

	w := doJSON(r, http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("/api/me 返回 %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Email != "ravi@test.in" || resp.Data.Role != model.RoleCustomer {
		t.Errorf("me = %+v", resp.Data)
	}

	// 登录
	w = doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": "ravi@test.in", "password": "secret-pass-1"}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("登录返回 %d", w.Code)
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	r, _ := setupTestRouter(t)

	token := registerUser(t, r, "ravi@test.in")

	// 普通用户不能走管理端接口
	w := doJSON(r, http.MethodPatch, "/api/orders/1", gin.H{"status": "paid"},
		map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusForbidden {
		t.Errorf("返回 %d, want 403", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/wholesale/applications", nil,
		map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusForbidden {
		t.Errorf("返回 %d, want 403", w.Code)
	}
}
