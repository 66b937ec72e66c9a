package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/controller"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/router"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/task"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	cleanupTask := initTasks(deps)

	// 4. 初始化路由
	r := initRouter(deps.Controllers)

	// 5. 启动服务
	startServer(r, cleanupTask)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User        repository.UserRepository
	Address     repository.AddressRepository
	Category    repository.CategoryRepository
	Product     repository.ProductRepository
	Cart        repository.CartRepository
	CartItem    repository.CartItemRepository
	Order       repository.OrderRepository
	Payment     repository.PaymentRepository
	Shipment    repository.ShipmentRepository
	Wholesale   repository.WholesaleRepository
	AuditLog    repository.AuditLogRepository
	CheckoutUow *repository.CheckoutUnitOfWork
}

// Services 服务集合
type Services struct {
	Auth      *service.AuthService
	User      *service.UserService
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Checkout  *service.CheckoutService
	Order     *service.OrderService
	Wholesale *service.WholesaleService
	Gateway   service.PaymentGateway
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DB_DSN",
		"host=localhost user=postgres password=postgres dbname=srimalli_traders port=5432 sslmode=disable TimeZone=Asia/Kolkata")

	opts := database.DefaultOptions()
	opts.Verbose = getEnv("DB_VERBOSE", "") == "true"

	return database.InitDB(dsn, opts,
		// 用户
		&model.User{}, &model.Address{},
		// 目录
		&model.Category{},
		&model.Product{}, &model.ProductPrice{}, &model.ProductImage{}, &model.ProductVariant{},
		// 购物车
		&model.Cart{}, &model.CartItem{},
		// 订单
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.Shipment{},
		// 批发 & 审计
		&model.WholesaleProfile{}, &model.AuditLog{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// JWT 密钥允许环境变量覆盖
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 支付网关 --------
	gateway := service.NewRazorpayService(
		getEnv("RAZORPAY_KEY_ID", ""),
		getEnv("RAZORPAY_KEY_SECRET", ""),
	)

	// -------- 业务服务 --------
	services := &Services{Gateway: gateway}
	services.Auth = service.NewAuthService(repos.User)
	services.User = service.NewUserService(repos.User, repos.Address, repos.Wholesale)
	services.Catalog = service.NewCatalogService(repos.Category, repos.Product)
	services.Cart = service.NewCartService(repos.Cart, repos.CartItem, repos.Product)
	// 结算复用购物车服务的按 owner 锁，保证下单与改购物车串行
	services.Checkout = service.NewCheckoutService(
		repos.CheckoutUow, repos.Cart, repos.Address, repos.Payment, repos.Category,
		gateway, services.Cart,
	)
	services.Order = service.NewOrderService(
		repos.Order, repos.Payment, repos.Shipment,
		repos.User, repos.Address, repos.AuditLog,
	)
	services.Wholesale = service.NewWholesaleService(repos.Wholesale, repos.User, repos.AuditLog)

	// -------- Controller 层 --------
	controllers := initControllers(services)

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        repository.NewUserRepository(db),
		Address:     repository.NewAddressRepository(db),
		Category:    repository.NewCategoryRepository(db),
		Product:     repository.NewProductRepository(db),
		Cart:        repository.NewCartRepository(db),
		CartItem:    repository.NewCartItemRepository(db),
		Order:       repository.NewOrderRepository(db),
		Payment:     repository.NewPaymentRepository(db),
		Shipment:    repository.NewShipmentRepository(db),
		Wholesale:   repository.NewWholesaleRepository(db),
		AuditLog:    repository.NewAuditLogRepository(db),
		CheckoutUow: repository.NewCheckoutUnitOfWork(db),
	}
}

// initControllers 初始化所有控制器
func initControllers(svc *Services) *router.Controllers {
	return &router.Controllers{
		Auth:      controller.NewAuthController(svc.Auth),
		User:      controller.NewUserController(svc.User),
		Catalog:   controller.NewCatalogController(svc.Catalog),
		Cart:      controller.NewCartController(svc.Cart),
		Checkout:  controller.NewCheckoutController(svc.Checkout),
		Order:     controller.NewOrderController(svc.Order),
		Wholesale: controller.NewWholesaleController(svc.Wholesale),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) *task.CartCleanupTask {
	cleanupTask := task.NewCartCleanupTask(deps.Repos.Cart)
	cleanupTask.Start()

	log.Println("定时任务已启动")
	return cleanupTask
}

// ==================== 路由 ====================

// initRouter 初始化 gin 引擎并注册路由
func initRouter(ctl *router.Controllers) *gin.Engine {
	if getEnv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	router.InitRoutes(r, ctl)
	return r
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, cleanupTask *task.CartCleanupTask) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 先停定时任务再关 HTTP
	cleanupTask.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
