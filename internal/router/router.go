package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/controller"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Auth      *controller.AuthController
	User      *controller.UserController
	Catalog   *controller.CatalogController
	Cart      *controller.CartController
	Checkout  *controller.CheckoutController
	Order     *controller.OrderController
	Wholesale *controller.WholesaleController
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctl *Controllers) {
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// POST /api/auth/register
			auth.POST("/register", ctl.Auth.Register)
			auth.POST("/login", ctl.Auth.Login)
		}

		// 目录（公开）
		api.GET("/categories", ctl.Catalog.GetCategories)
		products := api.Group("/products")
		{
			products.GET("", ctl.Catalog.GetProducts)
			products.GET("/:slug", ctl.Catalog.GetProductDetail)
		}

		// 购物车（游客凭 x-session-id，登录用户凭 JWT）
		cart := api.Group("/cart", middleware.OptionalAuth(), middleware.ShopperIdentity())
		{
			cart.GET("", ctl.Cart.GetCart)
			cart.POST("/items", ctl.Cart.AddItem)
			cart.PATCH("/items/:id", ctl.Cart.UpdateItem)
			cart.DELETE("/items/:id", ctl.Cart.RemoveItem)
		}

		// 结算（必须登录）
		checkout := api.Group("/checkout", middleware.JWTAuth())
		{
			checkout.POST("/create-order",
				middleware.WriteCooldown("checkout", 2*time.Second),
				ctl.Checkout.CreateOrder)
			checkout.POST("/verify", ctl.Checkout.VerifyPayment)
		}

		// 当前用户
		me := api.Group("", middleware.JWTAuth())
		{
			me.GET("/me", ctl.User.GetMe)
			me.GET("/addresses", ctl.User.ListAddresses)
			me.POST("/addresses", ctl.User.CreateAddress)
		}

		// 订单
		orders := api.Group("/orders", middleware.JWTAuth())
		{
			orders.GET("", ctl.Order.ListOrders)
			orders.GET("/:id", ctl.Order.GetOrder)
			// 状态流转仅管理员
			orders.PATCH("/:id", middleware.RequireRole(model.RoleAdmin), ctl.Order.UpdateOrder)
		}

		// 批发资质
		wholesale := api.Group("/wholesale", middleware.JWTAuth())
		{
			// 已是批发/管理员角色不再走申请入口
			wholesale.POST("/apply", middleware.RequireRole(model.RoleCustomer), ctl.Wholesale.Apply)
			wholesale.GET("/apply", ctl.Wholesale.GetMyApplication)
			wholesale.GET("/applications", middleware.RequireRole(model.RoleAdmin), ctl.Wholesale.ListApplications)
			wholesale.PATCH("/applications/:id", middleware.RequireRole(model.RoleAdmin), ctl.Wholesale.Review)
		}
	}
}
