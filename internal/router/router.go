package router

import (
	"github.com/shopfront/internal/cache"
	"github.com/shopfront/internal/config"
	adminhandlers "github.com/shopfront/internal/http/handlers/admin"
	publichandlers "github.com/shopfront/internal/http/handlers/public"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/i18n"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        cache.BuildKey("rate:login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SessionMiddleware(c.SessionService, c.UserAuthService, cfg.Session))

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProductByID)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 账号接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("username")), publicHandler.UserLogin)
		}

		// 用户接口（需要登录）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(c.UserAuthService))
		{
			user.GET("/me", publicHandler.GetCurrentUser)

			user.GET("/me/addresses", publicHandler.ListShippingAddresses)
			user.POST("/me/addresses", publicHandler.CreateShippingAddress)
			user.GET("/me/addresses/:id", publicHandler.GetShippingAddress)
			user.PUT("/me/addresses/:id", publicHandler.UpdateShippingAddress)

			user.GET("/me/payments", publicHandler.ListPaymentInfos)
			user.POST("/me/payments", publicHandler.CreatePaymentInfo)
			user.GET("/me/payments/:id", publicHandler.GetPaymentInfo)
			user.PUT("/me/payments/:id", publicHandler.UpdatePaymentInfo)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.POST("/cart/items/remove", publicHandler.RemoveCartItem)

			user.POST("/checkout", publicHandler.Checkout)
			user.GET("/orders", publicHandler.GetOrders)
			user.GET("/orders/:id", publicHandler.GetOrderByID)
		}

		// 管理接口（登录 + Admin Gate）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(c.UserAuthService), AdminGateMiddleware(c.AuthzService))
		{
			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.POST("/products", adminHandler.CreateAdminProduct)
			admin.POST("/products/:id/activate", adminHandler.ActivateAdminProduct)
			admin.POST("/products/:id/deactivate", adminHandler.DeactivateAdminProduct)

			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.POST("/users/:id/promote", adminHandler.PromoteAdminUser)
			admin.POST("/users/:id/demote", adminHandler.DemoteAdminUser)
		}
	}

	return r
}
