package provider

import (
	"context"
	"strings"
	"time"

	"github.com/shopfront/internal/authz"
	"github.com/shopfront/internal/cache"
	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/events"
	"github.com/shopfront/internal/fieldcrypt"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/queue"
	"github.com/shopfront/internal/repository"
	"github.com/shopfront/internal/search"
	"github.com/shopfront/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	EventPublisher events.Publisher
	SearchClient   *search.Client
	PaymentCipher  *fieldcrypt.Cipher

	// Repositories
	UserRepo            repository.UserRepository
	SessionRepo         repository.SessionRepository
	ProductRepo         repository.ProductRepository
	CartRepo            repository.CartRepository
	OrderRepo           repository.OrderRepository
	PaymentInfoRepo     repository.PaymentInfoRepository
	ShippingAddressRepo repository.ShippingAddressRepository

	// Services
	AuthzService    *authz.Service
	SessionService  *service.SessionService
	UserAuthService *service.UserAuthService
	ProfileService  *service.ProfileService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	ProductService  *service.ProductService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	AdminService    *service.AdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	} else if cache.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(ctx); err != nil {
			// 缓存与限流在 Redis 不可用时自动降级
			logger.Warnw("provider_redis_ping_failed", "error", err)
		}
		cancel()
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		logger.Errorw("provider_init_event_publisher_failed", "error", err)
		publisher = events.NopPublisher{}
	}

	// 搜索不可用时回退数据库查询
	searchClient, err := search.NewClient(cfg.Search)
	if err != nil {
		logger.Warnw("provider_init_search_failed", "error", err)
		searchClient = nil
	}

	cipher, err := NewPaymentCipher(cfg)
	if err != nil {
		logger.Errorw("provider_init_payment_cipher_failed", "error", err)
		panic(err)
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		EventPublisher: publisher,
		SearchClient:   searchClient,
		PaymentCipher:  cipher,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// NewPaymentCipher 创建支付字段加密器：优先使用配置密钥，未配置时从 JWT 密钥派生
func NewPaymentCipher(cfg *config.Config) (*fieldcrypt.Cipher, error) {
	if key := strings.TrimSpace(cfg.Security.PaymentEncryptionKey); key != "" {
		return fieldcrypt.NewFromString(key)
	}
	logger.Warnw("payment_encryption_key_derived", "mode", cfg.Server.Mode)
	key, err := fieldcrypt.DeriveKey(cfg.UserJWT.SecretKey)
	if err != nil {
		return nil, err
	}
	return fieldcrypt.New(key)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentInfoRepo = repository.NewPaymentInfoRepository(db)
	c.ShippingAddressRepo = repository.NewShippingAddressRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SessionService = service.NewSessionService(c.SessionRepo, c.Config.Session.RotateAfterHours)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.ProfileService = service.NewProfileService(c.PaymentInfoRepo, c.ShippingAddressRepo, c.PaymentCipher)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.ProfileService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.SearchClient, c.QueueClient, c.Config.Catalog.CacheTTLSeconds)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.CartRepo,
		c.ProductRepo,
		c.OrderRepo,
		c.PaymentInfoRepo,
		c.ShippingAddressRepo,
		c.QueueClient,
		c.EventPublisher,
	)
	c.AdminService = service.NewAdminService(c.AuthzService, c.ProductService, c.UserRepo)
}
