package service

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/fieldcrypt"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// serviceTestEnv 单个测试使用的数据库与服务集合
type serviceTestEnv struct {
	db       *gorm.DB
	cipher   *fieldcrypt.Cipher
	users    *repository.GormUserRepository
	products *repository.GormProductRepository
	carts    *repository.GormCartRepository
	orders   *repository.GormOrderRepository
	payments *repository.GormPaymentInfoRepository
	address  *repository.GormShippingAddressRepository
	sessions *repository.GormSessionRepository
	profile  *ProfileService
	cart     *CartService
	checkout *CheckoutService
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 单连接使事务串行执行
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cipher, err := fieldcrypt.New(bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatalf("create cipher failed: %v", err)
	}

	env := &serviceTestEnv{
		db:       db,
		cipher:   cipher,
		users:    repository.NewUserRepository(db),
		products: repository.NewProductRepository(db),
		carts:    repository.NewCartRepository(db),
		orders:   repository.NewOrderRepository(db),
		payments: repository.NewPaymentInfoRepository(db),
		address:  repository.NewShippingAddressRepository(db),
		sessions: repository.NewSessionRepository(db),
	}
	env.profile = NewProfileService(env.payments, env.address, cipher)
	env.cart = NewCartService(env.carts, env.products)
	env.checkout = NewCheckoutService(env.carts, env.products, env.orders, env.payments, env.address, nil, nil)
	return env
}

func testConfig() *config.Config {
	return &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret-key-for-user-jwt", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
	}
}

func (e *serviceTestEnv) createProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Stock:    stock,
		IsActive: true,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *serviceTestEnv) createUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func validPaymentInput() PaymentInfoInput {
	return PaymentInfoInput{
		PaymentMethod: constants.PaymentMethodCredit,
		CardType:      constants.CardTypeVisa,
		CardNumber:    "4111 1111 1111 1111",
		CVV:           "123",
		Nickname:      "main card",
	}
}

func validShippingInput() ShippingAddressInput {
	return ShippingAddressInput{
		Street:     "1 Market St",
		City:       "Springfield",
		State:      "IL",
		Country:    "US",
		PostalCode: "62701",
		Nickname:   "home",
	}
}

// createCheckoutProfile 为用户创建一张卡与一个收货地址
func (e *serviceTestEnv) createCheckoutProfile(t *testing.T, userID uint) (uint, uint) {
	t.Helper()
	payment, err := e.profile.AddPaymentInfo(userID, validPaymentInput())
	if err != nil {
		t.Fatalf("add payment failed: %v", err)
	}
	address, err := e.profile.AddShippingAddress(userID, validShippingInput())
	if err != nil {
		t.Fatalf("add address failed: %v", err)
	}
	return payment.ID, address.ID
}

func (e *serviceTestEnv) addToCart(t *testing.T, userID, productID uint, qty int) *models.Cart {
	t.Helper()
	cart, err := e.cart.GetOrCreateActive(userID, "sess-test")
	if err != nil {
		t.Fatalf("get or create cart failed: %v", err)
	}
	if _, err := e.cart.AddItem(cart.ID, productID, qty); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	return cart
}
