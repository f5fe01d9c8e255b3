package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type storefrontClient struct {
	t      *testing.T
	engine *gin.Engine
}

func setupStorefront(t *testing.T) *storefrontClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	t.Cleanup(func() { _ = sqlDB.Close() })

	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.InitDefaultAdmin("root", "root@example.com", "RootPass123"); err != nil {
		t.Fatalf("init admin failed: %v", err)
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		UserJWT: config.JWTConfig{SecretKey: "router-test-secret-key", ExpireHours: 1},
		Session: config.SessionConfig{CookieName: "sid", RotateAfterHours: 24, CookieMaxAgeDays: 7},
	}
	container := provider.NewContainer(cfg)
	t.Cleanup(container.Close)
	return &storefrontClient{t: t, engine: SetupRouter(cfg, container)}
}

func (s *storefrontClient) do(method, path, token string, body interface{}) (apiEnvelope, *httptest.ResponseRecorder) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		s.t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s decode failed: %v body=%s", method, path, err, w.Body.String())
	}
	return env, w
}

func (s *storefrontClient) mustOK(method, path, token string, body interface{}, out interface{}) {
	s.t.Helper()
	env, _ := s.do(method, path, token, body)
	if env.StatusCode != 0 {
		s.t.Fatalf("%s %s failed: code=%d msg=%s", method, path, env.StatusCode, env.Msg)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s decode data failed: %v", method, path, err)
		}
	}
}

func (s *storefrontClient) login(username, password string) string {
	s.t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	s.mustOK(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password}, &resp)
	if resp.Token == "" {
		s.t.Fatalf("login returned empty token")
	}
	return resp.Token
}

func registerBody(username string) gin.H {
	return gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "Secret123",
		"payment": gin.H{
			"payment_method": "credit",
			"card_type":      "visa",
			"card_number":    "4111 1111 1111 1111",
			"cvv":            "123",
		},
		"shipping": gin.H{
			"street":      "1 Market St",
			"city":        "Springfield",
			"state":       "IL",
			"country":     "US",
			"postal_code": "62701",
		},
	}
}

func TestStorefrontCheckoutFlow(t *testing.T) {
	s := setupStorefront(t)

	_, w := s.do(http.MethodGet, "/api/v1/public/products", "", nil)
	if !strings.Contains(w.Header().Get("Set-Cookie"), "sid=") {
		t.Fatalf("first request should receive a session cookie")
	}

	adminToken := s.login("root", "RootPass123")
	var product struct {
		ID uint `json:"id"`
	}
	s.mustOK(http.MethodPost, "/api/v1/admin/products", adminToken, gin.H{"name": "Desk Lamp", "price": "19.99", "stock": 3}, &product)
	if product.ID == 0 {
		t.Fatalf("created product should have an id")
	}

	var registered struct {
		Token string `json:"token"`
	}
	s.mustOK(http.MethodPost, "/api/v1/auth/register", "", registerBody("shopper"), &registered)
	token := registered.Token

	env, _ := s.do(http.MethodPost, "/api/v1/admin/products", token, gin.H{"name": "Nope", "price": "1.00", "stock": 1})
	if env.StatusCode != 403 {
		t.Fatalf("client should be forbidden from admin routes, got %d", env.StatusCode)
	}

	var payments []struct {
		ID           uint   `json:"id"`
		MaskedNumber string `json:"masked_number"`
	}
	s.mustOK(http.MethodGet, "/api/v1/me/payments", token, nil, &payments)
	if len(payments) != 1 || payments[0].MaskedNumber != "**** **** **** 1111" {
		t.Fatalf("unexpected payments: %+v", payments)
	}
	var addresses []struct {
		ID uint `json:"id"`
	}
	s.mustOK(http.MethodGet, "/api/v1/me/addresses", token, nil, &addresses)
	if len(addresses) != 1 {
		t.Fatalf("unexpected addresses: %+v", addresses)
	}

	var cart struct {
		Total string `json:"total"`
	}
	s.mustOK(http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": product.ID, "quantity": 2}, &cart)
	if cart.Total != "39.98" {
		t.Fatalf("cart total want 39.98 got %s", cart.Total)
	}

	checkoutBody := gin.H{"payment_info_id": payments[0].ID, "shipping_address_id": addresses[0].ID}
	var order struct {
		ID         uint   `json:"id"`
		TotalPrice string `json:"total_price"`
	}
	s.mustOK(http.MethodPost, "/api/v1/checkout", token, checkoutBody, &order)
	if order.TotalPrice != "39.98" {
		t.Fatalf("order total want 39.98 got %s", order.TotalPrice)
	}
	s.mustOK(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), token, nil, nil)

	env, _ = s.do(http.MethodPost, "/api/v1/checkout", token, checkoutBody)
	if env.StatusCode != 400 {
		t.Fatalf("checkout of empty cart should fail with 400, got %d", env.StatusCode)
	}

	s.mustOK(http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": product.ID, "quantity": 2}, nil)
	env, _ = s.do(http.MethodPost, "/api/v1/checkout", token, checkoutBody)
	if env.StatusCode != 409 {
		t.Fatalf("insufficient stock should return 409, got %d", env.StatusCode)
	}
	if env.Msg != "Not enough stock for Desk Lamp. Only 1 left." {
		t.Fatalf("unexpected stock message: %s", env.Msg)
	}
}

func TestCartItemQuantityDefaultsToOne(t *testing.T) {
	s := setupStorefront(t)

	adminToken := s.login("root", "RootPass123")
	var product struct {
		ID uint `json:"id"`
	}
	s.mustOK(http.MethodPost, "/api/v1/admin/products", adminToken, gin.H{"name": "Pencil", "price": "0.50", "stock": 10}, &product)
	var registered struct {
		Token string `json:"token"`
	}
	s.mustOK(http.MethodPost, "/api/v1/auth/register", "", registerBody("sketcher"), &registered)
	token := registered.Token

	type cartLine struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	var cart struct {
		Items []cartLine `json:"items"`
		Total string     `json:"total"`
	}
	s.mustOK(http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": product.ID}, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 || cart.Total != "0.50" {
		t.Fatalf("omitted quantity should add one unit, got items=%+v total=%s", cart.Items, cart.Total)
	}

	s.mustOK(http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": product.ID, "quantity": 0}, nil)
	s.mustOK(http.MethodGet, "/api/v1/cart", token, nil, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("explicit zero quantity should be a no-op, got %+v", cart.Items)
	}

	s.mustOK(http.MethodPost, "/api/v1/cart/items/remove", token, gin.H{"product_id": product.ID}, &cart)
	if len(cart.Items) != 0 || cart.Total != "0.00" {
		t.Fatalf("omitted quantity should remove one unit, got items=%+v total=%s", cart.Items, cart.Total)
	}
}

func TestStorefrontRequiresLogin(t *testing.T) {
	s := setupStorefront(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/me", "/api/v1/admin/users"} {
		env, _ := s.do(http.MethodGet, path, "", nil)
		if env.StatusCode != 401 {
			t.Fatalf("%s should require login, got %d", path, env.StatusCode)
		}
	}

	env, _ := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "root", "password": "wrong"})
	if env.StatusCode != 401 {
		t.Fatalf("bad credentials should return 401, got %d", env.StatusCode)
	}
}

func TestStorefrontAdminRoleManagement(t *testing.T) {
	s := setupStorefront(t)

	adminToken := s.login("root", "RootPass123")
	var registered struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	s.mustOK(http.MethodPost, "/api/v1/auth/register", "", registerBody("helper"), &registered)

	var users []struct {
		Username string `json:"username"`
	}
	s.mustOK(http.MethodGet, "/api/v1/admin/users", adminToken, nil, &users)
	for _, user := range users {
		if user.Username == "root" {
			t.Fatalf("user listing should exclude the caller")
		}
	}

	var promoted struct {
		Role string `json:"role"`
	}
	s.mustOK(http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/promote", registered.User.ID), adminToken, nil, &promoted)
	if promoted.Role != "admin" {
		t.Fatalf("promote should set role admin, got %s", promoted.Role)
	}
	s.mustOK(http.MethodGet, "/api/v1/admin/products", registered.Token, nil, nil)

	env, _ := s.do(http.MethodPost, "/api/v1/admin/users/99999/promote", adminToken, nil)
	if env.StatusCode != 404 {
		t.Fatalf("unknown user should return 404, got %d", env.StatusCode)
	}
}
