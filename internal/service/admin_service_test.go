package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopfront/internal/authz"
	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminService(t *testing.T, env *serviceTestEnv) *AdminService {
	t.Helper()
	// 策略表使用独立连接，避免与单连接业务库互相等待
	dsn := fmt.Sprintf("file:authz_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	policyDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open policy db failed: %v", err)
	}
	gate, err := authz.NewService(policyDB)
	if err != nil {
		t.Fatalf("create authz failed: %v", err)
	}
	if err := gate.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	products := NewProductService(env.products, nil, nil, 0)
	return NewAdminService(gate, products, env.users)
}

func TestAdminSetProductActive(t *testing.T) {
	env := setupServiceTest(t)
	admin := setupAdminService(t, env)
	boss := env.createUser(t, "boss", constants.RoleAdmin)
	product := env.createProduct(t, "Chair", "45.00", 4)

	updated, err := admin.SetProductActive(context.Background(), boss, product.ID, false)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("product should be inactive")
	}
	updated, err = admin.SetProductActive(context.Background(), boss, product.ID, true)
	if err != nil || !updated.IsActive {
		t.Fatalf("reactivate failed, product=%+v err=%v", updated, err)
	}
	if _, err := admin.SetProductActive(context.Background(), boss, 9999, false); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAdminGateForbidsClient(t *testing.T) {
	env := setupServiceTest(t)
	admin := setupAdminService(t, env)
	client := env.createUser(t, "client1", constants.RoleClient)
	target := env.createUser(t, "client2", constants.RoleClient)
	product := env.createProduct(t, "Table", "80.00", 2)
	ctx := context.Background()

	if _, err := admin.SetProductActive(ctx, client, product.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for toggle, got %v", err)
	}
	if _, err := admin.SetUserRole(ctx, client, target.ID, constants.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for role change, got %v", err)
	}
	if _, err := admin.CreateProduct(ctx, client, ProductInput{Name: "Nope", Price: models.Money{}}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for create, got %v", err)
	}
	if _, _, err := admin.ListUsers(client, repository.UserListFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for list users, got %v", err)
	}
	if _, err := admin.SetProductActive(ctx, nil, product.ID, false); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous, got %v", err)
	}

	reloaded, _ := env.products.GetByID(product.ID)
	if !reloaded.IsActive {
		t.Fatalf("forbidden toggle must not change state")
	}
	reloadedUser, _ := env.users.GetByID(target.ID)
	if reloadedUser.Role != constants.RoleClient {
		t.Fatalf("forbidden role change must not change state")
	}
	var count int64
	env.db.Model(&models.Product{}).Where("name = ?", "Nope").Count(&count)
	if count != 0 {
		t.Fatalf("forbidden create must not insert product")
	}
}

func TestAdminSetUserRole(t *testing.T) {
	env := setupServiceTest(t)
	admin := setupAdminService(t, env)
	boss := env.createUser(t, "boss", constants.RoleAdmin)
	member := env.createUser(t, "member", constants.RoleClient)
	ctx := context.Background()

	promoted, err := admin.SetUserRole(ctx, boss, member.ID, "Admin")
	if err != nil || promoted.Role != constants.RoleAdmin {
		t.Fatalf("promote failed, user=%+v err=%v", promoted, err)
	}
	demoted, err := admin.SetUserRole(ctx, boss, member.ID, constants.RoleClient)
	if err != nil || demoted.Role != constants.RoleClient {
		t.Fatalf("demote failed, user=%+v err=%v", demoted, err)
	}
	if _, err := admin.SetUserRole(ctx, boss, member.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := admin.SetUserRole(ctx, boss, 9999, constants.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminListUsersExcludesSelf(t *testing.T) {
	env := setupServiceTest(t)
	admin := setupAdminService(t, env)
	boss := env.createUser(t, "boss", constants.RoleAdmin)
	env.createUser(t, "u1", constants.RoleClient)
	env.createUser(t, "u2", constants.RoleClient)

	users, total, err := admin.ListUsers(boss, repository.UserListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected 2 users, got total=%d len=%d", total, len(users))
	}
	for _, u := range users {
		if u.ID == boss.ID {
			t.Fatalf("acting admin should be excluded")
		}
	}
}

func TestAdminCreateProduct(t *testing.T) {
	env := setupServiceTest(t)
	admin := setupAdminService(t, env)
	boss := env.createUser(t, "boss", constants.RoleAdmin)
	price, _ := models.NewMoneyFromString("9.90")

	product, err := admin.CreateProduct(context.Background(), boss, ProductInput{Name: " Poster ", Price: price, Stock: 7})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.Name != "Poster" || !product.IsActive || product.Price.String() != "9.90" {
		t.Fatalf("unexpected product: %+v", product)
	}
	negative, _ := models.NewMoneyFromString("-1")
	if _, err := admin.CreateProduct(context.Background(), boss, ProductInput{Name: "Bad", Price: negative}); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}
