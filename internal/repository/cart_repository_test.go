package repository

import (
	"testing"
	"time"

	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/models"
)

func TestCreateActiveEnforcesSingleActiveCart(t *testing.T) {
	db := openRepositoryTestDB(t, "cart_active")
	repo := NewCartRepository(db)
	user := createTestUser(t, db, "alice", constants.RoleClient)

	first := &models.Cart{UserID: &user.ID, SessionToken: "s1"}
	if err := repo.CreateActive(first); err != nil {
		t.Fatalf("create first cart failed: %v", err)
	}
	second := &models.Cart{UserID: &user.ID, SessionToken: "s2"}
	err := repo.CreateActive(second)
	if err == nil {
		t.Fatalf("second active cart should violate unique index")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	if err := repo.Deactivate(first.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	third := &models.Cart{UserID: &user.ID, SessionToken: "s3"}
	if err := repo.CreateActive(third); err != nil {
		t.Fatalf("new active cart after deactivation failed: %v", err)
	}

	active, err := repo.GetActiveByUser(user.ID)
	if err != nil || active == nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active.ID != third.ID {
		t.Fatalf("active cart want %d got %d", third.ID, active.ID)
	}
}

func TestCartItemMutationsAndStockRepair(t *testing.T) {
	db := openRepositoryTestDB(t, "cart_items")
	repo := NewCartRepository(db)
	user := createTestUser(t, db, "bob", constants.RoleClient)
	cart := &models.Cart{UserID: &user.ID, SessionToken: "s1"}
	if err := repo.CreateActive(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	inStock := createTestProduct(t, db, "Mug", 12, 4)
	soldOut := createTestProduct(t, db, "Poster", 8, 0)
	delisted := createTestProduct(t, db, "Sticker", 2, 50)
	if err := db.Model(&models.Product{}).Where("id = ?", delisted.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	for _, p := range []*models.Product{inStock, soldOut, delisted} {
		if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 2, AddedAt: time.Now()}); err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}

	item, err := repo.GetItem(cart.ID, inStock.ID)
	if err != nil || item == nil {
		t.Fatalf("get item failed: %v", err)
	}
	if err := repo.IncrementItem(item.ID, 3); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	affected, err := repo.DecrementItem(item.ID, 1)
	if err != nil || affected != 1 {
		t.Fatalf("decrement failed: affected=%d err=%v", affected, err)
	}
	// 扣减量不小于剩余数量时不生效
	affected, err = repo.DecrementItem(item.ID, 4)
	if err != nil || affected != 0 {
		t.Fatalf("over-decrement should match no rows: affected=%d err=%v", affected, err)
	}

	removed, err := repo.DeleteUnavailableItems(cart.ID)
	if err != nil {
		t.Fatalf("stock repair failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("stock repair should remove sold-out and delisted rows, got %d", removed)
	}

	items, err := repo.ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != inStock.ID || items[0].Quantity != 4 {
		t.Fatalf("unexpected items after repair: %+v", items)
	}
	if items[0].Product == nil || items[0].Product.Name != "Mug" {
		t.Fatalf("product should be preloaded")
	}

	if err := repo.DeleteItem(items[0].ID); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}
	if got, _ := repo.GetItem(cart.ID, inStock.ID); got != nil {
		t.Fatalf("item should be deleted")
	}
}
