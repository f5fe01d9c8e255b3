package repository

import (
	"testing"
)

func TestDecrementStockIsConditional(t *testing.T) {
	db := openRepositoryTestDB(t, "product_decrement")
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Desk Lamp", 30, 3)

	affected, err := repo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}

	affected, err = repo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("insufficient stock should affect 0 rows, got %d", affected)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("stock want 1 got %d", got.Stock)
	}

	if _, err := repo.DecrementStock(product.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
}

func TestListActiveWithSearch(t *testing.T) {
	db := openRepositoryTestDB(t, "product_list")
	repo := NewProductRepository(db)
	createTestProduct(t, db, "Oak Desk", 200, 5)
	createTestProduct(t, db, "Desk Lamp", 30, 5)
	hidden := createTestProduct(t, db, "Desk Mat", 10, 5)
	if _, err := repo.SetActive(hidden.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	createTestProduct(t, db, "Chair", 80, 5)

	items, total, err := repo.List(ProductListFilter{OnlyActive: true, Search: "desk", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("want 2 active desk products, got total=%d len=%d", total, len(items))
	}
	for _, item := range items {
		if !item.IsActive {
			t.Fatalf("inactive product leaked: %s", item.Name)
		}
	}

	all, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 4 || len(all) != 2 {
		t.Fatalf("pagination mismatch total=%d len=%d", total, len(all))
	}

	none, total, err := repo.List(ProductListFilter{IDs: []uint{}})
	if err != nil || total != 0 || len(none) != 0 {
		t.Fatalf("empty id filter should return nothing, total=%d err=%v", total, err)
	}
}
