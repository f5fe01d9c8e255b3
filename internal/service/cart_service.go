package service

import (
	"time"

	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
)

const activeCartCreateAttempts = 3

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartLine 购物车行
type CartLine struct {
	ItemID    uint         `json:"item_id"`
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	ImageURL  string       `json:"image_url"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"line_total"`
	Stock     int          `json:"stock"`
}

// CartView 购物车视图
type CartView struct {
	CartID       uint         `json:"cart_id"`
	Items        []CartLine   `json:"items"`
	Total        models.Money `json:"total"`
	RemovedItems int64        `json:"removed_items"`
}

// GetOrCreateActive 获取或创建用户的激活购物车
// 并发创建由 active_owner 唯一索引兜底，冲突后重新读取
func (s *CartService) GetOrCreateActive(userID uint, sessionToken string) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	var lastErr error
	for attempt := 0; attempt < activeCartCreateAttempts; attempt++ {
		cart, err := s.cartRepo.GetActiveByUser(userID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}

		uid := userID
		cart = &models.Cart{
			UserID:       &uid,
			SessionToken: sessionToken,
		}
		err = s.cartRepo.CreateActive(cart)
		if err == nil {
			return cart, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
		logger.Debugw("cart_active_create_conflict", "user_id", userID, "attempt", attempt+1)
	}
	return nil, lastErr
}

// AddItem 向购物车加入商品，已存在时原子累加数量
// 加购时不校验库存，库存在查看购物车与结算时校验
func (s *CartService) AddItem(cartID, productID uint, qty int) (*models.CartItem, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.cartRepo.GetItem(cartID, productID)
	if err != nil {
		return nil, err
	}
	if qty == 0 {
		return existing, nil
	}
	if existing != nil {
		if err := s.cartRepo.IncrementItem(existing.ID, qty); err != nil {
			return nil, err
		}
		return s.cartRepo.GetItem(cartID, productID)
	}

	item := &models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now(),
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// 并发加购同一商品：改为累加
		existing, err = s.cartRepo.GetItem(cartID, productID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		if err := s.cartRepo.IncrementItem(existing.ID, qty); err != nil {
			return nil, err
		}
		return s.cartRepo.GetItem(cartID, productID)
	}
	return item, nil
}

// RemoveItem 从购物车移除商品数量；移除量不小于现有数量时删除整行
func (s *CartService) RemoveItem(cartID, productID uint, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		return nil
	}
	existing, err := s.cartRepo.GetItem(cartID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if existing.Quantity > qty {
		affected, err := s.cartRepo.DecrementItem(existing.ID, qty)
		if err != nil {
			return err
		}
		if affected > 0 {
			return nil
		}
		// 并发移除已使剩余数量 <= qty，按整行删除处理
	}
	return s.cartRepo.DeleteItem(existing.ID)
}

// AddForUser 将商品加入用户的激活购物车（不存在时创建）并返回最新视图
func (s *CartService) AddForUser(userID uint, sessionToken string, productID uint, qty int) (*CartView, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.GetOrCreateActive(userID, sessionToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.AddItem(cart.ID, productID, qty); err != nil {
		return nil, err
	}
	return buildCartView(s.cartRepo, cart, sessionToken)
}

// RemoveForUser 从用户的激活购物车移除商品；没有购物车时视为空操作
func (s *CartService) RemoveForUser(userID uint, sessionToken string, productID uint, qty int) (*CartView, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartView{Items: []CartLine{}, Total: models.Money{}}, nil
	}
	if err := s.RemoveItem(cart.ID, productID, qty); err != nil {
		return nil, err
	}
	return buildCartView(s.cartRepo, cart, sessionToken)
}

// ListForUser 返回用户激活购物车视图，先清理已售罄商品
// 用户没有激活购物车时返回空视图且不创建购物车
func (s *CartService) ListForUser(userID uint, sessionToken string) (*CartView, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartView{Items: []CartLine{}, Total: models.Money{}}, nil
	}
	return buildCartView(s.cartRepo, cart, sessionToken)
}

// buildCartView 执行库存修复（移除售罄与下架商品）并计算行小计与总额
func buildCartView(repo repository.CartRepository, cart *models.Cart, sessionToken string) (*CartView, error) {
	removed, err := repo.DeleteUnavailableItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		logger.Infow("cart_stock_repair", "cart_id", cart.ID, "removed", removed, "session_token", sessionToken)
	}
	items, err := repo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		CartID:       cart.ID,
		Items:        make([]CartLine, 0, len(items)),
		RemovedItems: removed,
	}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lineTotal := item.Product.Price.MulInt(item.Quantity)
		view.Items = append(view.Items, CartLine{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			Stock:     item.Product.Stock,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	return view, nil
}
