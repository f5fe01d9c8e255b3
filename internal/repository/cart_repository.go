package repository

import (
	"errors"
	"time"

	"github.com/shopfront/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetActiveByUser(userID uint) (*models.Cart, error)
	CreateActive(cart *models.Cart) error
	Deactivate(cartID uint) error
	GetItem(cartID, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	IncrementItem(itemID uint, quantity int) error
	DecrementItem(itemID uint, quantity int) (int64, error)
	DeleteItem(itemID uint) error
	ListItems(cartID uint) ([]models.CartItem, error)
	DeleteUnavailableItems(cartID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetActiveByUser 获取用户的激活购物车
func (r *GormCartRepository) GetActiveByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// CreateActive 创建激活购物车；同一用户已有激活购物车时返回唯一约束错误
func (r *GormCartRepository) CreateActive(cart *models.Cart) error {
	cart.IsActive = true
	cart.ActiveOwner = cart.UserID
	return r.db.Create(cart).Error
}

// Deactivate 将购物车置为失活
func (r *GormCartRepository) Deactivate(cartID uint) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"is_active":    false,
		"active_owner": nil,
	}).Error
}

// GetItem 获取购物车中某商品的行
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// IncrementItem 原子累加数量
func (r *GormCartRepository) IncrementItem(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", quantity),
		"updated_at": time.Now(),
	}).Error
}

// DecrementItem 原子扣减数量，仅在扣减后仍 >= 1 时生效，返回影响行数
func (r *GormCartRepository) DecrementItem(itemID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).Where("id = ? AND quantity > ?", itemID, quantity).Updates(map[string]interface{}{
		"quantity":   gorm.Expr("quantity - ?", quantity),
		"updated_at": time.Now(),
	})
	return result.RowsAffected, result.Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// ListItems 获取购物车项（含商品）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("cart_id = ?", cartID).Order("added_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteUnavailableItems 删除已售罄或已下架商品对应的购物车项，返回删除行数
func (r *GormCartRepository) DeleteUnavailableItems(cartID uint) (int64, error) {
	unavailable := r.db.Model(&models.Product{}).Select("id").Where("stock <= ? OR is_active = ?", 0, false)
	result := r.db.Where("cart_id = ? AND product_id IN (?)", cartID, unavailable).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
