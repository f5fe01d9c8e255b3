package repository

import (
	"errors"

	"github.com/shopfront/internal/models"

	"gorm.io/gorm"
)

// ShippingAddressRepository 收货地址数据访问接口
type ShippingAddressRepository interface {
	Create(address *models.ShippingAddress) error
	Update(address *models.ShippingAddress) error
	GetByIDAndUser(id, userID uint) (*models.ShippingAddress, error)
	ListByUser(userID uint) ([]models.ShippingAddress, error)
	WithTx(tx *gorm.DB) *GormShippingAddressRepository
}

// GormShippingAddressRepository GORM 实现
type GormShippingAddressRepository struct {
	db *gorm.DB
}

// NewShippingAddressRepository 创建收货地址仓库
func NewShippingAddressRepository(db *gorm.DB) *GormShippingAddressRepository {
	return &GormShippingAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingAddressRepository) WithTx(tx *gorm.DB) *GormShippingAddressRepository {
	if tx == nil {
		return r
	}
	return &GormShippingAddressRepository{db: tx}
}

// Create 创建收货地址
func (r *GormShippingAddressRepository) Create(address *models.ShippingAddress) error {
	return r.db.Create(address).Error
}

// Update 更新收货地址
func (r *GormShippingAddressRepository) Update(address *models.ShippingAddress) error {
	return r.db.Save(address).Error
}

// GetByIDAndUser 获取属于该用户的收货地址，不存在或不属于该用户时返回 nil
func (r *GormShippingAddressRepository) GetByIDAndUser(id, userID uint) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// ListByUser 用户的收货地址列表
func (r *GormShippingAddressRepository) ListByUser(userID uint) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}
