package repository

import (
	"errors"

	"github.com/shopfront/internal/models"

	"gorm.io/gorm"
)

// PaymentInfoRepository 支付方式数据访问接口
type PaymentInfoRepository interface {
	Create(info *models.PaymentInfo) error
	Update(info *models.PaymentInfo) error
	GetByIDAndUser(id, userID uint) (*models.PaymentInfo, error)
	ListByUser(userID uint) ([]models.PaymentInfo, error)
	WithTx(tx *gorm.DB) *GormPaymentInfoRepository
}

// GormPaymentInfoRepository GORM 实现
type GormPaymentInfoRepository struct {
	db *gorm.DB
}

// NewPaymentInfoRepository 创建支付方式仓库
func NewPaymentInfoRepository(db *gorm.DB) *GormPaymentInfoRepository {
	return &GormPaymentInfoRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentInfoRepository) WithTx(tx *gorm.DB) *GormPaymentInfoRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentInfoRepository{db: tx}
}

// Create 创建支付方式
func (r *GormPaymentInfoRepository) Create(info *models.PaymentInfo) error {
	return r.db.Create(info).Error
}

// Update 更新支付方式
func (r *GormPaymentInfoRepository) Update(info *models.PaymentInfo) error {
	return r.db.Save(info).Error
}

// GetByIDAndUser 获取属于该用户的支付方式，不存在或不属于该用户时返回 nil
func (r *GormPaymentInfoRepository) GetByIDAndUser(id, userID uint) (*models.PaymentInfo, error) {
	var info models.PaymentInfo
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// ListByUser 用户的支付方式列表
func (r *GormPaymentInfoRepository) ListByUser(userID uint) ([]models.PaymentInfo, error) {
	var infos []models.PaymentInfo
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}
