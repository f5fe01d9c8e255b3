package repository

import (
	"errors"
	"time"

	"github.com/shopfront/internal/models"

	"gorm.io/gorm"
)

// SessionRepository 浏览会话数据访问接口
type SessionRepository interface {
	GetByToken(token string) (*models.Session, error)
	Create(session *models.Session) error
	Touch(token string, userID *uint, at time.Time) error
}

// GormSessionRepository GORM 实现
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// GetByToken 根据 token 获取会话
func (r *GormSessionRepository) GetByToken(token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Create 创建会话
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// Touch 刷新最近活跃时间，userID 非空时绑定用户
func (r *GormSessionRepository) Touch(token string, userID *uint, at time.Time) error {
	updates := map[string]interface{}{"last_activity_at": at}
	if userID != nil {
		updates["user_id"] = *userID
	}
	return r.db.Model(&models.Session{}).Where("token = ?", token).Updates(updates).Error
}
