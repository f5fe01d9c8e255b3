package service

import (
	"context"
	"time"

	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultSessionRotateAfter = 24 * time.Hour
	maxSessionTokenLen        = 64
)

// SessionService 浏览会话服务
type SessionService struct {
	repo        repository.SessionRepository
	rotateAfter time.Duration
	now         func() time.Time
}

// NewSessionService 创建会话服务，rotateAfterHours <= 0 时取 24 小时
func NewSessionService(repo repository.SessionRepository, rotateAfterHours int) *SessionService {
	rotateAfter := defaultSessionRotateAfter
	if rotateAfterHours > 0 {
		rotateAfter = time.Duration(rotateAfterHours) * time.Hour
	}
	return &SessionService{
		repo:        repo,
		rotateAfter: rotateAfter,
		now:         time.Now,
	}
}

// SetClock 替换时钟（测试使用）
func (s *SessionService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Ensure 确保请求携带有效会话，返回当前会话以及是否为新会话
//
// 会话自创建起满 rotateAfter 即视为过期并换发新 token，旧记录保持不变。
func (s *SessionService) Ensure(ctx context.Context, token string, userID *uint) (*models.Session, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	now := s.now()
	if !validSessionToken(token) {
		session, err := s.create(newSessionToken(), userID, now)
		return session, true, err
	}

	existing, err := s.repo.GetByToken(token)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		session, err := s.create(token, userID, now)
		return session, true, err
	}

	if now.Sub(existing.CreatedAt) >= s.rotateAfter {
		session, err := s.create(newSessionToken(), userID, now)
		return session, true, err
	}

	if err := s.repo.Touch(existing.Token, userID, now); err != nil {
		return nil, false, err
	}
	existing.LastActivityAt = now
	if userID != nil {
		uid := *userID
		existing.UserID = &uid
	}
	return existing, false, nil
}

func (s *SessionService) create(token string, userID *uint, now time.Time) (*models.Session, error) {
	session := &models.Session{
		Token:          token,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if userID != nil {
		uid := *userID
		session.UserID = &uid
	}
	if err := s.repo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// validSessionToken 拒绝空值及超出列宽的 token
func validSessionToken(token string) bool {
	return token != "" && len(token) <= maxSessionTokenLen
}

func newSessionToken() string {
	return uuid.NewString()
}
