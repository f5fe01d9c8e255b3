package service

import (
	"context"
	"strings"

	"github.com/shopfront/internal/authz"
	"github.com/shopfront/internal/cache"
	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
)

// AdminService 受控的后台管理操作；每个操作先经授权网关判定
type AdminService struct {
	gate           *authz.Service
	productService *ProductService
	userRepo       repository.UserRepository
}

// NewAdminService 创建后台管理服务
func NewAdminService(gate *authz.Service, productService *ProductService, userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		gate:           gate,
		productService: productService,
		userRepo:       userRepo,
	}
}

// SetProductActive 上架或下架商品
func (s *AdminService) SetProductActive(ctx context.Context, actor *models.User, productID uint, active bool) (*models.Product, error) {
	if err := s.authorize(actor, authz.ObjectProduct, authz.ActionToggle); err != nil {
		return nil, err
	}
	product, err := s.productService.SetActive(ctx, productID, active)
	if err != nil {
		return nil, err
	}
	logger.Infow("admin_product_active_changed", "actor_id", actor.ID, "product_id", productID, "is_active", active)
	return product, nil
}

// CreateProduct 创建商品
func (s *AdminService) CreateProduct(ctx context.Context, actor *models.User, input ProductInput) (*models.Product, error) {
	if err := s.authorize(actor, authz.ObjectProduct, authz.ActionCreate); err != nil {
		return nil, err
	}
	product, err := s.productService.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	logger.Infow("admin_product_created", "actor_id", actor.ID, "product_id", product.ID)
	return product, nil
}

// ListProducts 后台商品列表（含下架）
func (s *AdminService) ListProducts(actor *models.User, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	if err := s.authorize(actor, authz.ObjectProduct, authz.ActionList); err != nil {
		return nil, 0, err
	}
	return s.productService.ListAll(filter)
}

// SetUserRole 提升或降级用户角色
func (s *AdminService) SetUserRole(ctx context.Context, actor *models.User, userID uint, role string) (*models.User, error) {
	if err := s.authorize(actor, authz.ObjectUserRole, authz.ActionUpdate); err != nil {
		return nil, err
	}
	normalized := strings.ToLower(strings.TrimSpace(role))
	if normalized != constants.RoleAdmin && normalized != constants.RoleClient {
		return nil, ErrInvalidRole
	}
	affected, err := s.userRepo.UpdateRole(userID, normalized)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}
	if err := cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Warnw("admin_auth_state_invalidate_failed", "user_id", userID, "error", err)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	logger.Infow("admin_user_role_changed", "actor_id", actor.ID, "user_id", userID, "role", normalized)
	return user, nil
}

// ListUsers 用户列表（不含操作者本人）
func (s *AdminService) ListUsers(actor *models.User, filter repository.UserListFilter) ([]models.User, int64, error) {
	if err := s.authorize(actor, authz.ObjectUser, authz.ActionList); err != nil {
		return nil, 0, err
	}
	filter.ExcludeID = actor.ID
	return s.userRepo.List(filter)
}

func (s *AdminService) authorize(actor *models.User, object, action string) error {
	if actor == nil || actor.ID == 0 {
		return ErrUnauthorized
	}
	allowed, err := s.gate.Authorize(actor, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		logger.Warnw("admin_action_forbidden", "actor_id", actor.ID, "role", actor.Role, "object", object, "action", action)
		return ErrForbidden
	}
	return nil
}
