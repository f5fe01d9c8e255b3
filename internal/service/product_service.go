package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopfront/internal/cache"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
	"github.com/shopfront/internal/search"
)

const defaultCatalogCacheTTL = 60 * time.Second

// ProductIndexEnqueuer 商品索引同步任务投递接口
type ProductIndexEnqueuer interface {
	EnqueueProductIndexSync(productID uint) error
}

// ProductInput 商品创建输入
type ProductInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	ImageURL    string       `json:"image_url"`
}

// ProductService 商品目录服务
type ProductService struct {
	productRepo repository.ProductRepository
	search      *search.Client
	indexer     ProductIndexEnqueuer
	cacheTTL    time.Duration
}

// NewProductService 创建商品服务；searchClient 为空时关键字检索走数据库
func NewProductService(productRepo repository.ProductRepository, searchClient *search.Client, indexer ProductIndexEnqueuer, cacheTTLSeconds int) *ProductService {
	ttl := defaultCatalogCacheTTL
	if cacheTTLSeconds > 0 {
		ttl = time.Duration(cacheTTLSeconds) * time.Second
	}
	return &ProductService{
		productRepo: productRepo,
		search:      searchClient,
		indexer:     indexer,
		cacheTTL:    ttl,
	}
}

// ListActive 上架商品列表
func (s *ProductService) ListActive(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.IDs = nil
	keyword := strings.TrimSpace(filter.Search)
	if keyword != "" && s.search != nil {
		products, total, err := s.searchActive(ctx, keyword, filter)
		if err == nil {
			return products, total, nil
		}
		logger.Warnw("product_search_fallback", "keyword", keyword, "error", err)
	}
	return s.productRepo.List(filter)
}

// searchActive 从索引取得有序 ID，再从数据库加载并保持相关度顺序
func (s *ProductService) searchActive(ctx context.Context, keyword string, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, ids, err := s.search.SearchProductIDs(ctx, keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	rows, _, err := s.productRepo.List(repository.ProductListFilter{IDs: ids, OnlyActive: true})
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			products = append(products, product)
		}
	}
	return products, total, nil
}

// ListAll 后台商品列表（含下架）
func (s *ProductService) ListAll(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = false
	return s.productRepo.List(filter)
}

// GetActiveByID 获取上架商品详情（读穿缓存）
func (s *ProductService) GetActiveByID(ctx context.Context, id uint) (*models.Product, error) {
	key := cache.ProductDetailKey(id)
	var cached models.Product
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("product_cache_get_failed", "product_id", id, "error", err)
	}
	if hit && cached.ID == id {
		if !cached.IsActive {
			return nil, ErrProductNotFound
		}
		return &cached, nil
	}

	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	if err := cache.SetJSON(ctx, key, product, s.cacheTTL); err != nil {
		logger.Warnw("product_cache_set_failed", "product_id", id, "error", err)
	}
	return product, nil
}

// Create 创建商品（默认上架）
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.IsNegative() || input.Stock < 0 {
		return nil, ErrInvalidProduct
	}
	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       models.NewMoneyFromDecimal(input.Price.Decimal),
		Stock:       input.Stock,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		IsActive:    true,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, product.ID)
	return product, nil
}

// SetActive 上架或下架商品（软切换，不做物理删除）
func (s *ProductService) SetActive(ctx context.Context, id uint, active bool) (*models.Product, error) {
	affected, err := s.productRepo.SetActive(id, active)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	s.afterMutation(ctx, id)
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// SyncIndex 将商品当前状态写入搜索索引
func (s *ProductService) SyncIndex(ctx context.Context, id uint) error {
	if s.search == nil {
		return nil
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.search.IndexProduct(ctx, search.NewProductDocument(product))
}

// afterMutation 清理详情缓存并投递索引同步
func (s *ProductService) afterMutation(ctx context.Context, id uint) {
	if err := cache.Del(ctx, cache.ProductDetailKey(id)); err != nil {
		logger.Warnw("product_cache_invalidate_failed", "product_id", id, "error", err)
	}
	if s.indexer == nil {
		return
	}
	if err := s.indexer.EnqueueProductIndexSync(id); err != nil {
		logger.Warnw("product_index_enqueue_failed", "product_id", id, "error", err)
	}
}
