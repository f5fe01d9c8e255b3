package admin

import (
	"strings"

	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	ImageURL    string       `json:"image_url"`
}

// GetAdminProducts 后台商品列表（含下架）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)
	products, total, err := h.AdminService.ListProducts(actor, repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, products, handlershared.BuildPagination(page, pageSize, total))
}

// CreateAdminProduct 创建商品
func (h *Handler) CreateAdminProduct(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.AdminService.CreateProduct(c.Request.Context(), actor, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_created", "actor_id", actor.ID, "product_id", product.ID)
	response.Success(c, product)
}

// ActivateAdminProduct 上架商品
func (h *Handler) ActivateAdminProduct(c *gin.Context) {
	h.setProductActive(c, true)
}

// DeactivateAdminProduct 下架商品
func (h *Handler) DeactivateAdminProduct(c *gin.Context) {
	h.setProductActive(c, false)
}

func (h *Handler) setProductActive(c *gin.Context, active bool) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.AdminService.SetProductActive(c.Request.Context(), actor, id, active)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_toggled", "actor_id", actor.ID, "product_id", id, "active", active)
	response.Success(c, product)
}
