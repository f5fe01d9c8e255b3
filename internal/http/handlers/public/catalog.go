package public

import (
	"strings"

	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView 前台商品视图
type PublicProductView struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	ImageURL    string       `json:"image_url"`
	InStock     bool         `json:"in_stock"`
}

func toPublicProductView(product *models.Product) PublicProductView {
	return PublicProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		InStock:     product.Stock > 0,
	}
}

// GetProducts 获取上架商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.ListActive(c.Request.Context(), repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	views := make([]PublicProductView, 0, len(products))
	for i := range products {
		views = append(views, toPublicProductView(&products[i]))
	}
	response.SuccessWithPage(c, views, handlershared.BuildPagination(page, pageSize, total))
}

// GetProductByID 获取上架商品详情
func (h *Handler) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetActiveByID(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, toPublicProductView(product))
}
