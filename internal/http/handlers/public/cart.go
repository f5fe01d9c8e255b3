package public

import (
	"github.com/shopfront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// defaultCartQuantity 请求未携带 quantity 时的默认数量
const defaultCartQuantity = 1

// CartItemRequest 购物车项请求，quantity 缺省为 1，显式 0 为空操作
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"`
}

func (r CartItemRequest) quantity() int {
	if r.Quantity == nil {
		return defaultCartQuantity
	}
	return *r.Quantity
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.ListForUser(uid, sessionToken(c))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在时累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.AddForUser(uid, sessionToken(c), req.ProductID, req.quantity())
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移除购物车商品数量，移除量不小于现有数量时删除整行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.RemoveForUser(uid, sessionToken(c), req.ProductID, req.quantity())
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}
