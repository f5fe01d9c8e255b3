package public

import (
	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	PaymentInfoID     uint `json:"payment_info_id"`
	ShippingAddressID uint `json:"shipping_address_id"`
}

// Checkout 将激活购物车转换为订单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID:            uid,
		SessionToken:      sessionToken(c),
		PaymentInfoID:     req.PaymentInfoID,
		ShippingAddressID: req.ShippingAddressID,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	requestLog(c).Infow("checkout_order_placed", "user_id", uid, "order_no", order.OrderNo)
	response.Success(c, service.NewOrderView(order))
}

// GetOrders 获取当前用户订单列表
func (h *Handler) GetOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)
	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// GetOrderByID 获取当前用户的订单详情
func (h *Handler) GetOrderByID(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByIDAndUser(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}
