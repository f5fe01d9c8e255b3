package public

import (
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

// ListShippingAddresses 收货地址列表
func (h *Handler) ListShippingAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.ProfileService.ListShippingAddresses(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, items)
}

// CreateShippingAddress 新增收货地址
func (h *Handler) CreateShippingAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req service.ShippingAddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	detail, err := h.ProfileService.AddShippingAddress(uid, req)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, detail)
}

// UpdateShippingAddress 更新收货地址
func (h *Handler) UpdateShippingAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.ShippingAddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	detail, err := h.ProfileService.UpdateShippingAddress(uid, id, req)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, detail)
}

// GetShippingAddress 查询单个收货地址
func (h *Handler) GetShippingAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	detail, err := h.ProfileService.GetShippingAddress(uid, id)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, detail)
}

// ListPaymentInfos 支付方式列表（卡号脱敏）
func (h *Handler) ListPaymentInfos(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.ProfileService.ListPaymentInfos(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, items)
}

// CreatePaymentInfo 新增支付方式
func (h *Handler) CreatePaymentInfo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req service.PaymentInfoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	summary, err := h.ProfileService.AddPaymentInfo(uid, req)
	if err != nil {
		respondWithMappedError(c, err, paymentInfoErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, summary)
}

// UpdatePaymentInfo 更新支付方式
func (h *Handler) UpdatePaymentInfo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.PaymentInfoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	summary, err := h.ProfileService.UpdatePaymentInfo(uid, id, req)
	if err != nil {
		respondWithMappedError(c, err, paymentInfoErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, summary)
}

// GetPaymentInfo 查询单个支付方式明细（解密）
func (h *Handler) GetPaymentInfo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	detail, err := h.ProfileService.GetPaymentDetail(uid, id)
	if err != nil {
		respondPaymentDetailError(c, err)
		return
	}
	response.Success(c, detail)
}
