package public

import (
	"errors"

	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/i18n"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidUsername, code: response.CodeBadRequest, key: "error.username_invalid"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, key: "error.username_exists"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrInvalidPaymentInfo, code: response.CodeBadRequest, key: "error.invalid_payment_info"},
	{target: service.ErrInvalidShippingAddress, code: response.CodeBadRequest, key: "error.invalid_shipping_address"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrUnauthorized, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrMissingPaymentOrShipping, code: response.CodeBadRequest, key: "error.missing_payment_or_shipping"},
	{target: service.ErrUnauthorized, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidShippingAddress, code: response.CodeBadRequest, key: "error.invalid_shipping_address"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.address_not_found"},
}

var paymentInfoErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPaymentInfo, code: response.CodeBadRequest, key: "error.invalid_payment_info"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

func respondCheckoutError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		handlershared.RespondErrorf(c, response.CodeConflict, "error.insufficient_stock", stockErr.ProductName, stockErr.Available)
		return
	}
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondRegisterError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrWeakPassword) {
		respondPasswordPolicyError(c, err)
		return
	}
	respondWithMappedError(c, err, concatMappedHandlerErrors(captchaErrorRules, registerErrorRules), response.CodeInternal, "error.internal")
}

// respondPasswordPolicyError 优先使用策略错误携带的具体文案
func respondPasswordPolicyError(c *gin.Context, err error) {
	var perr *service.PasswordPolicyError
	if errors.As(err, &perr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
		response.Error(c, response.CodeBadRequest, msg)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

// respondPaymentDetailError 解密失败必须记录并返回 500，不得静默
func respondPaymentDetailError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDecryption) {
		respondError(c, response.CodeInternal, "error.decryption_failed", err)
		return
	}
	respondWithMappedError(c, err, paymentInfoErrorRules, response.CodeInternal, "error.internal")
}
