package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                  = errors.New("not found")
	ErrProductNotFound           = errors.New("product not found")
	ErrUserNotFound              = errors.New("user not found")
	ErrOrderNotFound             = errors.New("order not found")
	ErrCartEmpty                 = errors.New("cart is empty")
	ErrInvalidQuantity           = errors.New("invalid quantity")
	ErrMissingPaymentOrShipping  = errors.New("please update your payment and shipping information before checkout")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrDecryption                = errors.New("payment data decryption failed")
	ErrForbidden                 = errors.New("forbidden")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUsernameExists            = errors.New("username already exists")
	ErrEmailExists               = errors.New("email already exists")
	ErrInvalidEmail              = errors.New("invalid email")
	ErrInvalidUsername           = errors.New("invalid username")
	ErrWeakPassword              = errors.New("weak password")
	ErrInvalidPaymentInfo        = errors.New("invalid payment info")
	ErrInvalidShippingAddress    = errors.New("invalid shipping address")
	ErrInvalidRole               = errors.New("invalid role")
	ErrInvalidProduct            = errors.New("invalid product")
	ErrCaptchaRequired           = errors.New("captcha required")
	ErrCaptchaInvalid            = errors.New("captcha invalid")
	ErrCaptchaDisabled           = errors.New("captcha disabled")
	ErrOrderCreateFailed         = errors.New("order create failed")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// InsufficientStockError 库存不足错误（携带商品与剩余库存）
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Only %d left.", e.ProductName, e.Available)
}

// Is 支持 errors.Is(err, ErrInsufficientStock)
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
