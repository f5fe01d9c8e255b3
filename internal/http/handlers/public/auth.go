package public

import (
	"strings"
	"time"

	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptchaPayloadRequest 图片验证码载荷，未启用验证码时允许为空
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

func (r CaptchaPayloadRequest) toServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}

// UserRegisterRequest 注册请求（账号 + 首个支付方式与收货地址）
type UserRegisterRequest struct {
	Username       string                       `json:"username" binding:"required"`
	Email          string                       `json:"email" binding:"required"`
	Password       string                       `json:"password" binding:"required"`
	Payment        service.PaymentInfoInput     `json:"payment"`
	Shipping       service.ShippingAddressInput `json:"shipping"`
	CaptchaPayload CaptchaPayloadRequest        `json:"captcha_payload"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Username       string                `json:"username" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserProfileResponse 用户信息响应
type UserProfileResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// UserTokenResponse 登录/注册成功响应
type UserTokenResponse struct {
	User      UserProfileResponse `json:"user"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
}

func toUserProfileResponse(user *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
	}
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaPayload.toServicePayload()); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.internal")
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Payment:  req.Payment,
		Shipping: req.Shipping,
	})
	if err != nil {
		respondRegisterError(c, err)
		return
	}

	response.Success(c, UserTokenResponse{
		User:      toUserProfileResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaPayload.toServicePayload()); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.internal")
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Username, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, UserTokenResponse{
		User:      toUserProfileResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, toUserProfileResponse(user))
}

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrCaptchaDisabled, code: response.CodeBadRequest, key: "error.captcha_disabled"},
		}, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
