package router

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopfront/internal/config"
	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/i18n"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey      = handlershared.ContextKeyRequestID
	requestIDHeader   = "X-Request-ID"
	defaultCookieName = "sid"
)

// SessionEnsurer 会话跟踪能力
type SessionEnsurer interface {
	Ensure(ctx context.Context, token string, userID *uint) (*models.Session, bool, error)
}

// UserTokenParser 解析用户 JWT
type UserTokenParser interface {
	ParseUserJWT(tokenString string) (*service.UserJWTClaims, error)
}

// AuthUserResolver 解析 JWT 并加载当前用户
type AuthUserResolver interface {
	UserTokenParser
	ResolveAuthUser(ctx context.Context, userID uint) (*models.User, error)
}

// Authorizer Admin Gate 授权判定
type Authorizer interface {
	Authorize(user *models.User, obj, act string) (bool, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"Accept-Language",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionMiddleware 为每个请求确保浏览会话，token 变化时写回 cookie
func SessionMiddleware(sessions SessionEnsurer, tokens UserTokenParser, cfg config.SessionConfig) gin.HandlerFunc {
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = defaultCookieName
	}
	maxAge := cfg.CookieMaxAgeDays * 24 * 3600
	if maxAge <= 0 {
		maxAge = 30 * 24 * 3600
	}

	return func(c *gin.Context) {
		if sessions == nil {
			c.Next()
			return
		}
		incoming, _ := c.Cookie(cookieName)
		var userID *uint
		if tokens != nil {
			if raw := bearerToken(c); raw != "" {
				if claims, err := tokens.ParseUserJWT(raw); err == nil && claims.UserID != 0 {
					uid := claims.UserID
					userID = &uid
				}
			}
		}

		session, _, err := sessions.Ensure(c.Request.Context(), incoming, userID)
		if err != nil {
			logger.SW("request_id", getRequestID(c)).Warnw("session_ensure_failed", "error", err)
			c.Next()
			return
		}
		c.Set(handlershared.ContextKeySessionToken, session.Token)
		if session.Token != incoming {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, session.Token, maxAge, "/", "", cfg.Secure, true)
		}
		c.Next()
	}
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
func UserJWTAuthMiddleware(auth AuthUserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" || auth == nil {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		claims, err := auth.ParseUserJWT(tokenString)
		if err != nil || claims.UserID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		user, err := auth.ResolveAuthUser(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		c.Set(handlershared.ContextKeyUserID, user.ID)
		c.Set(handlershared.ContextKeyUser, user)
		c.Next()
	}
}

// AdminGateMiddleware 管理端授权中间件，按路由模板与方法判定
func AdminGateMiddleware(gate Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := handlershared.GetContextUser(c)
		if !ok || gate == nil {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := gate.Authorize(user, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_gate_enforce_failed",
				"user_id", user.ID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_gate_permission_denied",
				"user_id", user.ID,
				"role", user.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
