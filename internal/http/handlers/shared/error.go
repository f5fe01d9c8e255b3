package shared

import (
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/i18n"
	"github.com/shopfront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		logHandlerError(c, appErr)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		logHandlerError(c, appErr)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorf 返回带格式化参数的国际化错误响应。
func RespondErrorf(c *gin.Context, code int, key string, args ...interface{}) {
	msg := i18n.Sprintf(i18n.ResolveLocale(c), key, args...)
	response.Error(c, code, msg)
}

func logHandlerError(c *gin.Context, appErr *response.AppError) {
	log := RequestLog(c)
	if response.CodeOf(appErr) < response.CodeInternal {
		log.Warnw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		return
	}
	log.Errorw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
}
