package admin

import (
	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/models"

	"github.com/gin-gonic/gin"
)

// getActor 读取鉴权中间件解析出的当前操作人
func getActor(c *gin.Context) (*models.User, bool) {
	user, ok := handlershared.GetContextUser(c)
	if !ok {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return user, true
}

func parseIDParam(c *gin.Context) (uint, bool) {
	return handlershared.ParseUintParam(c, "id")
}
