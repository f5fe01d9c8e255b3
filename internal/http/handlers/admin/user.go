package admin

import (
	"strings"

	"github.com/shopfront/internal/constants"
	handlershared "github.com/shopfront/internal/http/handlers/shared"
	"github.com/shopfront/internal/http/response"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminUserView 后台用户视图
type AdminUserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toAdminUserView(user *models.User) AdminUserView {
	return AdminUserView{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// GetAdminUsers 获取用户列表（不含当前管理员）
func (h *Handler) GetAdminUsers(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)
	users, total, err := h.AdminService.ListUsers(actor, repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	views := make([]AdminUserView, 0, len(users))
	for i := range users {
		views = append(views, toAdminUserView(&users[i]))
	}
	response.SuccessWithPage(c, views, handlershared.BuildPagination(page, pageSize, total))
}

// PromoteAdminUser 提升用户为管理员
func (h *Handler) PromoteAdminUser(c *gin.Context) {
	h.setUserRole(c, constants.RoleAdmin)
}

// DemoteAdminUser 将管理员降为普通用户
func (h *Handler) DemoteAdminUser(c *gin.Context) {
	h.setUserRole(c, constants.RoleClient)
}

func (h *Handler) setUserRole(c *gin.Context, role string) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, err := h.AdminService.SetUserRole(c.Request.Context(), actor, id, role)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_user_role_changed", "actor_id", actor.ID, "user_id", id, "role", role)
	response.Success(c, toAdminUserView(user))
}
