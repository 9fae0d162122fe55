package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumehub/internal/service"
)

// AdminHandler 处理管理员专属的账号管理请求。
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler 构造 AdminHandler。
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type upgradeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func parseUserID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// UpgradeUserRole 将指定用户提升为指定角色。
func (h *AdminHandler) UpgradeUserRole(c *gin.Context) {
	userID, ok := parseUserID(c.Param("userId"))
	if !ok {
		BadRequest(c, "사용자 아이디가 올바르지 않습니다.")
		return
	}

	var req upgradeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	profile, err := h.admin.UpgradeUserRole(c.Request.Context(), req.Role, userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// DeleteUser 删除指定用户账号（级联删除其简历与会话）。
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c.Param("userId"))
	if !ok {
		BadRequest(c, "사용자 아이디가 올바르지 않습니다.")
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), userID); err != nil {
		WriteError(c, err)
		return
	}

	Message(c, http.StatusOK, fmt.Sprintf("%d 사용자가 삭제되었습니다.", userID))
}

// GetAllUsers 返回全部用户列表。
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.admin.GetAllUsers(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
