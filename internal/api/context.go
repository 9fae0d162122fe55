package api

import (
	"github.com/gin-gonic/gin"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
)

func roleFromContext(c *gin.Context) (database.Role, bool) {
	value, ok := c.Get(middleware.ContextRoleKey)
	if !ok {
		return "", false
	}
	role, ok := value.(database.Role)
	return role, ok
}
