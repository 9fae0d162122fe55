package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumehub/internal/api/middleware"
	"resumehub/internal/errcode"
)

// Message writes the uniform { "message": ... } body every endpoint uses.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// WriteError maps an error onto the taxonomy. Uncategorized errors are
// logged server-side and surfaced as a generic 500; their text never reaches
// the client.
func WriteError(c *gin.Context, err error) {
	var appErr *errcode.Error
	if errors.As(err, &appErr) {
		Message(c, errcode.HTTPStatus(appErr.Kind), appErr.Message)
		return
	}

	middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
	Message(c, http.StatusInternalServerError, "요청 처리 중 오류가 발생했습니다.")
}

func BadRequest(c *gin.Context, msg string) { Message(c, http.StatusBadRequest, msg) }
func Internal(c *gin.Context, msg string)   { Message(c, http.StatusInternalServerError, msg) }

// AbortUnauthorized 终止请求并返回 401。
func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다."})
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
