package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"resumehub/internal/api/middleware"
	"resumehub/internal/service"
)

// 预签名地址有效期。前端拿到的是临时直链，不经过 API 转发。
const profileImageURLTTL = 15 * time.Minute

// profileResponse 在资料之上附带可直接访问的头像地址。
type profileResponse struct {
	service.PublicProfile
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// newProfileResponse 为存储了头像的用户生成预签名地址。签名失败只记录
// 日志，资料本身照常返回。
func (h *UserHandler) newProfileResponse(c *gin.Context, profile *service.PublicProfile) profileResponse {
	resp := profileResponse{PublicProfile: *profile}
	if profile.ProfileImage == nil || *profile.ProfileImage == "" {
		return resp
	}

	url, err := h.storage.GeneratePresignedURL(c.Request.Context(), *profile.ProfileImage, profileImageURLTTL)
	if err != nil {
		middleware.LoggerFromContext(c).Warn("presign profile image", slog.Any("error", err))
		return resp
	}
	resp.ProfileImageURL = &url
	return resp
}
