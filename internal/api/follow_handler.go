package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resumehub/internal/database"
	"resumehub/internal/service"
)

// FollowHandler 负责处理关注关系相关的 API 请求。
type FollowHandler struct {
	follows *service.FollowService
}

// NewFollowHandler 构造 FollowHandler。
func NewFollowHandler(follows *service.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

var errInvalidFollowTarget = errors.New("invalid follow target")

type followResponse struct {
	ID          uint      `json:"id"`
	FollowerID  uint      `json:"followerId"`
	FollowingID uint      `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newFollowResponse(follow database.Follow) followResponse {
	return followResponse{
		ID:          follow.ID,
		FollowerID:  follow.FollowerID,
		FollowingID: follow.FollowingID,
		CreatedAt:   follow.CreatedAt,
	}
}

func parseFollowTarget(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidFollowTarget
	}
	return uint(id), nil
}

// Follow 关注路径参数指定的用户。
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	targetID, err := parseFollowTarget(c.Param("userId"))
	if err != nil {
		BadRequest(c, "올바른 사용자 ID를 입력해주세요.")
		return
	}

	follow, err := h.follows.Follow(c.Request.Context(), userID, targetID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "팔로우 성공",
		"follow":  newFollowResponse(*follow),
	})
}

// Unfollow 取消对路径参数指定用户的关注。
func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	targetID, err := parseFollowTarget(c.Param("userId"))
	if err != nil {
		BadRequest(c, "올바른 사용자 ID를 입력해주세요.")
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		WriteError(c, err)
		return
	}

	Message(c, http.StatusOK, "언팔로우 성공")
}

// GetFollowing 列出调用者关注的用户。
func (h *FollowHandler) GetFollowing(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	profiles, err := h.follows.GetFollowing(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followingUsers": profiles})
}

// GetFollowers 列出关注调用者的用户。
func (h *FollowHandler) GetFollowers(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	profiles, err := h.follows.GetFollowers(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": profiles})
}

// GetFollowingResumes 返回关注用户们的简历动态。
func (h *FollowHandler) GetFollowingResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumes, err := h.follows.GetFollowingResumes(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resumes": newResumeResponses(resumes)})
}
