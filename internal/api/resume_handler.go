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

// ResumeHandler 负责处理与简历相关的 API 请求。
type ResumeHandler struct {
	resumes *service.ResumeService
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(resumes *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

var errInvalidResumeID = errors.New("invalid resume id")

type createResumeRequest struct {
	Title        string `json:"title" binding:"required,min=2,max=30"`
	Introduction string `json:"introduction"`
	Hobby        string `json:"hobby"`
	Status       string `json:"status"`
}

type updateResumeRequest struct {
	Title        string `json:"title" binding:"required,min=2,max=30"`
	Introduction string `json:"introduction"`
	Hobby        string `json:"hobby"`
	Status       string `json:"status"`
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type resumeResponse struct {
	ID           uint                  `json:"id"`
	UserID       uint                  `json:"userId"`
	Title        string                `json:"title"`
	Introduction string                `json:"introduction"`
	Hobby        string                `json:"hobby"`
	Status       database.ResumeStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func newResumeResponse(resume database.Resume) resumeResponse {
	return resumeResponse{
		ID:           resume.ID,
		UserID:       resume.UserID,
		Title:        resume.Title,
		Introduction: resume.Introduction,
		Hobby:        resume.Hobby,
		Status:       resume.Status,
		CreatedAt:    resume.CreatedAt,
		UpdatedAt:    resume.UpdatedAt,
	}
}

func newResumeResponses(resumes []database.Resume) []resumeResponse {
	items := make([]resumeResponse, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, newResumeResponse(r))
	}
	return items
}

func parseResumeID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidResumeID
	}
	return uint(id), nil
}

// CreateResume 保存调用者的一份新简历。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, err := h.resumes.CreateResume(c.Request.Context(), service.CreateResumeInput{
		UserID:       userID,
		Title:        req.Title,
		Introduction: req.Introduction,
		Hobby:        req.Hobby,
		Status:       database.ResumeStatus(req.Status),
	})
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resume": newResumeResponse(*resume)})
}

// DeleteResume 删除本人拥有的简历。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeID, err := parseResumeID(c.Param("resumeId"))
	if err != nil {
		BadRequest(c, "이력서 아이디가 올바르지 않습니다.")
		return
	}

	if err := h.resumes.DeleteResume(c.Request.Context(), resumeID, userID); err != nil {
		WriteError(c, err)
		return
	}

	Message(c, http.StatusOK, "이력서가 삭제되었습니다.")
}

// UpdateResume 全字段更新本人拥有的简历。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeID, err := parseResumeID(c.Param("resumeId"))
	if err != nil {
		BadRequest(c, "이력서 아이디가 올바르지 않습니다.")
		return
	}

	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	resume, err := h.resumes.UpdateResume(c.Request.Context(), service.UpdateResumeInput{
		ID:           resumeID,
		UserID:       userID,
		Title:        req.Title,
		Introduction: req.Introduction,
		Hobby:        req.Hobby,
		Status:       database.ResumeStatus(req.Status),
	})
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": newResumeResponse(*resume)})
}

// GetMyResumes 返回调用者自己的全部简历。
func (h *ResumeHandler) GetMyResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumes, err := h.resumes.GetResumesByUserID(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resumes": newResumeResponses(resumes)})
}

// GetResume 返回一份简历详情（本人或 HR_MANAGER）。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	role, ok := roleFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeID, err := parseResumeID(c.Param("resumeId"))
	if err != nil {
		BadRequest(c, "이력서 아이디가 올바르지 않습니다.")
		return
	}

	resume, err := h.resumes.GetResume(c.Request.Context(), resumeID, userID, role)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": newResumeResponse(*resume)})
}

// GetAllResumes 返回按列排序的全部简历（HR_MANAGER 专属）。
func (h *ResumeHandler) GetAllResumes(c *gin.Context) {
	orderKey := c.DefaultQuery("orderKey", "createdAt")
	orderValue := c.DefaultQuery("orderValue", "desc")

	resumes, err := h.resumes.GetAllResumes(c.Request.Context(), orderKey, orderValue)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resumes": newResumeResponses(resumes)})
}

// ChangeResumeStatus 仅修改简历状态（HR_MANAGER 专属）。
func (h *ResumeHandler) ChangeResumeStatus(c *gin.Context) {
	resumeID, err := parseResumeID(c.Param("resumeId"))
	if err != nil {
		BadRequest(c, "이력서 아이디가 올바르지 않습니다.")
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	resume, err := h.resumes.UpdateResumeStatus(c.Request.Context(), resumeID, req.Status)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": newResumeResponse(*resume)})
}
