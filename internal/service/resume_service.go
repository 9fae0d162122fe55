package service

import (
	"context"

	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/repository"
)

// CreateResumeInput carries the fields a user submits for a new resume.
type CreateResumeInput struct {
	UserID       uint
	Title        string
	Introduction string
	Hobby        string
	Status       database.ResumeStatus
}

// UpdateResumeInput is a full-field update of an owned resume.
type UpdateResumeInput struct {
	ID           uint
	UserID       uint
	Title        string
	Introduction string
	Hobby        string
	Status       database.ResumeStatus
}

// ResumeService enforces ownership and role gates over resume CRUD. All
// authorization lives here, so it holds regardless of the entry point.
type ResumeService struct {
	resumes repository.ResumeRepository
}

// NewResumeService 构造简历服务。
func NewResumeService(resumes repository.ResumeRepository) *ResumeService {
	return &ResumeService{resumes: resumes}
}

// CreateResume 保存一份新简历；所有者即调用者，无需权限检查。
func (s *ResumeService) CreateResume(ctx context.Context, input CreateResumeInput) (*database.Resume, error) {
	status := input.Status
	if status == "" {
		status = database.StatusApply
	}
	if _, ok := database.ParseResumeStatus(string(status)); !ok {
		return nil, errcode.Validation("이력서의 상태는 APPLY, DROP, PASS, INTERVIEW1, INTERVIEW2, FINAL_PASS 중 하나여야 합니다.")
	}

	resume := database.Resume{
		UserID:       input.UserID,
		Title:        input.Title,
		Introduction: input.Introduction,
		Hobby:        input.Hobby,
		Status:       status,
	}
	if err := s.resumes.Create(ctx, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// DeleteResume 删除本人拥有的简历。Existence is checked before ownership,
// so a missing id is NotFound even for a non-owner.
func (s *ResumeService) DeleteResume(ctx context.Context, resumeID, userID uint) error {
	resume, err := s.resumes.FindByID(ctx, resumeID)
	if err != nil {
		return err
	}
	if resume == nil {
		return errcode.NotFound("이력서 조회에 실패하였습니다.")
	}
	if resume.UserID != userID {
		return errcode.Permission("삭제 권한이 없습니다.")
	}

	return s.resumes.Delete(ctx, resumeID)
}

// UpdateResume 全字段更新本人拥有的简历。
func (s *ResumeService) UpdateResume(ctx context.Context, input UpdateResumeInput) (*database.Resume, error) {
	resume, err := s.resumes.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, errcode.NotFound("이력서 조회에 실패하였습니다.")
	}
	if resume.UserID != input.UserID {
		return nil, errcode.Permission("수정 권한이 없습니다.")
	}

	if input.Status != "" {
		if _, ok := database.ParseResumeStatus(string(input.Status)); !ok {
			return nil, errcode.Validation("이력서의 상태는 APPLY, DROP, PASS, INTERVIEW1, INTERVIEW2, FINAL_PASS 중 하나여야 합니다.")
		}
		resume.Status = input.Status
	}
	resume.Title = input.Title
	resume.Introduction = input.Introduction
	resume.Hobby = input.Hobby

	if err := s.resumes.Update(ctx, resume); err != nil {
		return nil, err
	}
	return resume, nil
}

// GetResume 返回一份简历；非本人时仅 HR_MANAGER 可读。
func (s *ResumeService) GetResume(ctx context.Context, resumeID, userID uint, role database.Role) (*database.Resume, error) {
	resume, err := s.resumes.FindByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, errcode.NotFound("이력서 조회에 실패하였습니다.")
	}
	if resume.UserID != userID && role != database.RoleHRManager {
		return nil, errcode.Permission("조회 권한이 없습니다.")
	}
	return resume, nil
}

// GetResumesByUserID 返回调用者自己的全部简历。
func (s *ResumeService) GetResumesByUserID(ctx context.Context, userID uint) ([]database.Resume, error) {
	return s.resumes.FindByUserID(ctx, userID)
}

// GetAllResumes 返回按指定列排序的全部简历（特权操作，角色在路由层把关）。
func (s *ResumeService) GetAllResumes(ctx context.Context, orderKey, orderValue string) ([]database.Resume, error) {
	if orderKey == "" {
		orderKey = "createdAt"
	}
	if orderValue == "" {
		orderValue = "desc"
	}
	if !repository.IsSortableColumn(orderKey) {
		return nil, errcode.Validation("orderKey는 id, userId, title, introduction, hobby, status, createdAt, updatedAt 중 하나여야 합니다.")
	}
	if orderValue != "asc" && orderValue != "desc" {
		return nil, errcode.Validation("orderValue는 asc나 desc 중 하나여야 합니다.")
	}

	return s.resumes.FindAll(ctx, orderKey, orderValue)
}

// UpdateResumeStatus 仅修改简历状态（特权操作，无所有权检查）。
func (s *ResumeService) UpdateResumeStatus(ctx context.Context, resumeID uint, status string) (*database.Resume, error) {
	parsed, ok := database.ParseResumeStatus(status)
	if !ok {
		return nil, errcode.Validation("이력서의 상태는 APPLY, DROP, PASS, INTERVIEW1, INTERVIEW2, FINAL_PASS 중 하나여야 합니다.")
	}

	resume, err := s.resumes.FindByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, errcode.NotFound("이력서 조회에 실패하였습니다.")
	}

	if err := s.resumes.UpdateStatus(ctx, resumeID, parsed); err != nil {
		return nil, err
	}
	resume.Status = parsed
	return resume, nil
}
