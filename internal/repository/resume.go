package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumehub/internal/database"
)

// Sortable columns for FindAll. Keys are the public API names, values the
// actual column names, so an arbitrary orderKey can never reach the ORDER BY
// clause.
var sortableColumns = map[string]string{
	"id":           "id",
	"userId":       "user_id",
	"title":        "title",
	"introduction": "introduction",
	"hobby":        "hobby",
	"status":       "status",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// IsSortableColumn reports whether orderKey is on the allow-list.
func IsSortableColumn(orderKey string) bool {
	_, ok := sortableColumns[orderKey]
	return ok
}

// ResumeRepository is CRUD plus ordered listing over resume rows.
type ResumeRepository interface {
	Create(ctx context.Context, resume *database.Resume) error
	FindByID(ctx context.Context, id uint) (*database.Resume, error)
	FindByUserID(ctx context.Context, userID uint) ([]database.Resume, error)
	FindByUserIDs(ctx context.Context, userIDs []uint) ([]database.Resume, error)
	FindAll(ctx context.Context, orderKey, orderValue string) ([]database.Resume, error)
	Update(ctx context.Context, resume *database.Resume) error
	UpdateStatus(ctx context.Context, id uint, status database.ResumeStatus) error
	Delete(ctx context.Context, id uint) error
}

type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository 构造基于 GORM 的简历仓库。
func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *database.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(ctx context.Context, id uint) (*database.Resume, error) {
	var resume database.Resume
	err := r.db.WithContext(ctx).First(&resume, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find resume by id: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) FindByUserID(ctx context.Context, userID uint) ([]database.Resume, error) {
	var resumes []database.Resume
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes by user: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) FindByUserIDs(ctx context.Context, userIDs []uint) ([]database.Resume, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var resumes []database.Resume
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes by users: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) FindAll(ctx context.Context, orderKey, orderValue string) ([]database.Resume, error) {
	column, ok := sortableColumns[orderKey]
	if !ok {
		return nil, fmt.Errorf("order key %q is not sortable", orderKey)
	}
	direction := "DESC"
	if orderValue == "asc" {
		direction = "ASC"
	}

	var resumes []database.Resume
	if err := r.db.WithContext(ctx).
		Order(column + " " + direction).
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) Update(ctx context.Context, resume *database.Resume) error {
	if err := r.db.WithContext(ctx).Save(resume).Error; err != nil {
		return fmt.Errorf("update resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) UpdateStatus(ctx context.Context, id uint, status database.ResumeStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("update resume status: %w", err)
	}
	return nil
}

func (r *resumeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Unscoped().Delete(&database.Resume{}, id).Error; err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}
