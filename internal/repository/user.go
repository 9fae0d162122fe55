package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumehub/internal/database"
)

// UserRepository is plain CRUD over user rows. Absence is reported as
// (nil, nil); translating it into a NotFound error is the service layer's
// job, where the authorization context lives.
type UserRepository interface {
	Create(ctx context.Context, user *database.User) error
	FindByID(ctx context.Context, id uint) (*database.User, error)
	FindByEmail(ctx context.Context, email string) (*database.User, error)
	FindByClientID(ctx context.Context, clientID string) (*database.User, error)
	FindAll(ctx context.Context) ([]database.User, error)
	Update(ctx context.Context, user *database.User) error
	UpdateRole(ctx context.Context, id uint, role database.Role) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 构造基于 GORM 的用户仓库。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *database.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*database.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByClientID(ctx context.Context, clientID string) (*database.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by client id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]database.User, error) {
	var users []database.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *database.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role database.Role) error {
	if err := r.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", id).
		Update("role", role).Error; err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

// Delete removes the user row; owned resumes go with it through the FK
// cascade. Unscoped so the row is gone, not soft-deleted, and the unique
// email can be reused.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ?", id).
		Delete(&database.Resume{}).Error; err != nil {
		return fmt.Errorf("delete user resumes: %w", err)
	}
	if err := r.db.WithContext(ctx).Unscoped().Delete(&database.User{}, id).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
