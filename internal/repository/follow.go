package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumehub/internal/database"
)

// FollowRepository persists follow edges between users. Absence is
// reported as (nil, nil), same convention as the other repositories.
type FollowRepository interface {
	Create(ctx context.Context, follow *database.Follow) error
	Find(ctx context.Context, followerID, followingID uint) (*database.Follow, error)
	Delete(ctx context.Context, followerID, followingID uint) error
	FindFollowing(ctx context.Context, followerID uint) ([]database.User, error)
	FindFollowers(ctx context.Context, followingID uint) ([]database.User, error)
	FindFollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository 构造基于 GORM 的关注关系仓库。
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *database.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

func (r *followRepository) Find(ctx context.Context, followerID, followingID uint) (*database.Follow, error) {
	var follow database.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find follow: %w", err)
	}
	return &follow, nil
}

// Delete removes the edge for good. Unscoped so the pair's unique index
// does not block a later re-follow.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) error {
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&database.Follow{}).Error; err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *followRepository) FindFollowing(ctx context.Context, followerID uint) ([]database.User, error) {
	var users []database.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id AND follows.deleted_at IS NULL").
		Where("follows.follower_id = ?", followerID).
		Order("follows.id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

func (r *followRepository) FindFollowers(ctx context.Context, followingID uint) ([]database.User, error) {
	var users []database.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id AND follows.deleted_at IS NULL").
		Where("follows.following_id = ?", followingID).
		Order("follows.id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}

func (r *followRepository) FindFollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&database.Follow{}).
		Where("follower_id = ?", followerID).
		Order("following_id ASC").
		Pluck("following_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list following ids: %w", err)
	}
	return ids, nil
}
