package service

import (
	"context"

	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/repository"
)

// FollowProfile is the slim projection returned in follow lists.
type FollowProfile struct {
	ID       uint    `json:"id"`
	ClientID *string `json:"clientId"`
	Email    string  `json:"email"`
}

// FollowService manages follow edges between users and the feed of
// resumes written by followed users.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	resumes repository.ResumeRepository
}

// NewFollowService 构造关注服务。
func NewFollowService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	resumes repository.ResumeRepository,
) *FollowService {
	return &FollowService{follows: follows, users: users, resumes: resumes}
}

// Follow 建立 follower 对 target 的关注。自关注与重复关注都拒绝。
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) (*database.Follow, error) {
	if followerID == targetID {
		return nil, errcode.Validation("자기자신을 팔로우할 수 없습니다.")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errcode.NotFound("존재하지 않는 사용자입니다.")
	}

	existing, err := s.follows.Find(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errcode.Validation("이미 팔로우된 사용자입니다.")
	}

	follow := database.Follow{FollowerID: followerID, FollowingID: targetID}
	if err := s.follows.Create(ctx, &follow); err != nil {
		return nil, err
	}
	return &follow, nil
}

// Unfollow 解除关注；未关注的目标返回 NotFound。
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	existing, err := s.follows.Find(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errcode.NotFound("팔로우된 사용자가 아닙니다.")
	}
	return s.follows.Delete(ctx, followerID, targetID)
}

// GetFollowing 列出调用者关注的用户。
func (s *FollowService) GetFollowing(ctx context.Context, followerID uint) ([]FollowProfile, error) {
	users, err := s.follows.FindFollowing(ctx, followerID)
	if err != nil {
		return nil, err
	}
	return newFollowProfiles(users), nil
}

// GetFollowers 列出关注调用者的用户。
func (s *FollowService) GetFollowers(ctx context.Context, followingID uint) ([]FollowProfile, error) {
	users, err := s.follows.FindFollowers(ctx, followingID)
	if err != nil {
		return nil, err
	}
	return newFollowProfiles(users), nil
}

// GetFollowingResumes 返回关注用户们的全部简历，最新在前。没有可展示的
// 简历时返回 NotFound。
func (s *FollowService) GetFollowingResumes(ctx context.Context, followerID uint) ([]database.Resume, error) {
	ids, err := s.follows.FindFollowingIDs(ctx, followerID)
	if err != nil {
		return nil, err
	}

	resumes, err := s.resumes.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(resumes) == 0 {
		return nil, errcode.NotFound("게시물이 없습니다.")
	}
	return resumes, nil
}

func newFollowProfiles(users []database.User) []FollowProfile {
	profiles := make([]FollowProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, FollowProfile{
			ID:       user.ID,
			ClientID: user.ClientID,
			Email:    user.Email,
		})
	}
	return profiles
}
