package service

import (
	"context"
	"log/slog"

	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/repository"
	"resumehub/internal/session"
)

// AdminService handles role elevation and account removal. The admin-only
// gate itself sits in the route middleware; these methods assume it held.
type AdminService struct {
	users    repository.UserRepository
	sessions session.Store
	cleanup  ImageCleanupEnqueuer
	logger   *slog.Logger
}

// NewAdminService 构造管理服务。
func NewAdminService(users repository.UserRepository, sessions session.Store, cleanup ImageCleanupEnqueuer, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{users: users, sessions: sessions, cleanup: cleanup, logger: logger}
}

// UpgradeUserRole 将用户角色提升/变更为指定角色。
func (s *AdminService) UpgradeUserRole(ctx context.Context, rawRole string, userID uint) (*PublicProfile, error) {
	role, ok := database.ParseRole(rawRole)
	if !ok {
		return nil, errcode.Validation("사용자의 권한은 USER, HR_MANAGER, ADMIN 중 하나여야 합니다.")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errcode.NotFound("사용자가 존재하지 않습니다.")
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errcode.NotFound("사용자가 존재하지 않습니다.")
	}
	profile := newPublicProfile(updated)
	return &profile, nil
}

// DeleteUser removes the account: resumes go with it, the live
// session record is dropped, and any profile image is cleaned up
// best-effort.
func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errcode.NotFound("사용자가 존재하지 않습니다.")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Warn("delete user session failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.Any("error", err),
		)
	}

	if user.ProfileImage != nil && s.cleanup != nil {
		if err := s.cleanup.EnqueueImageCleanup(ctx, *user.ProfileImage); err != nil {
			s.logger.Warn("enqueue profile image cleanup failed",
				slog.String("object_key", *user.ProfileImage),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// GetAllUsers 返回全部用户的公开资料（仅管理员路由可达）。
func (s *AdminService) GetAllUsers(ctx context.Context) ([]PublicProfile, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, newPublicProfile(&users[i]))
	}
	return profiles, nil
}
