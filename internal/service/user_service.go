package service

import (
	"context"
	"log/slog"
	"time"

	"resumehub/internal/auth"
	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/repository"
)

// ImageCleanupEnqueuer schedules best-effort deletion of a no longer
// referenced profile-image object.
type ImageCleanupEnqueuer interface {
	EnqueueImageCleanup(ctx context.Context, objectKey string) error
}

// PublicProfile is the projection of a user returned to clients. It never
// carries the password hash.
type PublicProfile struct {
	ID           uint          `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Role         database.Role `json:"role"`
	Age          *int          `json:"age"`
	Gender       *string       `json:"gender"`
	ProfileImage *string       `json:"profileImage"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// SignInResult bundles the profile with the freshly issued token pair. The
// caller persists the refresh token server-side and sets cookies.
type SignInResult struct {
	Profile PublicProfile
	Tokens  auth.TokenPair
}

// UpdateUserInput carries the mutable profile fields; nil means unchanged.
type UpdateUserInput struct {
	ID           uint
	Name         *string
	Password     *string
	Age          *int
	Gender       *string
	ProfileImage *string
}

// UserService orchestrates sign-up/sign-in and profile maintenance.
type UserService struct {
	users   repository.UserRepository
	hasher  *auth.Hasher
	issuer  *auth.TokenIssuer
	cleanup ImageCleanupEnqueuer
	logger  *slog.Logger
}

// NewUserService 构造用户服务。cleanup may be nil (no background worker).
func NewUserService(users repository.UserRepository, hasher *auth.Hasher, issuer *auth.TokenIssuer, cleanup ImageCleanupEnqueuer, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{users: users, hasher: hasher, issuer: issuer, cleanup: cleanup, logger: logger}
}

func newPublicProfile(user *database.User) PublicProfile {
	return PublicProfile{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		Age:          user.Age,
		Gender:       user.Gender,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// SignUp 创建新账号并返回公开资料。
func (s *UserService) SignUp(ctx context.Context, email, name, password, checkPassword string) (*PublicProfile, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errcode.Validation("이미 존재하는 사용자입니다.")
	}

	if password != checkPassword {
		return nil, errcode.Validation("비밀번호가 일치하지 않습니다.")
	}

	hashed, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := database.User{
		Email:        email,
		Name:         name,
		PasswordHash: &hashed,
		Role:         database.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	profile := newPublicProfile(&user)
	return &profile, nil
}

// SignIn 校验凭证并签发令牌对。Unknown email and wrong password share one
// message so the response shape leaks nothing about which check failed.
func (s *UserService) SignIn(ctx context.Context, email, password, ip, userAgent string) (*SignInResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, errcode.Validation("이름 또는 패스워드를 확인해주세요.")
	}
	if !s.hasher.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, errcode.Validation("이름 또는 패스워드를 확인해주세요.")
	}

	return s.issueFor(user, ip, userAgent)
}

// SignInWithClientID 处理外部客户端 ID 登录（无本地口令）。
func (s *UserService) SignInWithClientID(ctx context.Context, clientID, ip, userAgent string) (*SignInResult, error) {
	user, err := s.users.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errcode.Validation("이름 또는 패스워드를 확인해주세요.")
	}

	return s.issueFor(user, ip, userAgent)
}

func (s *UserService) issueFor(user *database.User, ip, userAgent string) (*SignInResult, error) {
	tokens, err := s.issuer.IssueTokenPair(user.ID, user.Role, ip, userAgent)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Profile: newPublicProfile(user), Tokens: tokens}, nil
}

// GetUserByID 返回指定用户的公开资料。
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*PublicProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errcode.NotFound("존재하지 않는 사용자입니다.")
	}
	profile := newPublicProfile(user)
	return &profile, nil
}

// GetUserByEmail 按邮箱返回公开资料。
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*PublicProfile, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errcode.NotFound("존재하지 않는 사용자입니다.")
	}
	profile := newPublicProfile(user)
	return &profile, nil
}

// UpdateUser applies the partial update. When the profile image is replaced
// the old object's removal is best-effort: an enqueue failure is logged and
// never fails the update itself.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*PublicProfile, error) {
	user, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errcode.NotFound("존재하지 않는 사용자입니다.")
	}

	var staleImage string
	if input.ProfileImage != nil && user.ProfileImage != nil && *user.ProfileImage != *input.ProfileImage {
		staleImage = *user.ProfileImage
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		hashed, err := s.hasher.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hashed
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Gender != nil {
		user.Gender = input.Gender
	}
	if input.ProfileImage != nil {
		user.ProfileImage = input.ProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if staleImage != "" && s.cleanup != nil {
		if err := s.cleanup.EnqueueImageCleanup(ctx, staleImage); err != nil {
			s.logger.Warn("enqueue stale profile image cleanup failed",
				slog.String("object_key", staleImage),
				slog.Any("error", err),
			)
		}
	}

	profile := newPublicProfile(user)
	return &profile, nil
}
