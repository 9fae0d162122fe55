package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"resumehub/internal/api/middleware"
	"resumehub/internal/auth"
	"resumehub/internal/service"
	"resumehub/internal/session"
)

// ObjectStorage is the slice of the storage client the handlers need.
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

const maxProfileImageBytes = 5 * 1024 * 1024

// errFileRejected signals the upload helper already wrote the HTTP response.
var errFileRejected = errors.New("file rejected")

// UserHandler 处理注册、登录、登出与个人资料。
type UserHandler struct {
	users                 *service.UserService
	sessions              session.Store
	issuer                *auth.TokenIssuer
	redis                 redis.UniversalClient
	storage               ObjectStorage
	logger                *slog.Logger
	clamdAddr             string
	cookieDomain          string
	loginRateLimitPerHour int
	loginLockThreshold    int
	loginLockTTL          time.Duration
}

// NewUserHandler 构造用户处理器。
func NewUserHandler(
	users *service.UserService,
	sessions session.Store,
	issuer *auth.TokenIssuer,
	redisClient redis.UniversalClient,
	storageClient ObjectStorage,
	logger *slog.Logger,
	clamdAddr string,
	cookieDomain string,
	loginRateLimitPerHour int,
	loginLockThreshold int,
	loginLockTTL time.Duration,
) *UserHandler {
	return &UserHandler{
		users:                 users,
		sessions:              sessions,
		issuer:                issuer,
		redis:                 redisClient,
		storage:               storageClient,
		logger:                logger,
		clamdAddr:             clamdAddr,
		cookieDomain:          cookieDomain,
		loginRateLimitPerHour: loginRateLimitPerHour,
		loginLockThreshold:    loginLockThreshold,
		loginLockTTL:          loginLockTTL,
	}
}

type signUpRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Name          string `json:"name" binding:"required,min=1,max=30"`
	Password      string `json:"password" binding:"required,min=6,max=30"`
	CheckPassword string `json:"checkPassword" binding:"required"`
}

// SignUp 创建新账号。
func (h *UserHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	profile, err := h.users.SignUp(c.Request.Context(), req.Email, req.Name, req.Password, req.CheckPassword)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"newUser": h.newProfileResponse(c, profile)})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientID string `json:"clientId"`
}

// SignIn 校验凭证、创建服务端会话并下发 Cookie。
func (h *UserHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if req.ClientID == "" && (req.Email == "" || req.Password == "") {
		BadRequest(c, "이메일과 비밀번호를 입력해주세요.")
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()
	userAgent := c.Request.UserAgent()
	logger := middleware.LoggerFromContext(c)

	loginKey := strings.ToLower(req.Email)
	if loginKey == "" {
		loginKey = req.ClientID
	}

	if h.loginRateExceeded(ctx, ip, loginKey) {
		Message(c, http.StatusTooManyRequests, "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요.")
		return
	}
	if h.loginLocked(ctx, loginKey) {
		Message(c, http.StatusTooManyRequests, "계정이 일시적으로 잠겼습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	var result *service.SignInResult
	var err error
	if req.ClientID != "" {
		result, err = h.users.SignInWithClientID(ctx, req.ClientID, ip, userAgent)
	} else {
		result, err = h.users.SignIn(ctx, req.Email, req.Password, ip, userAgent)
	}
	if err != nil {
		h.recordLoginFailure(ctx, loginKey)
		WriteError(c, err)
		return
	}

	h.clearLoginFailures(ctx, loginKey)

	now := time.Now()
	sessionID := uuid.NewString()
	record := session.Record{
		UserID:       result.Profile.ID,
		RefreshToken: result.Tokens.RefreshToken,
		IP:           ip,
		UserAgent:    userAgent,
		ExpiresAt:    now.Add(h.issuer.RefreshTokenTTL()),
		CreatedAt:    now,
	}
	if err := h.sessions.Save(ctx, sessionID, record); err != nil {
		logger.Error("save session failed", slog.Any("error", err))
		Internal(c, "요청 처리 중 오류가 발생했습니다.")
		return
	}

	middleware.SetAccessTokenCookie(c, result.Tokens.AccessToken, h.issuer.AccessTokenTTL(), h.cookieDomain)
	h.setSessionCookie(c, sessionID)

	c.JSON(http.StatusOK, gin.H{"user": h.newProfileResponse(c, &result.Profile)})
}

// LogOut 删除服务端会话并清除 Cookie。
func (h *UserHandler) LogOut(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" {
		if err := h.sessions.Delete(ctx, sessionID); err != nil {
			logger.Error("delete session failed", slog.Any("error", err))
			Internal(c, "로그아웃 도중 오류가 발생했습니다.")
			return
		}
	}

	h.clearAuthCookies(c)
	Message(c, http.StatusOK, "성공적으로 로그아웃되었습니다.")
}

// GetUser 返回调用者自己的公开资料。
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	profile, err := h.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": h.newProfileResponse(c, profile)})
}

// UpdateUser 处理 multipart 资料更新，包含可选的头像替换。
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	input := service.UpdateUserInput{ID: userID}

	if name, ok := c.GetPostForm("name"); ok {
		if name == "" || len(name) > 30 {
			BadRequest(c, "이름은 30글자 이내의 문자열입니다.")
			return
		}
		input.Name = &name
	}
	if password, ok := c.GetPostForm("password"); ok {
		if len(password) < 6 || len(password) > 30 {
			BadRequest(c, "비밀번호는 6-30자의 숫자와 영문자로 이루어져야 합니다.")
			return
		}
		input.Password = &password
	}
	if rawAge, ok := c.GetPostForm("age"); ok {
		age, err := strconv.Atoi(rawAge)
		if err != nil || age < 19 || age > 65 {
			BadRequest(c, "나이는 19살 이상 65살 이하이어야 합니다.")
			return
		}
		input.Age = &age
	}
	if gender, ok := c.GetPostForm("gender"); ok {
		if gender != "F" && gender != "M" {
			BadRequest(c, "성별은 F나 M이어야 합니다.")
			return
		}
		input.Gender = &gender
	}

	if file, err := c.FormFile("profileImage"); err == nil {
		objectKey, err := h.uploadProfileImage(c, userID, file)
		if err != nil {
			return // uploadProfileImage already wrote the response
		}
		input.ProfileImage = &objectKey
	}

	profile, err := h.users.UpdateUser(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updatedUser": h.newProfileResponse(c, profile)})
}

func (h *UserHandler) uploadProfileImage(c *gin.Context, userID uint, file *multipart.FileHeader) (string, error) {
	logger := middleware.LoggerFromContext(c)

	if file.Size > maxProfileImageBytes {
		BadRequest(c, "프로필 이미지는 5MB 이하여야 합니다.")
		return "", errFileRejected
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		BadRequest(c, "프로필 이미지는 이미지 파일이어야 합니다.")
		return "", errFileRejected
	}

	if h.clamdAddr != "" {
		clean, err := h.scanFile(file)
		if err != nil {
			logger.Error("scan profile image", slog.Any("error", err))
			Internal(c, "요청 처리 중 오류가 발생했습니다.")
			return "", err
		}
		if !clean {
			BadRequest(c, "악성 파일이 감지되었습니다.")
			return "", errFileRejected
		}
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "요청 처리 중 오류가 발생했습니다.")
		return "", err
	}
	defer reader.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectKey := fmt.Sprintf("profile-images/%d/%s%s", userID, uuid.NewString(), ext)

	if _, err := h.storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType); err != nil {
		logger.Error("upload profile image", slog.Any("error", err))
		Internal(c, "요청 처리 중 오류가 발생했습니다.")
		return "", err
	}

	return objectKey, nil
}

func (h *UserHandler) scanFile(file *multipart.FileHeader) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, err
	}

	clamdClient := clamd.NewClamd(h.clamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	reader.Close()
	if err != nil {
		return false, err
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}

func (h *UserHandler) setSessionCookie(c *gin.Context, sessionID string) {
	maxAge := int(h.issuer.RefreshTokenTTL().Seconds())
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   strings.TrimSpace(h.cookieDomain),
		Expires:  time.Now().Add(h.issuer.RefreshTokenTTL()),
	})
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	for _, name := range []string{middleware.AccessTokenCookieName, middleware.SessionCookieName} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			Path:     "/",
			Secure:   isHTTPSRequest(c),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Domain:   strings.TrimSpace(h.cookieDomain),
		})
	}
}

func isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}
