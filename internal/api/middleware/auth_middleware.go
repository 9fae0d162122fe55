package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resumehub/internal/auth"
	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/session"
)

// Cookie names shared between the middleware and the sign-in/log-out
// handlers.
const (
	AccessTokenCookieName = "accessToken"
	SessionCookieName     = "sessionId"
)

// Gin context keys carrying the authenticated identity.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthRequest is the per-request credential material the state machine
// consumes.
type AuthRequest struct {
	AccessToken string
	SessionID   string
	IP          string
	UserAgent   string
}

// AuthResult is the two-outcome product of authentication: identity alone,
// or identity plus a fresh access token the caller must surface (cookie
// rewrite).
type AuthResult struct {
	UserID               uint
	Role                 database.Role
	RefreshedAccessToken string
}

// Authenticator resolves request identity from the access token, falling
// back to the session-bound refresh token when the access token has merely
// expired. Every failure path maps onto the Unauthorized taxonomy.
type Authenticator struct {
	issuer   *auth.TokenIssuer
	sessions session.Store
}

// NewAuthenticator 构造认证器。
func NewAuthenticator(issuer *auth.TokenIssuer, sessions session.Store) *Authenticator {
	return &Authenticator{issuer: issuer, sessions: sessions}
}

// Authenticate runs the request through the token state machine:
//
//	missing token            -> Unauthorized (login required)
//	tampered/garbled token   -> Unauthorized (token tampered)
//	valid token              -> identity
//	expired token            -> refresh flow; on success identity plus a
//	                            re-issued access token
//
// The refresh flow rejects a signature-valid refresh token whose embedded
// ip/userAgent differ from the live request: a stolen token replayed from
// another client context must not mint new access tokens.
func (a *Authenticator) Authenticate(ctx context.Context, req AuthRequest) (*AuthResult, error) {
	if req.AccessToken == "" {
		return nil, errcode.Unauthorized("로그인이 필요합니다.")
	}

	claims, err := a.issuer.VerifyAccessToken(req.AccessToken)
	if err == nil {
		return &AuthResult{UserID: claims.UserID, Role: claims.Role}, nil
	}
	if !errors.Is(err, auth.ErrTokenExpired) {
		return nil, errcode.Unauthorized("토큰이 조작되었습니다.")
	}

	return a.refresh(ctx, req)
}

func (a *Authenticator) refresh(ctx context.Context, req AuthRequest) (*AuthResult, error) {
	if req.SessionID == "" {
		return nil, errcode.Unauthorized("로그인이 필요합니다.")
	}

	record, err := a.sessions.Get(ctx, req.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, errcode.Unauthorized("로그인이 필요합니다.")
	}
	if err != nil {
		return nil, err
	}

	claims, err := a.issuer.VerifyRefreshToken(record.RefreshToken)
	if err != nil {
		// Expired refresh token forces re-authentication; it is never
		// silently renewed mid-session.
		return nil, errcode.Unauthorized("로그인이 필요합니다.")
	}

	if claims.IP != req.IP || claims.UserAgent != req.UserAgent {
		return nil, errcode.Unauthorized("로그인이 필요합니다.")
	}

	accessToken, err := a.issuer.IssueAccessToken(claims.UserID, claims.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		UserID:               claims.UserID,
		Role:                 claims.Role,
		RefreshedAccessToken: accessToken,
	}, nil
}

// AuthMiddleware 校验访问令牌并将身份注入上下文；访问令牌过期但刷新成功时
// 顺带重写 Cookie。
func AuthMiddleware(authenticator *Authenticator, cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := AuthRequest{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if token, err := c.Cookie(AccessTokenCookieName); err == nil {
			req.AccessToken = token
		}
		if sessionID, err := c.Cookie(SessionCookieName); err == nil {
			req.SessionID = sessionID
		}

		result, err := authenticator.Authenticate(c.Request.Context(), req)
		if err != nil {
			var appErr *errcode.Error
			if errors.As(err, &appErr) {
				c.AbortWithStatusJSON(errcode.HTTPStatus(appErr.Kind), gin.H{"message": appErr.Message})
				return
			}
			// Infrastructure failure, not a credential problem. The cause
			// stays server-side.
			LoggerFromContext(c).Error("authenticate failed", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "요청 처리 중 오류가 발생했습니다."})
			return
		}

		if result.RefreshedAccessToken != "" {
			setAccessTokenCookie(c, result.RefreshedAccessToken, authenticator.issuer.AccessTokenTTL(), cookieDomain)
		}

		c.Set(ContextUserIDKey, result.UserID)
		c.Set(ContextRoleKey, result.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Runs after
// AuthMiddleware.
func RequireRole(roles ...database.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(ContextRoleKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다."})
			return
		}
		role, ok := value.(database.Role)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다."})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "권한이 없습니다."})
	}
}

// SetAccessTokenCookie writes the access token cookie the middleware and the
// sign-in handler share.
func SetAccessTokenCookie(c *gin.Context, token string, ttl time.Duration, cookieDomain string) {
	setAccessTokenCookie(c, token, ttl, cookieDomain)
}

func setAccessTokenCookie(c *gin.Context, token string, ttl time.Duration, cookieDomain string) {
	maxAge := int(ttl.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   strings.TrimSpace(cookieDomain),
		Expires:  time.Now().Add(ttl),
	})
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
