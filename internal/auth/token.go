package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"resumehub/internal/database"
)

// Token verification failures callers are expected to branch on.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenKind selects which signing secret verifies a token. Access and
// refresh tokens never share a key, so one kind can never pass as the other.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenPair 封装访问令牌与刷新令牌。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims 表示 JWT 中的业务字段，便于中间件读取用户信息。
// IP and UserAgent are only present on refresh tokens; they bind the token
// to the client context it was issued to.
type TokenClaims struct {
	UserID    uint          `json:"user_id"`
	Role      database.Role `json:"role"`
	TokenType TokenKind     `json:"token_type"`
	IP        string        `json:"ip,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with per-kind secrets.
type TokenIssuer struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewTokenIssuer 构造签发器。Secrets must be distinct non-empty strings.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if accessSecret == "" {
		return nil, errors.New("access secret is required")
	}
	if refreshSecret == "" {
		return nil, errors.New("refresh secret is required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	return &TokenIssuer{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}, nil
}

// IssueAccessToken 签发短期访问令牌。
func (i *TokenIssuer) IssueAccessToken(userID uint, role database.Role) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenType: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTokenTTL)),
		},
	}
	return i.signClaims(claims, i.accessSecret)
}

// IssueRefreshToken 签发长期刷新令牌，并绑定客户端 IP/User-Agent。
func (i *TokenIssuer) IssueRefreshToken(userID uint, role database.Role, ip, userAgent string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenType: KindRefresh,
		IP:        ip,
		UserAgent: userAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTokenTTL)),
		},
	}
	return i.signClaims(claims, i.refreshSecret)
}

// IssueTokenPair 签发一对访问/刷新令牌。
func (i *TokenIssuer) IssueTokenPair(userID uint, role database.Role, ip, userAgent string) (TokenPair, error) {
	accessToken, err := i.IssueAccessToken(userID, role)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := i.IssueRefreshToken(userID, role, ip, userAgent)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken 解析并验证访问令牌。
func (i *TokenIssuer) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	return i.verify(tokenString, KindAccess, i.accessSecret)
}

// VerifyRefreshToken 解析并验证刷新令牌。
func (i *TokenIssuer) VerifyRefreshToken(tokenString string) (*TokenClaims, error) {
	return i.verify(tokenString, KindRefresh, i.refreshSecret)
}

func (i *TokenIssuer) verify(tokenString string, kind TokenKind, secret []byte) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.TokenType != kind {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func (i *TokenIssuer) signClaims(claims TokenClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// AccessTokenTTL 暴露访问令牌有效期。
func (i *TokenIssuer) AccessTokenTTL() time.Duration {
	return i.accessTokenTTL
}

// RefreshTokenTTL 暴露刷新令牌有效期。
func (i *TokenIssuer) RefreshTokenTTL() time.Duration {
	return i.refreshTokenTTL
}
