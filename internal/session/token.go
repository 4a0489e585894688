package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
)

// 令牌相关错误
var (
	ErrNoSession      = errors.New("no admin session")
	ErrSessionExpired = errors.New("admin session expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrNotAdmin       = errors.New("admin role required")
)

// Claims 后端签发的访问令牌载荷。用户 ID 可能出现在 id、userId 或 sub 中
type Claims struct {
	LegacyID string          `json:"id,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
	Role     domain.UserRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// User 由载荷构造用户信息
func (c *Claims) User() domain.AdminUser {
	id := c.UserID
	if id == "" {
		id = c.LegacyID
	}
	if id == "" {
		id = c.Subject
	}
	return domain.AdminUser{ID: id, Name: c.Name, Email: c.Email, Role: c.Role}
}

// ParseToken 解析令牌。secret 非空时校验 HMAC 签名；为空时只解析载荷，签名交由后端校验。
// 两种情况下都会检查过期时间，没有 exp 的令牌视为不过期
func ParseToken(token, secret string, now time.Time) (*Claims, error) {
	token = normalizeToken(token)
	if token == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithTimeFunc(func() time.Time { return now }),
		)
		parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrSessionExpired
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !parsed.Valid {
			return nil, ErrInvalidToken
		}
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// normalizeToken 去掉首尾空白与可选的 "Bearer " 前缀
func normalizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
}
