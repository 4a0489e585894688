// Package session 管理当前管理员会话：令牌与用户信息的读取、保存、销毁，以及通过 context 传递。
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/cache"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
)

// 会话存储中的键
const (
	KeyToken = "adminToken"
	KeyUser  = "adminUser"
)

// Session 已登录的管理员会话
type Session struct {
	Token     string           `json:"-"`
	User      domain.AdminUser `json:"user"`
	ExpiresAt time.Time        `json:"expiresAt,omitempty"`
}

// Expired 会话是否已过期，没有过期时间的会话不过期
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// FromToken 由 bearer 令牌构造会话（网关每个请求使用）
func FromToken(token, secret string) (*Session, error) {
	return fromToken(token, secret, time.Now())
}

func fromToken(token, secret string, now time.Time) (*Session, error) {
	claims, err := ParseToken(token, secret, now)
	if err != nil {
		return nil, err
	}
	s := &Session{Token: normalizeToken(token), User: claims.User()}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Manager 基于缓存存储的会话生命周期管理（终端控制台使用）
type Manager struct {
	store        cache.Cache
	secret       string
	ttl          time.Duration
	requireAdmin bool
	now          func() time.Time

	mu      sync.RWMutex
	current *Session
}

// Option Manager 可选项
type Option func(*Manager)

// WithSecret 设置令牌签名密钥
func WithSecret(secret string) Option {
	return func(m *Manager) { m.secret = secret }
}

// WithTTL 设置会话在存储中的保存时间
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithRequireAdmin 只接受管理员角色
func WithRequireAdmin(v bool) Option {
	return func(m *Manager) { m.requireAdmin = v }
}

// NewManager 创建会话管理器
func NewManager(store cache.Cache, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init 从存储读取会话：令牌缺失返回 ErrNoSession，过期返回 ErrSessionExpired 并清理存储。
// 存储中的 adminUser 优先于令牌载荷中的用户信息
func (m *Manager) Init(ctx context.Context) (*Session, error) {
	var token string
	if err := m.store.Get(ctx, KeyToken, &token); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session token: %w", err)
	}

	s, err := fromToken(token, m.secret, m.now())
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			_ = m.Teardown(ctx)
		}
		return nil, err
	}

	var user domain.AdminUser
	switch err := m.store.Get(ctx, KeyUser, &user); {
	case err == nil && user.ID != "":
		s.User = user
	case err != nil && !errors.Is(err, cache.ErrNotFound):
		return nil, fmt.Errorf("read session user: %w", err)
	}

	if m.requireAdmin && !s.User.IsAdmin() {
		return nil, ErrNotAdmin
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return s, nil
}

// Save 写入会话，存储有效期不超过令牌剩余有效期
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrNoSession
	}
	ttl := m.ttl
	if !s.ExpiresAt.IsZero() {
		remaining := s.ExpiresAt.Sub(m.now())
		if remaining <= 0 {
			return ErrSessionExpired
		}
		if ttl <= 0 || remaining < ttl {
			ttl = remaining
		}
	}
	if err := m.store.Set(ctx, KeyToken, s.Token, ttl); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	if err := m.store.Set(ctx, KeyUser, s.User, ttl); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// Teardown 注销：删除两个存储键并清除当前会话
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	if err := m.store.Del(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Current 当前会话，未初始化时为 nil
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token 当前会话的令牌，可直接作为后端客户端的令牌来源
func (m *Manager) Token(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	if s := m.Current(); s != nil {
		return s.Token
	}
	return ""
}
