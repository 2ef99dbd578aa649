// Package session 服务端登录会话。Cookie 只携带签名后的引用，
// 删除这里的记录即可立即注销。
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store 由 MemoryStore 和 RedisStore 实现
type Store interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteUser 注销用户除 keep 以外的全部会话（keep 为空则全部注销），
	// 用于重置或修改密码之后
	DeleteUser(ctx context.Context, userID uint, keep string) error
}

func newSession(userID uint, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
