package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 锁相关错误
var (
	ErrLockNotAcquired = errors.New("lock not acquired")
)

// 释放锁时校验持有者，避免误删他人持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker 基于 Redis SetNX 的互斥锁
// 用于串行化同一资源上的「检查-写入」操作（如同一房间的预订创建）
type Locker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	waitTimeout   time.Duration
}

// LockerOption 锁配置选项
type LockerOption func(*Locker)

// WithTTL 设置锁的持有超时
func WithTTL(ttl time.Duration) LockerOption {
	return func(l *Locker) { l.ttl = ttl }
}

// WithWaitTimeout 设置等待获取锁的最长时间
func WithWaitTimeout(timeout time.Duration) LockerOption {
	return func(l *Locker) { l.waitTimeout = timeout }
}

// WithRetryInterval 设置重试间隔
func WithRetryInterval(interval time.Duration) LockerOption {
	return func(l *Locker) { l.retryInterval = interval }
}

// NewLocker 创建互斥锁
func NewLocker(client *redis.Client, opts ...LockerOption) *Locker {
	l := &Locker{
		client:        client,
		ttl:           10 * time.Second,
		retryInterval: 20 * time.Millisecond,
		waitTimeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire 获取锁，成功时返回释放函数
// 在 waitTimeout 内轮询重试，超时返回 ErrLockNotAcquired
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	deadline := time.Now().Add(l.waitTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// TryAcquire 尝试获取锁，不等待
func (l *Locker) TryAcquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}, nil
}

// RoomLockKey 房间级锁键
func RoomLockKey(roomID int64) string {
	return fmt.Sprintf("%sroom:%d", KeyPrefixLock, roomID)
}

// HotelRatingLockKey 酒店评分锁键
func HotelRatingLockKey(hotelID int64) string {
	return fmt.Sprintf("%shotel:%d:rating", KeyPrefixLock, hotelID)
}
