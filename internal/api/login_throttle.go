package api

import (
	"context"
	"time"
)

// 登录限流与账号锁定的 Redis 键。失败计数与锁共用同一个 TTL。
const (
	loginRateKeyPrefix = "rate:login:"
	loginLockKeyPrefix = "lock:login:"
	loginFailKeyPrefix = "lock:login:fail:"
)

// loginRateExceeded 统计当前小时内 IP+账号 的登录尝试次数。Redis 不可用
// 时放行，登录不依赖限流存活。
func (h *UserHandler) loginRateExceeded(ctx context.Context, ip, loginKey string) bool {
	if h.loginRateLimitPerHour <= 0 {
		return false
	}
	key := loginRateKeyPrefix + ip + ":" + loginKey + ":" + time.Now().UTC().Format("2006010215")
	count, err := h.redis.Incr(ctx, key).Result()
	if err != nil {
		return false
	}
	if count == 1 {
		_ = h.redis.Expire(ctx, key, time.Hour).Err()
	}
	return count > int64(h.loginRateLimitPerHour)
}

// loginLocked 判断账号是否处于失败次数触发的临时锁定中。
func (h *UserHandler) loginLocked(ctx context.Context, loginKey string) bool {
	ttl, err := h.redis.TTL(ctx, loginLockKeyPrefix+loginKey).Result()
	return err == nil && ttl > 0
}

// recordLoginFailure 累计失败次数，达到阈值时对账号加锁。
func (h *UserHandler) recordLoginFailure(ctx context.Context, loginKey string) {
	failKey := loginFailKeyPrefix + loginKey
	count, err := h.redis.Incr(ctx, failKey).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = h.redis.Expire(ctx, failKey, h.loginLockTTL).Err()
	}
	if h.loginLockThreshold > 0 && count >= int64(h.loginLockThreshold) {
		_ = h.redis.Set(ctx, loginLockKeyPrefix+loginKey, "1", h.loginLockTTL).Err()
	}
}

func (h *UserHandler) clearLoginFailures(ctx context.Context, loginKey string) {
	_ = h.redis.Del(ctx, loginFailKeyPrefix+loginKey).Err()
}
