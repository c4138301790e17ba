package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"lucy-college/internal/apperr"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RedisLedger keeps one key per revoked token, expiring with the token itself,
// so no pruning is needed.
type RedisLedger struct {
	rdb    *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisClient parses url and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func NewRedisLedger(rdb *redis.Client, logger *slog.Logger) *RedisLedger {
	return &RedisLedger{rdb: rdb, logger: logger, now: time.Now}
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

func (l *RedisLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		// Expired tokens already fail verification.
		l.logger.DebugContext(ctx, "skipping revocation of expired token")
		return nil
	}

	ok, err := l.rdb.SetNX(ctx, revokedKey(token), expiresAt.UTC().Unix(), ttl).Result()
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if !ok {
		return apperr.New(apperr.KindDuplicateToken, "token already revoked")
	}
	return nil
}

func (l *RedisLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := l.rdb.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
