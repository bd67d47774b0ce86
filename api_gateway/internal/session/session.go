// Package session maps an Authorization header to the signed-in user.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"photoshare/api_gateway/internal/store"
	"photoshare/pkg/logging"
	"photoshare/pkg/models"
)

// Resolver looks up the user owning a token. A token that matches nobody
// yields (nil, nil).
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// TokenFromHeader accepts a raw token or "Bearer <token>".
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// StoreLookup resolves tokens directly against the user collection.
type StoreLookup struct {
	Store store.Store
}

func (l StoreLookup) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	u, err := l.Store.FindUserByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

const keyPrefix = "photoshare:session:"

// RedisCache fronts StoreLookup with a token→login cache. A cached login is
// only trusted after the loaded user's token is compared with the presented
// one, so a rotated token never resolves to a stale session.
type RedisCache struct {
	client goredis.UniversalClient
	store  store.Store
	ttl    time.Duration
	logger logging.Logger
}

func NewRedisCache(client goredis.UniversalClient, s store.Store, ttl time.Duration, logger logging.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{client: client, store: s, ttl: ttl, logger: logger}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	key := cacheKey(token)

	login, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		u, err := c.store.FindUserByLogin(ctx, login)
		if err == nil && u.GithubToken == token {
			return u, nil
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			c.warn(delErr, "Failed to drop stale session cache entry")
		}
	case errors.Is(err, goredis.Nil):
	default:
		c.warn(err, "Session cache read failed; falling back to store")
	}

	u, err := StoreLookup{Store: c.store}.Resolve(ctx, token)
	if err != nil || u == nil {
		return u, err
	}
	if err := c.client.Set(ctx, key, u.GithubLogin, c.ttl).Err(); err != nil {
		c.warn(err, "Session cache write failed")
	}
	return u, nil
}

func (c *RedisCache) warn(err error, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).Warn(msg)
	}
}
