package helpers

import (
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces every key the API writes.
const RedisKeyPrefix = "mycookbook"

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// RedisKey joins parts under RedisKeyPrefix, e.g. mycookbook:rating:<id>.
func RedisKey(parts ...string) string {
	return RedisKeyPrefix + ":" + strings.Join(parts, ":")
}
