package application

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

// AggregateCache memoises rating aggregates. Implementations swallow their
// own failures; a cache miss is always safe.
//
// Every Invalidate bumps a per-recipe generation. Get reports the generation
// seen on a miss and Set stores only while it is unchanged, so a summary
// computed before a concurrent write or delete is never cached.
type AggregateCache interface {
	Get(ctx context.Context, recipeID string) (sum entity.RatingSummary, gen int64, ok bool)
	Set(ctx context.Context, recipeID string, gen int64, s entity.RatingSummary)
	Invalidate(ctx context.Context, recipeID string)
}

// generations outlive any summary so a reader cannot see one reset mid-flight
const ratingGenTTL = 24 * time.Hour

func ratingKey(recipeID string) string {
	return helpers.RedisKey("rating", recipeID)
}

func ratingGenKey(recipeID string) string {
	return helpers.RedisKey("rating", recipeID, "gen")
}

// SET the summary only if the generation still matches ARGV[1]
var setIfGenScript = redis.NewScript(`
local gen = tonumber(redis.call("GET", KEYS[2]) or "0")
if gen ~= tonumber(ARGV[1]) then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
  redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// DEL the summary and bump the generation in one step
var invalidateScript = redis.NewScript(`
redis.call("DEL", KEYS[1])
local gen = redis.call("INCR", KEYS[2])
redis.call("PEXPIRE", KEYS[2], ARGV[1])
return gen
`)

// RedisAggregateCache keeps aggregates as JSON strings with a TTL next to a
// generation counter.
type RedisAggregateCache struct {
	RDB    redis.Cmdable
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewRedisAggregateCache(rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *RedisAggregateCache {
	return &RedisAggregateCache{RDB: rdb, TTL: ttl, Logger: logger}
}

func (c *RedisAggregateCache) warn(err error, op, recipeID string) {
	if c.Logger != nil {
		c.Logger.WithError(err).WithField("recipe_id", recipeID).Warn("rating cache " + op + " failed")
	}
}

// Get reads the summary and the generation in one round trip. A failed read
// reports generation -1, which no Set can match.
func (c *RedisAggregateCache) Get(ctx context.Context, recipeID string) (entity.RatingSummary, int64, bool) {
	vals, err := c.RDB.MGet(ctx, ratingKey(recipeID), ratingGenKey(recipeID)).Result()
	if err != nil || len(vals) != 2 {
		if err != nil {
			c.warn(err, "get", recipeID)
		}
		return entity.RatingSummary{}, -1, false
	}
	var gen int64
	if g, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(g, 10, 64); err != nil {
			c.warn(err, "get", recipeID)
			return entity.RatingSummary{}, -1, false
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return entity.RatingSummary{}, gen, false
	}
	var s entity.RatingSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		c.warn(err, "get", recipeID)
		return entity.RatingSummary{}, gen, false
	}
	return s, gen, true
}

func (c *RedisAggregateCache) Set(ctx context.Context, recipeID string, gen int64, s entity.RatingSummary) {
	if gen < 0 {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		c.warn(err, "set", recipeID)
		return
	}
	keys := []string{ratingKey(recipeID), ratingGenKey(recipeID)}
	if err := setIfGenScript.Run(ctx, c.RDB, keys, gen, string(b), c.TTL.Milliseconds()).Err(); err != nil {
		c.warn(err, "set", recipeID)
	}
}

func (c *RedisAggregateCache) Invalidate(ctx context.Context, recipeID string) {
	keys := []string{ratingKey(recipeID), ratingGenKey(recipeID)}
	if err := invalidateScript.Run(ctx, c.RDB, keys, ratingGenTTL.Milliseconds()).Err(); err != nil {
		c.warn(err, "invalidate", recipeID)
	}
}
