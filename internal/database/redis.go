package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pushp314/prompttutor-backend/internal/config"
)

var Redis *redis.Client
var Ctx = context.Background()

// InitRedis connects to Redis if configured. Redis only backs the
// leaderboard response cache; the service degrades gracefully without it.
func InitRedis() {
	if config.AppConfig.RedisAddr == "" {
		log.Println("Redis not configured, leaderboard caching disabled")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Leaderboard caching will be disabled.", err)
		Redis = nil
		return
	}
	log.Println("Connected to Redis successfully")
}

// CacheGet reads a cached JSON value into dest. Returns false on miss,
// decode failure, or when Redis is unavailable.
func CacheGet(key string, dest interface{}) bool {
	if Redis == nil {
		return false
	}
	raw, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

// CacheSet stores a JSON value with a TTL, best-effort.
func CacheSet(key string, value interface{}, ttl time.Duration) {
	if Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	Redis.Set(Ctx, key, raw, ttl)
}

// CacheInvalidate drops all cached entries under a prefix (call on new
// submission so stale leaderboards are not served).
func CacheInvalidate(prefix string) {
	if Redis == nil {
		return
	}
	iter := Redis.Scan(Ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(Ctx) {
		Redis.Del(Ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Warning: Cache invalidation for %q incomplete: %v", prefix, err)
	}
}
