package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"staffhub-backend/shared/config"
)

type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

// RoleCacheData is the cached result of a role and approval-status lookup.
// Role gates the admin panels and Status gates login, so both invalidate
// together on any approval decision.
type RoleCacheData struct {
	UserID         uuid.UUID `json:"user_id"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CachedAt       time.Time `json:"cached_at"`
}

var (
	globalCacheManager *CacheManager
	RoleTTL            = 15 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// GenerateRoleKey generates the cache key for a user's role lookup
func GenerateRoleKey(userID uuid.UUID) string {
	return fmt.Sprintf("role:user:%s", userID)
}

// SetRoleCache caches a role lookup result
func (cm *CacheManager) SetRoleCache(data *RoleCacheData) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	data.CachedAt = time.Now()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %v", err)
	}

	key := GenerateRoleKey(data.UserID)
	if err := cm.client.Set(cm.ctx, key, jsonData, RoleTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %v", err)
	}

	return nil
}

// GetRoleCache retrieves a cached role lookup result
func (cm *CacheManager) GetRoleCache(userID uuid.UUID) (*RoleCacheData, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}

	key := GenerateRoleKey(userID)
	jsonData, err := cm.client.Get(cm.ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Cache read failed for %s: %v", key, err)
		}
		return nil, false
	}

	var data RoleCacheData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		log.Printf("⚠️ Failed to unmarshal cache data for %s: %v", key, err)
		return nil, false
	}

	return &data, true
}

// InvalidateRoleCache drops the cached role for a user. Called after every
// approval decision and role change.
func (cm *CacheManager) InvalidateRoleCache(userID uuid.UUID) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	key := GenerateRoleKey(userID)
	if err := cm.client.Del(cm.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %v", err)
	}

	log.Printf("🗑️ Role cache invalidated: %s", key)
	return nil
}

// Close closes the underlying Redis connection
func (cm *CacheManager) Close() error {
	if cm == nil || cm.client == nil {
		return nil
	}
	return cm.client.Close()
}
