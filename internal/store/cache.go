// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"order-loadgen/internal/common/database"
	apperrors "order-loadgen/internal/common/errors"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/common/metrics"
	"order-loadgen/internal/models"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// CacheKey is the Redis key an order is cached under.
func CacheKey(orderUID string) string {
	return "order:" + orderUID
}

// CachedRepository is a read-through Redis cache in front of another
// Repository. Redis failures are logged and never fail a request.
type CachedRepository struct {
	next   Repository
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next Repository, rc *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		redis:  rc,
		ttl:    ttl,
		logger: log,
	}
}

func (r *CachedRepository) Save(ctx context.Context, order *models.Order) error {
	if err := r.next.Save(ctx, order); err != nil {
		return err
	}
	r.store(ctx, order)
	return nil
}

func (r *CachedRepository) Get(ctx context.Context, orderUID string) (*models.Order, error) {
	key := CacheKey(orderUID)

	val, err := r.redis.Get(ctx, key)
	switch {
	case err == nil:
		var order models.Order
		if jsonErr := json.Unmarshal([]byte(val), &order); jsonErr == nil {
			metrics.OrderCacheLookups.WithLabelValues(cacheHit).Inc()
			return &order, nil
		}
		metrics.OrderCacheLookups.WithLabelValues(cacheError).Inc()
		r.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
		metrics.OrderCacheLookups.WithLabelValues(cacheMiss).Inc()
	default:
		metrics.OrderCacheLookups.WithLabelValues(cacheError).Inc()
		r.logger.Warn("order cache read failed, using database", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheUnavailableError(err).Error(),
		})
	}

	order, err := r.next.Get(ctx, orderUID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, order)
	return order, nil
}

func (r *CachedRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *CachedRepository) store(ctx context.Context, order *models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, CacheKey(order.OrderUID), data, r.ttl); err != nil {
		r.logger.Warn("order cache write failed", map[string]interface{}{
			"orderUid": order.OrderUID,
			"error":    err.Error(),
		})
	}
}
