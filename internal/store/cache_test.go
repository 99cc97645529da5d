// internal/store/cache_test.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"order-loadgen/internal/common/database"
	apperrors "order-loadgen/internal/common/errors"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/models"
)

// countingRepository counts reads that reach the backing store.
type countingRepository struct {
	*MemoryRepository
	gets *atomic.Int64
}

func newCountingRepository() *countingRepository {
	return &countingRepository{MemoryRepository: NewMemoryRepository(), gets: atomic.NewInt64(0)}
}

func (r *countingRepository) Get(ctx context.Context, orderUID string) (*models.Order, error) {
	r.gets.Inc()
	return r.MemoryRepository.Get(ctx, orderUID)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return mr, rc
}

func TestCachedRepository_HitSkipsDatabase(t *testing.T) {
	_, rc := setupRedis(t)
	backing := newCountingRepository()
	repo := NewCachedRepository(backing, rc, time.Minute, logger.NewTestLogger(t))
	order := models.BuildOrder(models.DefaultOrderPrefix, 1)

	require.NoError(t, repo.Save(context.Background(), order))

	got, err := repo.Get(context.Background(), order.OrderUID)
	require.NoError(t, err)
	assert.Equal(t, order, got)
	assert.Equal(t, int64(0), backing.gets.Load())
}

func TestCachedRepository_MissPopulates(t *testing.T) {
	mr, rc := setupRedis(t)
	backing := newCountingRepository()
	repo := NewCachedRepository(backing, rc, time.Minute, logger.NewTestLogger(t))
	order := models.BuildOrder(models.DefaultOrderPrefix, 2)
	require.NoError(t, backing.Save(context.Background(), order))

	_, err := repo.Get(context.Background(), order.OrderUID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(CacheKey(order.OrderUID)))
	assert.Equal(t, time.Minute, mr.TTL(CacheKey(order.OrderUID)))

	_, err = repo.Get(context.Background(), order.OrderUID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), backing.gets.Load())
}

func TestCachedRepository_NotFoundIsNotCached(t *testing.T) {
	mr, rc := setupRedis(t)
	repo := NewCachedRepository(newCountingRepository(), rc, time.Minute, logger.NewTestLogger(t))

	_, err := repo.Get(context.Background(), "unknown")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOrderNotFound))
	assert.False(t, mr.Exists(CacheKey("unknown")))
}

func TestCachedRepository_UndecodableEntryFallsThrough(t *testing.T) {
	mr, rc := setupRedis(t)
	backing := newCountingRepository()
	repo := NewCachedRepository(backing, rc, time.Minute, logger.NewTestLogger(t))
	order := models.BuildOrder(models.DefaultOrderPrefix, 3)
	require.NoError(t, backing.Save(context.Background(), order))
	require.NoError(t, mr.Set(CacheKey(order.OrderUID), "{"))

	got, err := repo.Get(context.Background(), order.OrderUID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderUID, got.OrderUID)
	assert.Equal(t, int64(1), backing.gets.Load())
}

func TestCachedRepository_RedisErrorFallsThrough(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	backing := newCountingRepository()
	repo := NewCachedRepository(backing, database.NewRedisFromClient(client), time.Minute, logger.NewTestLogger(t))

	order := models.BuildOrder(models.DefaultOrderPrefix, 4)
	require.NoError(t, backing.Save(context.Background(), order))
	data, err := json.Marshal(order)
	require.NoError(t, err)

	key := CacheKey(order.OrderUID)
	redisMock.ExpectGet(key).SetErr(errors.New("connection refused"))
	redisMock.ExpectSet(key, data, time.Minute).SetErr(errors.New("connection refused"))

	got, err := repo.Get(context.Background(), order.OrderUID)
	require.NoError(t, err)
	assert.Equal(t, order, got)
	assert.Equal(t, int64(1), backing.gets.Load())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedRepository_SaveDuplicateSkipsCache(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	backing := newCountingRepository()
	repo := NewCachedRepository(backing, database.NewRedisFromClient(client), time.Minute, logger.NewTestLogger(t))

	order := models.BuildOrder(models.DefaultOrderPrefix, 5)
	require.NoError(t, backing.Save(context.Background(), order))

	err := repo.Save(context.Background(), order)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDuplicateOrder))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
