// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-loadgen/internal/common/config"
	"order-loadgen/internal/common/database"
	httpclient "order-loadgen/internal/common/http"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/models"
	"order-loadgen/internal/seeder"
	"order-loadgen/internal/server"
	"order-loadgen/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func seederConfig(baseURL string, size int, includeLookup bool) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "order-loadgen", Environment: "e2e"},
		Target: config.TargetConfig{
			BaseURL:             baseURL,
			OrdersPath:          "/orders",
			Timeout:             10000,
			MaxIdleConnsPerHost: 64,
		},
		Batch: config.BatchConfig{
			Size:            size,
			Concurrency:     64,
			IncludeLookup:   includeLookup,
			IDPrefix:        models.DefaultOrderPrefix,
			ValidatePayload: true,
		},
	}
}

func runSeeder(t *testing.T, cfg *config.Config) (*seeder.Summary, []string) {
	client := httpclient.NewClient(httpclient.SessionConfig{
		BaseURL:             cfg.Target.BaseURL,
		Timeout:             config.GetDuration(cfg.Target.Timeout),
		MaxIdleConnsPerHost: cfg.Target.MaxIdleConnsPerHost,
	})
	defer client.Close()

	out := &bytes.Buffer{}
	summary := seeder.New(cfg, client, out, nil, logger.NewTestLogger(t)).Run(context.Background())
	return summary, strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestFullStack_SeedAndLookup(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	backing := store.NewMemoryRepository()
	rc := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	repo := store.NewCachedRepository(backing, rc, time.Minute, logger.NewTestLogger(t))

	srv := httptest.NewServer(server.NewRouter(repo, logger.NewTestLogger(t)))
	defer srv.Close()

	const n = 300
	summary, lines := runSeeder(t, seederConfig(srv.URL, n, true))

	assert.Equal(t, int64(n), summary.Create.Succeeded)
	require.NotNil(t, summary.Lookup)
	assert.Equal(t, int64(n), summary.Lookup.Succeeded)
	assert.Equal(t, n, backing.Len())
	assert.Len(t, lines, 2*n)
	assert.True(t, mr.Exists(store.CacheKey(models.OrderUID(models.DefaultOrderPrefix, n))))
	t.Log("✅ every order created and read back")
}

func TestFullStack_RerunConflicts(t *testing.T) {
	srv := httptest.NewServer(server.NewRouter(store.NewMemoryRepository(), logger.NewTestLogger(t)))
	defer srv.Close()

	cfg := seederConfig(srv.URL, 10, false)
	first, _ := runSeeder(t, cfg)
	second, lines := runSeeder(t, cfg)

	assert.Equal(t, int64(10), first.Create.Succeeded)
	assert.Equal(t, int64(10), second.Create.Failed)
	for i := 1; i <= 10; i++ {
		assert.Contains(t, lines, fmt.Sprintf("Failed to post order %d, status code: 409", i))
	}
}

// TestFullStack_Postgres runs against a live database. Set E2E_POSTGRES=1
// and the DB_* variables to enable it.
func TestFullStack_Postgres(t *testing.T) {
	if os.Getenv("E2E_POSTGRES") == "" {
		t.Skip("E2E_POSTGRES not set")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateServer())

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	defer pg.Close()
	require.NoError(t, pg.Ping(context.Background()), "❌ PostgreSQL ping failed")

	repo := store.NewPostgresRepository(pg, logger.NewTestLogger(t))
	require.NoError(t, repo.EnsureSchema(context.Background()))

	srv := httptest.NewServer(server.NewRouter(repo, logger.NewTestLogger(t)))
	defer srv.Close()

	// a fresh prefix keeps reruns from colliding with earlier rows
	scfg := seederConfig(srv.URL, 20, true)
	scfg.Batch.IDPrefix = fmt.Sprintf("e2e%d", time.Now().UnixNano())

	summary, _ := runSeeder(t, scfg)
	assert.Equal(t, int64(20), summary.Create.Succeeded)
	require.NotNil(t, summary.Lookup)
	assert.Equal(t, int64(20), summary.Lookup.Succeeded)

	_, err = pg.Exec(context.Background(), `DELETE FROM orders_json WHERE order_uid LIKE $1`, scfg.Batch.IDPrefix+"%")
	assert.NoError(t, err)
	t.Log("✅ PostgreSQL round trip successful")
}
