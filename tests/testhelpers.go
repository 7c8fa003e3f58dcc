package tests

import (
	"context"
	"testing"
	"time"

	"github.com/federal-associados/app-cadastro/internal/redisclient"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

// TestContainers holds references to test containers
type TestContainers struct {
	RedisContainer *redis.RedisContainer
	Redis          *redisclient.Client
	Cleanup        func()
}

// SetupTestContainers starts a Redis container and connects a traced client
// to it. The test is skipped under -short or when Docker is unavailable.
func SetupTestContainers(t *testing.T) *TestContainers {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	redisContainer, err := redis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("skipping container test, Docker unavailable: %v", err)
	}

	redisURI, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get Redis connection string")

	opts, err := goredis.ParseURL(redisURI)
	require.NoError(t, err, "Failed to parse Redis connection string")

	client := redisclient.NewClient(goredis.NewClient(opts))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(pingCtx).Err(), "Failed to ping Redis")

	cleanup := func() {
		_ = client.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return &TestContainers{
		RedisContainer: redisContainer,
		Redis:          client,
		Cleanup:        cleanup,
	}
}
