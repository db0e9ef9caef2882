//go:build integration

package usage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fixora-ai/fixora/internal/database"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "fixora_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/fixora_test?sslmode=disable", host, port.Port())

	if err := database.RunMigrations(dsn, "../../migrations"); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresStore(t *testing.T) {
	pool := setupPostgres(t)
	store := NewPostgresStore(pool)
	ctx := context.Background()

	t.Run("increment up to limit", func(t *testing.T) {
		key := Key{ClientID: "1.2.3.4", Day: "2024-01-01"}
		for i := 1; i <= 3; i++ {
			n, ok, err := store.IncrementIfBelow(ctx, key, 3)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, i, n)
		}

		n, ok, err := store.IncrementIfBelow(ctx, key, 3)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 3, n)
	})

	t.Run("concurrent increments stop at limit", func(t *testing.T) {
		key := Key{ClientID: "5.6.7.8", Day: "2024-01-01"}
		var (
			wg       sync.WaitGroup
			accepted atomic.Int32
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok, err := store.IncrementIfBelow(ctx, key, 3); err == nil && ok {
					accepted.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(3), accepted.Load())
	})

	t.Run("sweep removes other days", func(t *testing.T) {
		_, _, err := store.IncrementIfBelow(ctx, Key{ClientID: "1.2.3.4", Day: "2024-01-02"}, 3)
		require.NoError(t, err)

		removed, err := store.Sweep(ctx, "2024-01-02")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		n, err := store.Count(ctx, Key{ClientID: "1.2.3.4", Day: "2024-01-02"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
