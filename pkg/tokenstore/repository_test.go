package tokenstore_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/migrations"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/pg"
	"github.com/dmitrymomot/oauthgate/pkg/tokenstore"
)

// runRepositoryContract exercises behaviour every Repository must share.
func runRepositoryContract(t *testing.T, repo tokenstore.Repository) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		tok, err := repo.GetToken(ctx, uuid.NewString(), "google")
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
		assert.Nil(t, tok)
	})

	t.Run("create then get", func(t *testing.T) {
		owner := uuid.NewString()

		created, err := repo.CreateToken(ctx, owner, "google", "k1:n:t:c")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, owner, created.OwnerExternalID)
		assert.Equal(t, "google", created.Provider)
		assert.Equal(t, "k1:n:t:c", created.EncryptedSecret)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := repo.GetToken(ctx, owner, "google")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "k1:n:t:c", got.EncryptedSecret)
	})

	t.Run("create duplicate", func(t *testing.T) {
		owner := uuid.NewString()

		_, err := repo.CreateToken(ctx, owner, "google", "first")
		require.NoError(t, err)

		_, err = repo.CreateToken(ctx, owner, "google", "second")
		assert.ErrorIs(t, err, tokenstore.ErrTokenExists)

		got, err := repo.GetToken(ctx, owner, "google")
		require.NoError(t, err)
		assert.Equal(t, "first", got.EncryptedSecret)
	})

	t.Run("update missing creates nothing", func(t *testing.T) {
		owner := uuid.NewString()

		tok, err := repo.UpdateToken(ctx, "google", owner, "secret")
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
		assert.Nil(t, tok)

		_, err = repo.GetToken(ctx, owner, "google")
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	})

	t.Run("update replaces secret and keeps provider", func(t *testing.T) {
		owner := uuid.NewString()

		created, err := repo.CreateToken(ctx, owner, "google", "old")
		require.NoError(t, err)

		updated, err := repo.UpdateToken(ctx, "google", owner, "new")
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "google", updated.Provider)
		assert.Equal(t, "new", updated.EncryptedSecret)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("pairs are independent", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()

		_, err := repo.CreateToken(ctx, a, "google", "a-secret")
		require.NoError(t, err)
		_, err = repo.CreateToken(ctx, b, "google", "b-secret")
		require.NoError(t, err)

		_, err = repo.UpdateToken(ctx, "google", a, "a-rotated")
		require.NoError(t, err)

		got, err := repo.GetToken(ctx, b, "google")
		require.NoError(t, err)
		assert.Equal(t, "b-secret", got.EncryptedSecret)
	})

	t.Run("concurrent create yields one row", func(t *testing.T) {
		owner := uuid.NewString()

		var (
			wg      sync.WaitGroup
			created atomic.Int32
			exists  atomic.Int32
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.CreateToken(ctx, owner, "google", "secret")
				switch {
				case err == nil:
					created.Add(1)
				case assert.ErrorIs(t, err, tokenstore.ErrTokenExists):
					exists.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, int32(7), exists.Load())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := repo.CreateToken(ctx, uuid.NewString(), "google", "")
		assert.ErrorIs(t, err, tokenstore.ErrInvalidInput)
	})
}

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := tokenstore.NewMemoryRepository()
	runRepositoryContract(t, repo)

	before := repo.Len()
	_, err := repo.UpdateToken(context.Background(), "google", uuid.NewString(), "secret")
	assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	assert.Equal(t, before, repo.Len())
}

func TestPostgresRepository(t *testing.T) {
	connString := os.Getenv("PG_CONN_URL")
	if connString == "" || testing.Short() {
		t.Skip("PG_CONN_URL not set, skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := pg.Config{
		ConnectionString: connString,
		MaxOpenConns:     4,
		MaxIdleConns:     1,
		RetryAttempts:    3,
		RetryInterval:    time.Second,
		MigrationsTable:  "schema_migrations",
	}

	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, migrations.FS, cfg, logger.Discard()))

	runRepositoryContract(t, tokenstore.NewPostgresRepository(pool))

	t.Run("non uuid owner", func(t *testing.T) {
		repo := tokenstore.NewPostgresRepository(pool)
		_, err := repo.GetToken(ctx, "not-a-uuid", "google")
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
		_, err = repo.CreateToken(ctx, "not-a-uuid", "google", "secret")
		assert.ErrorIs(t, err, tokenstore.ErrInvalidInput)
	})

	countRows := func(pool *pgxpool.Pool, owner string) int {
		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM oauth_tokens WHERE external_id = $1`, uuid.MustParse(owner)).Scan(&n))
		return n
	}

	t.Run("update missing leaves table untouched", func(t *testing.T) {
		owner := uuid.NewString()
		_, err := tokenstore.NewPostgresRepository(pool).UpdateToken(ctx, "google", owner, "secret")
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
		assert.Equal(t, 0, countRows(pool, owner))
	})
}
