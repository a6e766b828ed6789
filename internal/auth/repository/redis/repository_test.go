package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	redisrepo "github.com/thienan2003bt/awp-user-registration-be/internal/auth/repository/redis"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

func newTestRepository(t *testing.T) *redisrepo.RedisRepository {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redisrepo.NewRedisRepository(rdb)
}

func newAccount(id, email, username string) *domain.Account {
	now := time.Now()
	return &domain.Account{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRedisRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)

	account := newAccount("id-1", "a@x.com", "alice")
	require.NoError(t, r.Create(ctx, account))

	t.Run("by id", func(t *testing.T) {
		got, err := r.GetByID(ctx, "id-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, account.Email, got.Email)
		assert.Equal(t, account.Username, got.Username)
		assert.Equal(t, account.PasswordHash, got.PasswordHash)
		assert.WithinDuration(t, account.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := r.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "id-1", got.ID)
	})

	t.Run("by email or username", func(t *testing.T) {
		got, err := r.GetByEmailOrUsername(ctx, "other@x.com", "alice")
		require.NoError(t, err)
		require.NotNil(t, got)

		got, err = r.GetByEmailOrUsername(ctx, "a@x.com", "other")
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("absent is nil, nil", func(t *testing.T) {
		got, err := r.GetByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = r.GetByEmail(ctx, "ghost@x.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		err := r.Create(ctx, newAccount("id-2", "a@x.com", "bob"))
		assert.ErrorIs(t, err, autherror.ErrDuplicateAccount)

		err = r.Create(ctx, newAccount("id-3", "b@x.com", "alice"))
		assert.ErrorIs(t, err, autherror.ErrDuplicateAccount)
	})
}

func TestRedisRepository_UpdateRefreshToken(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)
	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))

	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", "tok-1"))
	got, _ := r.GetByID(ctx, "id-1")
	assert.Equal(t, "tok-1", got.CurrentRefreshToken)

	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", ""))
	got, _ = r.GetByID(ctx, "id-1")
	assert.Empty(t, got.CurrentRefreshToken)

	// missing account: no-op, and no stray hash is created
	require.NoError(t, r.UpdateRefreshToken(ctx, "ghost", "tok"))
	got, err := r.GetByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepository_RotateRefreshToken(t *testing.T) {
	ctx := context.Background()
	r := newTestRepository(t)
	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))
	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", "tok-1"))

	require.NoError(t, r.RotateRefreshToken(ctx, "id-1", "tok-1", "tok-2"))
	got, _ := r.GetByID(ctx, "id-1")
	assert.Equal(t, "tok-2", got.CurrentRefreshToken)

	t.Run("stale current denied", func(t *testing.T) {
		err := r.RotateRefreshToken(ctx, "id-1", "tok-1", "tok-3")
		assert.ErrorIs(t, err, autherror.ErrAccessDenied)
	})

	t.Run("missing account denied", func(t *testing.T) {
		err := r.RotateRefreshToken(ctx, "ghost", "tok-2", "tok-3")
		assert.ErrorIs(t, err, autherror.ErrAccessDenied)
	})

	t.Run("cleared slot denied", func(t *testing.T) {
		require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", ""))
		err := r.RotateRefreshToken(ctx, "id-1", "tok-2", "tok-4")
		assert.ErrorIs(t, err, autherror.ErrAccessDenied)
	})
}
