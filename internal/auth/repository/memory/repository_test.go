package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/repository/memory"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

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

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := memory.NewMemoryRepository()

	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))

	t.Run("by id", func(t *testing.T) {
		a, err := r.GetByID(ctx, "id-1")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "a@x.com", a.Email)
	})

	t.Run("by email", func(t *testing.T) {
		a, err := r.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "id-1", a.ID)
	})

	t.Run("by email or username", func(t *testing.T) {
		a, err := r.GetByEmailOrUsername(ctx, "other@x.com", "alice")
		require.NoError(t, err)
		require.NotNil(t, a)

		a, err = r.GetByEmailOrUsername(ctx, "a@x.com", "other")
		require.NoError(t, err)
		require.NotNil(t, a)
	})

	t.Run("absent is nil, nil", func(t *testing.T) {
		a, err := r.GetByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, a)

		a, err = r.GetByEmail(ctx, "ghost@x.com")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		err := r.Create(ctx, newAccount("id-2", "a@x.com", "bob"))
		assert.ErrorIs(t, err, autherror.ErrDuplicateAccount)

		err = r.Create(ctx, newAccount("id-3", "b@x.com", "alice"))
		assert.ErrorIs(t, err, autherror.ErrDuplicateAccount)
	})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := memory.NewMemoryRepository()
	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))

	a, err := r.GetByID(ctx, "id-1")
	require.NoError(t, err)
	a.CurrentRefreshToken = "mutated"

	fresh, err := r.GetByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Empty(t, fresh.CurrentRefreshToken)
}

func TestMemoryRepository_UpdateRefreshToken(t *testing.T) {
	ctx := context.Background()
	r := memory.NewMemoryRepository()
	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))

	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", "tok-1"))
	a, _ := r.GetByID(ctx, "id-1")
	assert.Equal(t, "tok-1", a.CurrentRefreshToken)

	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", ""))
	a, _ = r.GetByID(ctx, "id-1")
	assert.Empty(t, a.CurrentRefreshToken)

	// missing account: no-op, not an error
	require.NoError(t, r.UpdateRefreshToken(ctx, "ghost", "tok"))
}

func TestMemoryRepository_RotateRefreshToken(t *testing.T) {
	ctx := context.Background()
	r := memory.NewMemoryRepository()
	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))
	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", "tok-1"))

	require.NoError(t, r.RotateRefreshToken(ctx, "id-1", "tok-1", "tok-2"))

	a, _ := r.GetByID(ctx, "id-1")
	assert.Equal(t, "tok-2", a.CurrentRefreshToken)

	t.Run("stale current denied", func(t *testing.T) {
		err := r.RotateRefreshToken(ctx, "id-1", "tok-1", "tok-3")
		assert.ErrorIs(t, err, autherror.ErrAccessDenied)
	})

	t.Run("missing account denied", func(t *testing.T) {
		err := r.RotateRefreshToken(ctx, "ghost", "tok-2", "tok-3")
		assert.ErrorIs(t, err, autherror.ErrAccessDenied)
	})
}

func TestMemoryRepository_RotateRace(t *testing.T) {
	ctx := context.Background()
	r := memory.NewMemoryRepository()
	require.NoError(t, r.Create(ctx, newAccount("id-1", "a@x.com", "alice")))
	require.NoError(t, r.UpdateRefreshToken(ctx, "id-1", "stale"))

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.RotateRefreshToken(ctx, "id-1", "stale", "fresh")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, autherror.ErrAccessDenied)
		}
	}
	assert.Equal(t, 1, wins)
}
