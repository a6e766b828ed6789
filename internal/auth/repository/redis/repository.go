// Package redis provides a go-redis backed AccountRepository. Each account
// lives in a hash; email and username lookups go through index keys. Rotation
// uses WATCH so the compare-and-swap holds under concurrent refreshes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

const (
	accountKeyPrefix  = "auth:account:"
	emailKeyPrefix    = "auth:email:"
	usernameKeyPrefix = "auth:username:"

	// Optimistic retries when WATCH reports interference.
	maxRetries = 4
)

type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func accountKey(id string) string        { return accountKeyPrefix + id }
func emailKey(email string) string       { return emailKeyPrefix + email }
func usernameKey(username string) string { return usernameKeyPrefix + username }

func (r *RedisRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.Account, error) {
	if a, err := r.getByIndex(ctx, emailKey(email)); err != nil || a != nil {
		return a, err
	}
	return r.getByIndex(ctx, usernameKey(username))
}

func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getByIndex(ctx, emailKey(email))
}

func (r *RedisRepository) getByIndex(ctx context.Context, indexKey string) (*domain.Account, error) {
	id, err := r.rdb.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve account index: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *RedisRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	fields, err := r.rdb.HGetAll(ctx, accountKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeAccount(fields)
}

func (r *RedisRepository) Create(ctx context.Context, account *domain.Account) error {
	emailIdx := emailKey(account.Email)
	usernameIdx := usernameKey(account.Username)

	for i := 0; i < maxRetries; i++ {
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			taken, err := tx.Exists(ctx, emailIdx, usernameIdx).Result()
			if err != nil {
				return err
			}
			if taken > 0 {
				return autherror.ErrDuplicateAccount
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, emailIdx, account.ID, 0)
				pipe.Set(ctx, usernameIdx, account.ID, 0)
				pipe.HSet(ctx, accountKey(account.ID), encodeAccount(account))
				return nil
			})
			return err
		}, emailIdx, usernameIdx)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, autherror.ErrDuplicateAccount) {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return err
	}
	return fmt.Errorf("failed to create account: too many conflicts")
}

// UpdateRefreshToken overwrites the slot unconditionally. A missing account
// is a no-op so logout stays idempotent.
func (r *RedisRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	key := accountKey(id)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if exists == 0 {
		return nil
	}

	if err := r.rdb.HSet(ctx, key, "current_refresh_token", token, "updated_at", encodeTime(time.Now())).Err(); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

func (r *RedisRepository) RotateRefreshToken(ctx context.Context, id, current, next string) error {
	key := accountKey(id)

	for i := 0; i < maxRetries; i++ {
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			stored, err := tx.HGet(ctx, key, "current_refresh_token").Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return autherror.ErrAccessDenied
				}
				return err
			}
			if stored != current {
				return autherror.ErrAccessDenied
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, "current_refresh_token", next, "updated_at", encodeTime(time.Now()))
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			// Someone rotated or cleared the slot between read and write;
			// re-read so the stale caller is denied rather than retried blindly.
			continue
		}
		if err != nil && !errors.Is(err, autherror.ErrAccessDenied) {
			return fmt.Errorf("failed to rotate refresh token: %w", err)
		}
		return err
	}
	return autherror.ErrAccessDenied
}

func encodeAccount(a *domain.Account) map[string]any {
	return map[string]any{
		"id":                    a.ID,
		"email":                 a.Email,
		"username":              a.Username,
		"password_hash":         a.PasswordHash,
		"current_refresh_token": a.CurrentRefreshToken,
		"created_at":            encodeTime(a.CreatedAt),
		"updated_at":            encodeTime(a.UpdatedAt),
	}
}

func decodeAccount(fields map[string]string) (*domain.Account, error) {
	createdAt, err := decodeTime(fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	updatedAt, err := decodeTime(fields["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}

	return &domain.Account{
		ID:                  fields["id"],
		Email:               fields["email"],
		Username:            fields["username"],
		PasswordHash:        fields["password_hash"],
		CurrentRefreshToken: fields["current_refresh_token"],
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
