package domain

import "context"

// AccountRepository is the durable credential store. Lookup methods return
// (nil, nil) when no account matches.
//
// UpdateRefreshToken overwrites the refresh slot unconditionally and is used
// by login and logout. RotateRefreshToken is a compare-and-swap used by
// refresh: it replaces the slot only while it still equals current, and
// returns autherror.ErrAccessDenied otherwise, so that of two concurrent
// rotations with the same stale token exactly one succeeds.
type AccountRepository interface {
	GetByEmailOrUsername(ctx context.Context, email, username string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	UpdateRefreshToken(ctx context.Context, id, token string) error
	RotateRefreshToken(ctx context.Context, id, current, next string) error
}
