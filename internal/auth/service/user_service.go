package service

//go:generate mockgen -destination=../../mocks/mock_account_repository.go -package=mocks github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain AccountRepository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/dto"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

// UserService composes the password hasher, the token service and the
// credential store into the five account operations. The store is the single
// source of truth for the refresh slot; the service itself holds no state.
type UserService struct {
	repo         domain.AccountRepository
	tokenService TokenGenerator
}

func NewUserService(repo domain.AccountRepository, tokenService TokenGenerator) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AccountOutput, error) {
	existing, err := s.repo.GetByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, fmt.Errorf("checking for existing account: %w", err)
	}
	if existing != nil {
		return nil, autherror.ErrDuplicateAccount
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	out := dto.NewAccountOutput(account)
	return &out, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	account, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if account == nil {
		return nil, autherror.ErrAccountNotFound
	}

	if !CheckPassword(input.Password, account.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokenPair(account)
	if err != nil {
		return nil, fmt.Errorf("generating token pair: %w", err)
	}

	// Overwrite the slot: any previously issued refresh token is now dead.
	if err := s.repo.UpdateRefreshToken(ctx, account.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		User:         dto.NewAccountOutput(account),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh redeems a signature-verified refresh token for a new pair. The
// caller has already checked signature and expiry; here the supplied token
// must also match the stored slot exactly, which is what makes rotation and
// logout actually revoke. The swap is a compare-and-swap in the store, so a
// stale token loses even when two refreshes race.
func (s *UserService) Refresh(ctx context.Context, refreshToken, accountID string) (*dto.TokenResponse, error) {
	// An empty token would CAS against an empty (logged-out) slot and win.
	if refreshToken == "" {
		return nil, autherror.ErrAccessDenied
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if account == nil {
		return nil, autherror.ErrAccountNotFound
	}

	accessToken, newRefreshToken, err := s.tokenService.GenerateTokenPair(account)
	if err != nil {
		return nil, fmt.Errorf("generating token pair: %w", err)
	}

	if err := s.repo.RotateRefreshToken(ctx, account.ID, refreshToken, newRefreshToken); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		User:         dto.NewAccountOutput(account),
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout clears the refresh slot. Logging out an already logged-out account
// is a no-op success.
func (s *UserService) Logout(ctx context.Context, accountID string) error {
	if err := s.repo.UpdateRefreshToken(ctx, accountID, ""); err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, accountID string) (*dto.ProfileOutput, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if account == nil {
		return nil, autherror.ErrAccountNotFound
	}

	out := dto.NewProfileOutput(account)
	return &out, nil
}
