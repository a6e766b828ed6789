package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/thienan2003bt/awp-user-registration-be/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

// TokenGenerator mints and verifies the two token kinds. Access tokens are
// self-contained and verified by signature alone; refresh tokens additionally
// go through the store-match check in UserService.Refresh.
type TokenGenerator interface {
	GenerateTokenPair(account *domain.Account) (accessToken string, refreshToken string, err error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	VerifyRefreshToken(tokenString string) (*RefreshClaims, error)
}

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RefreshClaims carries only the account id; everything else is re-read from
// the store when the token is redeemed.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type TokenService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

func (ts *TokenService) AccessTokenTTL() time.Duration  { return ts.accessTokenTTL }
func (ts *TokenService) RefreshTokenTTL() time.Duration { return ts.refreshTokenTTL }

func (ts *TokenService) GenerateTokenPair(account *domain.Account) (string, string, error) {
	now := time.Now()

	accessClaims := AccessClaims{
		UserID:   account.ID,
		Email:    account.Email,
		Username: account.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	refreshClaims := RefreshClaims{
		UserID: account.ID,
		// The jti makes every mint unique: without it, two pairs minted in
		// the same second would be byte-identical and rotation could not
		// tell old from new.
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.refreshTokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(ts.accessSecret)
	if err != nil {
		return "", "", fmt.Errorf("signing access token: %w", err)
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(ts.refreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("signing refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// VerifyAccessToken checks signature and expiry of an access token. Expiry is
// a routine outcome and is reported as autherror.ErrTokenExpired.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.parse(tokenString, claims, ts.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks signature and expiry of a refresh token. Store
// match is deliberately not checked here; that is UserService.Refresh's job.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ts.parse(tokenString, claims, ts.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ts *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %w", autherror.ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %w", autherror.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return autherror.ErrTokenInvalid
	}
	return nil
}
