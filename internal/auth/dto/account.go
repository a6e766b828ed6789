package dto

import (
	"time"

	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
)

// AccountOutput is the basic public projection returned by register, login
// and refresh. It never carries the password hash or the refresh slot.
type AccountOutput struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ProfileOutput is the detail projection returned by the profile endpoint.
type ProfileOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse bundles the account projection with a freshly minted pair.
type TokenResponse struct {
	User         AccountOutput `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

func NewAccountOutput(a *domain.Account) AccountOutput {
	return AccountOutput{
		ID:       a.ID,
		Email:    a.Email,
		Username: a.Username,
	}
}

func NewProfileOutput(a *domain.Account) ProfileOutput {
	return ProfileOutput{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
