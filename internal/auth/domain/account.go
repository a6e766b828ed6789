package domain

import "time"

// Account is a registered user identity. CurrentRefreshToken holds the single
// valid session slot: empty means logged out, otherwise it is the only refresh
// token the account may redeem. Issuing a new pair overwrites it.
type Account struct {
	ID                  string
	Email               string
	Username            string
	PasswordHash        string
	CurrentRefreshToken string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LoggedIn reports whether the account currently holds a session slot.
func (a *Account) LoggedIn() bool {
	return a.CurrentRefreshToken != ""
}
