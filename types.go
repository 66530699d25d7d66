package authgate

import "context"

// Account is the stored record for one registered user. ID is the internal
// storage key; ExternalID is the opaque public identifier exposed to clients.
// CurrentToken/TokenExpiry and OTPCode/OTPExpiry travel in pairs: an empty
// string means absent, and the paired expiry is meaningless when the value is
// absent. Expiries are epoch seconds.
type Account struct {
	ID           int64
	ExternalID   string
	Name         string
	Email        string
	PasswordHash string
	CurrentToken string
	TokenExpiry  int64
	OTPCode      string
	OTPExpiry    int64
	IsVerified   bool
}

// View returns the public shape of the account. Password hash, token, and OTP
// fields are never exposed.
func (a *Account) View() AccountView {
	return AccountView{
		ExternalID: a.ExternalID,
		Name:       a.Name,
		Email:      a.Email,
		IsVerified: a.IsVerified,
	}
}

// AccountView is the client-facing projection of an [Account].
type AccountView struct {
	ExternalID string `json:"uuid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

// RegisterRequest is the input for [Engine.Register].
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"-"`
}

// AccountStore is the storage contract the engine consumes. Implementations
// operate on one account record per call. Insert assigns Account.ID and must
// return [ErrStoreConstraintViolation] on a unique-key conflict; lookups must
// return [ErrStoreNotFound] when no record matches.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByExternalID(ctx context.Context, externalID string) (*Account, error)
	FindByExternalIDAndToken(ctx context.Context, externalID, token string) (*Account, error)
	Insert(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id int64) error
}

// Mailer is the outbound email contract the engine consumes for OTP dispatch.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
