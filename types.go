package goCAS

import "context"

// UserIdentity is the identity asserted by the authenticator and handed back
// to relying applications. It is stored verbatim as the session record.
type UserIdentity struct {
	ID         string            `json:"id"`
	Username   string            `json:"username"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// VerifyOutcome is the result of CheckExistingSession. UserID is set only when
// Valid is true.
type VerifyOutcome struct {
	Valid  bool
	UserID string
}

// Authenticator validates credentials against an external directory.
//
// A false ok with a nil error means no user matched. A non-nil error means the
// directory itself failed.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (identity UserIdentity, ok bool, err error)
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, username, password string) (UserIdentity, bool, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, username, password string) (UserIdentity, bool, error) {
	return f(ctx, username, password)
}

// TokenGenerator mints opaque ticket tokens. Tokens must be unique and
// unguessable.
type TokenGenerator func() (string, error)
