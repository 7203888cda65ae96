package goCAS

import "errors"

var (
	// ErrInvalidCredentials is returned when the username or password is blank
	// or the authenticator finds no matching user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTicketInvalid is returned for any temporary ticket that cannot be
	// exchanged for an identity. It never says which check failed.
	ErrTicketInvalid = errors.New("ticket invalid")
	// ErrStoreUnavailable wraps failures of the backing session store.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrAuthenticatorUnavailable wraps failures of the external authenticator.
	ErrAuthenticatorUnavailable = errors.New("authenticator unavailable")
	// ErrInvalidIdentity is returned when an identity lacks an id or username.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrAuthorityNotReady is returned by methods of a nil or unbuilt Authority.
	ErrAuthorityNotReady = errors.New("authority not initialized")
	// ErrTokenGeneration is returned when a ticket token cannot be minted.
	ErrTokenGeneration = errors.New("ticket token generation failed")
)
