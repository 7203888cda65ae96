package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goCAS "github.com/MrEthical07/goCAS"
	"github.com/MrEthical07/goCAS/internal"
	"github.com/MrEthical07/goCAS/password"
)

// User is one directory entry.
type User struct {
	ID           string            `yaml:"id"`
	Username     string            `yaml:"username"`
	PasswordHash string            `yaml:"password_hash"`
	Attributes   map[string]string `yaml:"attributes,omitempty"`
}

// Static authenticates against a fixed user table. It is safe for concurrent
// use.
type Static struct {
	hasher    *password.Argon2
	users     map[string]User
	dummyHash string
}

// NewStatic indexes users by username. Duplicate usernames and entries
// without an id, username or hash are rejected.
func NewStatic(hasher *password.Argon2, users []User) (*Static, error) {
	if hasher == nil {
		return nil, errors.New("directory: hasher required")
	}

	index := make(map[string]User, len(users))
	for i, u := range users {
		if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Username) == "" {
			return nil, fmt.Errorf("directory: user %d: id and username are required", i)
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("directory: user %q: password_hash is required", u.Username)
		}
		if _, dup := index[u.Username]; dup {
			return nil, fmt.Errorf("directory: duplicate username %q", u.Username)
		}
		index[u.Username] = u
	}

	// Unknown usernames are verified against this hash so that a miss costs
	// the same as a wrong password.
	filler, err := internal.NewTicketToken()
	if err != nil {
		return nil, fmt.Errorf("directory: dummy hash: %w", err)
	}
	dummy, err := hasher.Hash(filler)
	if err != nil {
		return nil, fmt.Errorf("directory: dummy hash: %w", err)
	}

	return &Static{
		hasher:    hasher,
		users:     index,
		dummyHash: dummy,
	}, nil
}

// Len returns the number of users.
func (s *Static) Len() int {
	return len(s.users)
}

// Authenticate implements goCAS.Authenticator.
func (s *Static) Authenticate(ctx context.Context, username, pass string) (goCAS.UserIdentity, bool, error) {
	if err := ctx.Err(); err != nil {
		return goCAS.UserIdentity{}, false, err
	}

	u, found := s.users[username]
	hash := u.PasswordHash
	if !found {
		hash = s.dummyHash
	}

	ok, err := s.hasher.Verify(pass, hash)
	if errors.Is(err, password.ErrPasswordTooLong) {
		return goCAS.UserIdentity{}, false, nil
	}
	if err != nil {
		return goCAS.UserIdentity{}, false, fmt.Errorf("directory: user %q: %w", username, err)
	}
	if !found || !ok {
		return goCAS.UserIdentity{}, false, nil
	}

	return goCAS.UserIdentity{
		ID:         u.ID,
		Username:   u.Username,
		Attributes: copyAttributes(u.Attributes),
	}, true, nil
}

func copyAttributes(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
