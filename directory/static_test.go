package directory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrEthical07/goCAS/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoHasher(t *testing.T) *password.Argon2 {
	t.Helper()
	hasher, err := password.NewArgon2(DemoHasherConfig())
	require.NoError(t, err)
	return hasher
}

func TestDemoUsers(t *testing.T) {
	dir, err := Demo()
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	ctx := context.Background()

	identity, ok, err := dir.Authenticate(ctx, "admin1", "admin1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", identity.ID)
	assert.Equal(t, "admin1", identity.Username)

	identity, ok, err = dir.Authenticate(ctx, "admin2", "admin2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", identity.ID)
}

func TestAuthenticateRejects(t *testing.T) {
	dir, err := Demo()
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin1", password: "admin2"},
		{name: "unknown user", username: "nobody", password: "admin1"},
		{name: "case sensitive username", username: "ADMIN1", password: "admin1"},
		{name: "oversized password", username: "admin1", password: strings.Repeat("x", password.DefaultMaxPasswordBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, ok, err := dir.Authenticate(context.Background(), tt.username, tt.password)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, identity.ID)
		})
	}
}

func TestAuthenticateCancelledContext(t *testing.T) {
	dir, err := Demo()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := dir.Authenticate(ctx, "admin1", "admin1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestAuthenticateMalformedHashIsDirectoryError(t *testing.T) {
	dir, err := NewStatic(demoHasher(t), []User{{ID: "9", Username: "broken", PasswordHash: "not-a-phc"}})
	require.NoError(t, err)

	_, ok, err := dir.Authenticate(context.Background(), "broken", "whatever")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewStaticValidation(t *testing.T) {
	hasher := demoHasher(t)

	_, err := NewStatic(nil, nil)
	assert.Error(t, err)

	_, err = NewStatic(hasher, []User{{ID: "", Username: "a", PasswordHash: "x"}})
	assert.Error(t, err)

	_, err = NewStatic(hasher, []User{{ID: "1", Username: "a"}})
	assert.Error(t, err)

	_, err = NewStatic(hasher, []User{
		{ID: "1", Username: "a", PasswordHash: "x"},
		{ID: "2", Username: "a", PasswordHash: "y"},
	})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	hasher := demoHasher(t)
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	content := `users:
  - id: "7"
    username: carol
    password_hash: "` + hash + `"
    attributes:
      dept: finance
`
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	dir, err := LoadFile(path, hasher)
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Len())

	identity, ok, err := dir.Authenticate(context.Background(), "carol", "s3cret")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7", identity.ID)
	assert.Equal(t, map[string]string{"dept": "finance"}, identity.Attributes)

	// returned attributes are a copy.
	identity.Attributes["dept"] = "changed"
	again, _, _ := dir.Authenticate(context.Background(), "carol", "s3cret")
	assert.Equal(t, "finance", again.Attributes["dept"])
}

func TestLoadFileErrors(t *testing.T) {
	hasher := demoHasher(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), hasher)
	assert.Error(t, err)

	_, err = Parse([]byte("users: [ {id: 1"), hasher)
	assert.Error(t, err)
}
