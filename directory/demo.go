package directory

import (
	"github.com/MrEthical07/goCAS/password"
)

// DemoHasherConfig is a deliberately cheap cost profile for demo fixtures.
func DemoHasherConfig() password.Config {
	return password.Config{
		Memory:           8 * 1024,
		Time:             1,
		Parallelism:      1,
		SaltLength:       16,
		KeyLength:        32,
		MinPasswordBytes: 1,
	}
}

// Demo returns the two fixture users admin1 (id 1) and admin2 (id 2), each
// with a password equal to its username. Never use it outside local runs.
func Demo() (*Static, error) {
	hasher, err := password.NewArgon2(DemoHasherConfig())
	if err != nil {
		return nil, err
	}

	fixtures := []struct{ id, name string }{
		{"1", "admin1"},
		{"2", "admin2"},
	}

	users := make([]User, 0, len(fixtures))
	for _, f := range fixtures {
		hash, err := hasher.Hash(f.name)
		if err != nil {
			return nil, err
		}
		users = append(users, User{ID: f.id, Username: f.name, PasswordHash: hash})
	}

	return NewStatic(hasher, users)
}
