package directory

import (
	"fmt"
	"os"

	"github.com/MrEthical07/goCAS/password"
	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Users []User `yaml:"users"`
}

// LoadFile reads a YAML user table:
//
//	users:
//	  - id: "1"
//	    username: admin1
//	    password_hash: $argon2id$v=19$...
//	    attributes:
//	      dept: ops
func LoadFile(path string, hasher *password.Argon2) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}
	return Parse(data, hasher)
}

// Parse decodes a YAML user table already in memory.
func Parse(data []byte, hasher *password.Argon2) (*Static, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse directory file: %w", err)
	}
	return NewStatic(hasher, f.Users)
}
