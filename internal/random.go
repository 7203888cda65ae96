package internal

import (
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// TicketTokenLength is the length of every minted ticket token.
const TicketTokenLength = 32

// NewTicketToken returns a random UUIDv4 rendered as 32 lowercase hex
// characters, i.e. the canonical form with the dashes stripped.
func NewTicketToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}

// ValidTicketToken reports whether token has the shape produced by
// NewTicketToken. It does not consult any store.
func ValidTicketToken(token string) bool {
	if len(token) != TicketTokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

var errEmptyToken = errors.New("token generator returned an empty token")

// CheckMinted rejects tokens that cannot be used as key suffixes.
func CheckMinted(token string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}
