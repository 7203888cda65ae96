package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxRecordSize bounds an encoded record when no limit is configured.
const DefaultMaxRecordSize = 8 << 10

var (
	// ErrRecordInvalid is returned for records missing an id or username.
	ErrRecordInvalid = errors.New("session: record missing id or username")
	// ErrRecordTooLarge is returned when an encoded record exceeds the size limit.
	ErrRecordTooLarge = errors.New("session: record too large")
)

// Encode serializes r as JSON. maxSize <= 0 selects [DefaultMaxRecordSize].
func Encode(r Record, maxSize int) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("session: marshal record: %w", err)
	}

	if len(data) > limit(maxSize) {
		return nil, ErrRecordTooLarge
	}

	return data, nil
}

// Decode parses a JSON record produced by [Encode] or by external tooling.
func Decode(data []byte, maxSize int) (Record, error) {
	if len(data) > limit(maxSize) {
		return Record{}, ErrRecordTooLarge
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("session: unmarshal record: %w", err)
	}

	if err := r.validate(); err != nil {
		return Record{}, err
	}

	return r, nil
}

func (r Record) validate() error {
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Username) == "" {
		return ErrRecordInvalid
	}
	return nil
}

func limit(maxSize int) int {
	if maxSize <= 0 {
		return DefaultMaxRecordSize
	}
	return maxSize
}
