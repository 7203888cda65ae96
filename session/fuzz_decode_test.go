package session

import (
	"errors"
	"testing"
)

// FuzzRecordDecode exercises the record decoder with arbitrary inputs.
// Goal: no panics, and every accepted record re-encodes.
func FuzzRecordDecode(f *testing.F) {
	encoded, err := Encode(Record{ID: "1", Username: "admin1"}, 0)
	if err == nil {
		f.Add(encoded)
	}

	f.Add([]byte{})
	f.Add([]byte("{}"))
	f.Add([]byte(`{"id":"1"}`))
	f.Add([]byte(`{"id":"1","username":"a","attributes":{"k":"v"}}`))
	f.Add([]byte(`[1,2,3]`))

	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := Decode(data, 0)
		if err != nil {
			return
		}
		// Re-encoding may escape characters and grow past the limit.
		if _, err := Encode(r, 0); err != nil && !errors.Is(err, ErrRecordTooLarge) {
			t.Fatalf("decoded record failed to re-encode: %v", err)
		}
	})
}
