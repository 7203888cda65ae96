package session

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeKeepsWireFields(t *testing.T) {
	data, err := Encode(Record{ID: "1", Username: "admin1"}, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"id":"1","username":"admin1"}` {
		t.Fatalf("unexpected wire format: %s", data)
	}

	r, err := Decode(data, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.ID != "1" || r.Username != "admin1" {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	r, err := Decode([]byte(`{"id":"2","username":"admin2","nickname":"x"}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.ID != "2" {
		t.Fatalf("unexpected id %q", r.ID)
	}
}

func TestEncodeRejectsBlankIdentity(t *testing.T) {
	cases := []Record{
		{ID: "", Username: "admin1"},
		{ID: "1", Username: " "},
	}
	for _, r := range cases {
		if _, err := Encode(r, 0); !errors.Is(err, ErrRecordInvalid) {
			t.Fatalf("expected ErrRecordInvalid for %+v, got %v", r, err)
		}
	}
}

func TestDecodeRejectsMissingUsername(t *testing.T) {
	if _, err := Decode([]byte(`{"id":"1"}`), 0); !errors.Is(err, ErrRecordInvalid) {
		t.Fatalf("expected ErrRecordInvalid, got %v", err)
	}
}

func TestSizeLimit(t *testing.T) {
	big := Record{ID: "1", Username: "u", Attributes: map[string]string{"bio": strings.Repeat("x", 200)}}

	if _, err := Encode(big, 64); !errors.Is(err, ErrRecordTooLarge) {
		t.Fatalf("expected ErrRecordTooLarge on encode, got %v", err)
	}

	data, err := Encode(big, 0)
	if err != nil {
		t.Fatalf("encode with default limit: %v", err)
	}
	if _, err := Decode(data, 64); !errors.Is(err, ErrRecordTooLarge) {
		t.Fatalf("expected ErrRecordTooLarge on decode, got %v", err)
	}
}
