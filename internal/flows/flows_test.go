package flows

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goCAS/session"
	"github.com/MrEthical07/goCAS/store"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
	failSet error
	failDel error
	calls   []string
}

func newMemStore() *memStore {
	return &memStore{
		data: map[string]string{},
		ttls: map[string]time.Duration{},
	}
}

func (m *memStore) record(op, key string) {
	m.calls = append(m.calls, op+" "+key)
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GET", key)
	if m.failGet != nil {
		return "", m.failGet
	}
	v, ok := m.data[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SET", key)
	if m.failSet != nil {
		return m.failSet
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		m.record("DEL", key)
	}
	if m.failDel != nil {
		return m.failDel
	}
	for _, key := range keys {
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return nil
}

func (m *memStore) Consume(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GETDEL", key)
	if m.failGet != nil {
		return "", m.failGet
	}
	v, ok := m.data[key]
	if !ok {
		return "", store.ErrNotFound
	}
	delete(m.data, key)
	return v, nil
}

func (m *memStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("EXPIRE", key)
	if _, ok := m.data[key]; !ok {
		return store.ErrNotFound
	}
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func sequence(tokens ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(tokens) {
			return "", errors.New("out of tokens")
		}
		t := tokens[i]
		i++
		return t, nil
	}
}

func decode(data []byte) (session.Record, error) {
	return session.Decode(data, 0)
}

var keys = store.Keyspace{}

func seedSession(m *memStore, ticket, userID, username string) {
	m.data[keys.GlobalTicket(ticket)] = userID
	m.data[keys.Session(userID)] = fmt.Sprintf(`{"id":%q,"username":%q}`, userID, username)
}

func TestRunCheckExistingSessionBlankTouchesNothing(t *testing.T) {
	m := newMemStore()
	res := RunCheckExistingSession(context.Background(), "  ", CheckDeps{Store: m, Keys: keys})
	if res.Failure != CheckFailureBlankTicket {
		t.Fatalf("expected blank failure, got %v", res.Failure)
	}
	if len(m.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", m.calls)
	}
}

func TestRunCheckExistingSessionLinks(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")

	res := RunCheckExistingSession(context.Background(), "g1", CheckDeps{Store: m, Keys: keys})
	if res.Failure != CheckFailureNone || res.UserID != "1" {
		t.Fatalf("unexpected result %+v", res)
	}

	delete(m.data, keys.Session("1"))
	res = RunCheckExistingSession(context.Background(), "g1", CheckDeps{Store: m, Keys: keys})
	if res.Failure != CheckFailureSessionMissing {
		t.Fatalf("expected session missing, got %v", res.Failure)
	}

	res = RunCheckExistingSession(context.Background(), "nope", CheckDeps{Store: m, Keys: keys})
	if res.Failure != CheckFailureTicketUnknown {
		t.Fatalf("expected ticket unknown, got %v", res.Failure)
	}
}

func TestRunCheckExistingSessionIsReadOnly(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")

	RunCheckExistingSession(context.Background(), "g1", CheckDeps{Store: m, Keys: keys})
	for _, call := range m.calls {
		if call[:3] != "GET" {
			t.Fatalf("unexpected mutating call %q", call)
		}
	}
}

func TestRunCheckExistingSessionStoreFailure(t *testing.T) {
	m := newMemStore()
	m.failGet = store.ErrUnavailable

	res := RunCheckExistingSession(context.Background(), "g1", CheckDeps{Store: m, Keys: keys})
	if res.Failure != CheckFailureStore || !errors.Is(res.Err, store.ErrUnavailable) {
		t.Fatalf("expected store failure, got %+v", res)
	}
}

func TestRunCheckExistingSessionSlidingRefresh(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")

	deps := CheckDeps{
		Store: m,
		Keys:  keys,
		Sliding: SlidingPolicy{
			Enabled:   true,
			TicketTTL: time.Hour,
			RecordTTL: 2 * time.Hour,
		},
	}
	if res := RunCheckExistingSession(context.Background(), "g1", deps); res.Failure != CheckFailureNone {
		t.Fatalf("unexpected failure %v", res.Failure)
	}
	if got := m.ttls[keys.GlobalTicket("g1")]; got != time.Hour {
		t.Fatalf("expected ticket ttl refresh, got %v", got)
	}
	if got := m.ttls[keys.Session("1")]; got != 2*time.Hour {
		t.Fatalf("expected record ttl refresh, got %v", got)
	}
}

func TestRunEstablishSessionOrder(t *testing.T) {
	m := newMemStore()
	deps := EstablishDeps{Store: m, Keys: keys, NewToken: sequence("g1", "g2")}

	res := RunEstablishSession(context.Background(), "1", []byte(`{"id":"1","username":"admin1"}`), deps)
	if res.Failure != EstablishFailureNone || res.GlobalTicket != "g1" {
		t.Fatalf("unexpected result %+v", res)
	}

	want := []string{"SET session:1", "SET ticket:global:g1"}
	if len(m.calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, m.calls)
	}
	for i := range want {
		if m.calls[i] != want[i] {
			t.Fatalf("call %d: expected %q, got %q", i, want[i], m.calls[i])
		}
	}
	if m.data["ticket:global:g1"] != "1" {
		t.Fatalf("global ticket must map to user id, got %q", m.data["ticket:global:g1"])
	}
	if m.ttls["ticket:global:g1"] != 0 {
		t.Fatalf("global ticket must not expire by default")
	}

	res = RunEstablishSession(context.Background(), "1", []byte(`{"id":"1","username":"admin1"}`), deps)
	if res.GlobalTicket != "g2" || !m.has("ticket:global:g1") {
		t.Fatalf("re-login must keep earlier tickets, got %+v", res)
	}
}

func TestRunEstablishSessionTokenFailure(t *testing.T) {
	m := newMemStore()
	deps := EstablishDeps{Store: m, Keys: keys, NewToken: sequence()}

	res := RunEstablishSession(context.Background(), "1", []byte(`{}`), deps)
	if res.Failure != EstablishFailureToken {
		t.Fatalf("expected token failure, got %v", res.Failure)
	}
}

func TestRunIssueTemporaryTicket(t *testing.T) {
	m := newMemStore()
	deps := IssueDeps{Store: m, Keys: keys, NewToken: sequence("t1"), TTL: 600 * time.Second}

	res := RunIssueTemporaryTicket(context.Background(), deps)
	if res.Failure != IssueFailureNone || res.Ticket != "t1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if m.data["ticket:temp:t1"] != "t1" {
		t.Fatalf("temporary ticket must store itself, got %q", m.data["ticket:temp:t1"])
	}
	if m.ttls["ticket:temp:t1"] != 600*time.Second {
		t.Fatalf("unexpected ttl %v", m.ttls["ticket:temp:t1"])
	}
}

func TestRunIssueTemporaryTicketStoreFailure(t *testing.T) {
	m := newMemStore()
	m.failSet = store.ErrUnavailable

	res := RunIssueTemporaryTicket(context.Background(), IssueDeps{Store: m, Keys: keys, NewToken: sequence("t1")})
	if res.Failure != IssueFailureStore {
		t.Fatalf("expected store failure, got %v", res.Failure)
	}
}

func TestRunVerifyTemporaryTicketGates(t *testing.T) {
	cases := []struct {
		name   string
		seed   func(m *memStore)
		token  string
		global string
		want   VerifyFailureKind
	}{
		{
			name:   "success",
			seed:   func(m *memStore) { seedSession(m, "g1", "1", "admin1"); m.data["ticket:temp:t1"] = "t1" },
			token:  "t1",
			global: "g1",
			want:   VerifyFailureNone,
		},
		{
			name:   "blank token",
			seed:   func(m *memStore) {},
			token:  "",
			global: "g1",
			want:   VerifyFailureBlankTicket,
		},
		{
			name:   "unknown token",
			seed:   func(m *memStore) { seedSession(m, "g1", "1", "admin1") },
			token:  "t1",
			global: "g1",
			want:   VerifyFailureTicketUnknown,
		},
		{
			name:   "marker mismatch",
			seed:   func(m *memStore) { seedSession(m, "g1", "1", "admin1"); m.data["ticket:temp:t1"] = "other" },
			token:  "t1",
			global: "g1",
			want:   VerifyFailureTicketMismatch,
		},
		{
			name:   "blank global ticket",
			seed:   func(m *memStore) { m.data["ticket:temp:t1"] = "t1" },
			token:  "t1",
			global: "",
			want:   VerifyFailureGlobalTicketUnknown,
		},
		{
			name:   "unknown global ticket",
			seed:   func(m *memStore) { m.data["ticket:temp:t1"] = "t1" },
			token:  "t1",
			global: "g1",
			want:   VerifyFailureGlobalTicketUnknown,
		},
		{
			name: "session missing",
			seed: func(m *memStore) {
				m.data["ticket:temp:t1"] = "t1"
				m.data["ticket:global:g1"] = "1"
			},
			token:  "t1",
			global: "g1",
			want:   VerifyFailureSessionMissing,
		},
		{
			name: "record corrupt",
			seed: func(m *memStore) {
				m.data["ticket:temp:t1"] = "t1"
				m.data["ticket:global:g1"] = "1"
				m.data["session:1"] = "{not json"
			},
			token:  "t1",
			global: "g1",
			want:   VerifyFailureRecordCorrupt,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMemStore()
			tc.seed(m)

			res := RunVerifyTemporaryTicket(context.Background(), tc.token, tc.global, VerifyDeps{
				Store:        m,
				Keys:         keys,
				DecodeRecord: decode,
			})
			if res.Failure != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, res.Failure)
			}
			if tc.token != "" && m.has(keys.TemporaryTicket(tc.token)) {
				t.Fatal("temporary ticket must be burned on every attempt")
			}
			if tc.want == VerifyFailureNone && (res.Record.ID != "1" || res.Record.Username != "admin1") {
				t.Fatalf("unexpected record %+v", res.Record)
			}
		})
	}
}

func TestRunVerifyTemporaryTicketSingleUse(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")
	m.data["ticket:temp:t1"] = "t1"

	deps := VerifyDeps{Store: m, Keys: keys, DecodeRecord: decode}
	if res := RunVerifyTemporaryTicket(context.Background(), "t1", "g1", deps); res.Failure != VerifyFailureNone {
		t.Fatalf("first verify failed: %v", res.Failure)
	}
	if res := RunVerifyTemporaryTicket(context.Background(), "t1", "g1", deps); res.Failure != VerifyFailureTicketUnknown {
		t.Fatalf("second verify must fail, got %v", res.Failure)
	}
}

func TestRunRevokeSessionDefaultPolicy(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")
	seedSession(m, "g2", "2", "admin2")

	// caller holds g1 (user 1) but asks to revoke user 2.
	res := RunRevokeSession(context.Background(), "2", "g1", RevokeDeps{Store: m, Keys: keys})
	if res.Failure != RevokeFailureNone || !res.TicketDeleted || !res.SessionDeleted {
		t.Fatalf("unexpected result %+v", res)
	}
	if m.has("ticket:global:g1") || m.has("session:2") {
		t.Fatal("expected ticket g1 and session 2 to be deleted")
	}
	if !m.has("session:1") || !m.has("ticket:global:g2") {
		t.Fatal("unrelated keys must survive")
	}
}

func TestRunRevokeSessionWithoutTicket(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")

	res := RunRevokeSession(context.Background(), "1", "", RevokeDeps{Store: m, Keys: keys})
	if res.TicketDeleted || !res.SessionDeleted {
		t.Fatalf("unexpected result %+v", res)
	}
	if !m.has("ticket:global:g1") {
		t.Fatal("ticket must survive when none is presented")
	}
}

func TestRunRevokeSessionOwnership(t *testing.T) {
	m := newMemStore()
	seedSession(m, "g1", "1", "admin1")
	seedSession(m, "g2", "2", "admin2")

	deps := RevokeDeps{Store: m, Keys: keys, RequireOwnership: true}
	res := RunRevokeSession(context.Background(), "2", "g1", deps)
	if res.Failure != RevokeFailureNotOwner {
		t.Fatalf("expected not-owner failure, got %v", res.Failure)
	}
	if !m.has("session:2") {
		t.Fatal("session of another user must survive")
	}

	res = RunRevokeSession(context.Background(), "2", "g2", deps)
	if res.Failure != RevokeFailureNone || !res.SessionDeleted {
		t.Fatalf("owner revoke failed: %+v", res)
	}
}

func TestRunRevokeSessionStoreFailure(t *testing.T) {
	m := newMemStore()
	m.failDel = store.ErrUnavailable

	res := RunRevokeSession(context.Background(), "1", "g1", RevokeDeps{Store: m, Keys: keys})
	if res.Failure != RevokeFailureStore || !errors.Is(res.Err, store.ErrUnavailable) {
		t.Fatalf("expected store failure, got %+v", res)
	}
}
