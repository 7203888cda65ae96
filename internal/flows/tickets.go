package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goCAS/session"
	"github.com/MrEthical07/goCAS/store"
)

// IssueFailureKind classifies temporary ticket issuance failures.
type IssueFailureKind int

const (
	IssueFailureNone IssueFailureKind = iota
	IssueFailureToken
	IssueFailureStore
)

// IssueResult carries the minted temporary ticket or failure metadata.
type IssueResult struct {
	Failure IssueFailureKind
	Err     error
	Ticket  string
}

// IssueDeps captures temporary ticket issuance dependencies.
type IssueDeps struct {
	Store    TicketWriter
	Keys     store.Keyspace
	NewToken func() (string, error)
	TTL      time.Duration
}

// RunIssueTemporaryTicket mints a token and stores it as its own value under
// ticket:temp:<token> with the configured TTL.
func RunIssueTemporaryTicket(ctx context.Context, deps IssueDeps) IssueResult {
	token, err := deps.NewToken()
	if err != nil {
		return IssueResult{Failure: IssueFailureToken, Err: err}
	}

	if err := deps.Store.Set(ctx, deps.Keys.TemporaryTicket(token), token, deps.TTL); err != nil {
		return IssueResult{Failure: IssueFailureStore, Err: err}
	}

	return IssueResult{Ticket: token}
}

// VerifyFailureKind classifies which gate rejected a verification. The root
// package collapses every kind except VerifyFailureStore into one error.
type VerifyFailureKind int

const (
	VerifyFailureNone VerifyFailureKind = iota
	VerifyFailureBlankTicket
	VerifyFailureTicketUnknown
	VerifyFailureTicketMismatch
	VerifyFailureGlobalTicketUnknown
	VerifyFailureSessionMissing
	VerifyFailureRecordCorrupt
	VerifyFailureStore
)

// String names the gate for logs.
func (k VerifyFailureKind) String() string {
	switch k {
	case VerifyFailureNone:
		return "none"
	case VerifyFailureBlankTicket:
		return "blank_ticket"
	case VerifyFailureTicketUnknown:
		return "ticket_unknown"
	case VerifyFailureTicketMismatch:
		return "ticket_mismatch"
	case VerifyFailureGlobalTicketUnknown:
		return "global_ticket_unknown"
	case VerifyFailureSessionMissing:
		return "session_missing"
	case VerifyFailureRecordCorrupt:
		return "record_corrupt"
	case VerifyFailureStore:
		return "store"
	default:
		return "unknown"
	}
}

// VerifyResult carries the verified identity or failure metadata.
type VerifyResult struct {
	Failure VerifyFailureKind
	Err     error
	UserID  string
	Record  session.Record
}

// VerifyStore is the store surface used by temporary ticket verification.
type VerifyStore interface {
	SessionReader
	Consume(ctx context.Context, key string) (string, error)
}

// VerifyDeps captures temporary ticket verification dependencies.
type VerifyDeps struct {
	Store        VerifyStore
	Keys         store.Keyspace
	DecodeRecord func([]byte) (session.Record, error)
	Sliding      SlidingPolicy
	Warn         func(string, ...any)
}

// RunVerifyTemporaryTicket consumes token and, when it is genuine, resolves
// globalTicket to the caller's session record. The temporary ticket is burned
// before any other gate runs, so a failed attempt still spends it.
func RunVerifyTemporaryTicket(ctx context.Context, token, globalTicket string, deps VerifyDeps) VerifyResult {
	if blank(token) {
		return VerifyResult{Failure: VerifyFailureBlankTicket}
	}

	marker, err := deps.Store.Consume(ctx, deps.Keys.TemporaryTicket(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return VerifyResult{Failure: VerifyFailureTicketUnknown}
		}
		return VerifyResult{Failure: VerifyFailureStore, Err: err}
	}
	if marker != token {
		return VerifyResult{Failure: VerifyFailureTicketMismatch}
	}

	if blank(globalTicket) {
		return VerifyResult{Failure: VerifyFailureGlobalTicketUnknown}
	}

	userID, raw, failure, err := lookupSession(ctx, deps.Store, deps.Keys, globalTicket)
	switch failure {
	case lookupOK:
	case lookupTicketUnknown:
		return VerifyResult{Failure: VerifyFailureGlobalTicketUnknown}
	case lookupSessionMissing:
		return VerifyResult{Failure: VerifyFailureSessionMissing, UserID: userID}
	default:
		return VerifyResult{Failure: VerifyFailureStore, Err: err, UserID: userID}
	}

	record, err := deps.DecodeRecord([]byte(raw))
	if err != nil {
		return VerifyResult{Failure: VerifyFailureRecordCorrupt, Err: err, UserID: userID}
	}

	refreshSliding(ctx, deps.Store, deps.Keys, deps.Sliding, globalTicket, userID, deps.Warn)
	return VerifyResult{UserID: userID, Record: record}
}
