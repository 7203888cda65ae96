package flows

import (
	"context"

	"github.com/MrEthical07/goCAS/store"
)

// CheckFailureKind classifies why a global ticket did not resolve.
type CheckFailureKind int

const (
	CheckFailureNone CheckFailureKind = iota
	CheckFailureBlankTicket
	CheckFailureTicketUnknown
	CheckFailureSessionMissing
	CheckFailureStore
)

// CheckResult carries the resolved user or failure metadata.
type CheckResult struct {
	Failure CheckFailureKind
	Err     error
	UserID  string
}

// CheckDeps captures session check dependencies.
type CheckDeps struct {
	Store   SessionReader
	Keys    store.Keyspace
	Sliding SlidingPolicy
	Warn    func(string, ...any)
}

// RunCheckExistingSession reports whether globalTicket still names a live
// session. Store access is read-only unless the sliding policy is enabled.
func RunCheckExistingSession(ctx context.Context, globalTicket string, deps CheckDeps) CheckResult {
	if blank(globalTicket) {
		return CheckResult{Failure: CheckFailureBlankTicket}
	}

	userID, _, failure, err := lookupSession(ctx, deps.Store, deps.Keys, globalTicket)
	switch failure {
	case lookupOK:
	case lookupTicketUnknown:
		return CheckResult{Failure: CheckFailureTicketUnknown}
	case lookupSessionMissing:
		return CheckResult{Failure: CheckFailureSessionMissing, UserID: userID}
	default:
		return CheckResult{Failure: CheckFailureStore, Err: err, UserID: userID}
	}

	refreshSliding(ctx, deps.Store, deps.Keys, deps.Sliding, globalTicket, userID, deps.Warn)
	return CheckResult{UserID: userID}
}
