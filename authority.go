package goCAS

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	internalflows "github.com/MrEthical07/goCAS/internal/flows"
	"github.com/MrEthical07/goCAS/session"
	"github.com/MrEthical07/goCAS/store"
)

// Authority owns every ticket and session state transition. It holds only
// immutable configuration and its collaborators, so one Authority may serve
// any number of concurrent requests.
type Authority struct {
	config        Config
	store         store.Store
	keys          store.Keyspace
	authenticator Authenticator
	metrics       *Metrics
	logger        *slog.Logger
	maxRecordSize int
	flows         internalflows.Deps
}

// Config returns a copy of the configuration the Authority was built with.
func (a *Authority) Config() Config {
	if a == nil {
		return Config{}
	}
	return a.config
}

// Store returns the backing session store.
func (a *Authority) Store() store.Store {
	if a == nil {
		return nil
	}
	return a.store
}

// MetricsSnapshot returns the current counter values.
func (a *Authority) MetricsSnapshot() MetricsSnapshot {
	if a == nil || a.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return a.metrics.Snapshot()
}

func (a *Authority) metricInc(id MetricID) {
	if a == nil || a.metrics == nil {
		return
	}
	a.metrics.Inc(id)
}

func (a *Authority) storeError(op string, err error) error {
	a.metricInc(MetricStoreFailure)
	a.logger.Warn("goCAS: session store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// CheckExistingSession reports whether globalTicket names a live session.
//
// A blank, unknown or dangling ticket yields an invalid outcome with a nil
// error. Only a store failure returns an error, wrapping ErrStoreUnavailable.
func (a *Authority) CheckExistingSession(ctx context.Context, globalTicket string) (VerifyOutcome, error) {
	if a == nil {
		return VerifyOutcome{}, ErrAuthorityNotReady
	}

	res := internalflows.RunCheckExistingSession(ctx, globalTicket, a.flows.Check)
	switch res.Failure {
	case internalflows.CheckFailureNone:
		a.metricInc(MetricSessionCheckValid)
		return VerifyOutcome{Valid: true, UserID: res.UserID}, nil
	case internalflows.CheckFailureStore:
		return VerifyOutcome{}, a.storeError("check_session", res.Err)
	default:
		a.metricInc(MetricSessionCheckInvalid)
		return VerifyOutcome{}, nil
	}
}

// Authenticate validates credentials with the configured Authenticator. Blank
// credentials are rejected before the Authenticator is consulted. No ticket or
// session state changes.
func (a *Authority) Authenticate(ctx context.Context, username, password string) (UserIdentity, error) {
	if a == nil || a.authenticator == nil {
		return UserIdentity{}, ErrAuthorityNotReady
	}

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		a.metricInc(MetricLoginFailure)
		a.logger.Info("goCAS: login rejected", "reason", "blank_credentials")
		return UserIdentity{}, ErrInvalidCredentials
	}

	identity, ok, err := a.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		a.metricInc(MetricAuthenticatorFailure)
		a.logger.Warn("goCAS: authenticator failure", "username", username, "error", err)
		return UserIdentity{}, fmt.Errorf("%w: %v", ErrAuthenticatorUnavailable, err)
	}
	if !ok {
		a.metricInc(MetricLoginFailure)
		a.logger.Info("goCAS: login rejected", "username", username, "reason", "no_match")
		return UserIdentity{}, ErrInvalidCredentials
	}
	if !validIdentity(identity) {
		a.metricInc(MetricAuthenticatorFailure)
		a.logger.Warn("goCAS: authenticator returned an incomplete identity", "username", username)
		return UserIdentity{}, fmt.Errorf("%w: %w", ErrAuthenticatorUnavailable, ErrInvalidIdentity)
	}

	a.metricInc(MetricLoginSuccess)
	return identity, nil
}

// EstablishSession stores identity as the session record for its user and
// returns a new global ticket bound to that user. Tickets minted by earlier
// logins stay valid.
func (a *Authority) EstablishSession(ctx context.Context, identity UserIdentity) (string, error) {
	if a == nil {
		return "", ErrAuthorityNotReady
	}
	if !validIdentity(identity) {
		return "", ErrInvalidIdentity
	}

	record, err := session.Encode(session.Record{
		ID:         identity.ID,
		Username:   identity.Username,
		Attributes: identity.Attributes,
	}, a.maxRecordSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	res := internalflows.RunEstablishSession(ctx, identity.ID, record, a.flows.Establish)
	switch res.Failure {
	case internalflows.EstablishFailureNone:
	case internalflows.EstablishFailureToken:
		a.logger.Error("goCAS: token generation failed", "error", res.Err)
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, res.Err)
	default:
		return "", a.storeError("establish_session", res.Err)
	}

	a.metricInc(MetricSessionEstablished)
	a.logger.Info("goCAS: session established", "user_id", identity.ID)
	return res.GlobalTicket, nil
}

// IssueTemporaryTicket mints a single-use ticket that expires after
// Tickets.TemporaryTTL.
func (a *Authority) IssueTemporaryTicket(ctx context.Context) (string, error) {
	if a == nil {
		return "", ErrAuthorityNotReady
	}

	res := internalflows.RunIssueTemporaryTicket(ctx, a.flows.Issue)
	switch res.Failure {
	case internalflows.IssueFailureNone:
	case internalflows.IssueFailureToken:
		a.logger.Error("goCAS: token generation failed", "error", res.Err)
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, res.Err)
	default:
		return "", a.storeError("issue_temporary_ticket", res.Err)
	}

	a.metricInc(MetricTemporaryTicketIssued)
	return res.Ticket, nil
}

// VerifyTemporaryTicket exchanges a temporary ticket for the identity behind
// callerGlobalTicket. The temporary ticket is spent by the attempt whatever
// its outcome. Every rejection returns ErrTicketInvalid.
func (a *Authority) VerifyTemporaryTicket(ctx context.Context, token, callerGlobalTicket string) (UserIdentity, error) {
	if a == nil {
		return UserIdentity{}, ErrAuthorityNotReady
	}

	started := time.Now()
	res := internalflows.RunVerifyTemporaryTicket(ctx, token, callerGlobalTicket, a.flows.Verify)
	if a.metrics.LatencyEnabled() {
		a.metrics.Observe(MetricVerifyLatency, time.Since(started))
	}

	switch res.Failure {
	case internalflows.VerifyFailureNone:
	case internalflows.VerifyFailureStore:
		return UserIdentity{}, a.storeError("verify_temporary_ticket", res.Err)
	default:
		a.metricInc(MetricTemporaryTicketRejected)
		if res.Failure == internalflows.VerifyFailureRecordCorrupt {
			a.logger.Warn("goCAS: undecodable session record", "user_id", res.UserID, "error", res.Err)
		} else {
			a.logger.Debug("goCAS: temporary ticket rejected", "reason", res.Failure.String())
		}
		return UserIdentity{}, ErrTicketInvalid
	}

	a.metricInc(MetricTemporaryTicketVerified)
	return UserIdentity{
		ID:         res.Record.ID,
		Username:   res.Record.Username,
		Attributes: cloneAttributes(res.Record.Attributes),
	}, nil
}

// RevokeSession deletes callerGlobalTicket, when given, and the session record
// of userID. Other global tickets of the user are not enumerated; they stop
// resolving once the record is gone.
//
// With Logout.RequireTicketOwnership the record is deleted only when
// callerGlobalTicket belongs to userID; otherwise ErrTicketInvalid is returned.
func (a *Authority) RevokeSession(ctx context.Context, userID, callerGlobalTicket string) error {
	if a == nil {
		return ErrAuthorityNotReady
	}

	res := internalflows.RunRevokeSession(ctx, userID, callerGlobalTicket, a.flows.Revoke)
	switch res.Failure {
	case internalflows.RevokeFailureNone:
	case internalflows.RevokeFailureNotOwner:
		a.metricInc(MetricRevokeNotOwner)
		a.logger.Info("goCAS: revoke refused", "user_id", userID, "reason", "not_owner")
		return ErrTicketInvalid
	default:
		return a.storeError("revoke_session", res.Err)
	}

	if res.SessionDeleted {
		a.metricInc(MetricSessionRevoked)
	}
	a.logger.Info("goCAS: session revoked", "user_id", userID, "ticket_deleted", res.TicketDeleted)
	return nil
}

// Ping checks the store when it supports health checks.
func (a *Authority) Ping(ctx context.Context) error {
	if a == nil {
		return ErrAuthorityNotReady
	}
	pinger, ok := a.store.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	if err := pinger.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func validIdentity(identity UserIdentity) bool {
	return strings.TrimSpace(identity.ID) != "" && strings.TrimSpace(identity.Username) != ""
}
