// Package goCAS is a single-sign-on ticket broker. It authenticates users once
// against an external directory, binds the login to an opaque global ticket,
// and lets relying applications learn the user's identity by exchanging a
// short-lived, single-use temporary ticket.
//
// The package is designed for concurrent server workloads: Authority methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goCAS is the public surface. It exposes [Authority], [Builder], [Config],
// and value types ([UserIdentity], [VerifyOutcome], [MetricsSnapshot]). Flow
// orchestration lives under internal/flows. The key/value contract lives in
// the store package. HTTP concerns live in the gateway package and never reach
// the Authority.
//
// # Store layout
//
//	ticket:global:<token> -> userId             (no expiry by default)
//	ticket:temp:<token>   -> <token>            (expires after Tickets.TemporaryTTL)
//	session:<userId>      -> JSON UserIdentity  (upserted on every login)
//
// # What this package must NOT do
//
//   - Retry store operations. Callers decide.
//   - Log ticket tokens or passwords.
//   - Import any sub-package that re-imports goCAS (no import cycles).
//
// # Performance contract
//
// CheckExistingSession costs two store reads. VerifyTemporaryTicket costs one
// atomic consume plus two reads. Sliding TTLs add two EXPIRE calls to either.
package goCAS
