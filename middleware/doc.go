// Package middleware exposes net/http middleware that admits only requests
// carrying a live global ticket cookie.
//
// [Guard] reads the ticket cookie, calls CheckExistingSession and injects the
// resulting goCAS.VerifyOutcome into the request context, where handlers read
// it back with [OutcomeFromContext]. [GinGuard] mounts the same check in a gin
// handler chain.
//
// # What this package must NOT do
//
//   - Mint, consume or delete tickets.
//   - Access the session store directly (the Authority handles I/O).
package middleware
