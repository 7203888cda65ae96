// Package flows contains pure-function orchestrators for every Authority
// operation.
//
// Each flow function (RunCheckExistingSession, RunEstablishSession,
// RunIssueTemporaryTicket, RunVerifyTemporaryTicket, RunRevokeSession)
// accepts a typed dependency struct and returns a result carrying a failure
// kind. The root package maps failure kinds to public errors, metrics and log
// lines.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goCAS (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency interfaces.
package flows
