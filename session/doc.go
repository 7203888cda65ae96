// Package session provides the session record model and its JSON encoding.
//
// # Encoding
//
// A record is stored under session:<userId> as a JSON object with at least
// "id" and "username". The format is shared with tooling outside this module,
// so fields are only ever added, never renamed. Unknown fields are ignored on
// read.
//
// # Architecture boundaries
//
// This package owns the [Record] shape and its validation. It does NOT read or
// write the store and does NOT decide whether a record is trusted; the Ticket
// Authority reaches a record only through a valid global ticket.
//
// # What this package must NOT do
//
//   - Import goCAS or store (no upward imports).
//   - Carry credentials or password hashes in [Record] fields.
package session
