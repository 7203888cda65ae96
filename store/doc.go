// Package store is the Session Store Adapter: a thin key/value contract over
// Redis that the Ticket Authority builds on.
//
// # Contract
//
// Every operation touches exactly one key and relies on Redis single-key
// atomicity. There are no multi-key transactions. [Store.Consume] is the one
// primitive with ordering semantics: at most one concurrent caller observes
// the value before the key disappears (see [ConsumeMode]).
//
// # Key layout
//
// [Keyspace] produces the interop-stable keys:
//
//	ticket:global:<token>  -> user id
//	ticket:temp:<token>    -> token (self marker, bounded TTL)
//	session:<userId>       -> JSON identity record
//
// # What this package must NOT do
//
//   - Import goCAS or interpret the values it stores.
//   - Retry failed commands; failures surface as [ErrUnavailable].
package store
