// Package directory provides a static, file-backed implementation of
// goCAS.Authenticator for deployments without an external identity store,
// and the two fixture users used by local demos.
//
// Passwords are stored as Argon2id PHC strings produced by the password
// package (or by `casd hash-password`).
package directory
