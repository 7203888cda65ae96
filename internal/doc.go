// Package internal contains helpers that are private to goCAS, chiefly
// ticket token minting.
//
// # Sub-packages
//
//   - flows: pure-function orchestrators behind every Authority operation
//
// # What this package must NOT do
//
//   - Export types that appear in the public goCAS API.
//   - Be imported by any package outside the goCAS module.
package internal
