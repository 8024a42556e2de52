// Package chain implements the legacy on-chain path of the function
// lifecycle: minting a function record as a Sui Move object and verifying
// that the content stored on chain matches what the FaaS registry serves.
//
// The package talks to a Sui full node over JSON-RPC 2.0 (jrpc2 over HTTP),
// signs transactions with an ed25519 key taken from the local Sui keystore,
// and never panics on malformed node responses: missing objects, effects or
// fields are reported as apperr.ErrChain, content mismatches as
// apperr.ErrAssertion.
package chain
