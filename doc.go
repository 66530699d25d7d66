// Package authgate implements an account authentication engine: registration
// with email OTP verification, credential login issuing signed bearer tokens,
// token-based session resolution, password change, and account deletion.
//
// The package is the public surface. It exposes [Engine], [Builder], [Config],
// the sentinel error variables, and the collaborator contracts ([AccountStore],
// [Mailer]) that callers implement to plug in their storage and email
// transport. Ready-made adapters live in the pgstore, redisstore, and mailer
// subpackages; the HTTP surface lives in httpapi.
//
// # Architecture boundaries
//
// The engine performs no I/O of its own beyond calls into the injected
// collaborators. Every operation is one read-modify-write sequence against a
// single account record; there is no cross-record transaction and no shared
// in-process mutable state beyond what the store holds. [Engine.Resolve] is
// the hot path: token signature and claim checks are pure in-memory work,
// followed by exactly one store lookup.
//
// # Single-active-token invariant
//
// An account holds at most one outstanding access token. Login overwrites the
// stored token, password change clears it, and Resolve accepts a token only
// when it is both cryptographically valid and byte-identical to the stored
// one. A token superseded by a later login is therefore unresolvable even
// though its signature still verifies.
package authgate
