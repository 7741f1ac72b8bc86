// Package auth supplies the bearer token attached to outgoing requests
// and decodes the identity claims embedded in it.
//
// Tokens are issued and verified server-side; the client only carries
// them and reads the subject/role claims to tag locally persisted
// records. Claim parsing here is therefore deliberately unverified -
// nothing security-relevant hangs off it on this side of the wire.
package auth
