// Package token builds, signs and verifies the three claim shapes issued by
// the identity service: the login SessionToken, the signup
// VerificationToken and the app-scoped Token.
//
// Signing is stateless. Keys come from a KeyProvider and the JWT algorithm
// follows from the key type. SessionToken and VerificationToken carry a
// self-identifier computed as BLAKE3 over the CBOR core-deterministic
// encoding of their remaining fields.
package token
