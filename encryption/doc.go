// Package encryption seals secret key material before it reaches disk.
//
// Both ciphers are AEADs with a random nonce prepended to the ciphertext.
// The configured passphrase is stretched to 32 bytes with SHA-256.
package encryption
