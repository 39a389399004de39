// Package vault implements the encrypted credential store.
//
// Key derivation uses Argon2id (version 0x13, 19 MiB, 2 passes, 1 lane)
// over the master password and a fixed application salt, so the same
// password always reproduces the same 32-byte key. No verifier is stored:
// a wrong password shows up as a decryption failure.
//
// The entry list is serialized as JSON and encrypted with AES-256-CBC and
// PKCS#7 padding under a fresh random 16-byte IV on every save. The file on
// disk holds only the envelope:
//
//	u64 LE ciphertext length | ciphertext | 16-byte IV
//
// Saves go through a temporary file and a rename, guarded by an advisory
// lock on <vault>.lock. The ciphertext carries no authentication tag; only
// padding validity signals a wrong key or a damaged file.
package vault
