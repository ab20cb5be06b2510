// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the client-side cryptography of a protected
// text site: the password-based cipher whose wire format is shared with the
// browser client, and the SHA-512 digests the remote store relies on for
// identity and optimistic locking.
//
// Wire format of an encrypted site:
//
//	base64( "Salted__" ‖ salt(8) ‖ AES-256-CBC(PKCS#7(plaintext)) )
//
// Key and IV are derived from password ‖ salt with OpenSSL's
// EVP_BytesToKey (MD5, one round), which is what CryptoJS.AES does when it
// is given a passphrase instead of a key.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/cipher_mock.go -package=mock

// Cipher encrypts and decrypts site content to and from the wire string
// exchanged with the remote store.
type Cipher interface {
	// Encrypt seals plaintext with a key derived from password and a fresh
	// random salt and returns the base64 wire string.
	Encrypt(plaintext, password string) (string, error)

	// Decrypt opens a wire string produced by Encrypt (or by any client
	// speaking the same format). It returns [ErrDecode] when the input is
	// not a well-formed wire string and [ErrBadPadding] when the derived key
	// is wrong in a way the padding check can detect. A wrong password can
	// still yield garbage with valid padding; callers must verify content.
	Decrypt(wire, password string) (string, error)
}
