// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// saltedPrefix opens every wire blob, followed by the 8-byte salt.
var saltedPrefix = []byte("Salted__")

const headerSize = 8 + saltSize

// aesCipher is the OpenSSL/CryptoJS compatible implementation of [Cipher].
type aesCipher struct {
	// saltSource provides the random salt for Encrypt. It is crypto/rand
	// in production and a fixed reader in tests.
	saltSource io.Reader
}

// NewAESCipher constructs the [Cipher] used for site content. Salts are read
// from the OS CSPRNG.
func NewAESCipher() Cipher {
	return &aesCipher{saltSource: rand.Reader}
}

// NewAESCipherWithSalt constructs a [Cipher] that reads salts from r. It
// exists so that encryption output can be pinned in tests; production code
// should use [NewAESCipher].
func NewAESCipherWithSalt(r io.Reader) Cipher {
	return &aesCipher{saltSource: r}
}

// Encrypt implements [Cipher].
func (c *aesCipher) Encrypt(plaintext, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.saltSource, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, iv := evpBytesToKey([]byte(password), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)

	blob := make([]byte, headerSize+len(padded))
	copy(blob, saltedPrefix)
	copy(blob[len(saltedPrefix):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(blob[headerSize:], padded)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Cipher].
func (c *aesCipher) Decrypt(wire, password string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(stripSpaces(wire))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if len(blob) < headerSize || !bytes.Equal(blob[:len(saltedPrefix)], saltedPrefix) {
		return "", fmt.Errorf("%w: missing salt header", ErrDecode)
	}

	salt, ciphertext := blob[len(saltedPrefix):headerSize], blob[headerSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d", ErrDecode, len(ciphertext))
	}

	key, iv := evpBytesToKey([]byte(password), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(plain), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPadding
		}
	}

	return data[:len(data)-n], nil
}

// stripSpaces drops line breaks and other whitespace that base64 tooling
// (openssl -a) inserts into long blobs.
func stripSpaces(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
