// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/md5"
)

const (
	saltSize = 8
	keySize  = 32 // AES-256
	ivSize   = 16
)

// evpBytesToKey derives key and IV the way OpenSSL's EVP_BytesToKey does
// with MD5 and a single iteration:
//
//	D_1 = MD5(password ‖ salt)
//	D_i = MD5(D_{i-1} ‖ password ‖ salt)
//
// The digests are concatenated until keySize+ivSize bytes are available.
func evpBytesToKey(password, salt []byte) (key, iv []byte) {
	const need = keySize + ivSize

	derived := make([]byte, 0, need+md5.Size)
	var prev []byte
	for len(derived) < need {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}

	return derived[:keySize], derived[keySize:need]
}
