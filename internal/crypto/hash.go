// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha512"
	"encoding/hex"
	"strconv"
)

// TabSeparatorLabel is hashed into the separator placed between tabs.
const TabSeparatorLabel = "-- tab separator --"

// TabSeparatorHash is the fixed separator between tabs. It is the same for
// every site and every password.
var TabSeparatorHash = DomainHash(TabSeparatorLabel)

// DomainHash returns the lowercase hex SHA-512 digest of label.
func DomainHash(label string) string {
	sum := sha512.Sum512([]byte(label))
	return hex.EncodeToString(sum[:])
}

// SiteHash returns the identity suffix appended to the plaintext of site
// name before encryption.
func SiteHash(name string) string {
	return DomainHash("/" + name)
}

// ContentToken computes the hash the remote store keeps for a site and
// compares on save and delete:
//
//	hex(SHA512(content ‖ hex(SHA512(password)))) ‖ decimal(version)
//
// The version is appended as text, not hashed.
func ContentToken(content, password string, version int) string {
	return DomainHash(content+DomainHash(password)) + strconv.Itoa(version)
}
