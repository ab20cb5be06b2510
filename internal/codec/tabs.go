// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"strings"

	"github.com/MKhiriev/go-protected-text/internal/crypto"
)

// SplitTabs splits a decrypted body on every occurrence of the tab
// separator. An empty body is a single empty tab.
func SplitTabs(plaintext string) []string {
	return strings.Split(plaintext, crypto.TabSeparatorHash)
}

// JoinTabs is the inverse of [SplitTabs].
func JoinTabs(tabs []string) string {
	return strings.Join(tabs, crypto.TabSeparatorHash)
}

// StripSiteHash removes the single trailing siteHash that was appended to
// the body before encryption. ok is false when the body does not end with
// siteHash, which after a successful decryption means the password was wrong
// or the blob belongs to another site. An empty siteHash strips nothing.
func StripSiteHash(plaintext, siteHash string) (body string, ok bool) {
	if siteHash == "" {
		return plaintext, true
	}
	if !strings.HasSuffix(plaintext, siteHash) {
		return plaintext, false
	}
	return plaintext[:len(plaintext)-len(siteHash)], true
}

// Content is a decrypted body split into the logical tabs and the optional
// metadata tab.
type Content struct {
	// Tabs is the logical tab list shown to users.
	Tabs []string

	// MetadataTab is the raw metadata tab (marker included). It is kept
	// verbatim so that tab edits do not rewrite metadata written by
	// another client.
	MetadataTab string

	// HasMetadata reports whether MetadataTab is part of the body.
	HasMetadata bool
}

// ParseContent splits plaintext into [Content]. When plaintext contains the
// metadata marker, the last raw tab is taken as the metadata tab.
func ParseContent(plaintext string) Content {
	raw := SplitTabs(plaintext)
	if !HasMetadata(plaintext) {
		return Content{Tabs: raw}
	}

	last := len(raw) - 1
	return Content{
		Tabs:        raw[:last],
		MetadataTab: raw[last],
		HasMetadata: true,
	}
}

// RawTabs returns the storage view: the logical tabs followed by the
// metadata tab when there is one.
func (c Content) RawTabs() []string {
	raw := make([]string, 0, len(c.Tabs)+1)
	raw = append(raw, c.Tabs...)
	if c.HasMetadata {
		raw = append(raw, c.MetadataTab)
	}
	return raw
}

// String joins the storage view into the plaintext body.
func (c Content) String() string {
	return JoinTabs(c.RawTabs())
}
