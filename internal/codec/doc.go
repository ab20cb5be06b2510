// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec turns the decrypted body of a site into tabs and metadata
// and back.
//
// A body is a list of tabs joined with [crypto.TabSeparatorHash]. When the
// mobile app stored settings for the site, the last tab starts with
// [MetadataMarker] followed by a JSON object; that tab is hidden from the
// logical tab list. No escaping is applied: a tab that contains the
// separator literally is indistinguishable from two tabs, which is what the
// other clients do as well.
package codec
