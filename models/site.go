// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Remote store actions sent in the "action" parameter.
const (
	ActionGetJSON = "getJSON"
	ActionSave    = "save"
	ActionDelete  = "delete"
)

// StatusSuccess is the status the remote store returns for an accepted
// save or delete.
const StatusSuccess = "success"

// SiteResponse is the body of GET <name>?action=getJSON.
type SiteResponse struct {
	// EncryptedContent is the wire blob, empty for a site that was never
	// saved.
	EncryptedContent string `json:"eContent"`

	// IsNew is true when the remote store has no record for the name.
	IsNew bool `json:"isNew"`

	// CurrentDBVersion is the hash epoch of the stored record.
	CurrentDBVersion int `json:"currentDBVersion"`

	// ExpectedDBVersion is the hash epoch the client must use for the
	// tokens it submits.
	ExpectedDBVersion int `json:"expectedDBVersion"`
}

// SaveRequest is the form posted to save a site.
type SaveRequest struct {
	Name string `json:"-"`

	// InitHashContent is the token the site was opened with. The remote
	// store rejects the save when it no longer matches its record.
	InitHashContent string `json:"initHashContent"`

	// CurrentHashContent is the token of the content being saved.
	CurrentHashContent string `json:"currentHashContent"`

	// EncryptedContent is the new wire blob.
	EncryptedContent string `json:"encryptedContent"`
}

// DeleteRequest is the form posted to delete a site.
type DeleteRequest struct {
	Name string `json:"-"`

	InitHashContent string `json:"initHashContent"`
}

// StatusResponse is the body returned by save and delete.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Succeeded reports whether the remote store accepted the request.
func (r StatusResponse) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Snapshot is a locally cached copy of a fetched site. It holds only the
// encrypted blob; nothing decrypted is ever written to disk.
type Snapshot struct {
	Name              string
	EncryptedContent  string
	IsNew             bool
	CurrentDBVersion  int
	ExpectedDBVersion int
	FetchedAt         time.Time
}
