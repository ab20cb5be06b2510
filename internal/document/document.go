// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package document holds the client-side model of one protected site: the
// encrypted blob fetched from the remote store and, once the password is
// known, the decrypted tabs and the tokens needed to save or delete it.
//
// A [Document] starts locked. [Document.Unlock] returns an [*Unlocked]
// handle through which the content is read and edited. A site that has
// never been saved has nothing to decrypt and is unlocked from the start
// with zero tabs.
//
// Documents are not safe for concurrent mutation.
package document

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-protected-text/internal/codec"
	"github.com/MKhiriev/go-protected-text/internal/crypto"
)

// Versions reported by the remote store for the current hash epoch.
const (
	DefaultDBVersion = 2
)

// Document is a site as returned by the remote store.
type Document struct {
	name            string
	encrypted       string
	isNew           bool
	currentVersion  int
	expectedVersion int

	cipher   crypto.Cipher
	unlocked *Unlocked
}

// Option configures a [Document].
type Option func(*Document)

// WithCipher replaces the AES cipher used to encrypt and decrypt content.
func WithCipher(c crypto.Cipher) Option {
	return func(d *Document) {
		d.cipher = c
	}
}

// New builds a document from the fields of a fetch response.
func New(name, encrypted string, isNew bool, currentVersion, expectedVersion int, opts ...Option) *Document {
	d := &Document{
		name:            name,
		encrypted:       encrypted,
		isNew:           isNew,
		currentVersion:  currentVersion,
		expectedVersion: expectedVersion,
		cipher:          crypto.NewAESCipher(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if isNew {
		d.unlocked = newBlank(d)
	}
	return d
}

// Compose builds an existing-style document holding tabs encrypted with
// password, as if it had just been fetched from the remote store. The
// result is locked.
func Compose(name, password string, tabs []string, opts ...Option) (*Document, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}
	if len(tabs) == 0 {
		return nil, fmt.Errorf("%w: no tabs", ErrInvalidArgument)
	}

	d := New(name, "", false, DefaultDBVersion, DefaultDBVersion, opts...)
	encrypted, err := d.encrypt(codec.JoinTabs(tabs), password)
	if err != nil {
		return nil, err
	}
	d.encrypted = encrypted
	return d, nil
}

func (d *Document) Name() string {
	return d.name
}

// EncryptedContent returns the wire blob. After a mutation it reflects the
// edited content.
func (d *Document) EncryptedContent() string {
	return d.encrypted
}

func (d *Document) HasEncryptedContent() bool {
	return d.encrypted != ""
}

// Exists reports whether the remote store has a record for the site.
func (d *Document) Exists() bool {
	return !d.isNew
}

func (d *Document) IsNew() bool {
	return d.isNew
}

func (d *Document) CurrentDBVersion() int {
	return d.currentVersion
}

// ExpectedDBVersion is the hash epoch used for every token of this
// document.
func (d *Document) ExpectedDBVersion() int {
	return d.expectedVersion
}

func (d *Document) IsUnlocked() bool {
	return d.unlocked != nil
}

// Unlocked returns the handle of an unlocked document.
func (d *Document) Unlocked() (*Unlocked, error) {
	if d.unlocked == nil {
		return nil, ErrDecryptionNeeded
	}
	return d.unlocked, nil
}

// InitToken returns the token frozen at unlock time.
func (d *Document) InitToken() (string, error) {
	u, err := d.Unlocked()
	if err != nil {
		return "", err
	}
	return u.InitToken(), nil
}

// CurrentToken returns the token of the content as it is now.
func (d *Document) CurrentToken() (string, error) {
	u, err := d.Unlocked()
	if err != nil {
		return "", err
	}
	return u.CurrentToken(), nil
}

// Unlock decrypts the document with password. On failure the document is
// left as it was.
func (d *Document) Unlock(password string) (*Unlocked, error) {
	if d.isNew || d.encrypted == "" {
		return nil, ErrUnexistentSite
	}

	plaintext, err := d.cipher.Decrypt(d.encrypted, password)
	if err != nil {
		if errors.Is(err, crypto.ErrBadPadding) {
			return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
		}
		return nil, err
	}
	if plaintext == "" {
		return nil, ErrDecryptionFailed
	}

	body, ok := codec.StripSiteHash(plaintext, crypto.SiteHash(d.name))
	if !ok {
		return nil, fmt.Errorf("%w: site hash mismatch", ErrDecryptionFailed)
	}

	u := &Unlocked{
		doc:       d,
		password:  password,
		plaintext: body,
		content:   codec.ParseContent(body),
		initToken: crypto.ContentToken(body, password, d.expectedVersion),
	}
	d.unlocked = u
	return u, nil
}

func (d *Document) encrypt(body, password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	encrypted, err := d.cipher.Encrypt(body+crypto.SiteHash(d.name), password)
	if err != nil {
		return "", fmt.Errorf("encrypt site content: %w", err)
	}
	return encrypted, nil
}
