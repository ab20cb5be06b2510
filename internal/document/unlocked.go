// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-protected-text/internal/codec"
	"github.com/MKhiriev/go-protected-text/internal/crypto"
)

// Unlocked is a document whose content is known. Every mutation rewrites
// the plaintext and re-encrypts the blob before it returns; a mutation that
// fails changes nothing.
type Unlocked struct {
	doc *Document

	password  string
	plaintext string
	content   codec.Content
	initToken string
}

func newBlank(d *Document) *Unlocked {
	return &Unlocked{
		doc:     d,
		content: codec.Content{Tabs: []string{}},
	}
}

// Document returns the document this handle belongs to.
func (u *Unlocked) Document() *Document {
	return u.doc
}

func (u *Unlocked) Name() string {
	return u.doc.name
}

// Plaintext returns the decrypted body without the site hash suffix.
func (u *Unlocked) Plaintext() string {
	return u.plaintext
}

func (u *Unlocked) Password() string {
	return u.password
}

// InitToken returns the token computed at unlock time. The remote store
// compares it with its own copy before accepting a save or a delete. It is
// empty for a site that has never been saved.
func (u *Unlocked) InitToken() string {
	return u.initToken
}

// CurrentToken returns the token of the current content. It becomes the
// init token once the content is saved.
func (u *Unlocked) CurrentToken() string {
	return crypto.ContentToken(u.plaintext, u.password, u.doc.expectedVersion)
}

// Tabs returns the logical tabs. The metadata tab is never included.
func (u *Unlocked) Tabs() []string {
	return slices.Clone(u.content.Tabs)
}

// RawTabs returns the tabs as stored, metadata tab last.
func (u *Unlocked) RawTabs() []string {
	return u.content.RawTabs()
}

func (u *Unlocked) HasMetadata() bool {
	return u.content.HasMetadata
}

// Metadata decodes the metadata tab. A document without one returns an
// empty [codec.Metadata].
func (u *Unlocked) Metadata() (codec.Metadata, error) {
	if !u.content.HasMetadata {
		return codec.Metadata{}, nil
	}
	return codec.DecodeMetadata(u.content.MetadataTab)
}

// SetPassword replaces the password. Existing content is re-encrypted with
// the new one; the init token keeps the old password so the remote store
// still accepts the next save.
func (u *Unlocked) SetPassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}

	if !u.doc.HasEncryptedContent() {
		u.password = password
		return nil
	}

	encrypted, err := u.doc.encrypt(u.plaintext, password)
	if err != nil {
		return err
	}
	u.password = password
	u.doc.encrypted = encrypted
	return nil
}

// UpdateTabs replaces the logical tabs. An existing metadata tab is kept.
func (u *Unlocked) UpdateTabs(tabs []string) error {
	if len(tabs) == 0 {
		return fmt.Errorf("%w: no tabs", ErrInvalidArgument)
	}

	next := codec.Content{
		Tabs:        slices.Clone(tabs),
		MetadataTab: u.content.MetadataTab,
		HasMetadata: u.content.HasMetadata,
	}
	return u.apply(next.String())
}

// UpdateRawTabs replaces every stored tab, the metadata tab included. Leaving
// the metadata tab out of raw drops it.
func (u *Unlocked) UpdateRawTabs(raw []string) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: no tabs", ErrInvalidArgument)
	}
	return u.apply(codec.JoinTabs(raw))
}

// SetMetadata writes m as the metadata tab, adding the default version and
// color. Empty metadata removes the tab.
func (u *Unlocked) SetMetadata(m codec.Metadata) error {
	if m.Len() == 0 {
		return u.RemoveMetadata()
	}

	tab, err := codec.EncodeMetadata(m)
	if err != nil {
		return err
	}

	next := codec.Content{
		Tabs:        u.content.Tabs,
		MetadataTab: tab,
		HasMetadata: true,
	}
	return u.apply(next.String())
}

// RemoveMetadata drops the metadata tab. It is a no-op when there is none.
func (u *Unlocked) RemoveMetadata() error {
	if !u.content.HasMetadata {
		return nil
	}

	tabs := u.content.Tabs
	if len(tabs) == 0 {
		tabs = []string{""}
	}
	return u.apply(codec.JoinTabs(tabs))
}

// Tab returns the logical tab at i.
func (u *Unlocked) Tab(i int) (string, error) {
	if err := u.checkIndex(i, len(u.content.Tabs)); err != nil {
		return "", err
	}
	return u.content.Tabs[i], nil
}

// TabTitle returns the first line of the tab at i.
func (u *Unlocked) TabTitle(i int) (string, error) {
	tab, err := u.Tab(i)
	if err != nil {
		return "", err
	}
	if end := strings.IndexAny(tab, "\r\n"); end >= 0 {
		return tab[:end], nil
	}
	return tab, nil
}

// AddTab appends a tab.
func (u *Unlocked) AddTab(content string) error {
	return u.InsertTab(len(u.content.Tabs), content)
}

// InsertTab inserts a tab before position i. i may equal the number of tabs.
func (u *Unlocked) InsertTab(i int, content string) error {
	if err := u.checkIndex(i, len(u.content.Tabs)+1); err != nil {
		return err
	}
	return u.UpdateTabs(slices.Insert(slices.Clone(u.content.Tabs), i, content))
}

// UpdateTab replaces the content of the tab at i.
func (u *Unlocked) UpdateTab(i int, content string) error {
	if err := u.checkIndex(i, len(u.content.Tabs)); err != nil {
		return err
	}
	tabs := slices.Clone(u.content.Tabs)
	tabs[i] = content
	return u.UpdateTabs(tabs)
}

// RemoveTab deletes the tab at i. The last remaining tab cannot be removed.
func (u *Unlocked) RemoveTab(i int) error {
	if err := u.checkIndex(i, len(u.content.Tabs)); err != nil {
		return err
	}
	return u.UpdateTabs(slices.Delete(slices.Clone(u.content.Tabs), i, i+1))
}

// MoveTab moves the tab at from so that it ends up at position to.
func (u *Unlocked) MoveTab(from, to int) error {
	n := len(u.content.Tabs)
	if err := u.checkIndex(from, n); err != nil {
		return err
	}
	if err := u.checkIndex(to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	tabs := slices.Clone(u.content.Tabs)
	tab := tabs[from]
	tabs = slices.Delete(tabs, from, from+1)
	return u.UpdateTabs(slices.Insert(tabs, to, tab))
}

// Revision is one consistent view of the content to submit: both tokens and
// the blob come from the same plaintext.
type Revision struct {
	InitToken        string
	CurrentToken     string
	EncryptedContent string
}

// Revision reads the tokens and the blob of the current content.
func (u *Unlocked) Revision() Revision {
	return Revision{
		InitToken:        u.initToken,
		CurrentToken:     u.CurrentToken(),
		EncryptedContent: u.doc.encrypted,
	}
}

// MarkSaved records that the content with token is what the remote store
// now holds, so the next save is checked against it. Pass the token that was
// submitted, not the one of the content as it is now.
func (u *Unlocked) MarkSaved(token string) {
	u.initToken = token
	u.doc.isNew = false
	u.doc.currentVersion = u.doc.expectedVersion
}

// MarkDeleted resets the document to a never-saved site. The password is
// kept so the site can be created again.
func (u *Unlocked) MarkDeleted() {
	u.doc.isNew = true
	u.doc.encrypted = ""
	u.plaintext = ""
	u.initToken = ""
	u.content = codec.Content{Tabs: []string{}}
}

func (u *Unlocked) checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: tab index %d out of range [0,%d)", ErrInvalidArgument, i, n)
	}
	return nil
}

func (u *Unlocked) apply(body string) error {
	encrypted, err := u.doc.encrypt(body, u.password)
	if err != nil {
		return err
	}

	u.plaintext = body
	u.content = codec.ParseContent(body)
	u.doc.encrypted = encrypted
	return nil
}
