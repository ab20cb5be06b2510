// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-protected-text/internal/codec"
	"github.com/MKhiriev/go-protected-text/internal/crypto"
)

const (
	siteName     = "phptest"
	sitePassword = "123123"

	// first content | second content
	plainBlob = "U2FsdGVkX1/HkflrmLEteQpOURUCE9BckYfvvkh1/TwmiyAfTWjFV7bDEChbjOBPsT1ZiyexpmkrR9mlUeSDa08ZLZJ2r38VO38hDl48X7HKDAo7v+wQ2E+PLOleittB/j1k7/EuI2tAtr6yyBJXnpzb0pw5esejvM/nNFxFLoVbFDl6oWF9dLE/L5YUAUaWjhmdi7z97zQZUxymHEYE/aeofHtbWR3561qz6IaHDXvfPPAcc/rlXIo/ayUZRWHNNITnYnHdDNRr1VgGvpHA/E0nrGUe8JzwrRPpLpRv1kmswGbxh1JPjqXxzMq9MEtlQaCCyNTyzz6nzz0omkVWZWfWrrrs/20ePkM5MP2ECYtys8r+/kOm/7afRcZlA7k90F4tVT56Rk2piwnVhcNg5w=="

	// first content | second content | metadata
	metadataBlob = "U2FsdGVkX18hEjRRtWFyLwYvuGEVUQi9A93527teKIRjnviukNmKnU4y8fAeHHoN9cpmHH4KHMEA0xKC1ai4IOzQeyysJQY8tnukO9H3M8bwCpUoNDFIrxpCMHDNDbaWBs/6kcwcOVIagKlkcJeRk6GTISJJH9DsussZF2O2WGSY6KWtzH+y/eZE8qUwkM3gIHQNwQwQ7kciNhiakkama/g+5XOlXN+J5uIBzi3gW4r2Una6Pzw68zGLvxAwsitUlWtcBqeP37tIuLKJpwRnxwiWL8aJDiph+w2QCq2FTKC1hRoIEd6U5PeLQqQ57xl66Lod4ZNe2ZhVrbZyaCYtfW0LBDWjXt/d3/jdldwmzm3U3h8V9rhpm4ZhK9sUYV3XIKsKAEQPN55DFqPhz5FbokGa8//jdBSOHGZ2i2kkYhTrvm8/gReniJqq5EYzGM5I/bOiB1DuFC0J8z2R5zXMl05E8XdzhI1RrDpEDpXl+zcrXeZhzKuHdhPtyPqTFyMGIoC1xbisj35OwVJuMyTYBGo39HYFGLlftZmax9yPyIfUSo3VzTMyt4Rbgj6xfu1basPhMsWDTejjzZloC4YxZyZ0paPeZmVB5U28UAzZDxztLHsyTzMV229nkLJBpM/O+Aek507NPeGP9PQEBCLsXBI1vvzm7k4lyYmzps383iQga9M28WqMIaK5HQP0OLieScXVVUKhRQqz+rgy48aeug=="

	plainInitToken    = "cc9a5efa47bf35232088488645cf318770b5d808782fbbe069dabc0195484b716d8a4dd21ac65b7f0b7c67a34db16c3f89708709cd2b48b582a9c2296b13185b2"
	metadataInitToken = "2f92bfb3b1aecaaa8f152163186d4cd913917699076599286c4352aadf196957880f55d2b6efa93f1939360a6b53d4562a3c6f6df8c74be3844300beaf93615d2"

	storedMetadata = `{"version":1,"title":"Title","color":-1118482}`
)

var sep = crypto.TabSeparatorHash

// stubCipher returns canned results and records the last plaintext it was
// asked to encrypt.
type stubCipher struct {
	encrypted  string
	encryptErr error
	decrypted  string
	decryptErr error

	lastPlaintext string
}

func (s *stubCipher) Encrypt(plaintext, _ string) (string, error) {
	s.lastPlaintext = plaintext
	return s.encrypted, s.encryptErr
}

func (s *stubCipher) Decrypt(_, _ string) (string, error) {
	return s.decrypted, s.decryptErr
}

func fetchedSite(blob string) *Document {
	return New(siteName, blob, false, 2, 2)
}

func unlockedSite(t *testing.T, blob string) *Unlocked {
	t.Helper()
	u, err := fetchedSite(blob).Unlock(sitePassword)
	require.NoError(t, err)
	return u
}

// ── New ──────────────────────────────────────────────────────────────────────

func TestNew_ExistingSite(t *testing.T) {
	d := New(siteName, "encryptedcontent", false, 2, 2)

	assert.Equal(t, siteName, d.Name())
	assert.Equal(t, "encryptedcontent", d.EncryptedContent())
	assert.True(t, d.HasEncryptedContent())
	assert.True(t, d.Exists())
	assert.False(t, d.IsNew())
	assert.Equal(t, 2, d.CurrentDBVersion())
	assert.Equal(t, 2, d.ExpectedDBVersion())
	assert.False(t, d.IsUnlocked())
}

func TestNew_UnexistentSiteIsUnlockedWithZeroTabs(t *testing.T) {
	d := New(siteName, "", true, 2, 2)

	assert.False(t, d.Exists())
	assert.True(t, d.IsUnlocked())

	u, err := d.Unlocked()
	require.NoError(t, err)
	assert.Equal(t, []string{}, u.Tabs())
	assert.Empty(t, u.Plaintext())
	assert.Empty(t, u.InitToken())
	assert.False(t, u.HasMetadata())
}

// ── Locked ───────────────────────────────────────────────────────────────────

func TestLocked_NeedsDecryption(t *testing.T) {
	d := fetchedSite(plainBlob)

	_, err := d.Unlocked()
	assert.ErrorIs(t, err, ErrDecryptionNeeded)

	_, err = d.InitToken()
	assert.ErrorIs(t, err, ErrDecryptionNeeded)

	_, err = d.CurrentToken()
	assert.ErrorIs(t, err, ErrDecryptionNeeded)
}

// ── Unlock ───────────────────────────────────────────────────────────────────

func TestUnlock_SiteWithoutMetadata(t *testing.T) {
	d := fetchedSite(plainBlob)

	u, err := d.Unlock(sitePassword)
	require.NoError(t, err)

	assert.True(t, d.IsUnlocked())
	assert.Equal(t, "first content"+sep+"second content", u.Plaintext())
	assert.Equal(t, sitePassword, u.Password())
	assert.Equal(t, plainInitToken, u.InitToken())
	assert.Equal(t, plainInitToken, u.CurrentToken())
	assert.Equal(t, []string{"first content", "second content"}, u.Tabs())
	assert.False(t, u.HasMetadata())

	m, err := u.Metadata()
	require.NoError(t, err)
	assert.Zero(t, m.Len())

	token, err := d.InitToken()
	require.NoError(t, err)
	assert.Equal(t, plainInitToken, token)
}

func TestUnlock_SiteWithMetadata(t *testing.T) {
	u := unlockedSite(t, metadataBlob)

	assert.Equal(t, "first content"+sep+"second content"+sep+codec.MetadataMarker+storedMetadata, u.Plaintext())
	assert.Equal(t, metadataInitToken, u.InitToken())
	assert.True(t, u.HasMetadata())
	assert.Equal(t, []string{"first content", "second content"}, u.Tabs())
	assert.Equal(t, []string{"first content", "second content", codec.MetadataMarker + storedMetadata}, u.RawTabs())

	m, err := u.Metadata()
	require.NoError(t, err)
	assert.Equal(t, []string{"version", "title", "color"}, m.Keys())
	assert.Equal(t, "Title", m.Title())
	assert.Equal(t, 1, m.Version())
	assert.Equal(t, -1118482, m.Color())
}

func TestUnlock_WrongPassword(t *testing.T) {
	d := fetchedSite(plainBlob)

	_, err := d.Unlock("wrongpassword")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.False(t, d.IsUnlocked())
	assert.Equal(t, plainBlob, d.EncryptedContent())
}

func TestUnlock_UnexistentSite(t *testing.T) {
	_, err := New(siteName, "", true, 2, 2).Unlock(sitePassword)
	assert.ErrorIs(t, err, ErrUnexistentSite)

	_, err = New(siteName, "", false, 2, 2).Unlock(sitePassword)
	assert.ErrorIs(t, err, ErrUnexistentSite)
}

func TestUnlock_MalformedBlob(t *testing.T) {
	d := fetchedSite("not base64 !!")

	_, err := d.Unlock(sitePassword)
	assert.ErrorIs(t, err, crypto.ErrDecode)
	assert.NotErrorIs(t, err, ErrDecryptionFailed)
}

func TestUnlock_BlobOfAnotherSite(t *testing.T) {
	// тот же пароль, но хэш сайта в конце не совпадает
	d := New("othersite", plainBlob, false, 2, 2)

	_, err := d.Unlock(sitePassword)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.False(t, d.IsUnlocked())
}

func TestUnlock_EmptyPlaintext(t *testing.T) {
	d := New(siteName, "blob", false, 2, 2, WithCipher(&stubCipher{}))

	_, err := d.Unlock(sitePassword)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestUnlock_CipherErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	d := New(siteName, "blob", false, 2, 2, WithCipher(&stubCipher{decryptErr: boom}))

	_, err := d.Unlock(sitePassword)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDecryptionFailed)
}

func TestUnlock_UsesExpectedVersion(t *testing.T) {
	d := New(siteName, plainBlob, false, 2, 3)

	u, err := d.Unlock(sitePassword)
	require.NoError(t, err)
	assert.Equal(t, crypto.ContentToken(u.Plaintext(), sitePassword, 3), u.InitToken())
}

// ── Compose ──────────────────────────────────────────────────────────────────

func TestCompose(t *testing.T) {
	d, err := Compose(siteName, sitePassword, []string{"a", "b"})
	require.NoError(t, err)

	assert.True(t, d.Exists())
	assert.False(t, d.IsUnlocked())
	assert.Equal(t, DefaultDBVersion, d.CurrentDBVersion())
	assert.Equal(t, DefaultDBVersion, d.ExpectedDBVersion())

	u, err := d.Unlock(sitePassword)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, u.Tabs())
}

func TestCompose_InvalidArguments(t *testing.T) {
	_, err := Compose(siteName, "", []string{"a"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Compose(siteName, sitePassword, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCompose_AppendsSiteHash(t *testing.T) {
	stub := &stubCipher{encrypted: "wire"}

	d, err := Compose(siteName, sitePassword, []string{"a", "b"}, WithCipher(stub))
	require.NoError(t, err)

	assert.Equal(t, "wire", d.EncryptedContent())
	assert.Equal(t, "a"+sep+"b"+crypto.SiteHash(siteName), stub.lastPlaintext)
}
