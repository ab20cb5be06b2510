package document

import "errors"

var (
	// ErrUnexistentSite is returned by Unlock when the remote store holds no
	// content for the name yet. The site must be created first.
	ErrUnexistentSite = errors.New("site does not exist")
	// ErrDecryptionFailed means the password is wrong or the blob is corrupt.
	ErrDecryptionFailed = errors.New("content could not be decrypted")
	// ErrDecryptionNeeded is returned when an operation needs the decrypted
	// content of a locked document.
	ErrDecryptionNeeded = errors.New("decrypt the site first")
	// ErrInvalidArgument covers empty passwords, empty tab lists and tab
	// indexes out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPasswordRequired is returned when content must be encrypted but no
	// password has been set.
	ErrPasswordRequired = errors.New("site must have a password")
)
