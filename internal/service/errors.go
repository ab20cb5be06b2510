package service

import "errors"

var (
	ErrSiteNotFound      = errors.New("site does not exist")
	ErrSiteAlreadyExists = errors.New("site already exists")

	// ErrConflict means the remote store refused a save or delete, usually
	// because the site was changed by someone else since it was opened.
	ErrConflict = errors.New("remote store rejected the change")

	ErrEmptySiteName = errors.New("site name is empty")
	ErrEmptyContent  = errors.New("encrypted content can not be empty")
	ErrRemoteStore   = errors.New("remote store request failed")
	ErrCacheDisabled = errors.New("snapshot cache is disabled")
	ErrNilSite       = errors.New("site is nil")
)
