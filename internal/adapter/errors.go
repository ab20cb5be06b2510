package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrRejected is returned when the store answers a save or delete with
	// a status other than "success", typically because the init token no
	// longer matches.
	ErrRejected = errors.New("request rejected by remote store")
	// ErrEmptySiteName is returned before any request is made.
	ErrEmptySiteName = errors.New("empty site name")
)
