// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport to the remote protected-text store.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP
// implementation ([NewHTTPServerAdapter]) speaking the store's form-post API.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling. A request the store answers with a status other than
// "success" yields [ErrRejected].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-protected-text/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the remote
// store. The store is an opaque blob keeper: it never sees plaintext or
// passwords, only encrypted content and content tokens.
type ServerAdapter interface {
	// Fetch returns the stored record for name. A name that was never saved
	// is not an error; the response has IsNew set and no content.
	Fetch(ctx context.Context, name string) (models.SiteResponse, error)

	// Save submits new encrypted content. The store compares
	// req.InitHashContent with its record and rejects the save when another
	// client has saved in between; the rejection is returned as
	// [ErrRejected] (wrapped) and is never retried.
	Save(ctx context.Context, req models.SaveRequest) (models.StatusResponse, error)

	// Delete removes the site. The same init token check as Save applies.
	Delete(ctx context.Context, req models.DeleteRequest) (models.StatusResponse, error)
}
