// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-protected-text/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into a service error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrRejected):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, adapter.ErrEmptySiteName):
		return ErrEmptySiteName
	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrSiteNotFound, err)
	}

	return fmt.Errorf("%w: %w", ErrRemoteStore, err)
}
