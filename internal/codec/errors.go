package codec

import "errors"

var (
	// ErrInvalidMetadata is returned when the metadata tab does not hold a
	// JSON object.
	ErrInvalidMetadata = errors.New("invalid metadata tab")
)
