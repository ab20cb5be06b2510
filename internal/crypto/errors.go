package crypto

import "errors"

var (
	// ErrDecode is returned when a wire string is not base64, lacks the
	// "Salted__" header or carries a ciphertext of invalid length.
	ErrDecode = errors.New("malformed encrypted content")

	// ErrBadPadding is returned when the decrypted block does not end with
	// valid PKCS#7 padding. With this format it almost always means the
	// password was wrong.
	ErrBadPadding = errors.New("invalid padding after decryption")
)
