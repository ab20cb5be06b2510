package store

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxSnapshotSize caps the decompressed size of a cached blob.
const maxSnapshotSize = 64 << 20

var (
	// zstd encoder and decoder are safe for concurrent EncodeAll/DecodeAll
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdOnce    sync.Once
	zstdErr     error
)

func initZstd() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithZeroFrames(true))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxSnapshotSize))
		if zstdErr != nil {
			zstdEncoder.Close()
			zstdEncoder = nil
		}
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

func compressBlob(content string) ([]byte, error) {
	encoder, _, err := initZstd()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompressingSnapshot, err)
	}
	return encoder.EncodeAll([]byte(content), nil), nil
}

func decompressBlob(blob []byte) (string, error) {
	_, decoder, err := initZstd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecompressingSnapshot, err)
	}
	out, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecompressingSnapshot, err)
	}
	if len(out) > maxSnapshotSize {
		return "", ErrDecompressingSnapshot
	}
	return string(out), nil
}
