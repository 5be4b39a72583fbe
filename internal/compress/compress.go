// Package compress provides a reversible, bypassable byte-to-byte
// compression stage for the store/get pipeline, backed by zstd. Each
// stored file's bytes are compressed as a single stream; the chunk is
// already the random-access unit, so no seekable frame format is needed.
package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"chunkvault/internal/vaulterr"
)

// Compressor compresses and decompresses byte buffers. When disabled, both
// operations are the identity function.
type Compressor struct {
	enabled bool
	enc     *zstd.Encoder
	dec     *zstd.Decoder
}

// New creates a Compressor. When enabled is false, Compress and Decompress
// are both no-ops and no zstd encoder/decoder is constructed.
func New(enabled bool) (*Compressor, error) {
	c := &Compressor{enabled: enabled}
	if !enabled {
		return c, nil
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("compress: init encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("compress: init decoder: %w", err)
	}
	c.enc = enc
	c.dec = dec
	return c, nil
}

// Enabled reports whether this Compressor performs real compression.
func (c *Compressor) Enabled() bool {
	return c.enabled
}

// Compress returns data compressed with zstd, or data itself when disabled.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if !c.enabled {
		return data, nil
	}
	return c.enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decompress reverses Compress. Returns data itself when disabled.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if !c.enabled {
		return data, nil
	}
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, vaulterr.Storage("decompress", err)
	}
	return out, nil
}

// Close releases the underlying zstd encoder/decoder resources. Safe to
// call on a disabled Compressor.
func (c *Compressor) Close() {
	if !c.enabled {
		return
	}
	c.enc.Close()
	c.dec.Close()
}
