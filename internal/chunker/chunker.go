// Package chunker splits a byte buffer into fixed-size, checksummed chunks.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"

	"chunkvault/internal/chunkid"
)

// DefaultSize is the default chunk window, 1 MiB.
const DefaultSize = 1 << 20 // 1,048,576 bytes

// Chunk is a transient record produced by ChunkData and consumed by a
// ChunkStore. Its lifetime ends once it is written or discarded.
type Chunk struct {
	ID       chunkid.ChunkID
	Data     []byte
	Checksum string // hex SHA-256 over Data
	Size     int
}

// Chunker splits byte buffers into fixed-size, non-overlapping windows.
type Chunker struct {
	size int
}

// New creates a Chunker with the given window size. A non-positive size
// falls back to DefaultSize.
func New(size int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	return &Chunker{size: size}
}

// ChunkData walks data from offset 0 in non-overlapping windows of at most
// the configured size, emitting one Chunk per window with a freshly
// allocated ChunkID. The last window may be smaller. Empty input yields an
// empty, non-nil slice.
func (c *Chunker) ChunkData(data []byte) []Chunk {
	if len(data) == 0 {
		return []Chunk{}
	}

	n := (len(data) + c.size - 1) / c.size
	chunks := make([]Chunk, 0, n)
	for off := 0; off < len(data); off += c.size {
		end := off + c.size
		if end > len(data) {
			end = len(data)
		}
		window := make([]byte, end-off)
		copy(window, data[off:end])

		sum := sha256.Sum256(window)
		chunks = append(chunks, Chunk{
			ID:       chunkid.NewChunkID(),
			Data:     window,
			Checksum: hex.EncodeToString(sum[:]),
			Size:     len(window),
		})
	}
	return chunks
}
