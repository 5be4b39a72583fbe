// Package chunkstore defines the ChunkStore capability set consumed by the
// engine, decoupling it from any one storage backend. Two implementations
// exist: diskstore (local filesystem, the default) and s3store (an
// S3-compatible object store).
package chunkstore

import (
	"context"

	"chunkvault/internal/chunker"
	"chunkvault/internal/chunkid"
)

// ChunkStore writes and reads raw, post-transform chunk bytes by id.
type ChunkStore interface {
	// WriteChunks persists each chunk's bytes and returns their ids in
	// input order.
	WriteChunks(ctx context.Context, chunks []chunker.Chunk) ([]chunkid.ChunkID, error)

	// ReadChunk returns the raw bytes for a previously written chunk.
	ReadChunk(ctx context.Context, id chunkid.ChunkID) ([]byte, error)

	// DeleteChunk removes a chunk. A missing chunk is not an error; the
	// caller logs and swallows deletion failures during housekeeping.
	DeleteChunk(ctx context.Context, id chunkid.ChunkID) error

	// ListChunkIDs enumerates every chunk id the backend currently holds,
	// used by the orphan sweep to compute U \ R.
	ListChunkIDs(ctx context.Context) ([]chunkid.ChunkID, error)
}
