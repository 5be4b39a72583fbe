// Package validate checks that a file's metadata record is consistent with
// the chunk store: every referenced chunk exists, and the chunks' combined
// size matches the recorded size. It does not recompute checksums — that is
// a separate, more expensive integrity check left to the caller.
package validate

import (
	"context"
	"fmt"

	"chunkvault/internal/chunkstore"
	"chunkvault/internal/filemeta"
	"chunkvault/internal/vaulterr"
)

// Validator checks FileMetadata records against a ChunkStore.
type Validator struct {
	store chunkstore.ChunkStore
}

// New creates a Validator backed by store.
func New(store chunkstore.ChunkStore) *Validator {
	return &Validator{store: store}
}

// Validate confirms every chunk in meta.ChunkIDs exists in the store and
// that their sizes sum to meta.Size. It returns a KindStorage vaulterr.Error
// describing the first inconsistency found, or nil if the record is
// consistent.
func (v *Validator) Validate(ctx context.Context, meta filemeta.FileMetadata) error {
	var total uint64
	for _, id := range meta.ChunkIDs {
		data, err := v.store.ReadChunk(ctx, id)
		if err != nil {
			if vaulterr.IsNotFound(err) {
				return vaulterr.Storage(fmt.Sprintf("missing chunk %s referenced by file %s", id, meta.ID), nil)
			}
			return err
		}
		total += uint64(len(data))
	}
	if total != meta.Size {
		return vaulterr.Storage(fmt.Sprintf("size mismatch for file %s: recorded %d, chunks sum to %d", meta.ID, meta.Size, total), nil)
	}
	return nil
}
