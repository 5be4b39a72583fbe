// Package diskstore is the default ChunkStore backend: one file per chunk
// under <base_path>/chunks/<chunk-uuid>, raw post-transform bytes, no
// framing or header.
package diskstore

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"chunkvault/internal/chunker"
	"chunkvault/internal/chunkid"
	"chunkvault/internal/vaulterr"
)

// Store persists chunks as individual files under dir.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating it if missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, vaulterr.IO("create chunks directory", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id chunkid.ChunkID) string {
	return filepath.Join(s.dir, id.String())
}

// WriteChunks writes each chunk's bytes in parallel and returns their ids
// in input order. A failure on any chunk fails the whole call.
func (s *Store) WriteChunks(ctx context.Context, chunks []chunker.Chunk) ([]chunkid.ChunkID, error) {
	ids := make([]chunkid.ChunkID, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(s.path(ch.ID), ch.Data, 0o644); err != nil {
				return vaulterr.IO("write chunk "+ch.ID.String(), err)
			}
			ids[i] = ch.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadChunk reads a chunk's raw bytes.
func (s *Store) ReadChunk(_ context.Context, id chunkid.ChunkID) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vaulterr.NotFound("chunk " + id.String())
		}
		return nil, vaulterr.IO("read chunk "+id.String(), err)
	}
	return data, nil
}

// DeleteChunk removes a chunk file. A missing file is not an error.
func (s *Store) DeleteChunk(_ context.Context, id chunkid.ChunkID) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return vaulterr.IO("delete chunk "+id.String(), err)
	}
	return nil
}

// ListChunkIDs enumerates every chunk file currently on disk.
func (s *Store) ListChunkIDs(_ context.Context) ([]chunkid.ChunkID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, vaulterr.IO("list chunks directory", err)
	}
	ids := make([]chunkid.ChunkID, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, err := chunkid.ParseChunkID(e.Name())
		if err != nil {
			continue // not a chunk file; ignore stray entries
		}
		ids = append(ids, id)
	}
	return ids, nil
}
