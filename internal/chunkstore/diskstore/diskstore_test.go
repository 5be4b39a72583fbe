package diskstore

import (
	"context"
	"testing"

	"chunkvault/internal/chunker"
	"chunkvault/internal/chunkid"
	"chunkvault/internal/vaulterr"
)

func TestWriteReadDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := chunker.New(4).ChunkData([]byte("abcdefgh"))
	ids, err := s.WriteChunks(ctx, chunks)
	if err != nil {
		t.Fatalf("WriteChunks: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}

	data, err := s.ReadChunk(ctx, ids[0])
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if string(data) != "abcd" {
		t.Errorf("expected abcd, got %s", data)
	}

	listed, err := s.ListChunkIDs(ctx)
	if err != nil {
		t.Fatalf("ListChunkIDs: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 listed ids, got %d", len(listed))
	}

	if err := s.DeleteChunk(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteChunk: %v", err)
	}
	if _, err := s.ReadChunk(ctx, ids[0]); err == nil {
		t.Fatal("expected error reading deleted chunk")
	}
}

func TestDeleteMissingIsNotError(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.DeleteChunk(ctx, chunkid.NewChunkID()); err != nil {
		t.Fatalf("expected no error deleting missing chunk, got %v", err)
	}
}

func TestReadMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.ReadChunk(ctx, chunkid.NewChunkID()); !vaulterr.IsNotFound(err) {
		t.Fatalf("expected NotFound reading missing chunk, got %v", err)
	}
}
