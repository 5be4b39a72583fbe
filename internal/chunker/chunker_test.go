package chunker

import (
	"bytes"
	"testing"
)

func TestChunkDataEmpty(t *testing.T) {
	c := New(DefaultSize)
	chunks := c.ChunkData(nil)
	if len(chunks) != 0 {
		t.Fatalf("expected empty sequence, got %d chunks", len(chunks))
	}
}

func TestChunkDataSmall(t *testing.T) {
	c := New(DefaultSize)
	data := []byte("Hello, World!")
	chunks := c.ChunkData(data)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !bytes.Equal(chunks[0].Data, data) {
		t.Errorf("chunk data mismatch: got %q", chunks[0].Data)
	}
	if chunks[0].Size != len(data) {
		t.Errorf("expected size %d, got %d", len(data), chunks[0].Size)
	}
}

func TestChunkDataMultiWindow(t *testing.T) {
	c := New(10)
	data := bytes.Repeat([]byte{0xAB}, 25)
	chunks := c.ChunkData(data)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	sizes := []int{10, 10, 5}
	total := 0
	for i, ch := range chunks {
		if ch.Size != sizes[i] {
			t.Errorf("chunk %d: expected size %d, got %d", i, sizes[i], ch.Size)
		}
		total += ch.Size
	}
	if total != len(data) {
		t.Errorf("total chunk size %d != input size %d", total, len(data))
	}
}

func TestChunkDataConcatenationEqualsInput(t *testing.T) {
	c := New(7)
	data := []byte("the quick brown fox jumps over the lazy dog")
	chunks := c.ChunkData(data)

	var buf bytes.Buffer
	for _, ch := range chunks {
		buf.Write(ch.Data)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Fatal("concatenation of chunk data does not equal input")
	}
}

func TestChunkDataDistinctIDs(t *testing.T) {
	c := New(4)
	data := bytes.Repeat([]byte{0x01}, 8) // two identical 4-byte windows
	chunks := c.ChunkData(data)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ID == chunks[1].ID {
		t.Fatal("expected distinct chunk ids even for identical byte windows")
	}
	if chunks[0].Checksum != chunks[1].Checksum {
		t.Fatal("expected identical checksums for identical byte windows")
	}
}

func TestChunkDataBoundedBySize(t *testing.T) {
	c := New(DefaultSize)
	data := make([]byte, 2_621_940) // 2 full windows plus a 524,788-byte tail
	chunks := c.ChunkData(data)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 2,621,940 bytes, got %d", len(chunks))
	}
	total := 0
	for _, ch := range chunks {
		if ch.Size > DefaultSize {
			t.Errorf("chunk size %d exceeds DefaultSize", ch.Size)
		}
		total += ch.Size
	}
	if total != len(data) {
		t.Errorf("total chunk size %d != input size %d", total, len(data))
	}
}
