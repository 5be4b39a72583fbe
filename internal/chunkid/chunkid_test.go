package chunkid

import (
	"encoding/json"
	"testing"
)

func TestChunkIDRoundTrip(t *testing.T) {
	id := NewChunkID()
	parsed, err := ParseChunkID(id.String())
	if err != nil {
		t.Fatalf("ParseChunkID: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: got %v, want %v", parsed, id)
	}
}

func TestChunkIDDistinct(t *testing.T) {
	a := NewChunkID()
	b := NewChunkID()
	if a == b {
		t.Fatal("expected two freshly generated ids to differ")
	}
}

func TestChunkIDJSON(t *testing.T) {
	id := NewChunkID()
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ChunkID
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != id {
		t.Fatalf("json round trip mismatch: got %v, want %v", got, id)
	}
}

func TestFileIDRoundTrip(t *testing.T) {
	id := NewFileID()
	parsed, err := ParseFileID(id.String())
	if err != nil {
		t.Fatalf("ParseFileID: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: got %v, want %v", parsed, id)
	}
}
