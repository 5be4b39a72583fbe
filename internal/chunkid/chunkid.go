// Package chunkid defines the identifier types used throughout chunkvault:
// a random ChunkID naming an on-disk chunk, and a random FileID naming a
// stored file's metadata record. Neither is content-derived — two identical
// byte windows stored in separate calls get distinct ids.
package chunkid

import (
	"fmt"

	"github.com/google/uuid"
)

// ChunkID uniquely names a chunk written by the Chunker. It is a 128-bit
// random identifier, not derived from the chunk's content.
type ChunkID uuid.UUID

// NewChunkID creates a fresh, randomly generated ChunkID.
func NewChunkID() ChunkID {
	return ChunkID(uuid.New())
}

// ParseChunkID parses a canonical UUID string into a ChunkID.
func ParseChunkID(s string) (ChunkID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ChunkID{}, fmt.Errorf("parse chunk id %q: %w", s, err)
	}
	return ChunkID(id), nil
}

// String returns the canonical hyphenated UUID representation, which is
// also chunkvault's on-disk filename for the chunk under chunks/.
func (id ChunkID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText implements encoding.TextMarshaler so a ChunkID round-trips
// through the FileMetadata JSON records the same way a plain string would.
func (id ChunkID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ChunkID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = ChunkID(u)
	return nil
}

// FileID uniquely names a stored file's metadata record. It is generated
// fresh by store_file and is never derived from the file's content or name.
type FileID uuid.UUID

// NewFileID creates a fresh, randomly generated FileID.
func NewFileID() FileID {
	return FileID(uuid.New())
}

// ParseFileID parses a canonical UUID string into a FileID.
func ParseFileID(s string) (FileID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return FileID{}, fmt.Errorf("parse file id %q: %w", s, err)
	}
	return FileID(id), nil
}

// String returns the canonical hyphenated UUID representation, which is
// also the on-disk filename stem for the file's metadata JSON record.
func (id FileID) String() string {
	return uuid.UUID(id).String()
}

func (id FileID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *FileID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = FileID(u)
	return nil
}
