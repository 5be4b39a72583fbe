// Package filemeta defines FileMetadata, the catalog record for one stored
// file.
package filemeta

import (
	"time"

	"chunkvault/internal/chunkid"
	"chunkvault/internal/filetype"
)

// FileMetadata is the catalog record for one stored file. ChunkIDs is the
// concatenation order required to reassemble the stored (post-transform)
// bytes; Size and Checksum describe those same post-transform bytes.
type FileMetadata struct {
	ID         chunkid.FileID    `json:"id"`
	Name       string            `json:"name"`
	Size       uint64            `json:"size"`
	CreatedAt  time.Time         `json:"created_at"`
	ModifiedAt time.Time         `json:"modified_at"`
	Checksum   string            `json:"checksum"`
	FileType   filetype.FileType `json:"file_type"`
	ChunkIDs   []chunkid.ChunkID `json:"chunk_ids"`
}
