// Package catalog persists FileMetadata records, one JSON file per file id
// under <base_path>/metadata/<file-uuid>.json. Writes go through a temp
// file plus rename so readers never observe a partially written record;
// os.IsNotExist is treated as "no such record" rather than an I/O failure.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"chunkvault/internal/chunkid"
	"chunkvault/internal/filemeta"
	"chunkvault/internal/vaulterr"
)

// Catalog persists FileMetadata records as one JSON file per file id.
type Catalog struct {
	dir string
}

// New creates a Catalog rooted at dir, creating it if missing.
func New(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, vaulterr.IO("create metadata directory", err)
	}
	return &Catalog{dir: dir}, nil
}

func (c *Catalog) path(id chunkid.FileID) string {
	return filepath.Join(c.dir, id.String()+".json")
}

// Save writes meta, replacing any existing record for the same id.
func (c *Catalog) Save(meta filemeta.FileMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return vaulterr.Storage("encode file metadata", err)
	}

	tmp, err := os.CreateTemp(c.dir, "meta-*.tmp")
	if err != nil {
		return vaulterr.IO("create temp metadata file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return vaulterr.IO("write temp metadata file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return vaulterr.IO("close temp metadata file", err)
	}
	if err := os.Rename(tmpPath, c.path(meta.ID)); err != nil {
		os.Remove(tmpPath)
		return vaulterr.IO("rename metadata file into place", err)
	}
	return nil
}

// Load reads the record for id.
func (c *Catalog) Load(id chunkid.FileID) (filemeta.FileMetadata, error) {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return filemeta.FileMetadata{}, vaulterr.NotFound("file " + id.String())
		}
		return filemeta.FileMetadata{}, vaulterr.IO("read metadata file", err)
	}
	var meta filemeta.FileMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return filemeta.FileMetadata{}, vaulterr.Storage("decode file metadata", err)
	}
	return meta, nil
}

// Delete removes the record for id. A missing record is not an error.
func (c *Catalog) Delete(id chunkid.FileID) error {
	if err := os.Remove(c.path(id)); err != nil && !os.IsNotExist(err) {
		return vaulterr.IO("delete metadata file", err)
	}
	return nil
}

// List returns every record currently in the catalog, in no particular
// order.
func (c *Catalog) List() ([]filemeta.FileMetadata, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, vaulterr.IO("list metadata directory", err)
	}
	metas := make([]filemeta.FileMetadata, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id, err := chunkid.ParseFileID(strippedExt(e.Name()))
		if err != nil {
			continue
		}
		meta, err := c.Load(id)
		if err != nil {
			if vaulterr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func strippedExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
