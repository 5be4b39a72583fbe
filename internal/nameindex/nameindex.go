// Package nameindex maintains the name -> id lookup used by download and
// delete when called with a filename instead of an id.
//
// The whole index lives in one JSON file, name_to_id.json, at the engine's
// base path. Concurrent Puts for the same name are last-writer-wins at the
// logical level (whichever call acquires the mutex second keeps the name),
// but each individual write is atomic via a temp file plus rename, so a
// crash or concurrent reader never observes a half-written index.
//
// The index is not pruned when a file is deleted: a stale name can still
// resolve to a deleted id, in which case the subsequent read reports the
// file as not found.
package nameindex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"chunkvault/internal/chunkid"
	"chunkvault/internal/vaulterr"
)

const fileName = "name_to_id.json"

// Index maps file names to file ids, persisted as a single JSON document.
type Index struct {
	mu   sync.Mutex
	path string
}

// New creates an Index backed by <dir>/name_to_id.json, creating dir if
// missing.
func New(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, vaulterr.IO("create name index directory", err)
	}
	return &Index{path: filepath.Join(dir, fileName)}, nil
}

func (idx *Index) load() (map[string]chunkid.FileID, error) {
	data, err := os.ReadFile(idx.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]chunkid.FileID{}, nil
		}
		return nil, vaulterr.IO("read name index", err)
	}
	if len(data) == 0 {
		return map[string]chunkid.FileID{}, nil
	}
	m := map[string]chunkid.FileID{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, vaulterr.Storage("decode name index", err)
	}
	return m, nil
}

func (idx *Index) save(m map[string]chunkid.FileID) error {
	data, err := json.Marshal(m)
	if err != nil {
		return vaulterr.Storage("encode name index", err)
	}
	dir := filepath.Dir(idx.path)
	tmp, err := os.CreateTemp(dir, "index-*.tmp")
	if err != nil {
		return vaulterr.IO("create temp name index file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return vaulterr.IO("write temp name index file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return vaulterr.IO("sync temp name index file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return vaulterr.IO("close temp name index file", err)
	}
	if err := os.Rename(tmpPath, idx.path); err != nil {
		os.Remove(tmpPath)
		return vaulterr.IO("rename name index file into place", err)
	}
	return nil
}

// Put records name -> id, overwriting any previous id for that name. The
// last call to acquire the lock wins.
func (idx *Index) Put(name string, id chunkid.FileID) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	m, err := idx.load()
	if err != nil {
		return err
	}
	m[name] = id
	return idx.save(m)
}

// Lookup resolves name to its file id.
func (idx *Index) Lookup(name string) (chunkid.FileID, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	m, err := idx.load()
	if err != nil {
		return chunkid.FileID{}, err
	}
	id, ok := m[name]
	if !ok {
		return chunkid.FileID{}, vaulterr.NotFound("name " + name)
	}
	return id, nil
}

// Delete removes name from the index. A missing name is not an error.
func (idx *Index) Delete(name string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	m, err := idx.load()
	if err != nil {
		return err
	}
	if _, ok := m[name]; !ok {
		return nil
	}
	delete(m, name)
	return idx.save(m)
}
