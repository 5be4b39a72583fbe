// Package engine implements the storage orchestrator that ties the
// chunker, type detector, compressor, encryptor, cache, metadata catalog,
// name index, and chunk store into the five public operations a client
// calls: store, get, delete, list, and name resolution.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"chunkvault/internal/cache"
	"chunkvault/internal/catalog"
	"chunkvault/internal/chunker"
	"chunkvault/internal/chunkid"
	"chunkvault/internal/chunkstore"
	"chunkvault/internal/chunkstore/diskstore"
	"chunkvault/internal/compress"
	"chunkvault/internal/cryptbox"
	"chunkvault/internal/filemeta"
	"chunkvault/internal/filetype"
	"chunkvault/internal/logging"
	"chunkvault/internal/nameindex"
	"chunkvault/internal/notify"
	"chunkvault/internal/validate"
)

// Engine is the DiskStorage orchestrator. Compressor, Encryptor, Cache, and
// Notifier are all presence-optional: absent ones behave as identity/no-op,
// so the store/get pipeline reads the same regardless of configuration.
type Engine struct {
	chunks   chunkstore.ChunkStore
	catalog  *catalog.Catalog
	names    *nameindex.Index
	chunker  *chunker.Chunker
	compress *compress.Compressor
	encrypt  *cryptbox.Encryptor
	cache    *cache.Cache
	notifier notify.Notifier
	logger   *slog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine) error

// WithChunkStore overrides the default local-disk ChunkStore backend, e.g.
// with an S3-backed store. Must be applied before New resolves its default.
func WithChunkStore(store chunkstore.ChunkStore) Option {
	return func(e *Engine) error {
		e.chunks = store
		return nil
	}
}

// WithChunkSize overrides the chunker's default 1 MiB window.
func WithChunkSize(size int) Option {
	return func(e *Engine) error {
		e.chunker = chunker.New(size)
		return nil
	}
}

// WithCompression enables or disables the zstd compression stage for
// Document/Unknown file types.
func WithCompression(enabled bool) Option {
	return func(e *Engine) error {
		c, err := compress.New(enabled)
		if err != nil {
			return err
		}
		e.compress = c
		return nil
	}
}

// WithEncryption enables AES-256-GCM encryption with the given key for
// Document/Unknown file types.
func WithEncryption(key []byte) Option {
	return func(e *Engine) error {
		enc, err := cryptbox.New(key, true)
		if err != nil {
			return err
		}
		e.encrypt = enc
		return nil
	}
}

// WithCache enables the bounded LRU decoded-bytes cache with the given
// capacity.
func WithCache(capacity int) Option {
	return func(e *Engine) error {
		c, err := cache.New(capacity)
		if err != nil {
			return err
		}
		e.cache = c
		return nil
	}
}

// WithNotifier publishes store/delete lifecycle events through n instead of
// the default no-op.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) error {
		e.notifier = n
		return nil
	}
}

// WithLogger sets the engine's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// New constructs an Engine rooted at basePath, creating metadata/ and
// chunks/ if missing; the name index file is first written by StoreFile.
// Without WithChunkStore, chunks are stored under <basePath>/chunks via
// diskstore.
func New(basePath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		chunker:  chunker.New(chunker.DefaultSize),
		compress: mustIdentityCompressor(),
		encrypt:  mustIdentityEncryptor(),
		notifier: notify.Noop{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.logger = logging.Default(e.logger).With("component", "engine")

	cat, err := catalog.New(basePath + "/metadata")
	if err != nil {
		return nil, err
	}
	e.catalog = cat

	names, err := nameindex.New(basePath)
	if err != nil {
		return nil, err
	}
	e.names = names

	if e.chunks == nil {
		store, err := diskstore.New(basePath + "/chunks")
		if err != nil {
			return nil, err
		}
		e.chunks = store
	}

	return e, nil
}

func mustIdentityCompressor() *compress.Compressor {
	c, _ := compress.New(false)
	return c
}

func mustIdentityEncryptor() *cryptbox.Encryptor {
	enc, _ := cryptbox.New(nil, false)
	return enc
}

// transform applies the store-path pipeline selected by ft: identity for
// Image/Video/Audio (reserved hook for type-specific processing), or
// encrypt(compress(bytes)) for Document/Unknown.
func (e *Engine) transform(ft filetype.FileType, data []byte) ([]byte, error) {
	if !ft.UsesTransformPath() {
		return data, nil
	}
	compressed, err := e.compress.Compress(data)
	if err != nil {
		return nil, err
	}
	encrypted, err := e.encrypt.Encrypt(compressed)
	if err != nil {
		return nil, err
	}
	return encrypted, nil
}

// inverseTransform reverses transform on the same selective type path.
func (e *Engine) inverseTransform(ft filetype.FileType, data []byte) ([]byte, error) {
	if !ft.UsesTransformPath() {
		return data, nil
	}
	decrypted, err := e.encrypt.Decrypt(data)
	if err != nil {
		return nil, err
	}
	decompressed, err := e.compress.Decompress(decrypted)
	if err != nil {
		return nil, err
	}
	return decompressed, nil
}

// StoreFile splits bytes into chunks (after the type-selective transform
// pipeline), persists them, and records a new FileMetadata under a freshly
// generated id. The cache, when enabled, is populated with the original
// decoded bytes — the same representation GetFile returns — never the
// post-transform bytes.
func (e *Engine) StoreFile(ctx context.Context, name string, data []byte) (filemeta.FileMetadata, error) {
	id := chunkid.NewFileID()
	ft := filetype.Detect(data)

	final, err := e.transform(ft, data)
	if err != nil {
		return filemeta.FileMetadata{}, err
	}

	chunks := e.chunker.ChunkData(final)
	chunkIDs, err := e.chunks.WriteChunks(ctx, chunks)
	if err != nil {
		return filemeta.FileMetadata{}, err
	}

	sum := sha256.Sum256(final)
	now := time.Now().UTC()
	meta := filemeta.FileMetadata{
		ID:         id,
		Name:       name,
		Size:       uint64(len(final)),
		CreatedAt:  now,
		ModifiedAt: now,
		Checksum:   hex.EncodeToString(sum[:]),
		FileType:   ft,
		ChunkIDs:   chunkIDs,
	}

	if err := e.catalog.Save(meta); err != nil {
		return filemeta.FileMetadata{}, err
	}
	if err := e.names.Put(name, id); err != nil {
		return filemeta.FileMetadata{}, err
	}

	if e.cache != nil {
		e.cache.Put(id, data)
	}

	e.publish(ctx, notify.EventStored, id, name)

	return meta, nil
}

// GetFile resolves a file id to its original decoded bytes.
func (e *Engine) GetFile(ctx context.Context, id chunkid.FileID) ([]byte, error) {
	if e.cache != nil {
		if data, ok := e.cache.Get(id); ok {
			return data, nil
		}
	}

	meta, err := e.catalog.Load(id)
	if err != nil {
		return nil, err
	}

	final, err := e.readChunksInOrder(ctx, meta.ChunkIDs)
	if err != nil {
		return nil, err
	}

	out, err := e.inverseTransform(meta.FileType, final)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Put(id, out)
	}

	return out, nil
}

func (e *Engine) readChunksInOrder(ctx context.Context, ids []chunkid.ChunkID) ([]byte, error) {
	bufs := make([][]byte, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			data, err := e.chunks.ReadChunk(ctx, id)
			if err != nil {
				return err
			}
			bufs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, b := range bufs {
		total += len(b)
	}
	out := make([]byte, 0, total)
	for _, b := range bufs {
		out = append(out, b...)
	}
	return out, nil
}

// DeleteFile removes a file's metadata record, reclaims any chunks no
// longer referenced by another file, runs an orphan sweep, and invalidates
// the cache entry. Housekeeping failures (a single chunk removal, a sweep
// error) are logged and swallowed — delete remains successful once metadata
// deletion succeeds.
func (e *Engine) DeleteFile(ctx context.Context, id chunkid.FileID) error {
	meta, err := e.catalog.Load(id)
	if err != nil {
		return err
	}

	others, err := e.catalog.List()
	if err != nil {
		return err
	}

	shared := referencedChunks(others, id)
	for _, chunkID := range meta.ChunkIDs {
		if shared[chunkID] {
			continue
		}
		if err := e.chunks.DeleteChunk(ctx, chunkID); err != nil {
			e.logger.Warn("failed to delete chunk during file delete", "chunk_id", chunkID, "error", err)
		}
	}

	if err := e.catalog.Delete(id); err != nil {
		return err
	}

	if err := e.SweepOrphans(ctx); err != nil {
		e.logger.Warn("orphan sweep failed", "error", err)
	}

	if e.cache != nil {
		e.cache.Invalidate(id)
	}

	e.publish(ctx, notify.EventDeleted, id, meta.Name)

	return nil
}

// referencedChunks returns the set of chunk ids referenced by every record
// in metas other than excludeID.
func referencedChunks(metas []filemeta.FileMetadata, excludeID chunkid.FileID) map[chunkid.ChunkID]bool {
	refs := make(map[chunkid.ChunkID]bool)
	for _, m := range metas {
		if m.ID == excludeID {
			continue
		}
		for _, id := range m.ChunkIDs {
			refs[id] = true
		}
	}
	return refs
}

// SweepOrphans deletes every chunk file not referenced by any metadata
// record. Per-file deletion errors are logged and ignored.
func (e *Engine) SweepOrphans(ctx context.Context) error {
	metas, err := e.catalog.List()
	if err != nil {
		return err
	}
	referenced := make(map[chunkid.ChunkID]bool)
	for _, m := range metas {
		for _, id := range m.ChunkIDs {
			referenced[id] = true
		}
	}

	existing, err := e.chunks.ListChunkIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range existing {
		if referenced[id] {
			continue
		}
		if err := e.chunks.DeleteChunk(ctx, id); err != nil {
			e.logger.Warn("failed to delete orphaned chunk", "chunk_id", id, "error", err)
		}
	}
	return nil
}

// ValidateFile checks that a file's metadata record is consistent with the
// chunk store: every referenced chunk exists and their sizes sum to the
// recorded size. Checksums are not recomputed.
func (e *Engine) ValidateFile(ctx context.Context, id chunkid.FileID) error {
	meta, err := e.catalog.Load(id)
	if err != nil {
		return err
	}
	return validate.New(e.chunks).Validate(ctx, meta)
}

// ListFiles enumerates every stored file's metadata. Order is unspecified.
func (e *Engine) ListFiles(ctx context.Context) ([]filemeta.FileMetadata, error) {
	return e.catalog.List()
}

// ResolveName translates a user-assigned name into the file id it was last
// mapped to by a successful StoreFile, for collaborators that accept either
// an id or a name.
func (e *Engine) ResolveName(ctx context.Context, name string) (chunkid.FileID, error) {
	return e.names.Lookup(name)
}

func (e *Engine) publish(ctx context.Context, kind notify.EventKind, id chunkid.FileID, name string) {
	if _, ok := e.notifier.(notify.Noop); ok {
		return
	}
	evt := notify.Event{Kind: kind, ID: id, Name: name, At: time.Now().UTC()}
	if err := e.notifier.Publish(ctx, evt); err != nil {
		e.logger.Warn("failed to publish lifecycle event", "kind", kind, "id", id, "error", err)
	}
}
