// Package router is the thin dispatcher that sits between the external
// routing/dispatch service carrying opaque storage-request payloads and the
// engine. It translates a parsed wire.Command into the corresponding
// engine call and renders the result back into the wire response format.
package router

import (
	"context"

	"chunkvault/internal/chunkid"
	"chunkvault/internal/filemeta"
	"chunkvault/internal/wire"
)

// Backend is the engine capability set the router depends on.
type Backend interface {
	StoreFile(ctx context.Context, name string, data []byte) (filemeta.FileMetadata, error)
	GetFile(ctx context.Context, id chunkid.FileID) ([]byte, error)
	DeleteFile(ctx context.Context, id chunkid.FileID) error
	ListFiles(ctx context.Context) ([]filemeta.FileMetadata, error)
	ResolveName(ctx context.Context, name string) (chunkid.FileID, error)
}

// Router dispatches wire commands against a Backend.
type Router struct {
	backend Backend
}

// New creates a Router over backend.
func New(backend Backend) *Router {
	return &Router{backend: backend}
}

// Handle parses and executes a single wire-format request line, returning
// the text response to send back.
func (r *Router) Handle(ctx context.Context, line string) string {
	cmd, err := wire.ParseCommand(line)
	if err != nil {
		return wire.EncodeError(err)
	}

	switch cmd.Kind {
	case wire.CmdList:
		return r.handleList(ctx)
	case wire.CmdUpload:
		return r.handleUpload(ctx, cmd)
	case wire.CmdDownload:
		return r.handleDownload(ctx, cmd)
	case wire.CmdDelete:
		return r.handleDelete(ctx, cmd)
	default:
		return wire.EncodeError(err)
	}
}

func (r *Router) handleList(ctx context.Context) string {
	files, err := r.backend.ListFiles(ctx)
	if err != nil {
		return wire.EncodeError(err)
	}
	entries := make(map[chunkid.FileID]string, len(files))
	for _, f := range files {
		entries[f.ID] = f.Name
	}
	return wire.EncodeList(entries)
}

func (r *Router) handleUpload(ctx context.Context, cmd wire.Command) string {
	meta, err := r.backend.StoreFile(ctx, cmd.Filename, cmd.Data)
	if err != nil {
		return wire.EncodeError(err)
	}
	return wire.EncodeUpload(meta.ID)
}

func (r *Router) handleDownload(ctx context.Context, cmd wire.Command) string {
	id, err := r.resolve(ctx, cmd)
	if err != nil {
		return wire.EncodeError(err)
	}
	data, err := r.backend.GetFile(ctx, id)
	if err != nil {
		return wire.EncodeError(err)
	}
	return wire.EncodeDownload(data)
}

func (r *Router) handleDelete(ctx context.Context, cmd wire.Command) string {
	id, err := r.resolve(ctx, cmd)
	if err != nil {
		return wire.EncodeError(err)
	}
	if err := r.backend.DeleteFile(ctx, id); err != nil {
		return wire.EncodeError(err)
	}
	return "ok"
}

func (r *Router) resolve(ctx context.Context, cmd wire.Command) (chunkid.FileID, error) {
	if cmd.Selector == wire.SelectByID {
		return cmd.ID, nil
	}
	return r.backend.ResolveName(ctx, cmd.Name)
}
