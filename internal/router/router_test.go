package router

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"chunkvault/internal/chunkid"
	"chunkvault/internal/filemeta"
	"chunkvault/internal/vaulterr"
)

type fakeBackend struct {
	files map[chunkid.FileID]filemeta.FileMetadata
	data  map[chunkid.FileID][]byte
	names map[string]chunkid.FileID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		files: map[chunkid.FileID]filemeta.FileMetadata{},
		data:  map[chunkid.FileID][]byte{},
		names: map[string]chunkid.FileID{},
	}
}

func (f *fakeBackend) StoreFile(_ context.Context, name string, data []byte) (filemeta.FileMetadata, error) {
	id := chunkid.NewFileID()
	meta := filemeta.FileMetadata{ID: id, Name: name, Size: uint64(len(data))}
	f.files[id] = meta
	f.data[id] = data
	f.names[name] = id
	return meta, nil
}

func (f *fakeBackend) GetFile(_ context.Context, id chunkid.FileID) ([]byte, error) {
	data, ok := f.data[id]
	if !ok {
		return nil, vaulterr.NotFound("file")
	}
	return data, nil
}

func (f *fakeBackend) DeleteFile(_ context.Context, id chunkid.FileID) error {
	if _, ok := f.files[id]; !ok {
		return vaulterr.NotFound("file")
	}
	delete(f.files, id)
	delete(f.data, id)
	return nil
}

func (f *fakeBackend) ListFiles(context.Context) ([]filemeta.FileMetadata, error) {
	out := make([]filemeta.FileMetadata, 0, len(f.files))
	for _, m := range f.files {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeBackend) ResolveName(_ context.Context, name string) (chunkid.FileID, error) {
	id, ok := f.names[name]
	if !ok {
		return chunkid.FileID{}, vaulterr.NotFound("name")
	}
	return id, nil
}

func TestRouterUploadDownloadList(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeBackend())

	payload := base64.StdEncoding.EncodeToString([]byte("hello"))
	resp := r.Handle(ctx, "upload hello.txt "+payload)
	if !strings.HasPrefix(resp, "ok ") {
		t.Fatalf("unexpected upload response: %q", resp)
	}
	id := strings.TrimPrefix(resp, "ok ")

	resp = r.Handle(ctx, "download id "+id)
	want := base64.StdEncoding.EncodeToString([]byte("hello"))
	if resp != want {
		t.Errorf("expected %q, got %q", want, resp)
	}

	resp = r.Handle(ctx, "list")
	if !strings.Contains(resp, id+": hello.txt") {
		t.Errorf("expected list to contain the uploaded file, got %q", resp)
	}
}

func TestRouterDownloadByName(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeBackend())

	payload := base64.StdEncoding.EncodeToString([]byte("data"))
	r.Handle(ctx, "upload named.txt "+payload)

	resp := r.Handle(ctx, "download name named.txt")
	want := base64.StdEncoding.EncodeToString([]byte("data"))
	if resp != want {
		t.Errorf("expected %q, got %q", want, resp)
	}
}

func TestRouterDeleteThenGetFails(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeBackend())

	payload := base64.StdEncoding.EncodeToString([]byte("x"))
	resp := r.Handle(ctx, "upload a.txt "+payload)
	id := strings.TrimPrefix(resp, "ok ")

	if got := r.Handle(ctx, "delete id "+id); got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	if got := r.Handle(ctx, "download id "+id); !strings.HasPrefix(got, "error") {
		t.Errorf("expected error response after delete, got %q", got)
	}
}

func TestRouterUnknownCommand(t *testing.T) {
	resp := New(newFakeBackend()).Handle(context.Background(), "frobnicate")
	if !strings.HasPrefix(resp, "error") {
		t.Errorf("expected error response, got %q", resp)
	}
}
