package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chunkvault/internal/auth"
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

func newTestGateway(t *testing.T) (*Gateway, string) {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := StaticUserStore{"alice": {PasswordHash: hash, Role: "operator"}}
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	gw := New(newFakeBackend(), users, tokens, 0, 0, time.Hour, nil)

	token, _, err := tokens.Issue("alice", "operator")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return gw, token
}

func TestLoginSuccess(t *testing.T) {
	gw, _ := newTestGateway(t)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "correct-horse"})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Token == "" {
		t.Errorf("expected successful login with a token, got %+v", out)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	gw, _ := newTestGateway(t)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "wrong"})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestStorageRequiresAuth(t *testing.T) {
	gw, _ := newTestGateway(t)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/storage/list")
	if err != nil {
		t.Fatalf("GET /storage/list: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a bearer token, got %d", resp.StatusCode)
	}
}

func TestUploadListDownloadDelete(t *testing.T) {
	gw, token := newTestGateway(t)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	authedReq := func(method, path string, body []byte) *http.Response {
		req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		return resp
	}

	uploadBody, _ := json.Marshal(uploadRequest{
		FileName:    "report.pdf",
		FileContent: base64.StdEncoding.EncodeToString([]byte("hello world")),
	})
	resp := authedReq(http.MethodPost, "/storage/upload", uploadBody)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d", resp.StatusCode)
	}
	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !uploaded.Success || uploaded.Meta == nil {
		t.Fatalf("expected successful upload, got %+v", uploaded)
	}

	listResp := authedReq(http.MethodGet, "/storage/list", nil)
	defer listResp.Body.Close()
	var listed listResponse
	if err := json.NewDecoder(listResp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Files) != 1 || listed.Files[0].Name != "report.pdf" {
		t.Errorf("expected one listed file named report.pdf, got %+v", listed.Files)
	}

	downloadResp := authedReq(http.MethodGet, "/storage/download/id:"+uploaded.Meta.ID.String(), nil)
	defer downloadResp.Body.Close()
	var downloaded downloadResponse
	if err := json.NewDecoder(downloadResp.Body).Decode(&downloaded); err != nil {
		t.Fatalf("decode download response: %v", err)
	}
	data, err := base64.StdEncoding.DecodeString(downloaded.Content)
	if err != nil || string(data) != "hello world" {
		t.Errorf("expected round-tripped content, got %q (err %v)", downloaded.Content, err)
	}

	deleteResp := authedReq(http.MethodPost, "/storage/delete/id:"+uploaded.Meta.ID.String(), nil)
	defer deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", deleteResp.StatusCode)
	}

	missingResp := authedReq(http.MethodGet, "/storage/download/id:"+uploaded.Meta.ID.String(), nil)
	defer missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", missingResp.StatusCode)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	gw, _ := newTestGateway(t)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "correct-horse"})
	loginResp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	defer loginResp.Body.Close()
	var login loginResponse
	if err := json.NewDecoder(loginResp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.RefreshToken == "" {
		t.Fatalf("expected a refresh token from login, got %+v", login)
	}

	refreshBody, _ := json.Marshal(refreshRequest{RefreshToken: login.RefreshToken})
	refreshResp, err := http.Post(srv.URL+"/auth/refresh", "application/json", bytes.NewReader(refreshBody))
	if err != nil {
		t.Fatalf("POST /auth/refresh: %v", err)
	}
	defer refreshResp.Body.Close()
	if refreshResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", refreshResp.StatusCode)
	}
	var refreshed loginResponse
	if err := json.NewDecoder(refreshResp.Body).Decode(&refreshed); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if !refreshed.Success || refreshed.Token == "" || refreshed.RefreshToken == "" {
		t.Fatalf("expected a new access and refresh token, got %+v", refreshed)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Errorf("expected refresh token rotation, got the same token back")
	}

	// The original refresh token is single-use: redeeming it again must fail.
	reuseResp, err := http.Post(srv.URL+"/auth/refresh", "application/json", bytes.NewReader(refreshBody))
	if err != nil {
		t.Fatalf("POST /auth/refresh (reuse): %v", err)
	}
	defer reuseResp.Body.Close()
	if reuseResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 reusing a redeemed refresh token, got %d", reuseResp.StatusCode)
	}
}

func TestRefreshTokenDisabledWhenTTLZero(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := StaticUserStore{"alice": {PasswordHash: hash, Role: "operator"}}
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	gw := New(newFakeBackend(), users, tokens, 0, 0, 0, nil)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "correct-horse"})
	loginResp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	defer loginResp.Body.Close()
	var login loginResponse
	if err := json.NewDecoder(loginResp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.RefreshToken != "" {
		t.Errorf("expected no refresh token when refresh TTL is 0, got %q", login.RefreshToken)
	}
}

func TestDownloadByName(t *testing.T) {
	gw, token := newTestGateway(t)
	srv := httptest.NewServer(gw.Handler())
	defer srv.Close()

	uploadBody, _ := json.Marshal(uploadRequest{
		FileName:    "named.txt",
		FileContent: base64.StdEncoding.EncodeToString([]byte("data")),
	})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/storage/upload", bytes.NewReader(uploadBody))
	req.Header.Set("Authorization", "Bearer "+token)
	if _, err := http.DefaultClient.Do(req); err != nil {
		t.Fatalf("upload: %v", err)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/storage/download/name:named.txt", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("download by name: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var downloaded downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&downloaded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(downloaded.Content, base64.StdEncoding.EncodeToString([]byte("data"))) {
		t.Errorf("unexpected content %q", downloaded.Content)
	}
}
