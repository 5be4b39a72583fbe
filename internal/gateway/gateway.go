// Package gateway exposes the engine over plain JSON HTTP. Every
// /storage/* route requires a bearer token issued by /auth/login; requests
// are rate-limited per client and their User-Agent is logged for
// observability. Middleware is plain http.Handler chaining, one handler
// wrapping the next.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mileusna/useragent"
	"golang.org/x/time/rate"

	"chunkvault/internal/auth"
	"chunkvault/internal/chunkid"
	"chunkvault/internal/filemeta"
	"chunkvault/internal/logging"
	"chunkvault/internal/vaulterr"
)

// Backend is the engine capability set the gateway depends on.
type Backend interface {
	StoreFile(ctx context.Context, name string, data []byte) (filemeta.FileMetadata, error)
	GetFile(ctx context.Context, id chunkid.FileID) ([]byte, error)
	DeleteFile(ctx context.Context, id chunkid.FileID) error
	ListFiles(ctx context.Context) ([]filemeta.FileMetadata, error)
	ResolveName(ctx context.Context, name string) (chunkid.FileID, error)
}

// UserStore verifies gateway login credentials.
type UserStore interface {
	// Verify returns the user's role if username/password are valid.
	Verify(username, password string) (role string, ok bool, err error)
}

// Gateway serves the HTTP surface over a Backend.
type Gateway struct {
	backend Backend
	users   UserStore
	tokens  *auth.TokenService
	logger  *slog.Logger

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	burst     int

	refreshMu  sync.Mutex
	refreshTTL time.Duration
	refreshes  map[string]refreshRecord
}

// refreshRecord tracks the user a hashed refresh token was issued to and
// when it expires. Tokens are single-use: Verify-and-rotate deletes the
// record as soon as it is redeemed.
type refreshRecord struct {
	username string
	role     string
	expires  time.Time
}

// New creates a Gateway. rateLimit and burst configure the per-client
// request rate limiter; a rateLimit of 0 disables limiting. Refresh tokens
// live for refreshTTL; a refreshTTL of 0 disables token refresh entirely,
// so /auth/refresh always reports unauthorized.
func New(backend Backend, users UserStore, tokens *auth.TokenService, rateLimit rate.Limit, burst int, refreshTTL time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		backend:    backend,
		users:      users,
		tokens:     tokens,
		logger:     logging.Default(logger).With("component", "gateway"),
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  rateLimit,
		burst:      burst,
		refreshTTL: refreshTTL,
		refreshes:  make(map[string]refreshRecord),
	}
}

// Handler builds the gateway's HTTP mux.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", g.handleLogin)
	mux.HandleFunc("POST /auth/refresh", g.handleRefresh)
	mux.Handle("GET /storage/list", g.authenticated(http.HandlerFunc(g.handleList)))
	mux.Handle("POST /storage/upload", g.authenticated(http.HandlerFunc(g.handleUpload)))
	mux.Handle("GET /storage/download/", g.authenticated(http.HandlerFunc(g.handleDownload)))
	mux.Handle("POST /storage/delete/", g.authenticated(http.HandlerFunc(g.handleDelete)))

	return g.trackClient(mux)
}

// issueRefreshToken mints a new opaque refresh token for username/role and
// stores its hash, first pruning every expired record (of any user) so the
// map doesn't grow unbounded across many logins.
func (g *Gateway) issueRefreshToken(username, role string) (string, error) {
	if g.refreshTTL <= 0 {
		return "", nil
	}
	token, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", err
	}

	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()
	now := time.Now().UTC()
	for h, rec := range g.refreshes {
		if rec.expires.Before(now) {
			delete(g.refreshes, h)
		}
	}
	g.refreshes[hash] = refreshRecord{username: username, role: role, expires: now.Add(g.refreshTTL)}
	return token, nil
}

// redeemRefreshToken validates and rotates a refresh token, returning the
// user it was issued to. The old token is invalidated whether or not a new
// one can be minted.
func (g *Gateway) redeemRefreshToken(token string) (username, role, next string, err error) {
	hash := auth.HashRefreshToken(token)

	g.refreshMu.Lock()
	rec, ok := g.refreshes[hash]
	delete(g.refreshes, hash)
	g.refreshMu.Unlock()

	if !ok || rec.expires.Before(time.Now().UTC()) {
		return "", "", "", errors.New("invalid or expired refresh token")
	}

	next, err = g.issueRefreshToken(rec.username, rec.role)
	if err != nil {
		return "", "", "", err
	}
	return rec.username, rec.role, next, nil
}

// trackClient logs the client's parsed User-Agent and enforces the
// per-client rate limit ahead of every route, including /auth/login.
func (g *Gateway) trackClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.Parse(r.UserAgent())
		g.logger.Info("request", "method", r.Method, "path", r.URL.Path,
			"remote", r.RemoteAddr, "browser", ua.Name, "os", ua.OS, "bot", ua.Bot)

		if g.rateLimit > 0 && !g.limiterFor(r.RemoteAddr).Allow() {
			writeJSON(w, http.StatusTooManyRequests, statusResponse{Success: false, Message: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) limiterFor(client string) *rate.Limiter {
	g.limiterMu.Lock()
	defer g.limiterMu.Unlock()
	l, ok := g.limiters[client]
	if !ok {
		l = rate.NewLimiter(g.rateLimit, g.burst)
		g.limiters[client] = l
	}
	return l
}

// authenticated requires a valid "Authorization: Bearer <token>" header,
// attaching the verified claims to the request context.
func (g *Gateway) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, statusResponse{Success: false, Message: "missing bearer token"})
			return
		}
		claims, err := g.tokens.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, statusResponse{Success: false, Message: "invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success      bool      `json:"success"`
	Token        string    `json:"token,omitempty"`
	Expires      time.Time `json:"expires,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Message      string    `json:"message,omitempty"`
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Message: "malformed request body"})
		return
	}

	role, ok, err := g.users.Verify(req.Username, req.Password)
	if err != nil || !ok {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "invalid credentials"})
		return
	}

	token, expires, err := g.tokens.Issue(req.Username, role)
	if err != nil {
		g.logger.Error("failed to issue token", "error", err)
		writeJSON(w, http.StatusInternalServerError, loginResponse{Success: false, Message: "could not issue token"})
		return
	}

	refresh, err := g.issueRefreshToken(req.Username, role)
	if err != nil {
		g.logger.Error("failed to issue refresh token", "error", err)
		writeJSON(w, http.StatusInternalServerError, loginResponse{Success: false, Message: "could not issue token"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, Expires: expires, RefreshToken: refresh})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleRefresh exchanges a valid, unexpired refresh token for a new access
// token and a rotated refresh token. Disabled (404-equivalent unauthorized)
// when the gateway was started with no refresh TTL.
func (g *Gateway) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Message: "malformed request body"})
		return
	}

	username, role, nextRefresh, err := g.redeemRefreshToken(req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "invalid or expired refresh token"})
		return
	}

	token, expires, err := g.tokens.Issue(username, role)
	if err != nil {
		g.logger.Error("failed to issue token", "error", err)
		writeJSON(w, http.StatusInternalServerError, loginResponse{Success: false, Message: "could not issue token"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, Expires: expires, RefreshToken: nextRefresh})
}

type listResponse struct {
	Success bool                    `json:"success"`
	Files   []filemeta.FileMetadata `json:"files,omitempty"`
	Message string                  `json:"message,omitempty"`
}

func (g *Gateway) handleList(w http.ResponseWriter, r *http.Request) {
	files, err := g.backend.ListFiles(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Files: files})
}

type uploadRequest struct {
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
}

type uploadResponse struct {
	Success bool                   `json:"success"`
	Meta    *filemeta.FileMetadata `json:"meta,omitempty"`
	Message string                 `json:"message,omitempty"`
}

func (g *Gateway) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "malformed request body"})
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "invalid base64 file_content"})
		return
	}

	meta, err := g.backend.StoreFile(r.Context(), req.FileName, data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Meta: &meta})
}

type downloadResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

func (g *Gateway) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := g.resolvePathSelector(r, "/storage/download/")
	if err != nil {
		writeJSON(w, http.StatusNotFound, downloadResponse{Success: false, Message: err.Error()})
		return
	}

	data, err := g.backend.GetFile(r.Context(), id)
	if err != nil {
		writeJSON(w, statusFor(err), downloadResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{Success: true, Content: base64.StdEncoding.EncodeToString(data)})
}

func (g *Gateway) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := g.resolvePathSelector(r, "/storage/delete/")
	if err != nil {
		writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: err.Error()})
		return
	}

	if err := g.backend.DeleteFile(r.Context(), id); err != nil {
		writeJSON(w, statusFor(err), statusResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

// resolvePathSelector parses the "name:<s>" / "id:<uuid>" / bare-uuid path
// parameter convention into a concrete file id.
func (g *Gateway) resolvePathSelector(r *http.Request, routePrefix string) (chunkid.FileID, error) {
	selector := strings.TrimPrefix(r.URL.Path, routePrefix)
	if selector == "" {
		return chunkid.FileID{}, errors.New("missing id/name path parameter")
	}

	if name, ok := strings.CutPrefix(selector, "name:"); ok {
		return g.backend.ResolveName(r.Context(), name)
	}
	raw := strings.TrimPrefix(selector, "id:")
	return chunkid.ParseFileID(raw)
}

func statusFor(err error) int {
	if vaulterr.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
