package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thruflo/reel/internal/auth"
	"github.com/thruflo/reel/internal/clock"
	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/player"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8374"

// tokenExpiry is how long a login token stays valid.
const tokenExpiry = 24 * time.Hour

// cleanupInterval is how often expired tokens and limiter state are dropped.
const cleanupInterval = time.Hour

// Target is the player a server controls. *player.Player implements it.
type Target interface {
	Dispatch(cmd player.Command) error
	Events() *player.Events
	Snapshot() player.Snapshot
}

// Config holds server options.
type Config struct {
	// Addr is the listen address; port 0 picks a free port.
	Addr string
	// PasswordHash is an auth.HashPassword result. Empty disables
	// authentication.
	PasswordHash string
	RateLimit    RateLimitConfig
	// Assets, when set, are served at / without authentication.
	Assets fs.FS
	// Clock defaults to the real clock.
	Clock clock.Clock
}

// Server serves one player.
type Server struct {
	target Target
	cfg    Config
	clock  clock.Clock
	log    *logging.Logger

	hub     *hub
	limiter *rateLimiter
	sub     player.Subscription
	mux     *http.ServeMux

	mu       sync.RWMutex
	tokens   map[string]time.Time // token -> expiry
	server   *http.Server
	listener net.Listener
	cleanup  clock.Timer
	started  bool
	stopped  bool
}

// New creates a server for target and starts relaying its events.
func New(target Target, cfg Config) (*Server, error) {
	if target == nil {
		return nil, errors.New("target is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}

	log := logging.With("component", "server")
	s := &Server{
		target:  target,
		cfg:     cfg,
		clock:   cfg.Clock,
		log:     log,
		hub:     newHub(),
		limiter: newRateLimiter(cfg.RateLimit, cfg.Clock, log),
		tokens:  make(map[string]time.Time),
	}
	s.sub = target.Events().OnAll(s.hub.publish)

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/auth", s.handleAuth)
	s.mux.HandleFunc("/logout", s.withAuth(s.handleLogout))
	s.mux.HandleFunc("/state", s.withAuth(s.handleState))
	s.mux.HandleFunc("/command", s.withAuth(s.handleCommand))
	s.mux.HandleFunc("/events", s.withAuth(s.handleEvents))
	if cfg.Assets != nil {
		s.mux.Handle("/", http.FileServer(http.FS(cfg.Assets)))
	}
	return s, nil
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// AuthRequired reports whether a password protects the server.
func (s *Server) AuthRequired() bool {
	return s.cfg.PasswordHash != ""
}

// Start listens and serves until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return errors.New("server already started or stopped")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:     s.mux,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	s.cleanup = s.clock.Every(cleanupInterval, s.dropExpired)
	s.started = true
	s.mu.Unlock()

	s.log.Info("remote control listening", "addr", listener.Addr().String(), "auth", s.AuthRequired())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	err = s.server.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop disconnects every client, stops relaying events and shuts the
// listener down. It is safe to call more than once.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	srv, cleanup := s.server, s.cleanup
	s.mu.Unlock()

	s.target.Events().Off(s.sub)
	s.hub.close()
	if cleanup != nil {
		cleanup.Stop()
	}
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// ListenAddr returns the address being served, or "" before Start.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// withAuth rejects requests without a valid token when a password is set.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.AuthRequired() {
			next(w, r)
			return
		}

		token, ok := requestToken(r)
		if !ok {
			http.Error(w, "invalid authorization format", http.StatusUnauthorized)
			return
		}
		if token == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}
		if !s.ValidateToken(token) {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// requestToken returns the bearer token or token query parameter of r. It
// reports false for an Authorization header that is not a bearer token.
func requestToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return r.URL.Query().Get("token"), true
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return strings.TrimPrefix(header, prefix), true
}

// GenerateToken issues a new login token.
func (s *Server) GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = s.clock.Now().Add(tokenExpiry)
	s.mu.Unlock()
	return token, nil
}

// ValidateToken reports whether token was issued and has not expired.
func (s *Server) ValidateToken(token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	expiry, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok && s.clock.Now().Before(expiry)
}

// RevokeToken invalidates token.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *Server) dropExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	for token, expiry := range s.tokens {
		if !now.Before(expiry) {
			delete(s.tokens, token)
		}
	}
	s.mu.Unlock()
	s.limiter.cleanup()
}

// handleAuth handles POST /auth with a password form field.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.AuthRequired() {
		http.Error(w, "authentication is disabled", http.StatusNotFound)
		return
	}

	ip := clientIP(r)
	d := s.limiter.allow(ip)
	if !d.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds()+0.5)))
		msg := "too many login attempts"
		if d.Blocked {
			msg = "too many failed attempts"
		}
		http.Error(w, msg, http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	password := r.FormValue("password")
	if password == "" {
		http.Error(w, "password required", http.StatusBadRequest)
		return
	}

	ok, err := auth.VerifyPassword(password, s.cfg.PasswordHash)
	if err != nil {
		s.log.Error("password check failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		s.limiter.failure(ip)
		http.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}
	s.limiter.success(ip)

	token, err := s.GenerateToken()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout handles POST /logout by revoking the caller's token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if token, _ := requestToken(r); token != "" {
		s.RevokeToken(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleState handles GET /state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.target.Snapshot())
}

// handleCommand handles POST /command with a CommandRequest body and
// answers with the resulting state.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.target.Dispatch(cmd); err != nil {
		http.Error(w, err.Error(), commandStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, s.target.Snapshot())
}

// commandStatus maps a dispatch error to an HTTP status.
func commandStatus(err error) int {
	switch {
	case errors.Is(err, player.ErrClipNotFound):
		return http.StatusNotFound
	case errors.Is(err, player.ErrDestroyed):
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
