// Package server exposes the trainer over HTTP: the single letter form the
// device has always served, plus a small JSON API behind session cookies.
package server

import (
	"context"
	"crypto/tls"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bitbraille/internal/braille"
	"bitbraille/internal/config"
	"bitbraille/internal/logger"
	"bitbraille/internal/options"
	"bitbraille/internal/trainer"
)

//go:embed web/*
var embeddedFiles embed.FS

const (
	sessionCookie = "session"
	sessionTTL    = 24 * time.Hour
	defaultLogs   = 200
)

// Device is the part of the trainer the server drives.
type Device interface {
	OnLetterEvent(l braille.Letter)
	OnOptionMoved(m options.Move)
	OnButtonPrimary()
	OnButtonSecondary()
	Snapshot() trainer.Snapshot
}

// Server holds the HTTP state.  The trainer itself owns all interaction
// state; the server only forwards events to it.
type Server struct {
	cfgMgr   *config.ConfigManager
	sessions *SessionManager
	device   Device
	logger   *logger.EventLogger
}

// New constructs a server for device.
func New(cfgMgr *config.ConfigManager, device Device, events *logger.EventLogger) *Server {
	return &Server{
		cfgMgr:   cfgMgr,
		sessions: NewSessionManager(),
		device:   device,
		logger:   events,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// form endpoint used by the index page
	mux.HandleFunc("/send.cgi", s.handleSend)

	// API routes
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/status", s.withAuth(s.handleStatus))
	mux.HandleFunc("/api/letter", s.withAuth(s.handleLetter))
	mux.HandleFunc("/api/logs", s.withAuth(s.handleLogs))
	mux.HandleFunc("/api/config", s.withAuth(s.handleConfig))
	mux.HandleFunc("/api/test_input", s.withAuth(s.handleTestInput))

	web, err := fs.Sub(embeddedFiles, "web")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(web))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.shtml" {
			r.URL.Path = "/index.html"
		}
		fileServer.ServeHTTP(w, r)
	})
	return mux
}

// Addr returns the listen address and scheme derived from the configuration.
func Addr(cfg config.Config) (addr, scheme string) {
	scheme = "http"
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		scheme = "https"
	}
	return fmt.Sprintf(":%d", cfg.HTTPPort), scheme
}

// Start serves until ctx is done, then shuts the server down.  HTTPS is
// used when both a certificate and key are configured.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.cfgMgr.Get()
	addr, scheme := Addr(cfg)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		purge := time.NewTicker(time.Hour)
		defer purge.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return
			case <-purge.C:
				s.sessions.Purge()
			}
		}
	}()

	log.Printf("Listening on %s://0.0.0.0%s\n", scheme, addr)
	var err error
	if scheme == "https" {
		err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// withAuth wraps handlers that require a valid session.  If the request
// carries a valid session cookie, it calls the handler with the user;
// otherwise it responds with 401.
func (s *Server) withAuth(handler func(http.ResponseWriter, *http.Request, config.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		sess, ok := s.sessions.Get(cookie.Value)
		if !ok {
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		user, idx := s.cfgMgr.FindUser(sess.Username)
		if idx < 0 {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}
		handler(w, r, user)
	}
}

// handleSend takes the letter in the letra query parameter and goes back
// to the index page.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	l, err := braille.Parse(r.FormValue("letra"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.deliver(l, "form")
	http.Redirect(w, r, "/index.shtml", http.StatusSeeOther)
}

func (s *Server) deliver(l braille.Letter, from string) {
	s.logger.Log("%s: letter %s (request %s)", from, l, uuid.NewString())
	s.device.OnLetterEvent(l)
}

// handleLogin authenticates a user and sets a session cookie.  Expected JSON:
// {"username":"...","password":"..."}
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	user, err := s.cfgMgr.Authenticate(creds.Username, creds.Password)
	if err != nil {
		s.logger.Log("failed login %s", creds.Username)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	id, sess := s.sessions.Create(user.Username, sessionTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		Expires:  sess.Expires,
	})
	s.logger.Log("login %s", user.Username)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogout deletes the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		Expires:  time.Unix(0, 0),
	})
	s.logger.Log("logout")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, _ config.User) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.device.Snapshot())
}

// handleLetter shows a letter.  Body JSON: {"letter":"B"}
func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request, user config.User) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Letter braille.Letter `json:"letter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Letter.Valid() {
		http.Error(w, "letter must be a single character A-Z", http.StatusBadRequest)
		return
	}
	s.deliver(req.Letter, "api "+user.Username)
	w.WriteHeader(http.StatusAccepted)
}

// handleLogs returns the event log.  Admins only.  Accepts optional query
// parameter `lines=n` to limit number of lines returned.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request, user config.User) {
	if !user.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	limit := defaultLogs
	if n, err := strconv.Atoi(r.URL.Query().Get("lines")); err == nil && n > 0 {
		limit = n
	}
	lines, err := s.logger.Tail(limit)
	if err != nil {
		http.Error(w, "log not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// trainerSettings is the part of the configuration that can be changed over
// the API.
type trainerSettings struct {
	Tones    config.Tones    `json:"tones"`
	Joystick config.Joystick `json:"joystick"`
}

// handleConfig reads or replaces the tones and joystick settings.  Admins
// only.  Changes are saved to the configuration file and apply from the
// next start of the trainer.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request, user config.User) {
	if !user.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	switch r.Method {
	case http.MethodGet:
		cfg := s.cfgMgr.Get()
		writeJSON(w, http.StatusOK, trainerSettings{Tones: cfg.Tones, Joystick: cfg.Joystick})
	case http.MethodPut, http.MethodPost:
		cur := s.cfgMgr.Get()
		req := trainerSettings{Tones: cur.Tones, Joystick: cur.Joystick}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := s.cfgMgr.Update(func(c *config.Config) error {
			c.Tones = req.Tones
			c.Joystick = req.Joystick
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Log("settings changed by %s: tones %d/%d Hz for %d ms, joystick %d/%d every %d ms",
			user.Username, req.Tones.VictoryHz, req.Tones.DefeatHz, req.Tones.DurationMS,
			req.Joystick.UpThreshold, req.Joystick.DownThreshold, req.Joystick.IntervalMS)
		writeJSON(w, http.StatusOK, req)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTestInput presses a button or moves the joystick on behalf of the
// caller.  It is only available when test_input is enabled.  Body JSON:
// {"button":"a"} or {"move":"up"}
func (s *Server) handleTestInput(w http.ResponseWriter, r *http.Request, user config.User) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.cfgMgr.Get().TestInput {
		http.Error(w, "test input disabled", http.StatusBadRequest)
		return
	}
	var req struct {
		Button string `json:"button"`
		Move   string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	var input string
	switch strings.ToLower(req.Button) + "/" + strings.ToLower(req.Move) {
	case "a/":
		input = "button a"
		s.device.OnButtonPrimary()
	case "b/":
		input = "button b"
		s.device.OnButtonSecondary()
	case "/up":
		input = "move up"
		s.device.OnOptionMoved(options.MoveNext)
	case "/down":
		input = "move down"
		s.device.OnOptionMoved(options.MovePrev)
	default:
		http.Error(w, "expected one of button a|b or move up|down", http.StatusBadRequest)
		return
	}
	s.logger.Log("test input %s by %s", input, user.Username)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
