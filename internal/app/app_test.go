package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/talentatalk/talentatalk-admin/internal/config"
	"github.com/talentatalk/talentatalk-admin/internal/middleware"
)

type fakeHTTPServer struct {
	listenErr      error
	listenStarted  chan struct{}
	shutdownCalled bool
	stopCh         chan struct{}
	mu             sync.Mutex
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenStarted != nil {
		close(f.listenStarted)
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	if f.stopCh != nil {
		<-f.stopCh
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdownCalled = true
	f.mu.Unlock()
	if f.stopCh != nil {
		close(f.stopCh)
	}
	return nil
}

func (f *fakeHTTPServer) wasShutdownCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdownCalled
}

// testConfig returns a validated config in test mode backed by a temporary
// SQLite file and the given backend URL.
func testConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	color := false
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:       "127.0.0.1",
			Port:       8080,
			Mode:       gin.TestMode,
			CSRFSecret: "test-secret-with-enough-entropy-123",
		},
		Backend: config.BackendConfig{BaseURL: backendURL},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "admin.db")},
		},
		Log: config.LogConfig{Level: "error", Format: "text", Color: &color},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func cleanupTestApp(t *testing.T, a *App) {
	t.Helper()
	if a == nil {
		return
	}
	if a.sessions != nil {
		a.sessions.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func TestResolveCORSConfig(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		in          config.CORSConfig
		wantOrigins []string
		wantMaxAge  time.Duration
		wantErr     bool
	}{
		{"debug default allows all", gin.DebugMode, config.CORSConfig{}, []string{"*"}, 12 * time.Hour, false},
		{"release default denies", gin.ReleaseMode, config.CORSConfig{}, []string{}, 12 * time.Hour, false},
		{"allowlist wins", gin.ReleaseMode, config.CORSConfig{AllowOrigins: []string{"https://admin.talentatalk.id"}, MaxAge: "1h"}, []string{"https://admin.talentatalk.id"}, time.Hour, false},
		{"bad max age", gin.DebugMode, config.CORSConfig{MaxAge: "soon"}, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCORSConfig(tt.mode, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveCORSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if strings.Join(got.AllowOrigins, ",") != strings.Join(tt.wantOrigins, ",") {
				t.Errorf("AllowOrigins = %v, want %v", got.AllowOrigins, tt.wantOrigins)
			}
			if got.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %v, want %v", got.MaxAge, tt.wantMaxAge)
			}
		})
	}
}

func TestValidateGinMode(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode} {
		if err := validateGinMode(mode); err != nil {
			t.Errorf("validateGinMode(%q) error = %v", mode, err)
		}
	}
	if err := validateGinMode("staging"); err == nil {
		t.Error("validateGinMode(staging) expected error")
	}
}

func TestResolveCSRFSecret(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		secret  string
		wantErr bool
		random  bool
	}{
		{"release rejects empty", gin.ReleaseMode, "", true, false},
		{"release rejects placeholder", gin.ReleaseMode, "change-me-in-env", true, false},
		{"test mode generates", gin.TestMode, "", false, true},
		{"debug mode generates for blank", gin.DebugMode, "  ", false, true},
		{"configured secret kept", gin.ReleaseMode, "a-real-secret", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCSRFSecret(tt.mode, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveCSRFSecret() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.random && len(got) != 64 {
				t.Errorf("generated secret = %q, want 64 hex chars", got)
			}
			if !tt.random && got != tt.secret {
				t.Errorf("secret = %q, want %q", got, tt.secret)
			}
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) expected error")
	}
}

func TestNew_ReturnsError_WhenDatabaseSetupFails(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:8000")
	cfg.Database.Driver = "unsupported"

	a, err := New(cfg)
	if err == nil || a != nil {
		t.Fatalf("New() = %v, %v; want nil app and error", a, err)
	}
	if !strings.Contains(err.Error(), "setup database") {
		t.Fatalf("New() error = %q, want contains %q", err.Error(), "setup database")
	}
}

func TestNew_ReleaseModeRejectsPlaceholderSecret(t *testing.T) {
	cfg := testConfig(t, "https://api.talentatalk.id")
	cfg.Server.Mode = gin.ReleaseMode
	cfg.Server.CSRFSecret = "change-me-in-env"

	a, err := New(cfg)
	if err == nil || !strings.Contains(err.Error(), "csrf_secret") {
		t.Fatalf("New() error = %v, want csrf_secret error", err)
	}
	if a != nil {
		t.Fatalf("New() app = %#v, want nil", a)
	}
	gin.SetMode(gin.TestMode)
}

// TestNew_Routes drives the assembled engine: public sign-in page, guarded
// pages and API, health and 404.
func TestNew_Routes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer backend.Close()

	a, err := New(testConfig(t, backend.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cleanupTestApp(t, a)

	if !a.db.Migrator().HasTable("admin_sessions") {
		t.Error("admin_sessions table not migrated")
	}

	tests := []struct {
		name       string
		method     string
		path       string
		accept     string
		wantStatus int
		wantHeader [2]string
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, [2]string{}, `"session_store":"ok"`},
		{"login page", http.MethodGet, "/login", "text/html", http.StatusOK, [2]string{}, `name="email"`},
		{"dashboard redirects", http.MethodGet, "/", "text/html", http.StatusSeeOther, [2]string{"Location", middleware.LoginPath}, ""},
		{"talents redirect", http.MethodGet, "/talents", "text/html", http.StatusSeeOther, [2]string{"Location", middleware.LoginPath}, ""},
		{"api unauthorized", http.MethodGet, "/api/v1/grids/talents", "application/json", http.StatusUnauthorized, [2]string{}, `"code":401`},
		{"page not found", http.MethodGet, "/nope", "text/html", http.StatusNotFound, [2]string{}, "Not Found"},
		{"api not found", http.MethodGet, "/api/v1/nope", "application/json", http.StatusNotFound, [2]string{}, `"message":"not found"`},
		{"logout without csrf", http.MethodPost, "/logout", "text/html", http.StatusForbidden, [2]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			a.engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantHeader[0] != "" && w.Header().Get(tt.wantHeader[0]) != tt.wantHeader[1] {
				t.Errorf("%s = %q, want %q", tt.wantHeader[0], w.Header().Get(tt.wantHeader[0]), tt.wantHeader[1])
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q:\n%s", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestNew_CORSOnlyOnAPI(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:8000")
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cleanupTestApp(t, a)

	for path, want := range map[string]string{"/api/v1/grids/talents": "*", "/login": ""} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Origin", "https://example.com")
		a.engine.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("%s: Access-Control-Allow-Origin = %q, want %q", path, got, want)
		}
	}
}

func TestRun_ReturnsError_WhenListenFails(t *testing.T) {
	originalNewHTTPServer, originalNotifyContext := newHTTPServer, notifyContext
	defer func() {
		newHTTPServer, notifyContext = originalNewHTTPServer, originalNotifyContext
	}()

	listenErr := errors.New("listen failed")
	newHTTPServer = func(string, http.Handler, time.Duration) httpServer {
		return &fakeHTTPServer{listenErr: listenErr}
	}
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return context.WithCancel(context.Background())
	}

	a := &App{
		engine: gin.New(),
		logger: logger.Default(),
		cfg:    &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080}},
	}

	err := a.Run()
	if !errors.Is(err, listenErr) || !strings.Contains(err.Error(), "server error") {
		t.Fatalf("Run() error = %v, want wrapped %v", err, listenErr)
	}
}

func TestRun_ShutdownSignal_ClosesDatabase(t *testing.T) {
	originalNewHTTPServer, originalNotifyContext := newHTTPServer, notifyContext
	defer func() {
		newHTTPServer, notifyContext = originalNewHTTPServer, originalNotifyContext
	}()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "admin.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}

	server := &fakeHTTPServer{listenStarted: make(chan struct{}), stopCh: make(chan struct{})}
	var writeTimeout time.Duration
	newHTTPServer = func(_ string, _ http.Handler, wt time.Duration) httpServer {
		writeTimeout = wt
		return server
	}
	ctx, cancel := context.WithCancel(context.Background())
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return ctx, cancel
	}

	a := &App{
		engine: gin.New(),
		db:     db,
		logger: logger.Default(),
		cfg: &config.Config{
			Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
			Backend: config.BackendConfig{UploadTimeout: "60s"},
		},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case <-server.listenStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening in time")
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return in time after shutdown signal")
	}

	if !server.wasShutdownCalled() {
		t.Fatal("expected server Shutdown() to be called")
	}
	if writeTimeout != 90*time.Second {
		t.Errorf("write timeout = %v, want upload timeout plus 30s", writeTimeout)
	}
	if pingErr := sqlDB.Ping(); pingErr == nil {
		t.Fatal("expected database connection to be closed, but Ping() succeeded")
	}
}
