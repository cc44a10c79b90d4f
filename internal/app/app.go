package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/config"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/middleware"
	"github.com/talentatalk/talentatalk-admin/internal/module/auth"
	"github.com/talentatalk/talentatalk-admin/internal/module/dashboard"
	"github.com/talentatalk/talentatalk-admin/internal/module/imports"
	"github.com/talentatalk/talentatalk-admin/internal/module/interview"
	"github.com/talentatalk/talentatalk-admin/internal/module/material"
	"github.com/talentatalk/talentatalk-admin/internal/module/talent"
	"github.com/talentatalk/talentatalk-admin/internal/session"
	"github.com/talentatalk/talentatalk-admin/web"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine   *gin.Engine
	db       *gorm.DB
	logger   *logger.Logger
	cfg      *config.Config
	sessions *session.Manager
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, writeTimeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the session store, the session manager that owns the
// backend clients, the admin modules, middleware, templates and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Session store.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", slog.Any("error", err))
			}
		}
	}()

	// The tables are owned by this app, so they are migrated in every mode.
	if err := config.Migrate(db, &domain.AdminSession{}, &domain.DashboardPreferences{}); err != nil {
		return nil, err
	}

	// 3. Session manager: one backend client per signed-in admin.
	manager, err := session.NewManager(
		session.NewSessionRepository(db),
		session.NewPreferenceRepository(db),
		session.Options{
			Backend: apiclient.Config{
				BaseURL:       cfg.Backend.BaseURL,
				Timeout:       cfg.BackendTimeout(),
				UploadTimeout: cfg.UploadTimeout(),
			},
			TTL: cfg.SessionTTL(),
			Imports: backend.ImportLimits{
				MaxFileSizeBytes:   cfg.MaxFileSizeBytes(),
				AcceptedExtensions: cfg.Import.AcceptedExtensions,
			},
			MaxWorkspaces: cfg.Server.Session.MaxWorkspaces,
			Logger:        config.Component(log.Logger, "backend"),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("setup session manager: %w", err)
	}

	// 4. Modules.
	modules := buildModules(cfg, manager, log.Logger)

	// 5. Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	corsConfig, err := resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)
	if err != nil {
		return nil, err
	}
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Logger(log.Logger),
		apiOnly(middleware.CORS(corsConfig)),
	)

	// 6. Templates: from disk in debug mode, embedded otherwise.
	var fsys fs.FS = web.EmbeddedFS
	if cfg.Server.Mode == gin.DebugMode {
		if fsys, err = resolveDebugWebFS(); err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	}
	renderer, err := NewTemplateRenderer(fsys, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	// 7. CSRF secret.
	csrfSecret, err := resolveCSRFSecret(cfg.Server.Mode, cfg.Server.CSRFSecret)
	if err != nil {
		return nil, err
	}
	if csrfSecret != cfg.Server.CSRFSecret {
		log.Warn("no csrf_secret configured, using random secret in non-release mode (will change on restart)")
	}

	// 8. Routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:    modules,
		Sessions:   manager,
		CookieName: cfg.Server.Session.CookieName,
		DB:         db,
		Mode:       cfg.Server.Mode,
		CSRFSecret: csrfSecret,
		Logger:     config.Component(log.Logger, "session"),
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:   engine,
		db:       db,
		logger:   log,
		cfg:      cfg,
		sessions: manager,
	}, nil
}

func buildModules(cfg *config.Config, manager *session.Manager, log *slog.Logger) []Module {
	return []Module{
		auth.NewModule(auth.NewHandler(manager, cfg.Server.Session.CookieName, log)),
		dashboard.NewModule(dashboard.NewHandler(manager, dashboard.NewLoader(log), cfg.RefreshInterval(), log)),
		talent.NewModule(talent.NewHandler(log)),
		material.NewModule(material.NewHandler(log)),
		interview.NewModule(interview.NewHandler(log)),
		imports.NewModule(imports.NewHandler(log)),
	}
}

func isPlaceholderCSRFSecret(secret string) bool {
	switch strings.ToLower(strings.TrimSpace(secret)) {
	case "", "change-me-to-a-random-secret", "change-me-in-env":
		return true
	default:
		return false
	}
}

// resolveCSRFSecret returns the configured secret, or a random one outside
// release mode.
func resolveCSRFSecret(mode, secret string) (string, error) {
	if !isPlaceholderCSRFSecret(secret) {
		return secret, nil
	}
	if mode == gin.ReleaseMode {
		return "", errors.New("csrf_secret must be a non-placeholder value in release mode")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// resolveCORSConfig builds the /api/v1 CORS settings. Without an allowlist,
// release mode denies cross-origin requests.
func resolveCORSConfig(mode string, c config.CORSConfig) (middleware.CORSConfig, error) {
	out := middleware.DefaultCORSConfig()
	switch {
	case len(c.AllowOrigins) > 0:
		out.AllowOrigins = c.AllowOrigins
	case mode == gin.ReleaseMode:
		out.AllowOrigins = []string{}
	}
	if len(c.AllowMethods) > 0 {
		out.AllowMethods = c.AllowMethods
	}
	if len(c.AllowHeaders) > 0 {
		out.AllowHeaders = c.AllowHeaders
	}
	out.AllowCredentials = c.AllowCredentials
	if c.MaxAge != "" {
		d, err := time.ParseDuration(c.MaxAge)
		if err != nil {
			return out, fmt.Errorf("invalid server.cors.max_age %q: %w", c.MaxAge, err)
		}
		out.MaxAge = d
	}
	return out, nil
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}
	return nil, errors.New("debug web directory not found")
}

// Run starts the HTTP server and the expired-session sweeper, and blocks
// until a shutdown signal is received. Shutdown waits up to 5 seconds for
// in-flight requests, then closes the database and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}
	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	// Import uploads may run for the whole upload timeout.
	srv := newHTTPServer(addr, a.engine, a.cfg.UploadTimeout()+30*time.Second)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		if a.sessions != nil {
			a.sessions.RunCleanup(sweepCtx, a.cfg.CleanupInterval())
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr), slog.String("backend", a.cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	stopSweep()
	<-sweepDone
	if a.sessions != nil {
		a.sessions.Close()
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", slog.Any("error", err))
			} else {
				log.Info("database connection closed")
			}
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}
	return runErr
}
