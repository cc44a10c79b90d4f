package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentatalk/talentatalk-admin/internal/middleware"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
	"github.com/talentatalk/talentatalk-admin/web"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules    []Module
	Sessions   middleware.WorkspaceResolver
	CookieName string
	DB         *gorm.DB
	Mode       string // "debug" or "release"
	CSRFSecret string
	Logger     *slog.Logger
}

// RegisterRoutes registers all application routes on the given gin.Engine.
//
// Route groups:
//
//	/static, /health        open
//	public (login, logout)  CSRF
//	pages                   CSRF + RequireLogin
//	/api/v1                 RequireLogin, JSON envelopes
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if deps.Sessions == nil {
		return errors.New("session resolver is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}
	if strings.TrimSpace(deps.CookieName) == "" {
		return errors.New("session cookie name is required")
	}

	if err := registerStaticRoutes(r, deps.Mode); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}
	r.GET("/health", healthHandler(deps.DB))

	csrf := middleware.CSRF(deps.CSRFSecret)
	requireLogin := middleware.RequireLogin(deps.Sessions, deps.CookieName, deps.Logger)

	public := r.Group("/", csrf)
	pages := r.Group("/", csrf, requireLogin)
	api := r.Group("/api/v1", requireLogin)

	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		if pm, ok := m.(PublicModule); ok {
			pm.RegisterPublicRoutes(public)
		}
		m.RegisterRoutes(api, pages)
	}

	r.NoRoute(noRouteHandler())
	return nil
}

// apiOnly runs h for /api/ paths and skips it for pages.
func apiOnly(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h(c)
			return
		}
		c.Next()
	}
}

// healthHandler pings the session store. The backend is not probed; a
// backend outage shows up on the pages themselves.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := "ok"
		if err := pingDB(c.Request.Context(), db); err != nil {
			store = "error"
		}

		status, code := "ok", http.StatusOK
		if store != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"components": gin.H{"session_store": store},
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// noRouteHandler renders a 404 HTML page for browser requests or a JSON
// response for API clients.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}
		renderError(c, http.StatusNotFound, "not found")
	}
}

// registerStaticRoutes serves web/static from disk in debug mode and from
// the embedded copy with cache headers otherwise.
func registerStaticRoutes(r *gin.Engine, mode string) error {
	if mode == gin.DebugMode {
		staticFS, err := resolveDebugStaticFS()
		if err != nil {
			return fmt.Errorf("resolve debug static filesystem: %w", err)
		}
		fileServer := http.StripPrefix("/static", http.FileServer(http.FS(staticFS)))
		r.GET("/static/*filepath", func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		return nil
	}

	staticFS, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return fmt.Errorf("create sub filesystem for static assets: %w", err)
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(staticFS)))
	return nil
}

func resolveDebugStaticFS() (fs.FS, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("resolve current file path")
	}

	staticDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "web", "static")
	if _, err := os.Stat(staticDir); err != nil {
		return nil, fmt.Errorf("stat static directory %q: %w", staticDir, err)
	}
	return os.DirFS(filepath.Clean(staticDir)), nil
}

// cacheStaticHandler serves fsys with a one-day Cache-Control header.
func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
