package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Backend   BackendConfig   `koanf:"backend"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Import    ImportConfig    `koanf:"import"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Mode       string        `koanf:"mode"`
	CSRFSecret string        `koanf:"csrf_secret"`
	CORS       CORSConfig    `koanf:"cors"`
	Session    SessionConfig `koanf:"session"`
}

// CORSConfig holds CORS middleware settings for /api/v1.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// SessionConfig controls the admin session cookie and its server-side state.
type SessionConfig struct {
	CookieName      string `koanf:"cookie_name"`
	TTL             string `koanf:"ttl"`
	CleanupInterval string `koanf:"cleanup_interval"`
	// MaxWorkspaces bounds the in-memory list and import state kept per
	// signed-in browser.
	MaxWorkspaces int `koanf:"max_workspaces"`
}

// BackendConfig points at the TalentaTalk REST API.
type BackendConfig struct {
	BaseURL       string `koanf:"base_url"`
	Timeout       string `koanf:"timeout"`
	UploadTimeout string `koanf:"upload_timeout"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// DashboardConfig holds dashboard page settings.
type DashboardConfig struct {
	RefreshInterval string `koanf:"refresh_interval"`
}

// ImportConfig holds the file limits of bulk imports.
type ImportConfig struct {
	MaxFileSizeMB      int      `koanf:"max_file_size_mb"`
	AcceptedExtensions []string `koanf:"accepted_extensions"`
}

// Defaults applied by Validate to unset optional fields.
const (
	DefaultSessionCookie   = "talentatalk_session"
	DefaultSessionTTL      = "24h"
	DefaultCleanupInterval = "1h"
	DefaultMaxWorkspaces   = 1024
	DefaultBackendTimeout  = "10s"
	DefaultUploadTimeout   = "60s"
	DefaultRefreshInterval = "30s"
	DefaultMaxFileSizeMB   = 10
)

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator, so APP__BACKEND__BASE_URL overrides backend.base_url.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values, and fills
// optional fields with their defaults.
func (c *Config) Validate() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}

	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)
	if ma := c.Server.CORS.MaxAge; ma != "" {
		if _, err := positiveDuration("server.cors.max_age", ma); err != nil {
			return err
		}
	}

	c.Dashboard.RefreshInterval = orDefault(c.Dashboard.RefreshInterval, DefaultRefreshInterval)
	if _, err := positiveDuration("dashboard.refresh_interval", c.Dashboard.RefreshInterval); err != nil {
		return err
	}

	if c.Import.MaxFileSizeMB == 0 {
		c.Import.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if c.Import.MaxFileSizeMB < 0 {
		return fmt.Errorf("invalid import.max_file_size_mb %d: must be positive", c.Import.MaxFileSizeMB)
	}
	exts := make([]string, 0, len(c.Import.AcceptedExtensions))
	for i, e := range c.Import.AcceptedExtensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" {
			return fmt.Errorf("import.accepted_extensions[%d] cannot be empty", i)
		}
		exts = append(exts, e)
	}
	c.Import.AcceptedExtensions = exts

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (c *Config) validateSession() error {
	s := &c.Server.Session
	s.CookieName = orDefault(s.CookieName, DefaultSessionCookie)
	if strings.ContainsAny(s.CookieName, " ;,=") {
		return fmt.Errorf("invalid server.session.cookie_name %q", s.CookieName)
	}
	s.TTL = orDefault(s.TTL, DefaultSessionTTL)
	if _, err := positiveDuration("server.session.ttl", s.TTL); err != nil {
		return err
	}
	s.CleanupInterval = orDefault(s.CleanupInterval, DefaultCleanupInterval)
	if _, err := positiveDuration("server.session.cleanup_interval", s.CleanupInterval); err != nil {
		return err
	}
	if s.MaxWorkspaces == 0 {
		s.MaxWorkspaces = DefaultMaxWorkspaces
	}
	if s.MaxWorkspaces < 0 {
		return fmt.Errorf("invalid server.session.max_workspaces %d: must be positive", s.MaxWorkspaces)
	}
	return nil
}

func (c *Config) validateBackend() error {
	b := &c.Backend
	raw := strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if raw == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid backend.base_url %q: %w", b.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend.base_url %q: must be an absolute http or https URL", b.BaseURL)
	}
	if c.Server.Mode == gin.ReleaseMode && u.Scheme != "https" && !isLoopback(u.Hostname()) {
		return fmt.Errorf("invalid backend.base_url %q for server.mode %q: must use https", b.BaseURL, gin.ReleaseMode)
	}
	b.BaseURL = raw

	b.Timeout = orDefault(b.Timeout, DefaultBackendTimeout)
	if _, err := positiveDuration("backend.timeout", b.Timeout); err != nil {
		return err
	}
	b.UploadTimeout = orDefault(b.UploadTimeout, DefaultUploadTimeout)
	if _, err := positiveDuration("backend.upload_timeout", b.UploadTimeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	if c.Database.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(c.Database.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = sqlitePath
	}

	if c.Database.Driver == "postgres" {
		pg := &c.Database.Postgres
		pg.Host = strings.TrimSpace(pg.Host)
		pg.User = strings.TrimSpace(pg.User)
		pg.DBName = strings.TrimSpace(pg.DBName)
		pg.SSLMode = strings.TrimSpace(pg.SSLMode)
		if pg.Host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
		}
		if pg.User == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		if pg.DBName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}
		switch pg.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q", pg.SSLMode)
		}
	}

	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)
	if lm := c.Database.Pool.ConnMaxLifetime; lm != "" {
		if _, err := positiveDuration("database.pool.conn_max_lifetime", lm); err != nil {
			return err
		}
	}
	return nil
}

// SessionTTL returns the parsed session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return mustDuration(c.Server.Session.TTL, DefaultSessionTTL)
}

// CleanupInterval returns how often expired sessions are purged.
func (c *Config) CleanupInterval() time.Duration {
	return mustDuration(c.Server.Session.CleanupInterval, DefaultCleanupInterval)
}

// BackendTimeout returns the timeout of ordinary backend calls.
func (c *Config) BackendTimeout() time.Duration {
	return mustDuration(c.Backend.Timeout, DefaultBackendTimeout)
}

// UploadTimeout returns the timeout of import uploads.
func (c *Config) UploadTimeout() time.Duration {
	return mustDuration(c.Backend.UploadTimeout, DefaultUploadTimeout)
}

// RefreshInterval returns the dashboard auto-refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return mustDuration(c.Dashboard.RefreshInterval, DefaultRefreshInterval)
}

// MaxFileSizeBytes returns the import upload limit.
func (c *Config) MaxFileSizeBytes() int64 {
	mb := c.Import.MaxFileSizeMB
	if mb <= 0 {
		mb = DefaultMaxFileSizeMB
	}
	return int64(mb) << 20
}

func positiveDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be greater than 0", key, v)
	}
	return d, nil
}

// mustDuration parses a value Validate already checked.
func mustDuration(v, fallback string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
