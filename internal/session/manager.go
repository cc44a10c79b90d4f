// Package session keeps the server-side state of signed-in admins: the
// backend bearer token, dashboard preferences, and the per-browser view
// models of list pages and import dialogs.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
	"github.com/talentatalk/talentatalk-admin/internal/importer"
)

// DefaultTTL is the session lifetime when the backend token carries none.
const DefaultTTL = 24 * time.Hour

// Options configures a Manager.
type Options struct {
	Backend apiclient.Config
	TTL     time.Duration
	Imports backend.ImportLimits
	// MaxWorkspaces bounds the in-memory view models kept across sessions.
	MaxWorkspaces int
	Transport     http.RoundTripper
	Logger        *slog.Logger
}

// Manager creates, resolves, and ends admin sessions.
type Manager struct {
	sessions   domain.SessionRepository
	prefs      domain.PreferenceRepository
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
	workspaces *grid.Registry[*Workspace]
}

// NewManager creates a Manager over the given repositories.
func NewManager(sessions domain.SessionRepository, prefs domain.PreferenceRepository, opts Options) (*Manager, error) {
	if sessions == nil || prefs == nil {
		return nil, errors.New("session: repositories are required")
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Manager{
		sessions: sessions,
		prefs:    prefs,
		opts:     opts,
		logger:   opts.Logger,
		now:      time.Now,
	}
	// Check the backend settings once so a bad base URL fails at startup.
	if _, err := m.newClient(apiclient.NewMemoryTokenStore(""), nil); err != nil {
		return nil, err
	}
	m.workspaces = grid.NewRegistry(grid.RegistryOptions{Capacity: opts.MaxWorkspaces, TTL: opts.TTL}, m.buildWorkspace)
	return m, nil
}

// Close releases the workspace cache.
func (m *Manager) Close() {
	m.workspaces.Close()
}

func (m *Manager) newClient(tokens apiclient.TokenStore, onUnauthorized func()) (*apiclient.Client, error) {
	opts := []apiclient.Option{apiclient.WithLogger(m.logger), apiclient.WithClock(func() time.Time { return m.now() })}
	if m.opts.Transport != nil {
		opts = append(opts, apiclient.WithTransport(m.opts.Transport))
	}
	if onUnauthorized != nil {
		opts = append(opts, apiclient.WithUnauthorizedHandler(onUnauthorized))
	}
	return apiclient.New(m.opts.Backend, tokens, opts...)
}

// Login authenticates against the backend and opens a session.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.AdminSession, error) {
	c, err := m.newClient(apiclient.NewMemoryTokenStore(""), nil)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "backend client", err)
	}
	res, err := backend.New(c).Auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := m.now()
	expires := now.Add(m.opts.TTL)
	if exp, ok := apiclient.TokenExpiry(res.Token); ok && exp.Before(expires) {
		expires = exp
	}
	s := &domain.AdminSession{
		ID:        uuid.NewString(),
		Token:     res.Token,
		Name:      res.Name,
		Email:     strings.TrimSpace(res.Email),
		Role:      res.Role,
		ExpiresAt: expires,
	}
	if s.Email == "" {
		s.Email = strings.TrimSpace(email)
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	m.logger.InfoContext(ctx, "admin signed in",
		slog.String("session_id", s.ID),
		slog.String("email", s.Email),
	)
	return s, nil
}

// Resolve loads a live session and its workspace. Unknown, expired, and
// invalidated sessions yield domain.ErrUnauthorized.
func (m *Manager) Resolve(ctx context.Context, id string) (*Workspace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUnauthorized
	}
	s, err := m.sessions.Get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if s.Token == "" || !m.now().Before(s.ExpiresAt) {
		m.workspaces.Drop(id)
		return nil, domain.ErrUnauthorized
	}

	ws, err := m.workspaces.Get(id)
	if err != nil {
		return nil, err
	}
	ws.tokens.sync(s.Token)
	ws.setSession(s)
	return ws, nil
}

// Logout ends a session. Ending an unknown session is not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.workspaces.Drop(id)
	if err := m.sessions.Delete(ctx, id); err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}

// Cleanup purges expired sessions.
func (m *Manager) Cleanup(ctx context.Context) (int64, error) {
	n, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.InfoContext(ctx, "expired sessions purged", slog.Int64("count", n))
	}
	return n, nil
}

// RunCleanup purges expired sessions every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Cleanup(ctx); err != nil && ctx.Err() == nil {
				m.logger.Error("purge expired sessions failed", slog.Any("error", err))
			}
		}
	}
}

// Preferences returns the dashboard settings of email, or the defaults.
func (m *Manager) Preferences(ctx context.Context, email string) (domain.DashboardPreferences, error) {
	p, err := m.prefs.Get(ctx, email)
	if domain.IsNotFound(err) {
		return domain.DefaultDashboardPreferences(email), nil
	}
	if err != nil {
		return domain.DashboardPreferences{}, err
	}
	return *p, nil
}

// SavePreferences clamps and stores the dashboard settings.
func (m *Manager) SavePreferences(ctx context.Context, p domain.DashboardPreferences) (domain.DashboardPreferences, error) {
	p.ActivityLimit = domain.ClampActivityLimit(p.ActivityLimit)
	p.DaysBack = domain.ClampDaysBack(p.DaysBack)
	p.CustomLimitValue = domain.ClampActivityLimit(p.CustomLimitValue)
	if err := m.prefs.Save(ctx, &p); err != nil {
		return domain.DashboardPreferences{}, err
	}
	return p, nil
}

func (m *Manager) buildWorkspace(id string) (*Workspace, error) {
	tokens := NewTokenStore(id, "", m.sessions, m.logger)
	c, err := m.newClient(tokens, func() {
		m.logger.Info("backend rejected session token", slog.String("session_id", id))
		m.workspaces.Drop(id)
	})
	if err != nil {
		return nil, err
	}
	ws := NewWorkspace(backend.New(c), domain.AdminSession{ID: id}, m.opts.Imports)
	ws.tokens = tokens
	return ws, nil
}

// NewWorkspace creates a workspace over api for session s.
func NewWorkspace(api *backend.API, s domain.AdminSession, limits backend.ImportLimits) *Workspace {
	return &Workspace{
		API:     api,
		limits:  limits,
		session: s,
		grids:   make(map[string]any),
		imports: make(map[domain.MaterialType]*importer.Session),
	}
}

// Workspace is the in-memory state of one signed-in browser session.
type Workspace struct {
	API *backend.API

	tokens *TokenStore
	limits backend.ImportLimits

	mu      sync.Mutex
	session domain.AdminSession
	grids   map[string]any
	imports map[domain.MaterialType]*importer.Session
}

// Session returns the admin session the workspace belongs to.
func (w *Workspace) Session() domain.AdminSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

func (w *Workspace) setSession(s *domain.AdminSession) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = *s
}

// Import returns the import dialog state of material m, creating it on
// first use.
func (w *Workspace) Import(m domain.MaterialType) (*importer.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.imports[m]; ok {
		return s, nil
	}
	cfg, err := w.API.ImportConfig(m, w.limits)
	if err != nil {
		return nil, err
	}
	s, err := importer.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	w.imports[m] = s
	return s, nil
}

// GridFor returns the workspace's grid stored under key, creating it with
// build on first use. Every request of one browser for the same list page
// shares the grid, so its newest request wins.
func GridFor[T any](w *Workspace, key string, build func(*backend.API) (*grid.Grid[T], error)) (*grid.Grid[T], error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if g, ok := w.grids[key]; ok {
		if typed, ok := g.(*grid.Grid[T]); ok {
			return typed, nil
		}
	}
	g, err := build(w.API)
	if err != nil {
		return nil, err
	}
	w.grids[key] = g
	return g, nil
}
