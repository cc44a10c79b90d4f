package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// ContentTarget is the element the auto-refresh swaps.
const ContentTarget = "dashboard-content"

// Preferences loads and stores an admin's dashboard settings.
type Preferences interface {
	Preferences(ctx context.Context, email string) (domain.DashboardPreferences, error)
	SavePreferences(ctx context.Context, p domain.DashboardPreferences) (domain.DashboardPreferences, error)
}

// Handler serves the dashboard, its settings and the learner rankings.
type Handler struct {
	prefs   Preferences
	loader  *Loader
	refresh time.Duration
	logger  *slog.Logger
}

// NewHandler creates a Handler. refresh is the auto-refresh period of the
// dashboard page; zero disables it.
func NewHandler(prefs Preferences, loader *Loader, refresh time.Duration, logger *slog.Logger) *Handler {
	if prefs == nil {
		panic("dashboard.NewHandler: preferences must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = NewLoader(logger)
	}
	return &Handler{prefs: prefs, loader: loader, refresh: refresh, logger: logger}
}

// preferences falls back to the defaults when the store fails, so the
// dashboard still loads.
func (h *Handler) preferences(c *gin.Context) domain.DashboardPreferences {
	email := page.Workspace(c).Session().Email
	p, err := h.prefs.Preferences(c.Request.Context(), email)
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "dashboard preferences unavailable", slog.Any("error", err))
		return domain.DefaultDashboardPreferences(email)
	}
	return p
}

// Index renders the statistics and recent activities.
// GET /
func (h *Handler) Index(c *gin.Context) {
	ws := page.Workspace(c)
	p := h.preferences(c)
	limit := EffectiveLimit(p)

	o, err := h.loader.Load(c.Request.Context(), ws.Session().ID, ws.API, limit, p.DaysBack)
	if err != nil {
		page.Fail(c, err, "load dashboard")
		return
	}

	data := gin.H{
		"Title":          "Dashboard",
		"Overview":       o,
		"Prefs":          p,
		"Info":           InfoMessage(p, o.DateRange),
		"PronFooter":     FooterMessage(len(o.Pronunciation), limit, "pronunciation"),
		"SpeakingFooter": FooterMessage(len(o.Speaking), limit, "speaking"),
		"RefreshSeconds": int(h.refresh / time.Second),
	}
	if o.Empty() {
		data["EmptyMessage"] = EmptyMessage(o.DateRange, limit)
	}
	name := "dashboard/index.html"
	if pkg.IsHTMX(c) && c.GetHeader("HX-Target") == ContentTarget {
		name = "dashboard/content.html"
	}
	page.Render(c, http.StatusOK, name, data)
}

// Settings renders the dashboard settings form.
// GET /settings/dashboard
func (h *Handler) Settings(c *gin.Context) {
	h.renderSettings(c, h.preferences(c), nil)
}

// SaveSettings stores the dashboard settings and returns to the dashboard.
// POST /settings/dashboard
func (h *Handler) SaveSettings(c *gin.Context) {
	current := h.preferences(c)
	var form SettingsForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSettings(c, current, pkg.FieldErrors(err, SettingsForm{}))
		return
	}
	saved, err := h.prefs.SavePreferences(c.Request.Context(), form.apply(current))
	if err != nil {
		page.Fail(c, err, "save dashboard settings")
		return
	}
	h.logger.InfoContext(c.Request.Context(), "dashboard settings saved",
		slog.Int("limit", EffectiveLimit(saved)),
		slog.Int("days_back", saved.DaysBack),
	)
	page.Done(c, "Dashboard settings saved", "/")
}

func (h *Handler) renderSettings(c *gin.Context, p domain.DashboardPreferences, fieldErrors map[string]string) {
	page.Render(c, http.StatusOK, "dashboard/settings.html", gin.H{
		"Title":            "Dashboard Settings",
		"Prefs":            p,
		"PredefinedLimits": PredefinedLimits,
		"DaysBackOptions":  DaysBackOptions,
		"MinLimit":         domain.MinActivityLimit,
		"MaxLimit":         domain.MaxActivityLimit,
		"FieldErrors":      fieldErrors,
	})
}

// Learners renders a learner ranking. view selects top-active (default)
// or highest-scoring; the highest-scoring ranking has one tab per score
// category.
// GET /learners
func (h *Handler) Learners(c *gin.Context) {
	data := gin.H{"Title": "Learners", "View": ViewTopActive}
	if c.Query("view") == ViewHighestScoring {
		g, s, err := page.LoadGrid(c, highestScoringKey, buildHighestScoring)
		if err != nil {
			page.Fail(c, err, "load learner ranking")
			return
		}
		data["View"] = ViewHighestScoring
		view := page.NewGridView(g, s, "/learners", recordID, url.Values{"view": {ViewHighestScoring}})
		page.RenderGrid(c, "dashboard/learners.html", view, s.Superseded, s.Err, data)
		return
	}
	g, s, err := page.LoadGrid(c, topActiveKey, buildTopActive)
	if err != nil {
		page.Fail(c, err, "load learner ranking")
		return
	}
	view := page.NewGridView(g, s, "/learners", learnerID, url.Values{"view": {ViewTopActive}})
	page.RenderGrid(c, "dashboard/learners.html", view, s.Superseded, s.Err, data)
}

// TopActiveJSON returns the top-active ranking to API clients.
// GET /api/v1/grids/learners
func (h *Handler) TopActiveJSON(c *gin.Context) {
	page.GridJSON(c, topActiveKey, buildTopActive)
}

// HighestScoringJSON returns the highest-scoring ranking to API clients.
// GET /api/v1/grids/learners/highest-scoring
func (h *Handler) HighestScoringJSON(c *gin.Context) {
	page.GridJSON(c, highestScoringKey, buildHighestScoring)
}
