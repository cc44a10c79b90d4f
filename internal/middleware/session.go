package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
	"github.com/talentatalk/talentatalk-admin/internal/session"
)

const workspaceContextKey = "workspace"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// WorkspaceResolver finds the workspace of a session cookie value.
type WorkspaceResolver interface {
	Resolve(ctx context.Context, id string) (*session.Workspace, error)
}

// RequireLogin resolves the session cookie and stores the workspace in the
// gin context. Requests without a live session are turned away: /api paths
// get a 401 envelope, htmx requests an HX-Redirect and pages a redirect to
// the login page. The cookie is cleared on the way out.
func RequireLogin(resolver WorkspaceResolver, cookieName string, logger *slog.Logger) gin.HandlerFunc {
	if resolver == nil {
		panic("middleware: RequireLogin requires a resolver")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		if id == "" {
			denyLogin(c, cookieName)
			return
		}
		ws, err := resolver.Resolve(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(workspaceContextKey, ws)
			c.Next()
		case domain.IsUnauthorized(err):
			denyLogin(c, cookieName)
		default:
			logger.ErrorContext(c.Request.Context(), "resolve session failed", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "internal error",
			})
		}
	}
}

func denyLogin(c *gin.Context, cookieName string) {
	ClearSessionCookie(c, cookieName)
	c.Abort()
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}
	pkg.Redirect(c, LoginPath)
}

// CurrentWorkspace returns the workspace stored by RequireLogin, or nil.
func CurrentWorkspace(c *gin.Context) *session.Workspace {
	v, ok := c.Get(workspaceContextKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*session.Workspace)
	return ws
}

// SetSessionCookie stores the session id for the browser.
func SetSessionCookie(c *gin.Context, name, id string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, name string) {
	SetSessionCookie(c, name, "", -1)
}
