// Package page holds the rendering and htmx conventions shared by the
// admin page modules.
package page

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/middleware"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
	"github.com/talentatalk/talentatalk-admin/internal/session"
)

// Render executes a page template with the data every layout needs: the
// CSRF token, the signed-in admin and the current path for the sidebar.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	data["Path"] = c.Request.URL.Path
	if ws := middleware.CurrentWorkspace(c); ws != nil {
		data["Admin"] = ws.Session()
	}
	c.HTML(status, name, data)
}

// Workspace returns the signed-in admin's workspace. Routes behind
// RequireLogin always have one.
func Workspace(c *gin.Context) *session.Workspace {
	return middleware.CurrentWorkspace(c)
}

// ErrorPage renders the error template matching status.
func ErrorPage(c *gin.Context, status int, message string) {
	name := "errors/500.html"
	switch status {
	case http.StatusBadRequest:
		name = "errors/400.html"
	case http.StatusNotFound:
		name = "errors/404.html"
	}
	Render(c, status, name, gin.H{"Title": http.StatusText(status), "Message": message})
}

// Fail reports err for the request. An expired session goes back to the
// login page. htmx actions get an error toast and keep the current page;
// full page loads get an error page.
func Fail(c *gin.Context, err error, action string) {
	if domain.IsUnauthorized(err) {
		pkg.Redirect(c, middleware.LoginPath)
		return
	}
	status := domain.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), action+" failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}
	msg := pkg.ErrorMessage(err)
	if pkg.IsHTMX(c) {
		pkg.ToastOnly(c, msg, pkg.ToastError)
		return
	}
	ErrorPage(c, status, msg)
}

// Done reports a successful action. With a location the browser navigates
// there; without one the current page only shows the toast and listeners of
// the "refresh" event reload their content.
func Done(c *gin.Context, message, location string) {
	if location != "" {
		pkg.Toast(c, message, pkg.ToastSuccess)
		pkg.Redirect(c, location)
		return
	}
	c.Header("HX-Reswap", "none")
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{"message": message, "type": pkg.ToastSuccess},
		"refresh":   nil,
	})
	c.Header("HX-Trigger", string(trigger))
	c.Status(http.StatusOK)
}

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// BadID answers a malformed id parameter.
func BadID(c *gin.Context) {
	Fail(c, domain.NewAppError(domain.CodeValidation, "invalid id", nil), "parse id")
}
