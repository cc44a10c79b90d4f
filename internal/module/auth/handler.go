package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/middleware"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// LoginPath is the sign-in page.
const LoginPath = middleware.LoginPath

// Handler serves sign-in, sign-out and the admin's own profile.
type Handler struct {
	auth       Authenticator
	cookieName string
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandler creates a Handler that stores the session id in the cookie
// cookieName. Panics if auth is nil.
func NewHandler(auth Authenticator, cookieName string, logger *slog.Logger) *Handler {
	if auth == nil {
		panic("auth.NewHandler: authenticator must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{auth: auth, cookieName: cookieName, logger: logger, now: time.Now}
}

// LoginPage renders the sign-in form, prefilled with the last email used.
// GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, LoginForm{Email: lastEmail(c), Next: c.Query("next")}, "", nil)
}

// Login signs the admin in and sets the session cookie.
// POST /login
func (h *Handler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusOK, form, "Please enter your email and password.", pkg.FieldErrors(err, LoginForm{}))
		return
	}
	s, err := h.auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if domain.HTTPStatusCode(err) >= http.StatusInternalServerError {
			h.logger.ErrorContext(c.Request.Context(), "login failed", slog.Any("error", err))
		}
		h.renderLogin(c, http.StatusOK, form, pkg.ErrorMessage(err), nil)
		return
	}
	middleware.SetSessionCookie(c, h.cookieName, s.ID, cookieMaxAge(s.ExpiresAt, h.now()))
	rememberEmail(c, s.Email)
	pkg.Redirect(c, safeNext(form.Next))
}

// Logout ends the session and returns to the sign-in page.
// POST /logout
func (h *Handler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil && id != "" {
		if err := h.auth.Logout(c.Request.Context(), id); err != nil {
			h.logger.WarnContext(c.Request.Context(), "logout failed", slog.Any("error", err))
		}
	}
	middleware.ClearSessionCookie(c, h.cookieName)
	pkg.Redirect(c, LoginPath)
}

func (h *Handler) renderLogin(c *gin.Context, status int, form LoginForm, errMsg string, fieldErrors map[string]string) {
	form.Password = ""
	page.Render(c, status, "auth/login.html", gin.H{
		"Title":       "Sign In",
		"Form":        form,
		"Error":       errMsg,
		"FieldErrors": fieldErrors,
	})
}

// ProfilePage renders the admin's profile as the backend knows it.
// GET /profile
func (h *Handler) ProfilePage(c *gin.Context) {
	p, err := page.Workspace(c).API.Auth.Profile(c.Request.Context())
	if err != nil {
		page.Fail(c, err, "load profile")
		return
	}
	h.renderProfile(c, ProfileForm{Name: p.Name, Email: p.Email}, "", nil)
}

// UpdateProfile saves the admin's name and email.
// PUT /profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderProfile(c, form, "Please check the highlighted fields.", pkg.FieldErrors(err, ProfileForm{}))
		return
	}
	msg, err := page.Workspace(c).API.Auth.UpdateProfile(c.Request.Context(), form.Name, form.Email)
	if err != nil {
		if domain.IsUnauthorized(err) {
			page.Fail(c, err, "update profile")
			return
		}
		h.renderProfile(c, form, pkg.ErrorMessage(err), nil)
		return
	}
	page.Done(c, orDefault(msg, "Profile updated successfully"), "/profile")
}

// ChangePassword sets a new password for the admin.
// PUT /profile/password
func (h *Handler) ChangePassword(c *gin.Context) {
	var form PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		fields := pkg.FieldErrors(err, PasswordForm{})
		msg := "Please check the password fields"
		switch {
		case fields["new_password"] != "":
			msg = "New password " + fields["new_password"]
		case fields["confirm_password"] != "":
			msg = "Passwords do not match"
		}
		pkg.ToastOnly(c, msg, pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Auth.ChangePassword(c.Request.Context(), form.NewPassword)
	if err != nil {
		page.Fail(c, err, "change password")
		return
	}
	h.logger.InfoContext(c.Request.Context(), "admin password changed", slog.String("email", page.Workspace(c).Session().Email))
	page.Done(c, orDefault(msg, "Password changed successfully"), "")
}

func (h *Handler) renderProfile(c *gin.Context, form ProfileForm, errMsg string, fieldErrors map[string]string) {
	page.Render(c, http.StatusOK, "auth/profile.html", gin.H{
		"Title":       "Profile",
		"Form":        form,
		"Error":       errMsg,
		"FieldErrors": fieldErrors,
	})
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
