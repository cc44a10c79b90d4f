package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// Authenticator opens and closes admin sessions. session.Manager
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.AdminSession, error)
	Logout(ctx context.Context, id string) error
}

// LastEmailCookie remembers the email of the last successful sign-in so
// the login form can be prefilled.
const LastEmailCookie = "last_login_email"

const lastEmailMaxAge = 30 * 24 * 60 * 60

// cookieMaxAge is the lifetime of the session cookie in seconds, ending
// when the session does. It is at least one second so the cookie is set.
func cookieMaxAge(expiresAt, now time.Time) int {
	secs := int(expiresAt.Sub(now) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// safeNext keeps redirects on this site. Anything but a local absolute
// path falls back to the dashboard.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if next == LoginPath {
		return "/"
	}
	return next
}

func rememberEmail(c *gin.Context, email string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     LastEmailCookie,
		Value:    email,
		Path:     LoginPath,
		MaxAge:   lastEmailMaxAge,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
}

func lastEmail(c *gin.Context) string {
	v, err := c.Cookie(LastEmailCookie)
	if err != nil {
		return ""
	}
	return v
}
