package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// CSRF token locations. Forms post the token as a hidden field; htmx sends
// it in a header configured once in the layout.
const (
	CSRFCookieName = "_csrf_token"
	CSRFFormField  = "_csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"
)

type csrfGuard struct {
	secret []byte
	secure bool
}

// CSRF protects page forms with signed double-submit tokens of the form
// hex(nonce) "." base64url(HMAC-SHA256(nonce)).
//
// Safe methods get a token cookie (issued when missing or forged) and the
// token in the gin context for templates. Unsafe methods must echo the
// cookie in the form field or the header.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "csrf secret is required",
			})
		}
	}
	g := &csrfGuard{secret: []byte(secret), secure: gin.Mode() == gin.ReleaseMode}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			g.issue(c)
		default:
			g.verify(c)
		}
	}
}

func (g *csrfGuard) issue(c *gin.Context) {
	token, err := c.Cookie(CSRFCookieName)
	if err != nil || !g.valid(token) {
		token, err = g.newToken()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "failed to generate CSRF token",
			})
			return
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     CSRFCookieName,
			Value:    token,
			Path:     "/",
			Secure:   g.secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
	c.Set(csrfContextKey, token)
	c.Next()
}

func (g *csrfGuard) verify(c *gin.Context) {
	cookie, _ := c.Cookie(CSRFCookieName)
	sent := c.GetHeader(CSRFHeaderName)
	if sent == "" {
		sent = c.PostForm(CSRFFormField)
	}

	switch {
	case cookie == "" || sent == "":
		rejectCSRF(c, "CSRF token missing")
	case !g.valid(cookie) || !hmac.Equal([]byte(cookie), []byte(sent)):
		rejectCSRF(c, "CSRF token invalid")
	default:
		c.Set(csrfContextKey, cookie)
		c.Next()
	}
}

// rejectCSRF answers 403. htmx callers see a toast asking for a reload
// since their page holds a stale token.
func rejectCSRF(c *gin.Context, msg string) {
	if pkg.IsHTMX(c) {
		c.Header("HX-Reswap", "none")
		pkg.Toast(c, "Your form has expired. Please reload the page.", pkg.ToastError)
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, pkg.Response{
		Code:    http.StatusForbidden,
		Message: msg,
	})
}

func (g *csrfGuard) newToken() (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	n := hex.EncodeToString(nonce)
	return n + "." + g.sign(n), nil
}

func (g *csrfGuard) sign(nonce string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (g *csrfGuard) valid(token string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(g.sign(nonce)))
}

// GetCSRFToken returns the token the CSRF middleware stored for templates.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
