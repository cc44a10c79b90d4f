package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

const panicMessage = "Something went wrong. Please try again."

// Recovery turns a panic in a handler into a logged 500.
//
// htmx requests get a toast and no swap, so the current page stays usable.
// Browser navigations get the errors/500.html page; anything else gets the
// JSON envelope.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Bool("htmx", pkg.IsHTMX(c)),
				slog.String("stack", string(debug.Stack())),
			)
			c.Abort()

			switch {
			case pkg.IsHTMX(c):
				c.Header("HX-Reswap", "none")
				pkg.Toast(c, panicMessage, pkg.ToastError)
				c.Status(http.StatusInternalServerError)
			case acceptsHTML(c):
				renderPanicPage(c)
			default:
				c.JSON(http.StatusInternalServerError, pkg.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// renderPanicPage falls back to plain text when no HTML renderer is set.
func renderPanicPage(c *gin.Context) {
	defer func() {
		if recover() != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{"Message": panicMessage})
}

func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}
