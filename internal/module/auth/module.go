package auth

import "github.com/gin-gonic/gin"

// Module registers the sign-in and profile routes.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterPublicRoutes registers the routes reachable without a session.
func (m *Module) RegisterPublicRoutes(public *gin.RouterGroup) {
	public.GET(LoginPath, m.handler.LoginPage)
	public.POST(LoginPath, m.handler.Login)
	public.POST("/logout", m.handler.Logout)
}

// RegisterRoutes registers the profile pages.
func (m *Module) RegisterRoutes(_ *gin.RouterGroup, pages *gin.RouterGroup) {
	pages.GET("/profile", m.handler.ProfilePage)
	pages.PUT("/profile", m.handler.UpdateProfile)
	pages.PUT("/profile/password", m.handler.ChangePassword)
}
