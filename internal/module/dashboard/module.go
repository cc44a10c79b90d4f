package dashboard

import "github.com/gin-gonic/gin"

// Module registers the dashboard pages.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("dashboard.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the dashboard routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/grids/learners", m.handler.TopActiveJSON)
	api.GET("/grids/learners/highest-scoring", m.handler.HighestScoringJSON)

	pages.GET("/", m.handler.Index)
	pages.GET("/settings/dashboard", m.handler.Settings)
	pages.POST("/settings/dashboard", m.handler.SaveSettings)
	pages.GET("/learners", m.handler.Learners)
}
