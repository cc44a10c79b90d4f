package material

import "github.com/gin-gonic/gin"

// Module registers the material pages.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("material.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the material page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/grids/materials", m.handler.ListJSON)

	pages.GET("/materials", m.handler.List)

	pages.GET("/materials/phoneme/:category", m.handler.Words)
	pages.POST("/materials/phoneme/:category/words", m.handler.AddWord)
	pages.PUT("/materials/phoneme/:category/words/:id", m.handler.UpdateWord)
	pages.DELETE("/materials/words/:id", m.handler.DeleteWord)

	pages.GET("/materials/exercise/:category", m.handler.Sentences)
	pages.POST("/materials/exercise/:category/sentences", m.handler.AddSentence)
	pages.PUT("/materials/sentences/:id", m.handler.UpdateSentence)
	pages.DELETE("/materials/sentences/:id", m.handler.DeleteSentence)

	pages.GET("/materials/exam/:category", m.handler.Exams)
	pages.POST("/materials/exam/:category", m.handler.AddExam)
	pages.GET("/materials/exam/:category/new", m.handler.NewExamPage)
	pages.GET("/materials/exam/:category/tests/:id", m.handler.ExamDetail)
	pages.GET("/materials/exam/:category/tests/:id/edit", m.handler.EditExamPage)
	pages.PUT("/materials/exam/:category/tests/:id", m.handler.UpdateExam)
	pages.PUT("/materials/exam/:category/tests/:id/sentences/:sentence", m.handler.UpdateExamSentence)
	pages.DELETE("/materials/exam/:category/tests/:id", m.handler.DeleteExam)
}
