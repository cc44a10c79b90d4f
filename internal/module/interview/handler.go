package interview

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/module/page"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// Handler serves the interview question bank.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// List renders the questions in mobile order.
// GET /interview-questions
func (h *Handler) List(c *gin.Context) {
	g, s, err := page.LoadGrid(c, listKey, buildList)
	if err != nil {
		page.Fail(c, err, "load interview questions")
		return
	}
	view := page.NewGridView(g, s, "/interview-questions", questionID, nil)
	page.RenderGrid(c, "interview/list.html", view, s.Superseded, s.Err, gin.H{
		"Title":        "Interview Questions",
		"LastPosition": view.Total,
	})
}

// ListJSON returns the question grid to API clients.
// GET /api/v1/grids/interview-questions
func (h *Handler) ListJSON(c *gin.Context) {
	page.GridJSON(c, listKey, buildList)
}

// Create adds a question.
// POST /interview-questions
func (h *Handler) Create(c *gin.Context) {
	var form QuestionForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, questionMessage(err), pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Interviews.Create(c.Request.Context(), form.Question)
	if err != nil {
		page.Fail(c, err, "create interview question")
		return
	}
	page.Done(c, orDefault(msg, "Question added successfully"), "")
}

// Update rewrites a question.
// PUT /interview-questions/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	var form QuestionForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, questionMessage(err), pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Interviews.Update(c.Request.Context(), id, form.Question)
	if err != nil {
		page.Fail(c, err, "update interview question")
		return
	}
	page.Done(c, orDefault(msg, "Question updated successfully"), "")
}

// Delete removes a question.
// DELETE /interview-questions/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	msg, err := page.Workspace(c).API.Interviews.Delete(c.Request.Context(), id)
	if err != nil {
		page.Fail(c, err, "delete interview question")
		return
	}
	h.logger.InfoContext(c.Request.Context(), "interview question deleted", slog.Int("id", id))
	page.Done(c, orDefault(msg, "Question deleted successfully"), "")
}

// Toggle activates or deactivates a question.
// POST /interview-questions/:id/toggle
func (h *Handler) Toggle(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	msg, err := page.Workspace(c).API.Interviews.Toggle(c.Request.Context(), id)
	if err != nil {
		page.Fail(c, err, "toggle interview question")
		return
	}
	page.Done(c, orDefault(msg, "Question status updated"), "")
}

// Swap moves a question one position up or down.
// POST /interview-questions/:id/swap
func (h *Handler) Swap(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	var form SwapForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, "Direction must be up or down", pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Interviews.Swap(c.Request.Context(), id, form.Direction)
	if err != nil {
		page.Fail(c, err, "reorder interview question")
		return
	}
	page.Done(c, orDefault(msg, "Question order updated"), "")
}

func questionMessage(err error) string {
	if m := pkg.FieldErrors(err, QuestionForm{})["interview_question"]; m != "" {
		return "Interview question " + m
	}
	return "Interview question is required"
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
