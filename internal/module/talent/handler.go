package talent

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// Handler serves the talent pages. Every call goes to the backend through
// the signed-in admin's workspace.
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

// List renders the talent grid.
// GET /talents
func (h *Handler) List(c *gin.Context) {
	g, s, err := page.LoadGrid(c, listKey, buildList)
	if err != nil {
		page.Fail(c, err, "load talents")
		return
	}
	view := page.NewGridView(g, s, "/talents", talentID, nil)
	page.RenderGrid(c, "talent/list.html", view, s.Superseded, s.Err, gin.H{"Title": "Talents"})
}

// ListJSON returns the talent grid to API clients.
// GET /api/v1/grids/talents
func (h *Handler) ListJSON(c *gin.Context) {
	page.GridJSON(c, listKey, buildList)
}

// NewPage renders the add-talent form.
// GET /talents/new
func (h *Handler) NewPage(c *gin.Context) {
	page.Render(c, http.StatusOK, "talent/form.html", gin.H{
		"Title":  formTitle(0),
		"IsEdit": false,
		"Talent": domain.TalentInput{},
	})
}

// Create adds a talent.
// POST /talents
func (h *Handler) Create(c *gin.Context) {
	var form CreateTalentForm
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, form.input(), 0, err)
		return
	}
	msg, err := page.Workspace(c).API.Talents.Create(c.Request.Context(), form.input())
	if err != nil {
		h.actionError(c, form.input(), 0, err)
		return
	}
	h.logger.InfoContext(c.Request.Context(), "talent created", slog.String("email", form.Email))
	page.Done(c, orDefault(msg, "Talent added successfully"), "/talents")
}

// EditPage renders the edit form of one talent.
// GET /talents/:id/edit
func (h *Handler) EditPage(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	t, err := page.Workspace(c).API.Talents.Get(c.Request.Context(), id)
	if err != nil {
		page.Fail(c, err, "load talent")
		return
	}
	page.Render(c, http.StatusOK, "talent/form.html", gin.H{
		"Title":  formTitle(id),
		"IsEdit": true,
		"ID":     id,
		"Talent": domain.TalentInput{Name: t.Name, Email: t.Email, Role: t.Role},
	})
}

// Update saves a talent's profile.
// PUT /talents/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	var form UpdateTalentForm
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, form.input(), id, err)
		return
	}
	msg, err := page.Workspace(c).API.Talents.Update(c.Request.Context(), id, form.input())
	if err != nil {
		h.actionError(c, form.input(), id, err)
		return
	}
	page.Done(c, orDefault(msg, "Talent updated successfully"), "/talents")
}

// ChangePassword sets a new password for a talent.
// PUT /talents/:id/password
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	var form PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, passwordFormMessage(err), pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Talents.ChangePassword(c.Request.Context(), id, form.NewPassword)
	if err != nil {
		page.Fail(c, err, "change talent password")
		return
	}
	page.Done(c, orDefault(msg, "Password changed successfully"), "")
}

// Delete removes a talent and refreshes the grid.
// DELETE /talents/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	msg, err := page.Workspace(c).API.Talents.Delete(c.Request.Context(), id)
	if err != nil {
		page.Fail(c, err, "delete talent")
		return
	}
	h.logger.InfoContext(c.Request.Context(), "talent deleted", slog.Int("id", id))
	page.Done(c, orDefault(msg, "Talent deleted successfully"), "")
}

// Detail renders a talent's profile header and progress tabs.
// GET /talents/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	ctx := c.Request.Context()
	g, s, err := page.LoadGrid(c, progressKey(id), buildProgress(id))
	if err != nil {
		page.Fail(c, err, "load talent progress")
		return
	}
	view := page.NewGridView(g, s, fmt.Sprintf("/talents/%d", id), nil, nil)

	data := gin.H{"Title": "Talent Detail", "ID": id}
	if !pkg.IsHTMX(c) {
		t, err := page.Workspace(c).API.Talents.Get(ctx, id)
		if err != nil {
			page.Fail(c, err, "load talent")
			return
		}
		data["Talent"] = t
	}
	page.RenderGrid(c, "talent/detail.html", view, s.Superseded, s.Err, data)
}

// formError re-renders the form with the binding problems. id is 0 on the
// add form.
func (h *Handler) formError(c *gin.Context, in domain.TalentInput, id int, err error) {
	in.Password = ""
	page.Render(c, http.StatusOK, "talent/form.html", gin.H{
		"Title":       formTitle(id),
		"IsEdit":      id > 0,
		"ID":          id,
		"Talent":      in,
		"Error":       "Please check the highlighted fields.",
		"FieldErrors": pkg.FieldErrors(err, CreateTalentForm{}),
	})
}

// actionError re-renders the form with the backend's message.
func (h *Handler) actionError(c *gin.Context, in domain.TalentInput, id int, err error) {
	if domain.IsUnauthorized(err) {
		page.Fail(c, err, "save talent")
		return
	}
	in.Password = ""
	page.Render(c, http.StatusOK, "talent/form.html", gin.H{
		"Title":  formTitle(id),
		"IsEdit": id > 0,
		"ID":     id,
		"Talent": in,
		"Error":  pkg.ErrorMessage(err),
	})
}

func formTitle(id int) string {
	if id > 0 {
		return "Edit Talent"
	}
	return "Add Talent"
}

func passwordFormMessage(err error) string {
	fields := pkg.FieldErrors(err, PasswordForm{})
	switch {
	case fields["new_password"] != "":
		return "New password " + fields["new_password"]
	case fields["confirm_password"] != "":
		return "Passwords do not match"
	}
	return "Please check the password fields"
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
