package material

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// Handler serves the pronunciation material pages.
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

// List renders the category summary with one tab per material kind.
// GET /materials
func (h *Handler) List(c *gin.Context) {
	g, s, err := page.LoadGrid(c, listKey, buildList)
	if err != nil {
		page.Fail(c, err, "load materials")
		return
	}
	view := page.NewGridView(g, s, "/materials", func(r summary) string { return url.PathEscape(r.Category) }, nil)
	page.RenderGrid(c, "material/list.html", view, s.Superseded, s.Err, gin.H{
		"Title":     "Materials",
		"DetailURL": detailURL(view.Category, ""),
	})
}

// ListJSON returns the category summary grid to API clients.
// GET /api/v1/grids/materials
func (h *Handler) ListJSON(c *gin.Context) {
	page.GridJSON(c, listKey, buildList)
}

// Words renders the words of one phoneme category.
// GET /materials/phoneme/:category
func (h *Handler) Words(c *gin.Context) {
	category := c.Param("category")
	g, s, err := page.LoadGrid(c, "material:words:"+category, wordsGrid(category))
	if err != nil {
		page.Fail(c, err, "load words")
		return
	}
	view := page.NewGridView(g, s, detailURL(TabPhoneme, category), func(w domain.PhonemeWord) string { return strconv.Itoa(w.ID) }, nil)
	page.RenderGrid(c, "material/words.html", view, s.Superseded, s.Err, gin.H{"Title": "Phoneme Words", "Category": category})
}

// AddWord adds a word to a phoneme category.
// POST /materials/phoneme/:category/words
func (h *Handler) AddWord(c *gin.Context) {
	var form WordForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, fieldMessage(err, WordForm{}), pkg.ToastError)
		return
	}
	in := form.input(c.Param("category"))
	msg, err := page.Workspace(c).API.Materials.AddWord(c.Request.Context(), in)
	if err != nil {
		page.Fail(c, err, "add word")
		return
	}
	h.logger.InfoContext(c.Request.Context(), "phoneme word added", slog.String("category", in.Category), slog.String("word", in.Word))
	page.Done(c, orDefault(msg, "Word added successfully"), "")
}

// UpdateWord edits a word of a phoneme category.
// PUT /materials/phoneme/:category/words/:id
func (h *Handler) UpdateWord(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	var form WordForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, fieldMessage(err, WordForm{}), pkg.ToastError)
		return
	}
	category := c.Param("category")
	msg, err := page.Workspace(c).API.Materials.UpdateWord(c.Request.Context(), category, id, form.update())
	if err != nil {
		page.Fail(c, err, "update word")
		return
	}
	h.logger.InfoContext(c.Request.Context(), "phoneme word updated", slog.String("category", category), slog.Int("id", id))
	page.Done(c, orDefault(msg, "Word updated successfully"), "")
}

// DeleteWord removes a word.
// DELETE /materials/words/:id
func (h *Handler) DeleteWord(c *gin.Context) {
	h.delete(c, "word", func(id int) (string, error) {
		return page.Workspace(c).API.Materials.DeleteWord(c.Request.Context(), id)
	})
}

// Sentences renders the sentences of one exercise category.
// GET /materials/exercise/:category
func (h *Handler) Sentences(c *gin.Context) {
	category := c.Param("category")
	g, s, err := page.LoadGrid(c, "material:sentences:"+category, sentencesGrid(category))
	if err != nil {
		page.Fail(c, err, "load sentences")
		return
	}
	view := page.NewGridView(g, s, detailURL(TabExercise, category), func(e domain.ExerciseSentence) string { return strconv.Itoa(e.ID) }, nil)
	page.RenderGrid(c, "material/sentences.html", view, s.Superseded, s.Err, gin.H{"Title": "Exercise Sentences", "Category": category})
}

// AddSentence adds a sentence to an exercise category.
// POST /materials/exercise/:category/sentences
func (h *Handler) AddSentence(c *gin.Context) {
	var form SentenceForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, fieldMessage(err, SentenceForm{}), pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Materials.AddSentence(c.Request.Context(), form.input(c.Param("category")))
	if err != nil {
		page.Fail(c, err, "add sentence")
		return
	}
	page.Done(c, orDefault(msg, "Sentence added successfully"), "")
}

// UpdateSentence edits an exercise sentence.
// PUT /materials/sentences/:id
func (h *Handler) UpdateSentence(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	var form SentenceForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, fieldMessage(err, SentenceForm{}), pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Materials.UpdateSentence(c.Request.Context(), id, form.update())
	if err != nil {
		page.Fail(c, err, "update sentence")
		return
	}
	page.Done(c, orDefault(msg, "Sentence updated successfully"), "")
}

// DeleteSentence removes an exercise sentence.
// DELETE /materials/sentences/:id
func (h *Handler) DeleteSentence(c *gin.Context) {
	h.delete(c, "sentence", func(id int) (string, error) {
		return page.Workspace(c).API.Materials.DeleteSentence(c.Request.Context(), id)
	})
}

// Exams renders the exam sets of one category.
// GET /materials/exam/:category
func (h *Handler) Exams(c *gin.Context) {
	category := c.Param("category")
	g, s, err := page.LoadGrid(c, "material:exams:"+category, examsGrid(category))
	if err != nil {
		page.Fail(c, err, "load exams")
		return
	}
	view := page.NewGridView(g, s, detailURL(TabExam, category), func(e domain.ExamSet) string { return strconv.Itoa(e.ExamID) }, nil)
	page.RenderGrid(c, "material/exams.html", view, s.Superseded, s.Err, gin.H{"Title": "Exams", "Category": category})
}

// ExamDetail renders the sentences of one exam set. The q parameter
// narrows the sentences locally.
// GET /materials/exam/:category/tests/:id
func (h *Handler) ExamDetail(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	category := c.Param("category")
	d, err := page.Workspace(c).API.Materials.ExamDetail(c.Request.Context(), category, id)
	if err != nil {
		page.Fail(c, err, "load exam")
		return
	}
	query := c.Query("q")
	sentences := grid.FilterRows(d.Sentences, examSentenceColumns, query)
	page.Render(c, http.StatusOK, "material/exam_detail.html", gin.H{
		"Title":     "Exam Detail",
		"Category":  category,
		"Exam":      d,
		"Sentences": sentences,
		"Query":     query,
		"Empty":     grid.Empty(len(sentences), query),
	})
}

// NewExamPage renders the add-exam form.
// GET /materials/exam/:category/new
func (h *Handler) NewExamPage(c *gin.Context) {
	renderExamForm(c, examForm{Category: c.Param("category"), Items: ExamForm{}.items()})
}

// AddExam creates an exam set.
// POST /materials/exam/:category
func (h *Handler) AddExam(c *gin.Context) {
	category := c.Param("category")
	var form ExamForm
	if err := c.ShouldBind(&form); err != nil {
		renderExamForm(c, examForm{Category: category, Items: form.items(), Error: "Please check the exam sentences."})
		return
	}
	items := form.items()
	msg, err := page.Workspace(c).API.Materials.AddExam(c.Request.Context(), domain.ExamSetInput{Category: category, Items: items})
	if err != nil {
		if domain.IsUnauthorized(err) {
			page.Fail(c, err, "add exam")
			return
		}
		renderExamForm(c, examForm{Category: category, Items: items, Error: pkg.ErrorMessage(err)})
		return
	}
	h.logger.InfoContext(c.Request.Context(), "exam created", slog.String("category", category))
	page.Done(c, orDefault(msg, "Exam added successfully"), detailURL(TabExam, category))
}

// EditExamPage renders the exam form filled with a stored set.
// GET /materials/exam/:category/tests/:id/edit
func (h *Handler) EditExamPage(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	category := c.Param("category")
	d, err := page.Workspace(c).API.Materials.ExamDetail(c.Request.Context(), category, id)
	if err != nil {
		page.Fail(c, err, "load exam")
		return
	}
	renderExamForm(c, examForm{Category: category, ExamID: id, Items: examFormItems(d.Sentences)})
}

// UpdateExam replaces the sentences of an exam set.
// PUT /materials/exam/:category/tests/:id
func (h *Handler) UpdateExam(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	category := c.Param("category")
	var form ExamForm
	if err := c.ShouldBind(&form); err != nil {
		renderExamForm(c, examForm{Category: category, ExamID: id, Items: form.items(), Error: "Please check the exam sentences."})
		return
	}
	items := form.items()
	msg, err := page.Workspace(c).API.Materials.UpdateExam(c.Request.Context(), category, id, domain.ExamSetUpdate{Sentences: items})
	if err != nil {
		if domain.IsUnauthorized(err) {
			page.Fail(c, err, "update exam")
			return
		}
		renderExamForm(c, examForm{Category: category, ExamID: id, Items: items, Error: pkg.ErrorMessage(err)})
		return
	}
	h.logger.InfoContext(c.Request.Context(), "exam updated", slog.String("category", category), slog.Int("id", id))
	page.Done(c, orDefault(msg, "Exam updated successfully"), examURL(category, id))
}

// UpdateExamSentence edits one sentence of an exam set.
// PUT /materials/exam/:category/tests/:id/sentences/:sentence
func (h *Handler) UpdateExamSentence(c *gin.Context) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	sentenceID, ok := page.ParamID(c, "sentence")
	if !ok {
		page.BadID(c)
		return
	}
	var form SentenceForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.ToastOnly(c, fieldMessage(err, SentenceForm{}), pkg.ToastError)
		return
	}
	msg, err := page.Workspace(c).API.Materials.UpdateExamSentence(c.Request.Context(), sentenceID, form.examSentence())
	if err != nil {
		page.Fail(c, err, "update exam sentence")
		return
	}
	page.Done(c, orDefault(msg, "Sentence updated successfully"), examURL(c.Param("category"), id))
}

// DeleteExam removes an exam set.
// DELETE /materials/exam/:category/tests/:id
func (h *Handler) DeleteExam(c *gin.Context) {
	category := c.Param("category")
	h.delete(c, "exam", func(id int) (string, error) {
		return page.Workspace(c).API.Materials.DeleteExam(c.Request.Context(), category, id)
	})
}

func (h *Handler) delete(c *gin.Context, what string, del func(id int) (string, error)) {
	id, ok := page.ParamID(c, "id")
	if !ok {
		page.BadID(c)
		return
	}
	msg, err := del(id)
	if err != nil {
		page.Fail(c, err, "delete "+what)
		return
	}
	h.logger.InfoContext(c.Request.Context(), what+" deleted", slog.Int("id", id))
	page.Done(c, orDefault(msg, "Deleted successfully"), "")
}

// examForm is the data of the shared add and edit exam form. A zero
// ExamID means a new set.
type examForm struct {
	Category string
	ExamID   int
	Items    []domain.ExamSentence
	Error    string
}

func renderExamForm(c *gin.Context, f examForm) {
	data := gin.H{
		"Title":     "Add Exam",
		"Category":  f.Category,
		"Items":     f.Items,
		"Error":     f.Error,
		"Editing":   f.ExamID > 0,
		"ExamID":    f.ExamID,
		"Action":    detailURL(TabExam, f.Category),
		"CancelURL": detailURL(TabExam, f.Category),
	}
	if f.ExamID > 0 {
		data["Title"] = "Edit Exam"
		data["Action"] = examURL(f.Category, f.ExamID)
		data["CancelURL"] = examURL(f.Category, f.ExamID)
	}
	page.Render(c, http.StatusOK, "material/exam_form.html", data)
}

func examURL(category string, id int) string {
	return detailURL(TabExam, category) + "/tests/" + strconv.Itoa(id)
}

// fieldMessage turns the first binding problem into a toast line.
func fieldMessage(err error, form any) string {
	fields := pkg.FieldErrors(err, form)
	for _, key := range []string{"word", "sentence", "phoneme", "meaning", "definition"} {
		if m, ok := fields[key]; ok {
			return capitalize(key) + " " + m
		}
	}
	return "Please fill in every field"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
