// Package imports serves the bulk import dialog shared by every material
// list: template download, file selection, upload and the result report.
package imports

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/importer"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

// multipartOverhead leaves room for the form boundaries and the CSRF field
// on top of the file itself.
const multipartOverhead = 64 << 10

// FileField is the multipart field carrying the spreadsheet.
const FileField = "file"

// Handler serves the import dialog.
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

// Report is the template model of a finished upload.
type Report struct {
	*domain.ImportReport
	Outcome importer.Outcome
	Lines   []string
}

// Succeeded reports whether every row was imported.
func (r Report) Succeeded() bool { return r.Outcome == importer.OutcomeSuccess }

// Partial reports whether some rows were rejected.
func (r Report) Partial() bool { return r.Outcome == importer.OutcomePartial }

func newReport(r *domain.ImportReport) Report {
	return Report{ImportReport: r, Outcome: importer.Classify(r), Lines: importer.ReportLines(r)}
}

func (h *Handler) session(c *gin.Context) (*importer.Session, bool) {
	s, err := page.Workspace(c).Import(domain.MaterialType(c.Param("material")))
	if err != nil {
		page.Fail(c, err, "open import")
		return nil, false
	}
	return s, true
}

// Dialog renders the dialog at its current step.
// GET /imports/:material
func (h *Handler) Dialog(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.render(c, s, "")
}

// Template downloads the import template. When the backend has none the
// file is generated from the required columns and flagged with the
// X-Template-Generated header.
// GET /imports/:material/template
func (h *Handler) Template(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	t, err := s.DownloadTemplate(c.Request.Context())
	if err != nil {
		page.Fail(c, err, "download template")
		return
	}
	if t.Generated {
		h.logger.WarnContext(c.Request.Context(), "backend template unavailable, serving generated file",
			slog.String("material", string(s.Config().Material)),
			slog.Any("cause", t.Cause),
		)
		c.Header("X-Template-Generated", "true")
	}
	contentType := t.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": t.FileName}))
	c.Data(http.StatusOK, contentType, t.Data)
}

// Select stores the picked spreadsheet after checking its type and size.
// POST /imports/:material/select
func (h *Handler) Select(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	limit := s.Config().MaxFileSizeBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	fh, err := c.FormFile(FileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.render(c, s, fmt.Sprintf("File size must be less than %dMB", s.Config().MaxFileSizeMB()))
			return
		}
		h.render(c, s, "Please select a file to import")
		return
	}
	if err := s.Config().CheckFile(fh.Filename, fh.Size); err != nil {
		h.render(c, s, pkg.ErrorMessage(err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.render(c, s, "The file could not be read")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.Config().MaxFileSizeBytes+1))
	if err != nil {
		h.render(c, s, "The file could not be read")
		return
	}
	if err := s.SelectFile(importer.File{Name: fh.Filename, Size: int64(len(data)), Data: data}); err != nil {
		h.render(c, s, pkg.ErrorMessage(err))
		return
	}
	h.render(c, s, "")
}

// Upload sends the selected file and renders the report. A failed upload
// still renders a report so the admin can retry with the same file.
// POST /imports/:material/upload
func (h *Handler) Upload(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	report, err := s.Upload(c.Request.Context())
	switch {
	case err == nil:
		h.logger.InfoContext(c.Request.Context(), "import finished",
			slog.String("material", string(s.Config().Material)),
			slog.Int("success", report.SuccessCount),
			slog.Int("errors", report.ErrorCount),
		)
	case domain.IsUnauthorized(err):
		page.Fail(c, err, "upload import")
		return
	case errors.Is(err, importer.ErrNoFile), errors.Is(err, importer.ErrUploadInProgress):
		h.render(c, s, pkg.ErrorMessage(err))
		return
	default:
		h.logger.WarnContext(c.Request.Context(), "import failed",
			slog.String("material", string(s.Config().Material)),
			slog.Any("error", err),
		)
	}
	if report != nil && report.SuccessCount > 0 {
		c.Header("HX-Trigger", "refresh")
	}
	page.Render(c, http.StatusOK, "imports/report.html", gin.H{
		"Import": s.Config(),
		"Report": newReport(report),
	})
}

// Reset clears the dialog when it is closed.
// POST /imports/:material/reset
func (h *Handler) Reset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Reset()
	c.Header("HX-Reswap", "none")
	c.Status(http.StatusNoContent)
}

func (h *Handler) render(c *gin.Context, s *importer.Session, errMsg string) {
	st := s.State()
	data := gin.H{
		"Import": s.Config(),
		"State":  st,
		"Error":  errMsg,
	}
	if st.SelectedFile != nil {
		data["FileSize"] = importer.FormatSize(st.SelectedFile.Size)
	}
	if st.Report != nil {
		data["Report"] = newReport(st.Report)
	}
	page.Render(c, http.StatusOK, "imports/dialog.html", data)
}
