package importer

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// Step is the furthest workflow step a session has reached.
type Step int

const (
	StepTemplate Step = iota + 1
	StepUpload
	StepReport
)

// ErrUploadInProgress is returned when an upload is started while another
// one from the same session is still running.
var ErrUploadInProgress = domain.NewAppError(domain.CodeValidation, "An import is already in progress", nil)

// ErrNoFile is returned by Upload before a file has been selected.
var ErrNoFile = domain.NewAppError(domain.CodeValidation, "Please select a file to import", nil)

// State is a snapshot of a session.
type State struct {
	Step         Step
	SelectedFile *File
	Uploading    bool
	Report       *domain.ImportReport
}

// Session is one admin's pass through the import dialog of one material
// type. It is safe for concurrent use.
type Session struct {
	cfg *Config

	mu        sync.Mutex
	step      Step
	file      *File
	uploading bool
	report    *domain.ImportReport
	gen       uint64
}

// NewSession validates cfg and starts a session at the template step.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("import config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, step: StepTemplate}, nil
}

// Config returns the session's material configuration.
func (s *Session) Config() *Config {
	return s.cfg
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// DownloadTemplate runs step 1. A backend failure or an empty template falls
// back to a CSV generated from the required columns, so the returned
// template is usable whenever err is nil.
func (s *Session) DownloadTemplate(ctx context.Context) (*Template, error) {
	blob, cause := s.cfg.TemplateFetcher(ctx)
	if cause == nil && blob != nil && len(blob.Data) > 0 {
		t := &Template{Blob: *blob}
		if t.FileName == "" {
			t.FileName = s.cfg.DefaultFileName
		}
		return t, nil
	}
	if cause == nil {
		cause = errors.New("empty template")
	}
	// An expired session is not a reason to hand out a local template.
	if domain.IsUnauthorized(cause) {
		return nil, cause
	}
	fb, err := fallbackTemplate(s.cfg)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "generate template", err)
	}
	return &Template{Blob: *fb, Generated: true, Cause: cause}, nil
}

// SelectFile runs step 2. An invalid file leaves the state unchanged.
func (s *Session) SelectFile(f File) error {
	if err := s.cfg.CheckFile(f.Name, f.Size); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploading {
		return ErrUploadInProgress
	}
	s.file = &f
	s.step = StepUpload
	s.report = nil
	return nil
}

// Upload runs step 3 with the selected file.
//
// On failure the returned report is marked Failed, carries the error
// message and zero counters, and the selected file is kept for a retry.
// A Reset during the upload discards its outcome.
func (s *Session) Upload(ctx context.Context) (*domain.ImportReport, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	if s.file == nil {
		s.mu.Unlock()
		return nil, ErrNoFile
	}
	s.uploading = true
	s.report = nil
	gen := s.gen
	f := *s.file
	s.mu.Unlock()

	report, err := s.cfg.ImportFetcher(ctx, f)
	if err != nil {
		report = &domain.ImportReport{
			Failed:  true,
			Message: domain.Message(err, "Import failed"),
			Errors:  []domain.ImportRowError{},
		}
	} else {
		report = normalizeReport(report)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return report, err
	}
	s.uploading = false
	s.report = report
	s.step = StepReport
	return report, err
}

// Reset returns to the initial state, as when the dialog is closed.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.step = StepTemplate
	s.file = nil
	s.uploading = false
	s.report = nil
}

func (s *Session) snapshotLocked() State {
	st := State{Step: s.step, Uploading: s.uploading}
	if s.file != nil {
		f := *s.file
		st.SelectedFile = &f
	}
	if s.report != nil {
		r := *s.report
		st.Report = &r
	}
	return st
}

// normalizeReport fills in counters a backend left out.
func normalizeReport(r *domain.ImportReport) *domain.ImportReport {
	if r == nil {
		return &domain.ImportReport{Errors: []domain.ImportRowError{}}
	}
	out := *r
	if out.Errors == nil {
		out.Errors = []domain.ImportRowError{}
	}
	if out.ErrorCount == 0 && len(out.Errors) > 0 {
		out.ErrorCount = len(out.Errors)
	}
	if out.TotalProcessed == 0 {
		out.TotalProcessed = out.SuccessCount + out.ErrorCount
	}
	return &out
}

// Outcome classifies a settled report for display.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSuccess
	OutcomePartial
)

// Classify reports how a report should be shown. A success with no row
// errors is a single confirmation rather than the counters.
func Classify(r *domain.ImportReport) Outcome {
	switch {
	case r == nil || r.Failed:
		return OutcomeFailed
	case r.ErrorCount == 0 && len(r.Errors) == 0:
		return OutcomeSuccess
	default:
		return OutcomePartial
	}
}

// ReportLines renders the per-row errors as "Row {row}: {error}".
func ReportLines(r *domain.ImportReport) []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		lines = append(lines, "Row "+string(e.Row)+": "+e.Error)
	}
	return lines
}

// Complete reports whether the counters add up.
func Complete(r *domain.ImportReport) bool {
	return r != nil && r.SuccessCount+r.ErrorCount == r.TotalProcessed
}

// FormatSize renders a byte count for the file picker.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return strconv.FormatFloat(float64(n)/(1<<20), 'f', 2, 64) + " MB"
	case n >= 1<<10:
		return strconv.FormatFloat(float64(n)/(1<<10), 'f', 1, 64) + " KB"
	default:
		return strconv.FormatInt(n, 10) + " B"
	}
}
