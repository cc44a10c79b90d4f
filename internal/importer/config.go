// Package importer drives the bulk import workflow shared by every
// material type: template acquisition, local file validation, upload, and
// result reporting.
//
// The workflow is generic over Config and knows nothing about the rows it
// moves.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// DefaultMaxFileSize is the upload limit used when a config sets none.
const DefaultMaxFileSize int64 = 10 << 20

// DefaultExtensions are the spreadsheet formats the backend parses.
var DefaultExtensions = []string{"xlsx", "xls", "csv"}

// File is a spreadsheet picked by the admin.
type File struct {
	Name string
	Size int64
	Data []byte
}

// TemplateFetcher downloads the backend's import template.
type TemplateFetcher func(ctx context.Context) (*domain.Blob, error)

// ImportFetcher uploads a file and returns the backend's report.
type ImportFetcher func(ctx context.Context, f File) (*domain.ImportReport, error)

// Config describes one material type's import.
type Config struct {
	Material           domain.MaterialType `validate:"required"`
	Title              string              `validate:"required"`
	Description        string
	TemplateFetcher    TemplateFetcher `validate:"required"`
	ImportFetcher      ImportFetcher   `validate:"required"`
	AcceptedExtensions []string        `validate:"required,min=1,dive,required"`
	MaxFileSizeBytes   int64           `validate:"gt=0"`
	RequiredColumns    []string        `validate:"required,min=1,dive,required"`
	// Rules are shown next to the file picker, one per line.
	Rules []string
	// DefaultFileName names a downloaded template that carries no
	// Content-Disposition. Defaults to "<material>_template.xlsx".
	DefaultFileName string
	// SampleRows illustrate RequiredColumns in the generated fallback
	// template.
	SampleRows [][]string
}

var validate = validator.New()

// Validate checks the config and normalizes extensions to lower case
// without the leading dot.
func (c *Config) Validate() error {
	if c.MaxFileSizeBytes == 0 {
		c.MaxFileSizeBytes = DefaultMaxFileSize
	}
	if len(c.AcceptedExtensions) == 0 {
		c.AcceptedExtensions = slices.Clone(DefaultExtensions)
	}
	for i, ext := range c.AcceptedExtensions {
		c.AcceptedExtensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	if c.DefaultFileName == "" {
		c.DefaultFileName = string(c.Material) + "_template.xlsx"
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("import config %q: %w", c.Material, err)
	}
	for _, row := range c.SampleRows {
		if len(row) != len(c.RequiredColumns) {
			return fmt.Errorf("import config %q: sample row has %d cells, want %d", c.Material, len(row), len(c.RequiredColumns))
		}
	}
	return nil
}

// Accept lists the extensions in the form of an HTML accept attribute.
func (c *Config) Accept() string {
	return strings.Join(c.displayExtensions(), ",")
}

// MaxFileSizeMB is the limit in whole megabytes, for display.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// CheckFile validates a file's name and size without reading it.
func (c *Config) CheckFile(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewAppError(domain.CodeValidation, "Please select a file to import", nil)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !slices.Contains(c.AcceptedExtensions, ext) {
		return domain.NewAppError(domain.CodeValidation,
			fmt.Sprintf("Invalid file type. Please upload a %s file", strings.Join(c.displayExtensions(), ", ")), nil)
	}
	if size > c.MaxFileSizeBytes {
		return domain.NewAppError(domain.CodeValidation,
			fmt.Sprintf("File size must be less than %dMB", c.MaxFileSizeMB()), nil)
	}
	return nil
}

func (c *Config) displayExtensions() []string {
	out := make([]string, len(c.AcceptedExtensions))
	for i, e := range c.AcceptedExtensions {
		out[i] = "." + e
	}
	return out
}
