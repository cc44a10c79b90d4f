package importer

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// Template is the outcome of step 1.
type Template struct {
	domain.Blob
	// Generated is set when the backend template was unavailable and the
	// file was written locally from the required columns.
	Generated bool
	// Cause is the backend failure that triggered the local fallback.
	Cause error
}

// WriteCSV writes a header row of columns followed by rows.
func WriteCSV(columns []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fallbackTemplate builds the local CSV template for cfg.
func fallbackTemplate(cfg *Config) (*domain.Blob, error) {
	data, err := WriteCSV(cfg.RequiredColumns, cfg.SampleRows)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(cfg.DefaultFileName, ".xlsx")
	name = strings.TrimSuffix(name, ".xls")
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return &domain.Blob{Data: data, FileName: name, ContentType: "text/csv; charset=utf-8"}, nil
}
