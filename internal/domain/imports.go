package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ImportReport is the backend's summary of a bulk import.
//
// A report with ErrorCount > 0 is a partial success, not a failure.
// Failed is set locally when the upload itself did not complete; the
// counters are zero in that case.
type ImportReport struct {
	TotalProcessed int              `json:"totalProcessed"`
	SuccessCount   int              `json:"successCount"`
	ErrorCount     int              `json:"errorCount"`
	Errors         []ImportRowError `json:"errors"`
	Message        string           `json:"message,omitempty"`
	Failed         bool             `json:"failed,omitempty"`
}

// ImportRowError describes why one row was rejected.
type ImportRowError struct {
	Row   RowRef `json:"row"`
	Error string `json:"error"`
}

// RowRef identifies a rejected row. The backend reports either a spreadsheet
// row number or a descriptive label such as "Word: beat".
type RowRef string

// UnmarshalJSON accepts both JSON numbers and strings.
func (r *RowRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RowRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = RowRef(n.String())
	return nil
}

// NewRowRef builds a RowRef from a spreadsheet row number.
func NewRowRef(row int) RowRef {
	return RowRef(strconv.Itoa(row))
}

// Blob is a downloaded file.
type Blob struct {
	Data        []byte
	FileName    string
	ContentType string
}
