package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// Envelope is the standard backend response wrapper.
type Envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

// Failed reports whether the backend explicitly flagged the call as failed.
func (e *Envelope) Failed() bool {
	return e.Success != nil && !*e.Success
}

// hasData reports whether the envelope carries a non-null data member.
func (e *Envelope) hasData() bool {
	d := strings.TrimSpace(string(e.Data))
	return d != "" && d != "null"
}

// parseEnvelope decodes body as an envelope. Bodies that are not JSON
// objects yield an empty envelope and false.
func parseEnvelope(body []byte) (*Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &Envelope{}, false
	}
	return &env, true
}

// failureMessage picks the message shown for a failed call: message, then
// detail, then a generic status line.
func failureMessage(env *Envelope, status int) string {
	if env != nil {
		if m := strings.TrimSpace(env.Message); m != "" {
			return m
		}
		if m := detailMessage(env.Detail); m != "" {
			return m
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

// detailMessage flattens a FastAPI detail member, which is either a string
// or a list of validation issues.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var issues []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if m := strings.TrimSpace(is.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// decodeData unmarshals the payload of a successful response into out.
// When the body is not enveloped the whole body is decoded instead.
func decodeData(body []byte, env *Envelope, enveloped bool, out any) error {
	if out == nil {
		return nil
	}
	src := body
	if enveloped && env.hasData() {
		src = env.Data
	}
	if len(strings.TrimSpace(string(src))) == 0 {
		return nil
	}
	if err := json.Unmarshal(src, out); err != nil {
		return domain.NewAppError(domain.CodeInternal, "unexpected response from server", err)
	}
	return nil
}
