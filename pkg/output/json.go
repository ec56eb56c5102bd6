package output

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// JSONRenderer provides machine-readable output: one indented JSON
// document per call
type JSONRenderer struct {
	encoder *json.Encoder
}

// NewJSON creates a JSON renderer writing to w
func NewJSON(w io.Writer) *JSONRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return &JSONRenderer{encoder: encoder}
}

// RunReport is the JSON form of a completed run
type RunReport struct {
	State   engine.State           `json:"state"`
	RunID   string                 `json:"run_id,omitempty"`
	Summary Summary                `json:"summary"`
	Entries []types.ActionLogEntry `json:"entries"`
}

// NewRunReport builds the report of result
func NewRunReport(result *engine.Result, dryRun bool, runID string) RunReport {
	entries := result.Entries
	if entries == nil {
		entries = []types.ActionLogEntry{}
	}
	return RunReport{
		State:   result.State,
		RunID:   runID,
		Summary: NewSummary(result, dryRun),
		Entries: entries,
	}
}

// Result encodes any result value
func (r *JSONRenderer) Result(v interface{}) error {
	return r.encoder.Encode(v)
}

// Error encodes err with its code and details
func (r *JSONRenderer) Error(err error) error {
	obj := struct {
		Error   string                 `json:"error"`
		Code    errors.ErrorCode       `json:"code,omitempty"`
		Details map[string]interface{} `json:"details,omitempty"`
	}{
		Error:   err.Error(),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	}
	return r.encoder.Encode(obj)
}
