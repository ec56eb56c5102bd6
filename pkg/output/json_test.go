package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRenderer_RunReport(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ruleErr := errors.New(errors.ErrRuleExecute, "rule \"Other\" failed")
	result := &engine.Result{
		State:    engine.StateCompleted,
		RulesRun: 1,
		Entries: []types.ActionLogEntry{
			{Rule: "Videos", Kind: types.ActionMove, Source: "/a.mkv", Destination: "/b/a.mkv", Status: types.StatusDone, Time: start},
		},
		Errors:     []error{ruleErr},
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSON(&buf).Result(NewRunReport(result, false, "run-1")))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "completed", decoded["state"])
	assert.Equal(t, "run-1", decoded["run_id"])

	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["done"])
	assert.Equal(t, "1s", summary["duration"])
	assert.Equal(t, []interface{}{ruleErr.Error()}, summary["errors"])

	entries := decoded["entries"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "/b/a.mkv", entries[0].(map[string]interface{})["destination"])
}

func TestJSONRenderer_EmptyRunHasEntriesArray(t *testing.T) {
	var buf bytes.Buffer
	report := NewRunReport(&engine.Result{State: engine.StateCompleted}, true, "")
	require.NoError(t, NewJSON(&buf).Result(report))
	assert.Contains(t, buf.String(), `"entries": []`)
	assert.NotContains(t, buf.String(), "run_id")
}

func TestJSONRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrConfigLoad, "cannot read config").WithDetail("path", "/x.toml")
	require.NoError(t, NewJSON(&buf).Error(err))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "CONFIG_LOAD", decoded["code"])
	assert.Equal(t, "/x.toml", decoded["details"].(map[string]interface{})["path"])
}
