package types_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"36h", 36 * time.Hour},
		{"90m", 90 * time.Minute},
		{"10d", 10 * types.Day},
		{"1w", types.Week},
		{"2 weeks", 2 * types.Week},
		{"1 day", types.Day},
		{"1.5d", 36 * time.Hour},
		{" 3W ", 3 * types.Week},
		{"1w2d", types.Week + 2*types.Day},
		{"1d12h", 36 * time.Hour},
		{"2d30m", 2*types.Day + 30*time.Minute},
		{"1 week 2 days", types.Week + 2*types.Day},
		{"1 day 6 hours", 30 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "week", "3 fortnights", "d1", "1w2x"} {
		t.Run("invalid_"+bad, func(t *testing.T) {
			_, err := types.ParseDuration(bad)
			assert.Error(t, err)
		})
	}
}

func TestActionLogEntry_String(t *testing.T) {
	move := types.ActionLogEntry{
		Rule:        "Collect downloaded videos",
		Kind:        types.ActionMove,
		Source:      "/home/u/Downloads/video.mp4",
		Destination: "/home/u/Videos/To Watch/video.mp4",
		Status:      types.StatusDone,
	}
	assert.Equal(t, "[Collect downloaded videos] move /home/u/Downloads/video.mp4 -> /home/u/Videos/To Watch/video.mp4", move.String())

	skipped := types.ActionLogEntry{
		Rule:   "r",
		Kind:   types.ActionTrash,
		Source: "/x",
		Status: types.StatusSkipped,
		Reason: "not found",
	}
	assert.Equal(t, "[r] trash /x (skipped: not found)", skipped.String())
	assert.False(t, skipped.Succeeded())
}

func TestParseConflictPolicy(t *testing.T) {
	p, ok := types.ParseConflictPolicy("")
	assert.True(t, ok)
	assert.Equal(t, types.ConflictOverwrite, p)

	p, ok = types.ParseConflictPolicy("rename")
	assert.True(t, ok)
	assert.Equal(t, types.ConflictRename, p)

	_, ok = types.ParseConflictPolicy("merge")
	assert.False(t, ok)
}

func TestPathRecord_Time(t *testing.T) {
	now := time.Now()
	rec := types.PathRecord{
		AccessedAt: now.Add(-time.Hour),
		ModifiedAt: now.Add(-2 * time.Hour),
		CreatedAt:  now.Add(-3 * time.Hour),
	}
	assert.Equal(t, rec.AccessedAt, rec.Time(types.Accessed))
	assert.Equal(t, rec.ModifiedAt, rec.Time(types.Modified))
	assert.Equal(t, rec.CreatedAt, rec.Time(types.Created))
	assert.True(t, rec.Time("born").IsZero())

	_, ok := types.ParseTimeField("created")
	assert.True(t, ok)
	_, ok = types.ParseTimeField("born")
	assert.False(t, ok)
}

func TestFilterStatus(t *testing.T) {
	entries := []types.ActionLogEntry{
		{Source: "a", Status: types.StatusDone},
		{Source: "b", Status: types.StatusFailed},
		{Source: "c", Status: types.StatusDone},
	}
	done := types.FilterStatus(entries, types.StatusDone)
	assert.Equal(t, []string{"a", "c"}, []string{done[0].Source, done[1].Source})
	assert.Len(t, types.FilterStatus(entries, types.StatusPlanned), 0)
}
