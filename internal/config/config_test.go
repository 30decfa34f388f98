package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
[timeline]
padding_days = 3
workday_hours = 6.5

[display]
name_width = 30

[display.status_colors]
blocked = "9"
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Timeline.PaddingDays)
	assert.Equal(t, 30, cfg.Timeline.FallbackDays)
	assert.Equal(t, 6.5, cfg.Timeline.WorkdayHours)
	assert.Equal(t, 2.0, cfg.Timeline.MinWidthPercent)
	assert.Equal(t, 30, cfg.Display.NameWidth)
	assert.Equal(t, 3, cfg.Display.DayWidth)
	assert.Equal(t, "9", cfg.Display.StatusColors["blocked"])
	assert.Empty(t, cfg.Warnings)

	opts := cfg.TimelineOptions()
	assert.Equal(t, 3, opts.PaddingDays)
	assert.Equal(t, 6.5, opts.WorkdayHours)
}

func TestParseUnknownKeysBecomeWarnings(t *testing.T) {
	cfg, err := Parse([]byte(`
[timeline]
padding_days = 5
bogus = true
`))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Timeline.PaddingDays)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "timeline.bogus")
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero workday", "[timeline]\nworkday_hours = 0\n"},
		{"negative padding", "[timeline]\npadding_days = -2\n"},
		{"zero fallback", "[timeline]\nfallback_days = 0\n"},
		{"min width too large", "[timeline]\nmin_width_percent = 150.0\n"},
		{"narrow names", "[display]\nname_width = 2\n"},
		{"zero day width", "[display]\nday_width = 0\n"},
		{"malformed", "[timeline\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := Path(filepath.Join(t.TempDir(), "taskline"))

	cfg := Default()
	cfg.Timeline.PaddingDays = 10
	cfg.Log.Level = "debug"
	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Timeline.PaddingDays)
	assert.Equal(t, "debug", loaded.Log.Level)
}
