package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/billsample/internal/config"
	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/progress"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"d", 0, true},
		{"xd", 0, true},
		{"3y", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	l := newLogger(config.LoggingConfig{Level: "warn", Format: "text"}, false)
	assert.False(t, l.Enabled(ctx, slog.LevelInfo))
	assert.True(t, l.Enabled(ctx, slog.LevelWarn))

	l = newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, true)
	assert.True(t, l.Enabled(ctx, slog.LevelDebug))

	l = newLogger(config.LoggingConfig{Level: "bogus"}, false)
	assert.True(t, l.Enabled(ctx, slog.LevelInfo))
	assert.False(t, l.Enabled(ctx, slog.LevelDebug))
}

func TestExportCSV(t *testing.T) {
	selections := []database.Selection{
		{Position: 0, Identifier: "HR 2", Title: "Medicare Drug Pricing and Tax Relief Act", Tier: "high", ProgressionScore: 85, CosponsorCount: 2},
		{Position: 1, Identifier: "S 3", Title: "Small Business, Broadband Act", Tier: "medium", ProgressionScore: 10},
	}

	var buf bytes.Buffer
	require.NoError(t, exportCSV(&buf, selections))

	want := "position,identifier,title,impact_level,progression_score,cosponsor_count\n" +
		"1,HR 2,Medicare Drug Pricing and Tax Relief Act,high,85,2\n" +
		"2,S 3,\"Small Business, Broadband Act\",medium,10,0\n"
	assert.Equal(t, want, buf.String())
}

func TestExportJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestProgressMessage(t *testing.T) {
	term := &Terminal{}

	tests := []struct {
		p    progress.Progress
		want string
	}{
		{progress.Progress{Phase: progress.PhaseListing}, "Listing bills..."},
		{progress.Progress{Phase: progress.PhaseListing, Current: 12, Total: 12}, "Listing bills: 12 found"},
		{progress.Progress{Phase: progress.PhaseAnalyzing, Current: 5, Total: 20}, "Analyzing: 5/20 bills (25%)"},
		{progress.Progress{Phase: progress.PhaseSampling, Current: 4, Total: 10}, "Sampling: 4/10 bills"},
		{progress.Progress{Phase: progress.PhaseCopying, Current: 1, Total: 4}, "Copying: 1/4 bills (25%)"},
		{progress.Progress{Phase: progress.PhaseReporting}, "Writing report..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, term.progressMessage(tt.p))
	}
}

func TestFormatETA(t *testing.T) {
	assert.Equal(t, "", FormatETA(0))
	assert.Equal(t, "45s", FormatETA(45*time.Second))
	assert.Equal(t, "2m", FormatETA(2*time.Minute))
	assert.Equal(t, "2m5s", FormatETA(125*time.Second))
	assert.Equal(t, "1h30m", FormatETA(90*time.Minute))
}
