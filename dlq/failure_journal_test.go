// ABOUTME: Tests for the JSON file failure journal
// ABOUTME: Covers atomic writes, listing by day, stats and retention cleanup
package dlq

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/config"
	"genai-news/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newTestJournal(t *testing.T) (*FileJournal, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileJournal(config.JournalConfig{Enabled: true, BasePath: dir, Retention: 24 * time.Hour}, testLogger()), dir
}

func TestFileJournal_Record(t *testing.T) {
	journal, dir := newTestJournal(t)
	occurred := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	failure := domain.ItemFailure{
		ID:          "3f2a",
		Stage:       domain.StageExtraction,
		URL:         "https://news.example.com/a",
		Title:       "Headline",
		Error:       "extractor: unexpected status: 403 Forbidden",
		RateLimited: false,
		OccurredAt:  occurred,
	}
	require.NoError(t, journal.Record(context.Background(), failure))

	path := filepath.Join(dir, "failures", "2026-01-15", "3f2a.json")
	// #nosec G304 - test path
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var got domain.ItemFailure
	require.NoError(t, json.Unmarshal(content, &got))
	assert.Equal(t, failure, got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestFileJournal_Record_GeneratesName(t *testing.T) {
	journal, dir := newTestJournal(t)
	occurred := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	for range 2 {
		require.NoError(t, journal.Record(context.Background(), domain.ItemFailure{
			Stage:      domain.StageQuery,
			Query:      "generative AI",
			Error:      "boom",
			OccurredAt: occurred,
		}))
	}

	entries, err := os.ReadDir(filepath.Join(dir, "failures", "2026-01-15"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileJournal_Record_UnwritableBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0600))

	journal := NewFileJournal(config.JournalConfig{BasePath: base}, testLogger())
	err := journal.Record(context.Background(), domain.ItemFailure{ID: "x", Stage: domain.StageArticle})
	assert.Error(t, err)
}

func TestFileJournal_List(t *testing.T) {
	journal, _ := newTestJournal(t)
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	later := domain.ItemFailure{ID: "b", Stage: domain.StageTranslation, Error: "late", OccurredAt: day.Add(2 * time.Hour)}
	earlier := domain.ItemFailure{ID: "a", Stage: domain.StageQuery, Error: "early", OccurredAt: day.Add(time.Hour)}
	otherDay := domain.ItemFailure{ID: "c", Stage: domain.StageQuery, Error: "other", OccurredAt: day.AddDate(0, 0, 1)}

	for _, f := range []domain.ItemFailure{later, earlier, otherDay} {
		require.NoError(t, journal.Record(context.Background(), f))
	}

	got, err := journal.List(day)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	empty, err := journal.List(day.AddDate(0, 0, -10))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFileJournal_StatsAndCleanup(t *testing.T) {
	journal, dir := newTestJournal(t)

	stats, err := journal.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalFailures)

	now := time.Now().UTC()
	require.NoError(t, journal.Record(context.Background(), domain.ItemFailure{ID: "old", Stage: domain.StageQuery, OccurredAt: now}))
	require.NoError(t, journal.Record(context.Background(), domain.ItemFailure{ID: "new", Stage: domain.StageQuery, OccurredAt: now}))

	oldPath := filepath.Join(dir, "failures", now.Format("2006-01-02"), "old.json")
	past := now.Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	stats, err = journal.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFailures)
	assert.Positive(t, stats.DiskUsage)

	removed, err := journal.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"uuid":       {in: "0b6f0c1e-7d0b-4f0a-9f7e-1c1f3c3b2a10", want: "0b6f0c1e-7d0b-4f0a-9f7e-1c1f3c3b2a10"},
		"path chars": {in: "../etc/passwd", want: ".._etc_passwd"},
		"colon":      {in: "a:b", want: "a_b"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeFileName(tc.in))
		})
	}
}
