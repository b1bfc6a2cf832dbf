// ABOUTME: JSON file journal for pipeline items that were skipped or degraded
// ABOUTME: One file per failure under a per-day directory, written atomically via rename
package dlq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"genai-news/config"
	"genai-news/domain"
)

const failuresDir = "failures"

type FileJournal struct {
	config  config.JournalConfig
	counter uint64
	mu      sync.Mutex
	logger  *slog.Logger
	now     func() time.Time
}

func NewFileJournal(cfg config.JournalConfig, logger *slog.Logger) *FileJournal {
	return &FileJournal{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Record writes the failure as <base>/failures/<date>/<id>.json.
func (j *FileJournal) Record(ctx context.Context, failure domain.ItemFailure) error {
	if failure.OccurredAt.IsZero() {
		failure.OccurredAt = j.now()
	}
	failure.OccurredAt = failure.OccurredAt.UTC()

	j.mu.Lock()
	j.counter++
	seq := j.counter
	j.mu.Unlock()

	name := failure.ID
	if name == "" {
		name = fmt.Sprintf("%s_%03d", failure.OccurredAt.Format("20060102T150405"), seq)
	}

	start := time.Now()
	path, size, err := j.writeFile(failure, name)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to journal item failure",
			"failure_id", failure.ID,
			"stage", failure.Stage,
			"error", err)
		return err
	}

	j.logger.DebugContext(ctx, "item failure journaled",
		"failure_id", failure.ID,
		"stage", failure.Stage,
		"domain", extractDomain(failure.URL),
		"file_path", path,
		"size_bytes", size,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (j *FileJournal) writeFile(failure domain.ItemFailure, name string) (string, int, error) {
	dir := filepath.Join(j.config.BasePath, failuresDir, failure.OccurredAt.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", 0, fmt.Errorf("create directory failed: %w", err)
	}

	data, err := json.MarshalIndent(failure, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("marshal failed: %w", err)
	}

	targetPath := filepath.Join(dir, sanitizeFileName(name)+".json")
	tempFile := targetPath + ".tmp"

	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return "", 0, fmt.Errorf("write temp file failed: %w", err)
	}
	if err := os.Rename(tempFile, targetPath); err != nil {
		if cleanupErr := os.Remove(tempFile); cleanupErr != nil {
			j.logger.Error("failed to cleanup temp file", "temp_file", tempFile, "error", cleanupErr)
		}
		return "", 0, fmt.Errorf("rename file failed: %w", err)
	}

	return targetPath, len(data), nil
}

// List returns journaled failures for one day, oldest first.
func (j *FileJournal) List(day time.Time) ([]domain.ItemFailure, error) {
	dir := filepath.Join(j.config.BasePath, failuresDir, day.UTC().Format("2006-01-02"))

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ItemFailure{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal directory: %w", err)
	}

	failures := make([]domain.ItemFailure, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		// #nosec G304 - path built from the journal base path
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read journal entry: %w", err)
		}
		var failure domain.ItemFailure
		if err := json.Unmarshal(data, &failure); err != nil {
			j.logger.Warn("skipping unreadable journal entry", "file", entry.Name(), "error", err)
			continue
		}
		failures = append(failures, failure)
	}

	sort.SliceStable(failures, func(a, b int) bool {
		return failures[a].OccurredAt.Before(failures[b].OccurredAt)
	})
	return failures, nil
}

// JournalStats summarizes the journal directory.
type JournalStats struct {
	TotalFailures int       `json:"total_failures"`
	OldestFailure time.Time `json:"oldest_failure"`
	DiskUsage     int64     `json:"disk_usage_bytes"`
}

func (j *FileJournal) Stats() (JournalStats, error) {
	stats := JournalStats{}
	root := filepath.Join(j.config.BasePath, failuresDir)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".json" {
			stats.TotalFailures++
			stats.DiskUsage += info.Size()
			if stats.OldestFailure.IsZero() || info.ModTime().Before(stats.OldestFailure) {
				stats.OldestFailure = info.ModTime()
			}
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to calculate stats: %w", err)
	}
	return stats, nil
}

// StartCleanup removes entries older than the retention once a day until ctx is done.
func (j *FileJournal) StartCleanup(ctx context.Context) {
	if j.config.Retention <= 0 {
		j.logger.Info("journal cleanup disabled")
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	j.logger.Info("journal cleanup started",
		"retention", j.config.Retention,
		"base_path", j.config.BasePath)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("journal cleanup stopped")
			return
		case <-ticker.C:
			if _, err := j.Cleanup(); err != nil {
				j.logger.Error("journal cleanup failed", "error", err)
			}
		}
	}
}

// Cleanup removes entries whose modification time is past the retention and
// returns how many were removed.
func (j *FileJournal) Cleanup() (int, error) {
	cutoff := j.now().Add(-j.config.Retention)
	removed := 0
	root := filepath.Join(j.config.BasePath, failuresDir)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			j.logger.Warn("failed to remove old journal file", "file", path, "error", err)
			return nil
		}
		removed++
		return nil
	})

	if removed > 0 {
		j.logger.Info("journal cleanup completed", "removed_files", removed, "cutoff", cutoff)
	}
	return removed, err
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '\x00':
			return '_'
		}
		return r
	}, name)
}

func extractDomain(urlStr string) string {
	if urlStr == "" {
		return ""
	}
	if parsed, err := url.Parse(urlStr); err == nil {
		return parsed.Hostname()
	}
	return "unknown"
}
