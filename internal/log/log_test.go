package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func TestNewConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "warn", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closeFn()

	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}

	logger.Info("hidden")
	logger.WithField("tier", "movie").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "tier=movie") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.WithField("title", "Movie Title").Info("resolved")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "resolved" || entry["title"] != "Movie Title" || entry["level"] != "info" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("New() accepted an unknown level")
	}
	if _, _, err := New(Options{Level: "info", Format: "xml"}); err == nil {
		t.Error("New() accepted an unknown format")
	}
}

func TestNewWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, closeFn, err := New(Options{Level: "info", FileEnabled: true, RetentionDays: 30, Dir: dir, Output: &console})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("to both")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	files, err := ListLogs(dir)
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("ListLogs() = %v, want one file", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to both") || !strings.Contains(console.String(), "to both") {
		t.Errorf("file %q / console %q missing the entry", data, console.String())
	}
}

func TestLogPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	now := time.Date(2024, 3, 9, 14, 5, 7, 42_000_000, time.UTC)

	path, err := LogPath(dir, now)
	if err != nil {
		t.Fatalf("LogPath() error = %v", err)
	}
	if want := filepath.Join(dir, "2024-03-09_140507.042.log"); path != want {
		t.Errorf("LogPath() = %q, want %q", path, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("LogPath() did not create %s", dir)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2020-01-01_000000.000.log")
	fresh := filepath.Join(dir, "2099-01-01_000000.000.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, other} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	for _, p := range []string{old, other} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := CleanupOldLogs(dir, 30)
	if err != nil {
		t.Fatalf("CleanupOldLogs() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	remaining, _ := ListLogs(dir)
	if diff := cmp.Diff([]string{fresh}, remaining); diff != "" {
		t.Errorf("remaining logs mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("non-log file was removed: %v", err)
	}
}

func TestCleanupOldLogsNoop(t *testing.T) {
	if n, err := CleanupOldLogs(filepath.Join(t.TempDir(), "missing"), 30); err != nil || n != 0 {
		t.Errorf("CleanupOldLogs(missing) = %d, %v", n, err)
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "2020-01-01_000000.000.log")
	os.WriteFile(p, []byte("x"), 0644)
	past := time.Now().AddDate(-1, 0, 0)
	os.Chtimes(p, past, past)

	if n, err := CleanupOldLogs(dir, 0); err != nil || n != 0 {
		t.Errorf("CleanupOldLogs(retention 0) = %d, %v, want nothing removed", n, err)
	}
}

func TestListLogsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	names := []string{"2023-05-01_000000.000.log", "2024-01-01_000000.000.log", "2023-12-31_235959.999.log"}
	for _, n := range names {
		os.WriteFile(filepath.Join(dir, n), nil, 0644)
	}

	got, err := ListLogs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "2024-01-01_000000.000.log"),
		filepath.Join(dir, "2023-12-31_235959.999.log"),
		filepath.Join(dir, "2023-05-01_000000.000.log"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListLogs() mismatch (-want +got):\n%s", diff)
	}
}
