package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

const logExt = ".log"

// Options configures New
type Options struct {
	Level         string
	Format        string // "text" or "json"
	FileEnabled   bool
	RetentionDays int
	Dir           string    // log directory, used when FileEnabled
	Output        io.Writer // console output, defaults to os.Stderr
}

// New builds a logger from opts. When file logging is enabled the session
// log is opened under opts.Dir, logs older than the retention period are
// removed, and output goes to both the console and the file. The returned
// close function releases the file.
func New(opts Options) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	noop := func() error { return nil }

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, noop, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch opts.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, noop, fmt.Errorf("unknown log format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	if !opts.FileEnabled {
		return logger, noop, nil
	}

	// Clean up old logs before opening the new one
	if removed, err := CleanupOldLogs(opts.Dir, opts.RetentionDays); err != nil {
		logger.WithError(err).Warn("failed to clean up old logs")
	} else if removed > 0 {
		logger.WithField("removed", removed).Debug("removed old log files")
	}

	path, err := LogPath(opts.Dir, time.Now())
	if err != nil {
		return nil, noop, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(out, file))
	return logger, file.Close, nil
}

// LogPath returns a fresh session log path inside dir
func LogPath(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%03d%s",
		now.Format("2006-01-02_150405"),
		now.Nanosecond()/1000000,
		logExt)

	return filepath.Join(dir, filename), nil
}

// ListLogs returns the log files in dir, newest first
func ListLogs(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+logExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with a timestamp
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// CleanupOldLogs removes log files in dir last modified before the retention
// period. A retention of zero or less keeps everything.
func CleanupOldLogs(dir string, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	// Check if log directory exists
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	files, err := ListLogs(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				return removed, fmt.Errorf("failed to remove old log file %s: %w", file, err)
			}
			removed++
		}
	}
	return removed, nil
}
