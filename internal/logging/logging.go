// Package logging configures the process-wide logrus logger. Entries go to
// stdout and to a daily file app-YYYY-MM-DD.log that is swapped at midnight
// and pruned after the retention window.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Options struct {
	Level         string
	Format        string
	Dir           string
	RetentionDays int
}

// New builds a logger writing to stdout only.
func New(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// Setup builds a logger that also writes to a rotating daily file. The
// returned func stops rotation and closes the file.
func Setup(opts Options) (*logrus.Logger, func(), error) {
	logger := New(opts.Level, opts.Format)
	if opts.Dir == "" {
		return logger, func() {}, nil
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return logger, func() {}, err
	}

	r := &rotator{dir: opts.Dir, retentionDays: opts.RetentionDays, logger: logger}
	if err := r.open(time.Now()); err != nil {
		return logger, func() {}, err
	}
	cleanupOldLogs(opts.Dir, opts.RetentionDays, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	go r.run(ctx)

	return logger, func() {
		cancel()
		r.close()
	}, nil
}

type rotator struct {
	mu            sync.Mutex
	dir           string
	retentionDays int
	logger        *logrus.Logger
	file          *os.File
	date          string
}

func (r *rotator) run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if err := r.rotate(now); err != nil {
				r.logger.WithError(err).Warn("log rotation failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *rotator) rotate(now time.Time) error {
	r.mu.Lock()
	same := now.Format(dateLayout) == r.date
	r.mu.Unlock()
	if same {
		return nil
	}
	if err := r.open(now); err != nil {
		return err
	}
	cleanupOldLogs(r.dir, r.retentionDays, now)
	return nil
}

func (r *rotator) open(now time.Time) error {
	date := now.Format(dateLayout)
	file, err := openLogFile(r.dir, date)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.SetOutput(io.MultiWriter(os.Stdout, file))
	if r.file != nil {
		_ = r.file.Close()
	}
	r.file = file
	r.date = date
	return nil
}

func (r *rotator) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.SetOutput(os.Stdout)
	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
}

func openLogFile(dir, date string) (*os.File, error) {
	filename := filepath.Join(dir, fmt.Sprintf("app-%s.log", date))
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanupOldLogs removes daily files older than retentionDays, counting today.
func cleanupOldLogs(dir string, retentionDays int, now time.Time) {
	if retentionDays < 1 {
		retentionDays = 1
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	today, _ := time.Parse(dateLayout, now.Format(dateLayout))
	cutoff := today.AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		logDate, err := time.Parse(dateLayout, strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log"))
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
