package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// runLogHook appends every log entry to a dated file under the configured
// log directory, one file per calendar day. Entries carry the run UID so
// interleaved runs can be told apart.
type runLogHook struct {
	runUID uuid.UUID
	file   *os.File
	mu     sync.Mutex
}

func NewRunLogHook(dir string) (*runLogHook, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("rbac_migration_logs_%s.txt", time.Now().Format("2006-01-02"))

	file, err := os.OpenFile(
		filepath.Join(dir, name),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &runLogHook{
		runUID: uuid.New(),
		file:   file,
	}, nil
}

func (h *runLogHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	line := fmt.Sprintf("%s %s [%s] %s",
		entry.Time.Format("2006-01-02 15:04:05"),
		entry.Level.String(),
		h.runUID.String()[:8],
		entry.Message,
	)

	for key, value := range entry.Data {
		line += fmt.Sprintf(" %s=%v", key, value)
	}

	_, err := fmt.Fprintln(h.file, line)
	return err
}

func (h *runLogHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

func (h *runLogHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.file.Close()
}
