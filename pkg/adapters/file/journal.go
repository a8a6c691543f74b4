// Package file provides a journal that appends cycle reports to a JSON Lines file.
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/threshold/internal/logging"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/gofrs/flock"
)

var _ ports.Journal = (*Journal)(nil)

// DefaultPath is used when no path is given.
var DefaultPath = filepath.Join(".threshold", "journal.jsonl")

// Journal implements ports.Journal on a local JSON Lines file.
// Writers in other processes are excluded through an advisory lock on path+".lock".
type Journal struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
	maxEntries  int
	logger      *slog.Logger

	// mu serializes callers sharing this Journal; the file lock only excludes other handles.
	mu      sync.Mutex
	appends int
}

// Option configures a Journal.
type Option func(*Journal)

// WithMaxEntries compacts the file to the newest n reports every n appends.
func WithMaxEntries(n int) Option {
	return func(j *Journal) {
		j.maxEntries = n
	}
}

// WithLockTimeout bounds how long an operation waits for the file lock.
func WithLockTimeout(d time.Duration) Option {
	return func(j *Journal) {
		if d > 0 {
			j.lockTimeout = d
		}
	}
}

// WithLogger reports skipped lines and compactions.
func WithLogger(logger *slog.Logger) Option {
	return func(j *Journal) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// NewJournal creates a journal writing to path. If path is empty, DefaultPath is used.
func NewJournal(path string, opts ...Option) *Journal {
	if path == "" {
		path = DefaultPath
	}
	j := &Journal{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: 10 * time.Second,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append writes report as one line at the end of the file.
func (j *Journal) Append(ctx context.Context, report *domain.CycleReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	return j.withLock(ctx, func() error {
		if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
			return fmt.Errorf("failed to ensure journal directory: %w", err)
		}
		f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("failed to append report %s: %w", report.ID, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close journal: %w", err)
		}

		j.appends++
		if j.maxEntries > 0 && j.appends%j.maxEntries == 0 {
			return j.compact(ctx)
		}
		return nil
	})
}

// List returns up to limit reports, most recent first.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.CycleReport, error) {
	var reports []domain.CycleReport
	err := j.withLock(ctx, func() error {
		var err error
		reports, err = j.read(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if j.maxEntries > 0 && len(reports) > j.maxEntries {
		reports = reports[len(reports)-j.maxEntries:]
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[len(reports)-limit:]
	}
	out := make([]domain.CycleReport, len(reports))
	for i := range reports {
		out[i] = reports[len(reports)-1-i]
	}
	return out, nil
}

// read decodes every line, oldest first. Lines that fail to decode are skipped.
func (j *Journal) read(ctx context.Context) ([]domain.CycleReport, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var reports []domain.CycleReport
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var r domain.CycleReport
		if err := json.Unmarshal(raw, &r); err != nil {
			j.logger.WarnContext(ctx, "skipping malformed journal line", "path", j.path, "line", line, "err", err)
			continue
		}
		reports = append(reports, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return reports, nil
}

// compact rewrites the file with the newest maxEntries reports. The caller holds the lock.
func (j *Journal) compact(ctx context.Context) error {
	reports, err := j.read(ctx)
	if err != nil {
		return err
	}
	if len(reports) <= j.maxEntries {
		return nil
	}
	dropped := len(reports) - j.maxEntries
	reports = reports[dropped:]

	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create compaction file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := encodeLines(w, reports); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write compaction file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close compaction file: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("failed to replace journal: %w", err)
	}
	success = true
	j.logger.DebugContext(ctx, "journal compacted", "path", j.path, "dropped", dropped)
	return nil
}

func encodeLines(w io.Writer, reports []domain.CycleReport) error {
	enc := json.NewEncoder(w)
	for i := range reports {
		if err := enc.Encode(&reports[i]); err != nil {
			return fmt.Errorf("failed to encode report %s: %w", reports[i].ID, err)
		}
	}
	return nil
}

// withLock runs fn while holding the advisory file lock.
func (j *Journal) withLock(ctx context.Context, fn func() error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, j.lockTimeout)
	defer cancel()

	locked, err := j.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring journal lock for %s: %w", j.path, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring journal lock for %s", j.path)
	}
	defer func() { _ = j.lock.Unlock() }()

	return fn()
}
