package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/aretw0/threshold/internal/logging"
	"github.com/aretw0/threshold/pkg/config"
)

// SiteFileNames are looked up, in order, when no site file is given.
var SiteFileNames = []string{"threshold.yaml", "threshold.yml", "threshold.toml"}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it keeps the signal that fired.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger. Without debug and without an
// explicit level the CLI stays quiet.
func CreateLogger(level string, debug, jsonLogs bool) (*slog.Logger, error) {
	if debug {
		level = "debug"
	}
	if level == "" {
		return logging.NewNop(), nil
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if jsonLogs {
		return logging.NewJSON(os.Stderr, lvl), nil
	}
	return logging.New(lvl), nil
}

// FindSiteFile returns path when set, else the first known site file in dir.
func FindSiteFile(dir, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	for _, name := range SiteFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no site file found in %s (looked for %v)", dir, SiteFileNames)
}

// LoadSite finds and parses the site file.
func LoadSite(dir, path string) (*config.Site, string, error) {
	path, err := FindSiteFile(dir, path)
	if err != nil {
		return nil, "", err
	}
	site, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return site, path, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
