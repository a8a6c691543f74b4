package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/threshold/internal/presentation/tui"
	"github.com/aretw0/threshold/pkg/config"
	"github.com/aretw0/threshold/pkg/runner"
	"github.com/fsnotify/fsnotify"
)

// settleDelay lets editors finish writing before the site is reloaded.
const settleDelay = 100 * time.Millisecond

// RunWatch runs an interactive session that restarts whenever the site file or one
// of its page files changes. Each restart closes the running orchestrator first, so
// the cleanups of the old modules run before the new ones mount.
func RunWatch(ctx context.Context, opts RunOptions) error {
	opts.defaults()
	logger, err := CreateLogger(opts.LogLevel, opts.Debug, false)
	if err != nil {
		return err
	}
	path, err := FindSiteFile(opts.Dir, opts.SiteFile)
	if err != nil {
		return err
	}
	tui.PrintBanner(opts.Stdout)

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	// One handler for every iteration keeps a single stdin reader alive.
	handler := runner.NewTextHandler(opts.Stdin, opts.Stdout,
		runner.WithTextHandlerRenderer(tui.NewReportRenderer()))

	var runErr error
	for {
		reload, err := runWatchIteration(sigCtx, path, opts, logger, handler)
		if err != nil {
			runErr = err
			break
		}
		if !reload {
			break
		}
		logger.Info("watcher restarting", "path", path)
	}
	logCompletion(opts.Stdout, logger, runErr, sigCtx.Signal(), false)
	return handleExecutionError(runErr)
}

func runWatchIteration(parent context.Context, path string, opts RunOptions, logger *slog.Logger, handler runner.IOHandler) (bool, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	changes, err := WatchSite(ctx, path, logger)
	if err != nil {
		return false, err
	}

	stack, err := loadStack(path, opts, logger)
	if err != nil {
		logger.Error("site reload failed", "path", path, "err", err)
		printSystemMessage(opts.Stdout, "Site is invalid: %v", err)
		printSystemMessage(opts.Stdout, "Waiting for changes...")
		select {
		case <-parent.Done():
			return false, nil
		case <-changes:
			return true, nil
		}
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Warn("failed to close journal", "err", err)
		}
	}()
	printSystemMessage(opts.Stdout, "Watching '%s' (%d modules).", path, stack.Registry.Len())

	r := runner.NewRunner(runnerOptions(stack, opts, handler)...)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, stack.NewOrchestrator())
	}()

	select {
	case <-parent.Done():
		return false, <-done
	case name := <-changes:
		fmt.Fprintln(opts.Stdout)
		printSystemMessage(opts.Stdout, "Change detected in '%s'.", filepath.Base(name))
		cancel()
		return true, <-done
	case err := <-done:
		return false, err
	}
}

func loadStack(path string, opts RunOptions, logger *slog.Logger) (*Stack, error) {
	site, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return NewStack(site, StackOptions{Logger: logger, Debug: opts.Debug, Origin: opts.Origin})
}

// WatchSite reports changes to the site file at path and to markup files next to it.
// Bursts of events are collapsed into one notification. The channel closes with ctx.
func WatchSite(ctx context.Context, path string, logger *slog.Logger) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevant(path, event) {
					continue
				}
				logger.Debug("site change", "event", event.String())
				settle(ctx, watcher)
				select {
				case out <- event.Name:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", "err", err)
			}
		}
	}()
	return out, nil
}

func relevant(sitePath string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	if filepath.Clean(event.Name) == filepath.Clean(sitePath) {
		return true
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// settle drops the events that follow within settleDelay.
func settle(ctx context.Context, watcher *fsnotify.Watcher) {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
		}
	}
}
