package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/veristat-labs/veristat/internal/engine"
	"github.com/veristat-labs/veristat/pkg/suite"
)

// watchSettleDelay is how long a file must be quiet before it is
// validated, so half-written landings are not picked up.
const watchSettleDelay = 500 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Validate datasets as they land",
		Long: `Watch the raw data directory and validate every dataset file that
lands in it, using the conventional "<dataset>_suite" suite. Files
whose suite does not exist are skipped with a warning. Runs until
interrupted.`,
		Example: `  veristat watch
  veristat watch --dir /data/incoming`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if dir == "" {
				dir = cmdCtx.Cfg.RawDir
			}

			eng, cleanup, err := cmdCtx.NewEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			return watchAndValidate(cmd, cmdCtx, eng, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to watch (default: raw data directory)")
	return cmd
}

func watchAndValidate(cmd *cobra.Command, cmdCtx *CommandContext, eng *engine.Engine, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watch dir %s: %w", dir, err)
	}
	if err := addWatchTree(watcher, dir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for datasets...\n", dir)

	ctx := cmd.Context()
	// settle coalesces bursty writes so half-written landings are not
	// picked up; a path validates once it has been quiet for the delay.
	settle := newDebouncer(watchSettleDelay, func(path string) {
		validateLanded(ctx, cmd, cmdCtx, eng, path)
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// New dated landing directory: watch it too.
					if err := watcher.Add(event.Name); err != nil {
						cmdCtx.Logger.Warn("watch subdirectory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !supportedDataset(event.Name) {
				continue
			}

			settle.Trigger(event.Name)
		}
	}
}

func validateLanded(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext, eng *engine.Engine, path string) {
	suiteName := defaultSuiteName(path)

	result, err := eng.Validate(ctx, path, suiteName, true)
	if errors.Is(err, suite.ErrNotFound) {
		cmdCtx.Logger.Warn("no suite for landed dataset, skipping",
			"dataset", path, "suite", suiteName)
		return
	}
	if err != nil {
		cmdCtx.Logger.Error("validation failed to run", "dataset", path, "error", err)
		return
	}
	printReport(cmd, result)
}

// debouncer coalesces bursts of events per key, invoking fn once a key
// has been quiet for the full delay. Fired keys are dropped so the
// pending set stays bounded by in-flight paths, not paths ever seen.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*time.Timer
	fn      func(key string)
}

func newDebouncer(delay time.Duration, fn func(string)) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*time.Timer),
		fn:      fn,
	}
}

// Trigger arms (or re-arms) the timer for key.
func (d *debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.pending[key]; ok {
		timer.Reset(d.delay)
		return
	}
	d.pending[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
		d.fn(key)
	})
}

// PendingCount reports how many keys are waiting to fire.
func (d *debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// addWatchTree watches dir and its immediate subdirectories (the dated
// landing folders).
func addWatchTree(watcher *fsnotify.Watcher, dir string) error {
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read watch dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := watcher.Add(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Join(dir, e.Name()), err)
			}
		}
	}
	return nil
}

func supportedDataset(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json", ".parquet":
		return true
	}
	return false
}
