package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/registry"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

const watchDebounce = 300 * time.Millisecond

var watchSkipDirs = []string{"target", ".git", ".mule", "node_modules"}

type WatchCmd struct {
	deps        Deps
	projectPath string
	checkerName string
	configPath  string
	verbose     bool
}

// NewWatchCmd re-runs a checker whenever the project tree changes. Results
// are printed after each run; the command itself only fails on setup errors.
func NewWatchCmd(deps Deps) *cobra.Command {
	wc := &WatchCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run a checker on every project change",
		RunE:  wc.exec,
	}

	cmd.Flags().StringVar(&wc.projectPath, "project-path", ".", "Path to the Mule project root")
	cmd.Flags().StringVar(&wc.checkerName, "checker", "", "Checker to run on each change")
	cmd.Flags().StringVar(&wc.configPath, "config", "", "Path to a settings file")
	cmd.Flags().BoolVarP(&wc.verbose, "verbose", "v", false, "Show warnings in addition to errors")

	_ = cmd.MarkFlagRequired("checker")

	return cmd
}

func (wc *WatchCmd) exec(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(wc.projectPath); err != nil {
		return fmt.Errorf("project path does not exist: %s", wc.projectPath)
	}

	cfg, err := settings.Load(wc.configPath)
	if err != nil {
		return err
	}

	checker, err := wc.deps.Registry.Create(wc.checkerName, cfg, wc.deps.Logger)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, wc.projectPath); err != nil {
		return fmt.Errorf("failed to watch project tree: %w", err)
	}

	wc.runOnce(cmd.Context(), checker)

	var timer *time.Timer
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipWatchPath(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			ctx := cmd.Context()
			timer = time.AfterFunc(watchDebounce, func() { wc.runOnce(ctx, checker) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			wc.deps.Logger.Error().Err(err).Msg("watch error")
		}
	}
}

func (wc *WatchCmd) runOnce(ctx context.Context, checker registry.Checker) {
	res, err := checker.Run(ctx, domain.Target{ProjectPath: wc.projectPath})
	if err != nil {
		wc.deps.Logger.Error().Err(err).Msg("checker run failed")
		return
	}
	if err := report(wc.deps.Output, res, "text", wc.verbose); err != nil {
		wc.deps.Logger.Error().Err(err).Msg("failed to render report")
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipWatchPath(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func skipWatchPath(path string) bool {
	for _, dir := range watchSkipDirs {
		needle := string(filepath.Separator) + dir
		if strings.Contains(path, needle+string(filepath.Separator)) || strings.HasSuffix(path, needle) {
			return true
		}
	}
	return false
}
