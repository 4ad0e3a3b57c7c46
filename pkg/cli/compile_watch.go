package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var compileWatchLog = logger.New("cli:compile_watch")

// watchDebounce collapses bursts of events, such as an editor saving through
// a temporary file, into one rebuild.
const watchDebounce = 300 * time.Millisecond

// watchAndCompileShaders builds once and then rebuilds whenever a file in a
// source directory or the configuration file changes. It returns nil when
// ctx is cancelled.
func watchAndCompileShaders(ctx context.Context, cfg CompileConfig, configPath string) error {
	_, opts, err := loadBuildOptions(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	sourceDirs, err := syncWatchedDirs(watcher, nil, opts.Sources, "", cfg.Verbose)
	if err != nil {
		return err
	}
	if len(sourceDirs) == 0 {
		return errors.New("watch mode requires at least one existing source directory")
	}

	configFile := ""
	if configPath != "" {
		configFile = filepath.Clean(configPath)
		// The directory is watched because editors often replace the file.
		if err := watcher.Add(filepath.Dir(configFile)); err != nil {
			compileWatchLog.Printf("Not watching configuration %s: %v", configFile, err)
			configFile = ""
		}
	}

	rebuild := func() {
		if !cfg.JSONOutput {
			fmt.Fprintln(os.Stderr, console.LayoutTitleBox("Build "+time.Now().Format("15:04:05"), 40))
		}
		if _, err := compileOnce(ctx, cfg, opts); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
	}
	rebuild()
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Watching for changes. Press Ctrl+C to stop."))

	var timer *time.Timer
	var fire <-chan time.Time
	reload := false
	for {
		select {
		case <-ctx.Done():
			compileWatchLog.Print("Watch stopped")
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			isConfig := configFile != "" && filepath.Clean(event.Name) == configFile
			inSource := sourceDirs[filepath.Dir(filepath.Clean(event.Name))]
			if !isConfig && !(inSource && isShaderEvent(event)) {
				continue
			}
			compileWatchLog.Printf("Event: %s", event)
			reload = reload || isConfig
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Watch error: %v", err)))

		case <-fire:
			fire = nil
			if reload {
				reload = false
				_, next, err := loadBuildOptions(cfg)
				if err != nil {
					fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
					continue
				}
				pinned := ""
				if configFile != "" {
					pinned = filepath.Dir(configFile)
				}
				dirs, err := syncWatchedDirs(watcher, sourceDirs, next.Sources, pinned, cfg.Verbose)
				if err != nil {
					fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
					continue
				}
				opts, sourceDirs = next, dirs
				fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Configuration reloaded"))
			}
			rebuild()
		}
	}
}

// syncWatchedDirs makes the watcher follow the existing directories among
// sources and returns the new set. Directories in current that are no longer
// configured are removed from the watcher, except pinned.
func syncWatchedDirs(watcher *fsnotify.Watcher, current map[string]bool, sources []shader.SourceDir, pinned string, verbose bool) (map[string]bool, error) {
	next := make(map[string]bool, len(sources))
	for _, src := range sources {
		dir := filepath.Clean(shader.NormalizePath(src.Path))
		if next[dir] {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			compileWatchLog.Printf("Not watching %s: not a directory", dir)
			continue
		}
		if !current[dir] {
			if err := watcher.Add(dir); err != nil {
				return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			if verbose {
				fmt.Fprintln(os.Stderr, console.FormatLocationMessage(fmt.Sprintf("Watching %s", console.ToRelativePath(dir))))
			}
		}
		next[dir] = true
	}

	for dir := range current {
		if !next[dir] && dir != pinned {
			compileWatchLog.Printf("No longer watching %s", dir)
			_ = watcher.Remove(dir)
		}
	}
	return next, nil
}

// isShaderEvent filters out attribute changes and artifacts written into a
// watched directory.
func isShaderEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !strings.EqualFold(filepath.Ext(event.Name), constants.ArtifactExtension)
}
