package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadQuiet is how long the file must stay untouched before it is read.
// A save usually arrives as truncate then write; reading in between would
// see an empty file.
var reloadQuiet = 100 * time.Millisecond

var errEmptyConfig = errors.New("file is empty")

// Watch reloads path once it has been written or replaced and then left
// alone for a short quiet period, and sends each valid config on the
// returned channel. Only the newest config is kept if the reader falls
// behind. Empty and invalid files are logged and skipped. The channel
// closes when ctx is done.
func Watch(ctx context.Context, path string, logger *log.Logger) (<-chan Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("scene: watch: %w", err)
	}
	// Editors often save by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("scene: watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	out := make(chan Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		settle := time.NewTimer(reloadQuiet)
		settle.Stop()
		defer settle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				settle.Reset(reloadQuiet)
			case <-settle.C:
				cfg, err := reloadConfig(path)
				if err != nil {
					logger.Printf("config reload skipped: %v", err)
					continue
				}
				select {
				case <-out:
				default:
				}
				out <- cfg
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("config watch: %v", err)
			}
		}
	}()
	return out, nil
}

// reloadConfig is LoadConfig for a file that is expected to hold settings;
// an empty file means a save is still in progress, not "use defaults".
func reloadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scene: load %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, fmt.Errorf("scene: %s: %w", path, errEmptyConfig)
	}
	cfg := DefaultConfig()
	if err := ParseConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scene: %s: %w", path, err)
	}
	return cfg, nil
}
