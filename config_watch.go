package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch sends a freshly parsed config on configs every time the file at path
// is written or replaced. The directory is watched rather than the file,
// since editors often save by renaming a temporary file over it.
func Watch(path string, configs chan<- *Config, errors chan<- error, done <-chan struct{}, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	target := filepath.Clean(path)
	go func() {
		// ignore close error
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				c, err := ReadConfig(path)
				if err != nil {
					select {
					case errors <- err:
					case <-done:
						return
					}
					continue
				}
				logger.Info("config reloaded", "path", path)
				select {
				case configs <- c:
				case <-done:
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case errors <- err:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("can't watch %s: %w", path, err)
	}
	return nil
}
