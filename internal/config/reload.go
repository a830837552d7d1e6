// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/vtx/vtx/internal/log"
)

// Holder provides thread-safe access to configuration with hot reloading
// from file. Reloads are atomic: a config that fails validation is discarded
// and the previous one stays in effect.
type Holder struct {
	mu         sync.RWMutex
	current    AppConfig
	loader     *Loader
	configPath string
	watcher    *fsnotify.Watcher
	logger     zerolog.Logger

	listenersMu sync.RWMutex
	listeners   []chan<- AppConfig
}

// NewHolder creates a holder around an initial configuration.
func NewHolder(initial AppConfig, loader *Loader, configPath string) *Holder {
	return &Holder{
		current:    initial,
		loader:     loader,
		configPath: configPath,
		logger:     log.WithComponent("config"),
	}
}

// Get returns the current configuration.
func (h *Holder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Subscribe registers a channel that receives every successfully applied
// configuration. Sends are non-blocking; slow listeners miss updates.
func (h *Holder) Subscribe(ch chan<- AppConfig) {
	h.listenersMu.Lock()
	h.listeners = append(h.listeners, ch)
	h.listenersMu.Unlock()
}

// Reload re-resolves configuration and swaps it in if valid.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Info().Str("event", "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("keeping previous configuration")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	h.current = newCfg
	h.mu.Unlock()

	h.logger.Info().Str("event", "config.reloaded").Msg("configuration applied")

	h.listenersMu.RLock()
	for _, ch := range h.listeners {
		select {
		case ch <- newCfg:
		default:
		}
	}
	h.listenersMu.RUnlock()
	return nil
}

// Watch starts watching the config file for changes until ctx is cancelled.
// It is a no-op when no config file is in use.
func (h *Holder) Watch(ctx context.Context) error {
	if h.configPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory, not the file: editors replace files on save,
	// which drops the watch on the inode.
	dir := filepath.Dir(h.configPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer func() {
			if cerr := watcher.Close(); cerr != nil {
				h.logger.Warn().Err(cerr).Msg("failed to close config watcher")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != h.configPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := h.Reload(ctx); err != nil {
					h.logger.Warn().
						Err(err).
						Str("event", "config.watch_reload_failed").
						Str("path", h.configPath).
						Msg("config file changed but reload failed")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				h.logger.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()

	h.logger.Info().
		Str("event", "config.watch_start").
		Str("path", h.configPath).
		Msg("watching config file for changes")
	return nil
}
