// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package resource

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"
)

// Watch invalidates cached resources when their files change. It blocks
// until ctx is done. New subdirectories are watched as they appear.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return oops.In("resource").Hint("failed to create watcher").Wrap(err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	err = filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return oops.In("resource").With("root", m.root).Hint("failed to watch resource root").Wrap(err)
	}

	m.logger.Debug("watching resources", "root", m.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			m.handleFSEvent(watcher, event)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("resource watcher error", "error", werr)
		}
	}
}

func (m *Manager) handleFSEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				m.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	rel, err := filepath.Rel(m.root, event.Name)
	if err != nil {
		return
	}
	if m.Invalidate(filepath.ToSlash(rel)) {
		m.logger.Debug("resource invalidated", "path", filepath.ToSlash(rel), "op", event.Op.String())
	}
}
