// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package persist saves and restores plugin state. Records are keyed by the
// plugin's persistent id so state finds its way back to the same plugin
// type across runs.
package persist

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/emberforge/ember/internal/host"
	"github.com/emberforge/ember/internal/xdg"
	"github.com/emberforge/ember/pkg/plugin"
)

// Version is the snapshot format version written by this package.
const Version = 1

// Snapshot is the saved state of all stateful plugins.
type Snapshot struct {
	Version int       `yaml:"version"`
	SavedAt time.Time `yaml:"saved_at"`
	Plugins []Record  `yaml:"plugins"`
}

// Record is the state of one plugin.
type Record struct {
	ID    uuid.UUID `yaml:"id"`
	Name  string    `yaml:"name"`
	State yaml.Node `yaml:"state"`
}

// Capture records the state of every registered plugin that implements
// plugin.Stateful, in registration order.
func Capture(h *host.Host) (*Snapshot, error) {
	snap := &Snapshot{Version: Version, SavedAt: time.Now().UTC()}
	for _, p := range h.Plugins() {
		s, ok := p.(plugin.Stateful)
		if !ok {
			continue
		}
		rec := Record{ID: p.ID(), Name: plugin.DisplayName(p)}
		if err := rec.State.Encode(s.SaveState()); err != nil {
			return nil, oops.In("persist").Code("PERSIST_ENCODE_FAILED").
				With("plugin", rec.Name).
				Wrapf(err, "encode plugin state")
		}
		snap.Plugins = append(snap.Plugins, rec)
	}
	return snap, nil
}

// Restore hands each record to the registered plugin with the same id.
// Records for unknown or stateless plugins are logged and skipped.
func Restore(h *host.Host, snap *Snapshot) error {
	if snap == nil {
		return oops.In("persist").Code("PERSIST_SNAPSHOT_NIL").Errorf("snapshot is nil")
	}
	if snap.Version != Version {
		return versionError(snap.Version)
	}
	for i := range snap.Plugins {
		rec := &snap.Plugins[i]
		p, ok := h.Plugin(rec.ID)
		if !ok {
			slog.Warn("skipping state for unknown plugin", "plugin_id", rec.ID.String(), "name", rec.Name)
			continue
		}
		s, ok := p.(plugin.Stateful)
		if !ok {
			slog.Warn("skipping state for stateless plugin", "plugin", plugin.DisplayName(p))
			continue
		}
		s.LoadState(rec.State.Decode)
		slog.Debug("restored plugin state", "plugin", plugin.DisplayName(p))
	}
	return nil
}

// Write encodes snap as YAML.
func Write(w io.Writer, snap *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return oops.In("persist").Code("PERSIST_WRITE_FAILED").Wrapf(err, "encode snapshot")
	}
	if err := enc.Close(); err != nil {
		return oops.In("persist").Code("PERSIST_WRITE_FAILED").Wrapf(err, "flush snapshot")
	}
	return nil
}

// Read decodes a YAML snapshot.
func Read(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return nil, oops.In("persist").Code("PERSIST_READ_FAILED").Wrapf(err, "decode snapshot")
	}
	if snap.Version != Version {
		return nil, versionError(snap.Version)
	}
	return &snap, nil
}

// WriteFile writes snap to path, creating parent directories.
func WriteFile(path string, snap *Snapshot) (err error) {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return oops.In("persist").Code("PERSIST_WRITE_FAILED").With("path", path).Wrap(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = oops.In("persist").Code("PERSIST_WRITE_FAILED").With("path", path).Wrap(cerr)
		}
	}()
	return Write(f, snap)
}

// ReadFile reads the snapshot at path. A missing file yields (nil, nil).
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("persist").Code("PERSIST_READ_FAILED").With("path", path).Wrap(err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

func versionError(got int) error {
	return oops.In("persist").Code("PERSIST_VERSION").
		With("version", got).
		With("supported", Version).
		Errorf("unsupported snapshot version %d", got)
}
