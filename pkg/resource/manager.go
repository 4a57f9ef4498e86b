// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package resource loads engine resources from a directory tree and caches
// them in memory.
package resource

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/oops"
)

// DefaultCacheSize is the number of resources kept in memory by default.
const DefaultCacheSize = 256

// Kind classifies a resource by its extension.
type Kind string

// Resource kinds.
const (
	KindScript  Kind = "script"
	KindTexture Kind = "texture"
	KindModel   Kind = "model"
	KindText    Kind = "text"
	KindBinary  Kind = "binary"
)

// KindOf returns the kind for a path based on its extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return KindScript
	case ".png", ".jpg", ".jpeg", ".tga", ".dds":
		return KindTexture
	case ".fbx", ".gltf", ".glb", ".obj":
		return KindModel
	case ".txt", ".yaml", ".yml", ".json", ".md":
		return KindText
	default:
		return KindBinary
	}
}

// Resource is a loaded file.
type Resource struct {
	// Path is relative to the manager root, slash separated.
	Path    string
	Kind    Kind
	Data    []byte
	ModTime time.Time
}

// Stats reports cache counters.
type Stats struct {
	Hits   int64
	Misses int64
	Cached int
}

// Manager loads resources below a root directory. It is safe for concurrent use.
type Manager struct {
	root      string
	cacheSize int
	cache     *lru.Cache[string, *Resource]
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithCacheSize sets the number of cached resources.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		m.cacheSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a manager rooted at root. The directory does not need
// to exist yet.
func NewManager(root string, opts ...Option) (*Manager, error) {
	m := &Manager{
		root:      filepath.Clean(root),
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cacheSize <= 0 {
		return nil, oops.In("resource").Code("RESOURCE_CACHE_SIZE").With("size", m.cacheSize).
			Errorf("cache size must be positive")
	}

	cache, err := lru.New[string, *Resource](m.cacheSize)
	if err != nil {
		return nil, oops.In("resource").Wrap(err)
	}
	m.cache = cache
	return m, nil
}

// Root returns the root directory.
func (m *Manager) Root() string {
	return m.root
}

// Load returns the resource at path, relative to the root, from cache or disk.
func (m *Manager) Load(ctx context.Context, path string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.In("resource").With("path", path).Wrap(err)
	}

	rel, err := m.resolve(path)
	if err != nil {
		return nil, err
	}

	if res, ok := m.cache.Get(rel); ok {
		m.hits.Add(1)
		return res, nil
	}
	m.misses.Add(1)

	full := filepath.Join(m.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.In("resource").Code("RESOURCE_NOT_FOUND").With("path", rel).Wrap(err)
		}
		return nil, oops.In("resource").With("path", rel).Wrap(err)
	}
	if info.IsDir() {
		return nil, oops.In("resource").Code("RESOURCE_IS_DIR").With("path", rel).Errorf("%s is a directory", rel)
	}

	data, err := os.ReadFile(full) //nolint:gosec // path is confined to the root by resolve
	if err != nil {
		return nil, oops.In("resource").With("path", rel).Wrap(err)
	}

	res := &Resource{Path: rel, Kind: KindOf(rel), Data: data, ModTime: info.ModTime()}
	m.cache.Add(rel, res)
	m.logger.Debug("resource loaded", "path", rel, "kind", res.Kind, "bytes", len(data))
	return res, nil
}

// List returns the relative paths of all files with extension ext (for
// example ".lua"), sorted. An empty ext lists every file. A missing root
// yields an empty list.
func (m *Manager) List(ext string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == m.root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(p), ext) {
			return nil
		}
		rel, err := filepath.Rel(m.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, oops.In("resource").With("root", m.root).Wrap(err)
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops path from the cache and reports whether it was cached.
func (m *Manager) Invalidate(path string) bool {
	rel, err := m.resolve(path)
	if err != nil {
		return false
	}
	return m.cache.Remove(rel)
}

// Purge empties the cache.
func (m *Manager) Purge() {
	m.cache.Purge()
}

// Stats returns cache counters.
func (m *Manager) Stats() Stats {
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load(), Cached: m.cache.Len()}
}

// resolve turns path into a clean slash-separated path that stays below root.
func (m *Manager) resolve(path string) (string, error) {
	if path == "" {
		return "", oops.In("resource").Code("RESOURCE_PATH_EMPTY").Errorf("resource path is empty")
	}
	p := filepath.FromSlash(path)
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(m.root, p)
		if err != nil {
			return "", oops.In("resource").Code("RESOURCE_OUTSIDE_ROOT").With("path", path).Wrap(err)
		}
		p = rel
	}
	p = filepath.Clean(p)
	if !filepath.IsLocal(p) {
		return "", oops.In("resource").Code("RESOURCE_OUTSIDE_ROOT").With("path", path).With("root", m.root).
			Errorf("resource path %q escapes the resource root", path)
	}
	return filepath.ToSlash(p), nil
}
