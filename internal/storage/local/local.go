// Package local provides a local filesystem storage backend.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/BilalX570/File-Management-System-Project/internal/storage"
)

// Config holds local filesystem backend settings.
type Config struct {
	RootPath   string `json:"root_path" yaml:"root_path" toml:"root_path"`
	CreateDirs bool   `json:"create_dirs" yaml:"create_dirs" toml:"create_dirs"`
}

// Backend implements storage.Backend on the local filesystem.
type Backend struct {
	rootPath string
}

var _ storage.Backend = (*Backend)(nil)

// New creates a new local filesystem backend.
func New(cfg Config) (*Backend, error) {
	if cfg.RootPath == "" {
		return nil, fmt.Errorf("root_path is required")
	}

	info, err := os.Stat(cfg.RootPath)
	if err != nil {
		if os.IsNotExist(err) && cfg.CreateDirs {
			if mkErr := os.MkdirAll(cfg.RootPath, 0755); mkErr != nil {
				return nil, fmt.Errorf("create root path %s: %w", cfg.RootPath, mkErr)
			}
		} else {
			return nil, fmt.Errorf("stat root path %s: %w", cfg.RootPath, err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", cfg.RootPath)
	}

	abs, err := filepath.Abs(cfg.RootPath)
	if err != nil {
		return nil, fmt.Errorf("resolve root path %s: %w", cfg.RootPath, err)
	}

	return &Backend{rootPath: abs}, nil
}

// Root returns the absolute root directory.
func (b *Backend) Root() string { return b.rootPath }

// Type returns "local".
func (b *Backend) Type() string { return "local" }

func (b *Backend) fullPath(key string) string {
	return filepath.Join(b.rootPath, filepath.FromSlash(key))
}

// Exists checks if key exists on the local filesystem. Symlinks are
// followed like Stat and Size do, so a dangling link does not exist.
func (b *Backend) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(b.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// Stat describes key.
func (b *Backend) Stat(_ context.Context, key string) (storage.Info, error) {
	info, err := os.Stat(b.fullPath(key))
	if err != nil {
		return storage.Info{}, fmt.Errorf("stat %s: %w", key, err)
	}
	return toInfo(key, info), nil
}

// ReadFile reads a whole file.
func (b *Backend) ReadFile(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.fullPath(key))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// WriteFile writes content atomically through a temp file and rename.
func (b *Backend) WriteFile(_ context.Context, key string, data []byte) error {
	path := b.fullPath(key)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dirs for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(dir, ".fms-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", key, err)
	}
	return nil
}

// AppendFile appends to an existing file.
func (b *Backend) AppendFile(_ context.Context, key string, data []byte) error {
	f, err := os.OpenFile(b.fullPath(key), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}

// Mkdir creates a directory with parents.
func (b *Backend) Mkdir(_ context.Context, key string) error {
	if err := os.MkdirAll(b.fullPath(key), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", key, err)
	}
	return nil
}

// Copy copies a regular file, writing the destination atomically.
func (b *Backend) Copy(_ context.Context, srcKey, dstKey string) error {
	dstPath := b.fullPath(dstKey)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("create dirs for %s: %w", dstKey, err)
	}

	src, err := os.Open(b.fullPath(srcKey))
	if err != nil {
		return fmt.Errorf("open src %s: %w", srcKey, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".fms-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", dstKey, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copy %s -> %s: %w", srcKey, dstKey, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", dstKey, err)
	}

	if err := os.Rename(tmpName, dstPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", dstKey, err)
	}
	return nil
}

// Rename moves src to dst.
func (b *Backend) Rename(_ context.Context, srcKey, dstKey string) error {
	dstPath := b.fullPath(dstKey)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("create dirs for %s: %w", dstKey, err)
	}
	if err := os.Rename(b.fullPath(srcKey), dstPath); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", srcKey, dstKey, err)
	}
	return nil
}

// Remove deletes a file or empty directory.
func (b *Backend) Remove(_ context.Context, key string) error {
	if err := os.Remove(b.fullPath(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// RemoveAll deletes key recursively. A missing key is not an error.
func (b *Backend) RemoveAll(_ context.Context, key string) error {
	if err := os.RemoveAll(b.fullPath(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Size returns the size of a file or the recursive size of a directory.
func (b *Backend) Size(ctx context.Context, key string) (int64, error) {
	fullPath := b.fullPath(key)
	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", key, err)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total atomic.Int64
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, fullPath, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(fi.Size())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("size %s: %w", key, err)
	}
	return total.Load(), nil
}

// List returns the immediate children of a directory.
func (b *Backend) List(_ context.Context, key string) ([]storage.Info, error) {
	entries, err := os.ReadDir(b.fullPath(key))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", key, err)
	}

	out := make([]storage.Info, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		child := e.Name()
		if key != "" && key != "." {
			child = filepath.ToSlash(filepath.Join(filepath.FromSlash(key), e.Name()))
		}
		out = append(out, toInfo(child, info))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func toInfo(key string, info os.FileInfo) storage.Info {
	size := info.Size()
	if info.IsDir() {
		size = 0
	}
	return storage.Info{
		Key:     key,
		Size:    size,
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
}
