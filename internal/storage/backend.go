// Package storage defines the Backend interface for the medium a workspace
// mirrors. Keys are slash-separated paths relative to the backend root.
package storage

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

// ErrNotExist is returned (wrapped) when a key is absent.
var ErrNotExist = fs.ErrNotExist

// Info describes one entry on the backing store.
type Info struct {
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	IsDir   bool      `json:"is_dir"`
	ModTime time.Time `json:"mod_time"`
}

// Backend is the interface for workspace storage backends.
// Implementations perform raw file I/O only; bookkeeping is the caller's.
type Backend interface {
	// Exists reports whether key is present. It follows symlinks, as Stat
	// and Size do.
	Exists(ctx context.Context, key string) (bool, error)

	// Stat describes key. Size is the file length, or zero for directories.
	Stat(ctx context.Context, key string) (Info, error)

	// ReadFile returns the whole content of a file.
	ReadFile(ctx context.Context, key string) ([]byte, error)

	// WriteFile replaces the content of key atomically, creating parents.
	WriteFile(ctx context.Context, key string, data []byte) error

	// AppendFile appends data to an existing file.
	AppendFile(ctx context.Context, key string, data []byte) error

	// Mkdir creates a directory and any missing parents.
	Mkdir(ctx context.Context, key string) error

	// Copy duplicates a regular file from src to dst.
	Copy(ctx context.Context, src, dst string) error

	// Rename moves src to dst in one step, creating dst's parents.
	Rename(ctx context.Context, src, dst string) error

	// Remove deletes a file or an empty directory.
	Remove(ctx context.Context, key string) error

	// RemoveAll deletes key and everything below it.
	RemoveAll(ctx context.Context, key string) error

	// Size returns the byte size of key, summed recursively for directories.
	Size(ctx context.Context, key string) (int64, error)

	// List returns the immediate children of a directory, sorted by name.
	List(ctx context.Context, key string) ([]Info, error)

	// Type returns the backend type identifier.
	Type() string
}

// IsNotExist reports whether err means the key is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
