package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Defaults for the workspace layout.
const (
	DefaultRoot       = "."
	DefaultManifest   = "files.txt"
	DefaultRecycleDir = "recycle_bin"

	// JournalFile lives inside the recycle directory.
	JournalFile = ".journal.json"
)

// Layout describes where the workspace keeps its managed entries, its
// manifest and its recycle holding directory.
type Layout struct {
	Root       string
	Manifest   string
	RecycleDir string
}

// DefaultLayout returns the layout rooted at the current directory.
func DefaultLayout() Layout {
	return Layout{
		Root:       DefaultRoot,
		Manifest:   DefaultManifest,
		RecycleDir: DefaultRecycleDir,
	}
}

// NewLayout builds a layout, filling blanks with defaults.
func NewLayout(root, manifest, recycleDir string) Layout {
	l := DefaultLayout()
	if root != "" {
		l.Root = root
	}
	if manifest != "" {
		l.Manifest = manifest
	}
	if recycleDir != "" {
		l.RecycleDir = recycleDir
	}
	return l
}

// ManifestPath returns the manifest location relative to the root.
func (l Layout) ManifestPath() string {
	return filepath.ToSlash(l.Manifest)
}

// JournalPath returns the recycle journal location relative to the root.
func (l Layout) JournalPath() string {
	return filepath.ToSlash(filepath.Join(l.RecycleDir, JournalFile))
}

// BackupName returns the holding path for a staged entry.
// A non-zero attempt is appended to the timestamp to break collisions.
func (l Layout) BackupName(unix int64, original string, attempt int) string {
	base := filepath.Base(filepath.FromSlash(original))
	stamp := fmt.Sprintf("%d", unix)
	if attempt > 0 {
		stamp = fmt.Sprintf("%d-%d", unix, attempt)
	}
	return filepath.ToSlash(filepath.Join(l.RecycleDir, stamp+"_"+base))
}

// IsReserved reports whether name collides with the manifest or lives
// under the recycle directory.
func (l Layout) IsReserved(name string) bool {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if clean == l.ManifestPath() {
		return true
	}
	dir := filepath.ToSlash(filepath.Clean(l.RecycleDir))
	return clean == dir || strings.HasPrefix(clean, dir+"/")
}

// ValidateName checks that a managed name is a clean relative path inside
// the root and outside the reserved locations.
func (l Layout) ValidateName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if l.IsReserved(name) {
		return fmt.Errorf("name %q is reserved", name)
	}
	return nil
}

// ValidateName checks that name is usable for path construction.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return fmt.Errorf("name cannot be an absolute path")
	}
	native := filepath.FromSlash(name)
	if filepath.Clean(native) != native {
		return fmt.Errorf("name contains invalid path components")
	}
	if native == "." || native == ".." || strings.HasPrefix(native, ".."+string(filepath.Separator)) {
		return fmt.Errorf("name escapes the workspace root")
	}
	return nil
}
