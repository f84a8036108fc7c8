package recycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/id"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/paths"
	"github.com/BilalX570/File-Management-System-Project/internal/storage"
)

// Defaults for the bin quota.
const (
	DefaultMaxItems = 100
	DefaultMaxBytes = 100 * 1024 * 1024
)

// Config bounds the bin. Both limits must be positive.
type Config struct {
	MaxItems int
	MaxBytes int64
}

// DefaultConfig returns the default quota.
func DefaultConfig() Config {
	return Config{
		MaxItems: DefaultMaxItems,
		MaxBytes: DefaultMaxBytes,
	}
}

// Validate checks the quota.
func (c Config) Validate() error {
	if c.MaxItems <= 0 {
		return fmt.Errorf("max items must be positive, got %d", c.MaxItems)
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("max bytes must be positive, got %d", c.MaxBytes)
	}
	return nil
}

// Bin is a quota-bounded holding area for deleted entries.
//
// The byte total is maintained incrementally on stage, restore and purge
// rather than by walking the holding directory.
type Bin struct {
	mu      sync.Mutex
	store   storage.Backend
	layout  paths.Layout
	cfg     Config
	items   []Item
	orphans []Orphan
	total   int64
	ids     *id.Generator
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Bin.
type Option func(*Bin)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bin) { b.logger = logger }
}

// WithClock overrides the time source for deletion timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bin) { b.now = now }
}

// WithIDGenerator overrides the item ID generator.
func WithIDGenerator(g *id.Generator) Option {
	return func(b *Bin) { b.ids = g }
}

// Open creates the holding directory if needed and reloads the journal.
func Open(ctx context.Context, store storage.Backend, layout paths.Layout, cfg Config, opts ...Option) (*Bin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, failure.Validation("open", layout.RecycleDir, err)
	}

	b := &Bin{
		store:  store,
		layout: layout,
		cfg:    cfg,
		ids:    id.Default(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := store.Mkdir(ctx, layout.RecycleDir); err != nil {
		return nil, failure.IO("open", layout.RecycleDir, err)
	}
	if err := b.loadJournal(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Config returns the quota.
func (b *Bin) Config() Config { return b.cfg }

// IsFull reports whether either limit has been reached.
func (b *Bin) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isFull()
}

func (b *Bin) isFull() bool {
	return len(b.items) >= b.cfg.MaxItems || b.total >= b.cfg.MaxBytes
}

// Len returns the number of live items.
func (b *Bin) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns the live items in staging order.
func (b *Bin) Items() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Item returns the item at index.
func (b *Bin) Item(index int) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.items) {
		return Item{}, failure.NotFound("item", fmt.Sprint(index), failure.ErrInvalidIndex)
	}
	return b.items[index], nil
}

// Orphans returns the untracked backups awaiting reclamation.
func (b *Bin) Orphans() []Orphan {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Orphan, len(b.orphans))
	copy(out, b.orphans)
	return out
}

// Usage reports occupancy.
func (b *Bin) Usage() Usage {
	b.mu.Lock()
	defer b.mu.Unlock()

	u := Usage{
		Items:    len(b.items),
		Bytes:    b.total,
		MaxItems: b.cfg.MaxItems,
		MaxBytes: b.cfg.MaxBytes,
		Orphans:  len(b.orphans),
		Full:     b.isFull(),
	}
	for _, o := range b.orphans {
		u.OrphanBytes += o.Size
	}
	return u
}

// Stage moves path into the holding directory. members names the managed
// entries nested under a directory path; they are kept on the item.
//
// The source is untouched unless relocation starts. Directories move with
// one rename. Files are copied then removed; if the remove fails the copy
// is deleted again and an IO failure is returned.
func (b *Bin) Stage(ctx context.Context, path string, category catalog.Category, members ...string) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exists, err := b.store.Exists(ctx, path)
	if err != nil {
		return Item{}, failure.IO("stage", path, err)
	}
	if !exists {
		return Item{}, failure.NotFound("stage", path, failure.ErrNotFound)
	}
	if b.isFull() {
		return Item{}, failure.Capacity("stage", path, failure.ErrCapacityExceeded)
	}

	info, err := b.store.Stat(ctx, path)
	if err != nil {
		return Item{}, failure.IO("stage", path, err)
	}
	size, err := b.store.Size(ctx, path)
	if err != nil {
		return Item{}, failure.IO("stage", path, err)
	}

	deletedAt := b.now()
	backup, err := b.freeBackupPath(ctx, deletedAt.Unix(), path)
	if err != nil {
		return Item{}, err
	}

	if err := b.relocate(ctx, path, backup, info.IsDir); err != nil {
		return Item{}, failure.IO("stage", path, err)
	}

	item := Item{
		ID:           b.ids.NewItemID(deletedAt),
		OriginalPath: path,
		BackupPath:   backup,
		DeletionTime: deletedAt,
		Category:     category,
		IsDir:        info.IsDir,
		Size:         size,
	}
	if info.IsDir && len(members) > 0 {
		item.Members = append([]string(nil), members...)
	}
	b.items = append(b.items, item)
	b.total += size

	b.logger.Info("Staged entry",
		zap.String("path", path),
		zap.String("backup", backup),
		zap.Int64("size", size),
		zap.Int("members", len(item.Members)),
	)
	b.saveJournal(ctx)
	return item, nil
}

// Restore moves the item at index back to its original path.
func (b *Bin) Restore(ctx context.Context, index int) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return Item{}, failure.NotFound("restore", fmt.Sprint(index), failure.ErrInvalidIndex)
	}
	item := b.items[index]

	occupied, err := b.store.Exists(ctx, item.OriginalPath)
	if err != nil {
		return Item{}, failure.IO("restore", item.OriginalPath, err)
	}
	if occupied {
		return Item{}, failure.Conflict("restore", item.OriginalPath, failure.ErrTargetOccupied)
	}

	if err := b.relocate(ctx, item.BackupPath, item.OriginalPath, item.IsDir); err != nil {
		return Item{}, failure.IO("restore", item.OriginalPath, err)
	}

	b.removeItem(index)
	b.logger.Info("Restored entry",
		zap.String("path", item.OriginalPath),
		zap.String("backup", item.BackupPath),
	)
	b.saveJournal(ctx)
	return item, nil
}

// Purge drops the item at index. A permanent purge deletes the backup; a
// failed delete leaves the item in place. A non-permanent purge keeps the
// backup on disk and tracks it as an orphan.
func (b *Bin) Purge(ctx context.Context, index int, permanent bool) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return Item{}, failure.NotFound("purge", fmt.Sprint(index), failure.ErrInvalidIndex)
	}
	item := b.items[index]

	if permanent {
		if err := b.store.RemoveAll(ctx, item.BackupPath); err != nil {
			return Item{}, failure.IO("purge", item.BackupPath, err)
		}
	} else {
		b.orphans = append(b.orphans, Orphan{
			BackupPath:  item.BackupPath,
			Size:        item.Size,
			ForgottenAt: b.now(),
		})
	}

	b.removeItem(index)
	b.logger.Info("Purged entry",
		zap.String("path", item.OriginalPath),
		zap.String("backup", item.BackupPath),
		zap.Bool("permanent", permanent),
	)
	b.saveJournal(ctx)
	return item, nil
}

// EmptyAll deletes every backup and every orphan, continuing past failures.
// Bookkeeping is cleared regardless; backups that could not be deleted are
// kept as orphans.
func (b *Bin) EmptyAll(ctx context.Context) EmptyReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := EmptyReport{Purged: []Item{}, Failed: []Failed{}, Reclaimed: []Orphan{}}
	now := b.now()

	var remaining []Orphan
	for _, item := range b.items {
		if err := b.store.RemoveAll(ctx, item.BackupPath); err != nil {
			b.logger.Warn("Failed to purge backup",
				zap.String("backup", item.BackupPath),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, Failed{Item: item, Error: err.Error()})
			remaining = append(remaining, Orphan{BackupPath: item.BackupPath, Size: item.Size, ForgottenAt: now})
			continue
		}
		report.Purged = append(report.Purged, item)
	}

	reclaimed, left := b.reclaim(ctx)
	report.Reclaimed = reclaimed

	b.items = nil
	b.total = 0
	b.orphans = append(left, remaining...)

	b.logger.Info("Emptied recycle bin",
		zap.Int("purged", len(report.Purged)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("reclaimed", len(report.Reclaimed)),
	)
	b.saveJournal(ctx)
	return report
}

// ReclaimOrphans deletes the storage of every orphan it can.
func (b *Bin) ReclaimOrphans(ctx context.Context) ReclaimReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	reclaimed, left := b.reclaim(ctx)
	b.orphans = left
	b.saveJournal(ctx)

	if left == nil {
		left = []Orphan{}
	}
	return ReclaimReport{Reclaimed: reclaimed, Remaining: left}
}

func (b *Bin) reclaim(ctx context.Context) (reclaimed, left []Orphan) {
	reclaimed = []Orphan{}
	for _, o := range b.orphans {
		if err := b.store.RemoveAll(ctx, o.BackupPath); err != nil {
			b.logger.Warn("Failed to reclaim orphan",
				zap.String("backup", o.BackupPath),
				zap.Error(err),
			)
			left = append(left, o)
			continue
		}
		reclaimed = append(reclaimed, o)
	}
	return reclaimed, left
}

func (b *Bin) removeItem(index int) {
	b.total -= b.items[index].Size
	if b.total < 0 {
		b.total = 0
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
}

// freeBackupPath picks a holding path not used on disk or by a live item.
func (b *Bin) freeBackupPath(ctx context.Context, unix int64, original string) (string, error) {
	for attempt := 0; ; attempt++ {
		candidate := b.layout.BackupName(unix, original, attempt)
		if b.tracked(candidate) {
			continue
		}
		exists, err := b.store.Exists(ctx, candidate)
		if err != nil {
			return "", failure.IO("stage", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

func (b *Bin) tracked(backup string) bool {
	for _, it := range b.items {
		if it.BackupPath == backup {
			return true
		}
	}
	for _, o := range b.orphans {
		if o.BackupPath == backup {
			return true
		}
	}
	return false
}

// relocate moves src to dst. Directories are renamed in one step; files
// are copied and the source removed afterwards.
func (b *Bin) relocate(ctx context.Context, src, dst string, isDir bool) error {
	if isDir {
		return b.store.Rename(ctx, src, dst)
	}
	if err := b.store.Copy(ctx, src, dst); err != nil {
		return err
	}
	if err := b.store.Remove(ctx, src); err != nil {
		if cleanupErr := b.store.Remove(ctx, dst); cleanupErr != nil {
			b.logger.Error("Failed to clean up copy after relocate failure",
				zap.String("src", src),
				zap.String("dst", dst),
				zap.Error(cleanupErr),
			)
		}
		return err
	}
	return nil
}
