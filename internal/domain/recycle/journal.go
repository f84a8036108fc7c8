package recycle

import (
	"context"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
	"github.com/BilalX570/File-Management-System-Project/internal/storage"
)

const journalVersion = 1

type journal struct {
	Version int      `json:"version"`
	Items   []Item   `json:"items"`
	Orphans []Orphan `json:"orphans"`
}

// loadJournal restores bookkeeping from the holding directory. Entries
// whose backup is gone are dropped.
func (b *Bin) loadJournal(ctx context.Context) error {
	path := b.layout.JournalPath()

	data, err := b.store.ReadFile(ctx, path)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil
		}
		return failure.IO("load journal", path, err)
	}

	var j journal
	if err := sonic.Unmarshal(data, &j); err != nil {
		return failure.IO("load journal", path, err)
	}

	for _, item := range j.Items {
		ok, err := b.store.Exists(ctx, item.BackupPath)
		if err != nil {
			return failure.IO("load journal", item.BackupPath, err)
		}
		if !ok {
			b.logger.Warn("Dropping recycle item with missing backup",
				zap.String("path", item.OriginalPath),
				zap.String("backup", item.BackupPath),
			)
			continue
		}
		b.items = append(b.items, item)
		b.total += item.Size
	}

	for _, o := range j.Orphans {
		if ok, err := b.store.Exists(ctx, o.BackupPath); err == nil && ok {
			b.orphans = append(b.orphans, o)
		}
	}

	b.logger.Info("Loaded recycle journal",
		zap.Int("items", len(b.items)),
		zap.Int("orphans", len(b.orphans)),
		zap.Int64("bytes", b.total),
	)
	return nil
}

// saveJournal rewrites the journal. Failures are logged only: the
// relocation that triggered the save has already happened.
func (b *Bin) saveJournal(ctx context.Context) {
	j := journal{
		Version: journalVersion,
		Items:   b.items,
		Orphans: b.orphans,
	}
	if j.Items == nil {
		j.Items = []Item{}
	}
	if j.Orphans == nil {
		j.Orphans = []Orphan{}
	}

	data, err := sonic.MarshalIndent(j, "", "  ")
	if err != nil {
		b.logger.Warn("Failed to encode recycle journal", zap.Error(err))
		return
	}
	if err := b.store.WriteFile(ctx, b.layout.JournalPath(), data); err != nil {
		b.logger.Warn("Failed to write recycle journal",
			zap.String("path", b.layout.JournalPath()),
			zap.Error(err),
		)
	}
}
