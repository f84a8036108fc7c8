package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/recycle"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// ListRecycled returns the staged items in staging order.
func (m *Manager) ListRecycled(ctx context.Context) []recycle.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bin.Items()
}

// RecycleUsage reports bin occupancy.
func (m *Manager) RecycleUsage(ctx context.Context) recycle.Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bin.Usage()
}

// RestoreRecycled moves the item at index back and re-inserts its record
// at the end of the index. A restored directory re-indexes the members it
// was staged with, in their former order.
func (m *Manager) RestoreRecycled(ctx context.Context, index int) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("restore", &err)()

	item, err := m.bin.Item(index)
	if err != nil {
		return catalog.Record{}, err
	}
	if m.index.Has(item.OriginalPath) {
		return catalog.Record{}, failure.Conflict("restore", item.OriginalPath, failure.ErrTargetOccupied)
	}

	if _, err := m.bin.Restore(ctx, index); err != nil {
		return catalog.Record{}, err
	}

	rec, err = m.index.InsertAt(m.restoredEntry(ctx, item.OriginalPath, item.IsDir), catalog.LastPosition)
	if err != nil {
		return catalog.Record{}, err
	}

	for _, name := range item.Members {
		if m.index.Has(name) {
			m.logger.Warn("Restored member already indexed", zap.String("name", name))
			continue
		}
		info, statErr := m.store.Stat(ctx, name)
		if statErr != nil {
			m.logger.Warn("Restored member is missing",
				zap.String("name", name),
				zap.Error(statErr),
			)
			continue
		}
		if _, err := m.index.InsertAt(m.restoredEntry(ctx, name, info.IsDir), catalog.LastPosition); err != nil {
			m.logger.Warn("Failed to re-index restored member", zap.String("name", name), zap.Error(err))
		}
	}

	m.refreshGauges()
	return rec, m.persist(ctx)
}

// restoredEntry rebuilds the index entry for a path that just came back
// from the bin. An unreadable file is indexed without content.
func (m *Manager) restoredEntry(ctx context.Context, name string, isDir bool) catalog.Entry {
	entry := catalog.Entry{Name: name, IsDir: isDir}
	if isDir {
		return entry
	}
	data, err := m.store.ReadFile(ctx, name)
	if err != nil {
		m.logger.Warn("Restored file could not be read",
			zap.String("name", name),
			zap.Error(err),
		)
		return entry
	}
	entry.Content = string(data)
	return entry
}

// PurgeRecycled drops the item at index; see recycle.Bin.Purge.
func (m *Manager) PurgeRecycled(ctx context.Context, index int, permanent bool) (item recycle.Item, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("purge", &err)()

	item, err = m.bin.Purge(ctx, index, permanent)
	m.refreshGauges()
	return item, err
}

// EmptyRecycleBin permanently deletes every staged item.
func (m *Manager) EmptyRecycleBin(ctx context.Context) recycle.EmptyReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	defer m.track("empty", &err)()

	report := m.bin.EmptyAll(ctx)
	m.refreshGauges()
	return report
}

// ReclaimOrphans deletes backups left behind by soft purges.
func (m *Manager) ReclaimOrphans(ctx context.Context) recycle.ReclaimReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	defer m.track("reclaim", &err)()

	report := m.bin.ReclaimOrphans(ctx)
	m.refreshGauges()
	return report
}
