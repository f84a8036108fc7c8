package workspace

import (
	"context"
	"time"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
	"github.com/BilalX570/File-Management-System-Project/internal/storage"
)

// DirEntry is one child listed by Browse.
type DirEntry struct {
	Name     string           `json:"name"`
	Size     int64            `json:"size"`
	IsDir    bool             `json:"is_dir"`
	Category catalog.Category `json:"category"`
	ModTime  time.Time        `json:"mod_time"`
	Managed  bool             `json:"managed"`
}

// Browse lists the immediate children of dir on the backing store. An
// empty dir lists the workspace root. Reserved entries are hidden.
func (m *Manager) Browse(ctx context.Context, dir string) (entries []DirEntry, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("browse", &err)()

	if dir != "" {
		if err := m.validateName("browse", dir); err != nil {
			return nil, err
		}
	}

	infos, err := m.store.List(ctx, dir)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, failure.NotFound("browse", dir, failure.ErrNotFound)
		}
		return nil, failure.IO("browse", dir, err)
	}

	entries = make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		if m.layout.IsReserved(info.Key) {
			continue
		}
		entries = append(entries, DirEntry{
			Name:     info.Key,
			Size:     info.Size,
			IsDir:    info.IsDir,
			Category: catalog.Classify(info.Key, info.IsDir),
			ModTime:  info.ModTime,
			Managed:  m.index.Has(info.Key),
		})
	}
	return entries, nil
}
