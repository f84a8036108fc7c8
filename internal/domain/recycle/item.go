package recycle

import (
	"time"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/id"
)

// Item is one staged deletion. Members lists the managed entries that
// were nested inside a staged directory and travel with it.
type Item struct {
	ID           id.ItemID        `json:"id"`
	OriginalPath string           `json:"original_path"`
	BackupPath   string           `json:"backup_path"`
	DeletionTime time.Time        `json:"deletion_time"`
	Category     catalog.Category `json:"category"`
	IsDir        bool             `json:"is_dir"`
	Size         int64            `json:"size"`
	Members      []string         `json:"members,omitempty"`
}

// Orphan is a backup whose bookkeeping was dropped without deleting its
// storage. Orphans do not count against the quota.
type Orphan struct {
	BackupPath  string    `json:"backup_path"`
	Size        int64     `json:"size"`
	ForgottenAt time.Time `json:"forgotten_at"`
}

// Failed pairs an item with the reason its backup could not be deleted.
type Failed struct {
	Item  Item   `json:"item"`
	Error string `json:"error"`
}

// EmptyReport is the outcome of EmptyAll.
type EmptyReport struct {
	Purged    []Item   `json:"purged"`
	Failed    []Failed `json:"failed"`
	Reclaimed []Orphan `json:"reclaimed"`
}

// ReclaimReport is the outcome of ReclaimOrphans.
type ReclaimReport struct {
	Reclaimed []Orphan `json:"reclaimed"`
	Remaining []Orphan `json:"remaining"`
}

// Usage reports occupancy against the quota.
type Usage struct {
	Items       int   `json:"items"`
	Bytes       int64 `json:"bytes"`
	MaxItems    int   `json:"max_items"`
	MaxBytes    int64 `json:"max_bytes"`
	Orphans     int   `json:"orphans"`
	OrphanBytes int64 `json:"orphan_bytes"`
	Full        bool  `json:"full"`
}
