package workspace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/recycle"
	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/monitoring"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/paths"
	"github.com/BilalX570/File-Management-System-Project/internal/storage"
)

// Manager keeps the index, the recycle bin, the backing store and the
// manifest consistent. Commands run one at a time.
type Manager struct {
	mu      sync.Mutex
	store   storage.Backend
	layout  paths.Layout
	index   *catalog.Index
	bin     *recycle.Bin
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// LoadReport describes what Load rebuilt from the manifest.
type LoadReport struct {
	Loaded     int      `json:"loaded"`
	Dropped    []string `json:"dropped"`
	Duplicates []string `json:"duplicates"`
}

// NewManager wires a manager. A nil logger logs nowhere.
func NewManager(store storage.Backend, layout paths.Layout, index *catalog.Index, bin *recycle.Bin, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		layout: layout,
		index:  index,
		bin:    bin,
		logger: logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	m.refreshGauges()
	return m
}

// Layout returns the workspace layout.
func (m *Manager) Layout() paths.Layout { return m.layout }

// Load rebuilds the index from the manifest. Names whose path no longer
// exists, or that are not valid managed names, are dropped and reported;
// if any were dropped the manifest is rewritten without them.
func (m *Manager) Load(ctx context.Context) (report LoadReport, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("load", &err)()

	report = LoadReport{Dropped: []string{}, Duplicates: []string{}}

	names, err := readManifest(ctx, m.store, m.layout.ManifestPath())
	if err != nil {
		return report, failure.IO("load", m.layout.ManifestPath(), err)
	}

	m.index.Clear()
	for _, name := range names {
		if m.index.Has(name) {
			report.Duplicates = append(report.Duplicates, name)
			continue
		}
		if m.layout.ValidateName(name) != nil {
			m.logger.Warn("Dropping invalid manifest entry", zap.String("name", name))
			report.Dropped = append(report.Dropped, name)
			continue
		}

		info, err := m.store.Stat(ctx, name)
		if err != nil {
			if storage.IsNotExist(err) {
				m.logger.Warn("Dropping missing manifest entry", zap.String("name", name))
				report.Dropped = append(report.Dropped, name)
				continue
			}
			return report, failure.IO("load", name, err)
		}

		entry := catalog.Entry{Name: name, IsDir: info.IsDir}
		if !info.IsDir {
			data, err := m.store.ReadFile(ctx, name)
			if err != nil {
				return report, failure.IO("load", name, err)
			}
			entry.Content = string(data)
		}
		if _, err := m.index.InsertAt(entry, catalog.LastPosition); err != nil {
			return report, err
		}
		report.Loaded++
	}

	m.logger.Info("Loaded workspace",
		zap.Int("records", report.Loaded),
		zap.Int("dropped", len(report.Dropped)),
		zap.Int("duplicates", len(report.Duplicates)),
	)

	if len(report.Dropped) > 0 || len(report.Duplicates) > 0 {
		if err := m.persist(ctx); err != nil {
			return report, err
		}
	}
	m.refreshGauges()
	return report, nil
}

// persist writes the current names, in index order, to the manifest.
// The in-memory state is kept on failure; the next persist rewrites the
// whole list.
func (m *Manager) persist(ctx context.Context) error {
	err := writeManifest(ctx, m.store, m.layout.ManifestPath(), m.index.Names())
	if m.metrics != nil {
		m.metrics.RecordManifestWrite(err)
	}
	if err != nil {
		m.logger.Error("Failed to persist manifest",
			zap.String("path", m.layout.ManifestPath()),
			zap.Error(err),
		)
		return failure.IO("persist", m.layout.ManifestPath(), err)
	}
	return nil
}

// track times an operation and records its outcome. Use as
// defer m.track("op", &err)().
func (m *Manager) track(op string, errp *error) func() {
	timer := monitoring.NewTimer(m.metrics, op)
	return func() {
		kind := ""
		if *errp != nil {
			kind = failure.KindOf(*errp).String()
			m.logger.Debug("Operation failed", zap.String("op", op), zap.Error(*errp))
		}
		timer.Stop(kind)
	}
}

func (m *Manager) refreshGauges() {
	if m.metrics == nil {
		return
	}
	var bytes int64
	for _, total := range m.index.TotalsByCategory() {
		bytes += total
	}
	m.metrics.SetIndex(m.index.Len(), bytes)

	u := m.bin.Usage()
	m.metrics.SetRecycle(u.Items, u.Bytes, u.Orphans, u.OrphanBytes)
}

func (m *Manager) validateName(op, name string) error {
	if err := m.layout.ValidateName(name); err != nil {
		return failure.Validation(op, name, fmt.Errorf("%w: %v", failure.ErrInvalidName, err))
	}
	return nil
}

// checkFree rejects names that are already indexed or already on disk.
func (m *Manager) checkFree(ctx context.Context, op, name string) error {
	if m.index.Has(name) {
		return failure.Validation(op, name, failure.ErrDuplicateName)
	}
	exists, err := m.store.Exists(ctx, name)
	if err != nil {
		return failure.IO(op, name, err)
	}
	if exists {
		return failure.Conflict(op, name, failure.ErrTargetOccupied)
	}
	return nil
}

// record returns the record for name without marking it accessed.
func (m *Manager) record(op, name string) (catalog.Record, error) {
	h, ok := m.index.Lookup(name)
	if !ok {
		return catalog.Record{}, failure.NotFound(op, name, failure.ErrNotFound)
	}
	rec, ok := m.index.Get(h)
	if !ok {
		return catalog.Record{}, failure.NotFound(op, name, failure.ErrNotFound)
	}
	return rec, nil
}
