package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/recycle"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// FailedDelete names an entry that could not be staged.
type FailedDelete struct {
	Name  string `json:"name"`
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// DeleteAllReport is the outcome of DeleteAll.
type DeleteAllReport struct {
	Staged []recycle.Item  `json:"staged"`
	Failed []FailedDelete `json:"failed"`
}

// CreateFile writes a new file and inserts it at position.
func (m *Manager) CreateFile(ctx context.Context, name, content string, position int) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("create_file", &err)()

	return m.create(ctx, "create", catalog.Entry{Name: name, Content: content}, position)
}

// CreateDirectory creates a directory and inserts it at position.
func (m *Manager) CreateDirectory(ctx context.Context, name string, position int) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("create_directory", &err)()

	return m.create(ctx, "mkdir", catalog.Entry{Name: name, IsDir: true}, position)
}

func (m *Manager) create(ctx context.Context, op string, e catalog.Entry, position int) (catalog.Record, error) {
	if err := m.validateName(op, e.Name); err != nil {
		return catalog.Record{}, err
	}
	if err := m.checkFree(ctx, op, e.Name); err != nil {
		return catalog.Record{}, err
	}
	if position < catalog.LastPosition || position > m.index.Len() {
		return catalog.Record{}, failure.Validation(op, e.Name, failure.ErrInvalidPosition)
	}

	var err error
	if e.IsDir {
		err = m.store.Mkdir(ctx, e.Name)
	} else {
		err = m.store.WriteFile(ctx, e.Name, []byte(e.Content))
	}
	if err != nil {
		return catalog.Record{}, failure.IO(op, e.Name, err)
	}

	rec, err := m.index.InsertAt(e, position)
	if err != nil {
		if rmErr := m.store.RemoveAll(ctx, e.Name); rmErr != nil {
			m.logger.Error("Failed to roll back create", zap.String("name", e.Name), zap.Error(rmErr))
		}
		return catalog.Record{}, err
	}

	m.logger.Info("Created entry",
		zap.String("name", rec.Name),
		zap.String("category", string(rec.Category)),
		zap.Int64("size", rec.Size),
	)
	m.refreshGauges()
	return rec, m.persist(ctx)
}

// Delete stages name in the recycle bin, then removes it from the index.
// If staging fails the index is untouched.
func (m *Manager) Delete(ctx context.Context, name string) (item recycle.Item, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("delete", &err)()

	rec, err := m.record("delete", name)
	if err != nil {
		return recycle.Item{}, err
	}
	return m.stage(ctx, rec)
}

// DeleteAt stages the record at position. LastPosition addresses the last.
func (m *Manager) DeleteAt(ctx context.Context, position int) (item recycle.Item, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("delete", &err)()

	if m.index.Len() == 0 {
		return recycle.Item{}, failure.NotFound("delete", "", failure.ErrNotFound)
	}
	rec, err := m.index.At(position)
	if err != nil {
		return recycle.Item{}, err
	}
	return m.stage(ctx, rec)
}

func (m *Manager) stage(ctx context.Context, rec catalog.Record) (recycle.Item, error) {
	item, err := m.stageRecord(ctx, rec)
	if err != nil {
		return item, err
	}
	m.refreshGauges()
	return item, m.persist(ctx)
}

// stageRecord moves rec into the bin and drops it from the index. A
// directory takes its indexed descendants along: they leave the index with
// it and are recorded on the item so a restore can bring them back.
func (m *Manager) stageRecord(ctx context.Context, rec catalog.Record) (recycle.Item, error) {
	var members []string
	if rec.IsDir {
		members = m.index.Descendants(rec.Name)
	}
	item, err := m.bin.Stage(ctx, rec.Name, rec.Category, members...)
	if err != nil {
		return recycle.Item{}, err
	}
	if _, err := m.index.RemoveByName(rec.Name); err != nil {
		return item, err
	}
	for _, name := range members {
		if _, err := m.index.RemoveByName(name); err != nil {
			return item, err
		}
	}
	return item, nil
}

// DeleteAll stages every record in index order. Records that stage are
// removed; the rest stay in the index and are reported. Records already
// carried away by a staged ancestor directory are skipped.
func (m *Manager) DeleteAll(ctx context.Context) (report DeleteAllReport, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("delete_all", &err)()

	report = DeleteAllReport{Staged: []recycle.Item{}, Failed: []FailedDelete{}}
	for _, rec := range m.index.List() {
		if !m.index.Has(rec.Name) {
			continue
		}
		item, stageErr := m.stageRecord(ctx, rec)
		if stageErr != nil {
			m.logger.Warn("Failed to stage entry", zap.String("name", rec.Name), zap.Error(stageErr))
			report.Failed = append(report.Failed, FailedDelete{
				Name:  rec.Name,
				Error: stageErr.Error(),
				Kind:  failure.KindOf(stageErr).String(),
			})
			continue
		}
		report.Staged = append(report.Staged, item)
	}

	m.refreshGauges()
	return report, m.persist(ctx)
}

// Rename moves old to new on disk and in the index. Renaming a directory
// also renames the indexed entries nested under it.
func (m *Manager) Rename(ctx context.Context, oldName, newName string) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("rename", &err)()

	if err := m.validateName("rename", newName); err != nil {
		return catalog.Record{}, err
	}
	if m.index.Has(newName) {
		return catalog.Record{}, failure.Validation("rename", newName, failure.ErrDuplicateName)
	}
	if !m.index.Has(oldName) {
		return catalog.Record{}, failure.NotFound("rename", oldName, failure.ErrNotFound)
	}
	if catalog.IsDescendant(newName, oldName) {
		return catalog.Record{}, failure.Validation("rename", newName, failure.ErrInvalidName)
	}
	for _, name := range m.index.Descendants(oldName) {
		target := catalog.Rebase(name, oldName, newName)
		if err := m.validateName("rename", target); err != nil {
			return catalog.Record{}, err
		}
		if m.index.Has(target) {
			return catalog.Record{}, failure.Validation("rename", target, failure.ErrDuplicateName)
		}
	}
	exists, err := m.store.Exists(ctx, newName)
	if err != nil {
		return catalog.Record{}, failure.IO("rename", newName, err)
	}
	if exists {
		return catalog.Record{}, failure.Conflict("rename", newName, failure.ErrTargetOccupied)
	}

	if err := m.store.Rename(ctx, oldName, newName); err != nil {
		return catalog.Record{}, failure.IO("rename", oldName, err)
	}
	renamed, err := m.index.RenameTree(oldName, newName)
	if err != nil {
		return catalog.Record{}, err
	}

	m.logger.Info("Renamed entry",
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int("nested", len(renamed)-1),
	)
	return renamed[0], m.persist(ctx)
}

// Sort reorders the index and persists the new order.
func (m *Manager) Sort(ctx context.Context, key catalog.SortKey) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("sort", &err)()

	if err := m.index.SortBy(key); err != nil {
		return err
	}
	return m.persist(ctx)
}

// Search runs q against the index.
func (m *Manager) Search(ctx context.Context, q catalog.Query) (recs []catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("search", &err)()

	return m.index.Search(q)
}

// Find returns the record called name and marks it accessed.
func (m *Manager) Find(ctx context.Context, name string) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("find", &err)()

	return m.index.Find(name)
}

// List returns every record in index order.
func (m *Manager) List(ctx context.Context) []catalog.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.List()
}

// Totals sums record sizes per category.
func (m *Manager) Totals(ctx context.Context) map[catalog.Category]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.TotalsByCategory()
}

// Stats summarizes file sizes.
func (m *Manager) Stats(ctx context.Context) catalog.SizeStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.SizeStats()
}

// Read refreshes a file's cached content from disk.
func (m *Manager) Read(ctx context.Context, name string) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("read", &err)()

	rec, err = m.record("read", name)
	if err != nil {
		return rec, err
	}
	if rec.IsDir {
		return catalog.Record{}, failure.Validation("read", name, failure.ErrIsDirectory)
	}

	data, err := m.store.ReadFile(ctx, name)
	if err != nil {
		return catalog.Record{}, failure.IO("read", name, err)
	}
	if !m.index.Hasher().Verify(data, rec.Checksum) {
		m.logger.Info("Content changed on disk", zap.String("name", name))
	}
	rec, err = m.index.SetContent(name, string(data))
	if err != nil {
		return rec, err
	}
	m.refreshGauges()
	return rec, nil
}

// Append adds content plus a newline to a document.
func (m *Manager) Append(ctx context.Context, name, content string) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("append", &err)()

	if err := m.checkEditable("append", name); err != nil {
		return catalog.Record{}, err
	}
	if err := m.store.AppendFile(ctx, name, []byte(content+"\n")); err != nil {
		return catalog.Record{}, failure.IO("append", name, err)
	}
	return m.reload(ctx, "append", name)
}

// Overwrite replaces a document's content.
func (m *Manager) Overwrite(ctx context.Context, name, content string) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("overwrite", &err)()

	if err := m.checkEditable("overwrite", name); err != nil {
		return catalog.Record{}, err
	}
	if err := m.store.WriteFile(ctx, name, []byte(content)); err != nil {
		return catalog.Record{}, failure.IO("overwrite", name, err)
	}
	rec, err = m.index.SetContent(name, content)
	if err != nil {
		return rec, err
	}
	m.refreshGauges()
	return rec, nil
}

// Touch refreshes a record's metadata. Files are re-read from disk.
func (m *Manager) Touch(ctx context.Context, name string) (rec catalog.Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.track("touch", &err)()

	rec, err = m.record("touch", name)
	if err != nil {
		return rec, err
	}
	if rec.IsDir {
		return m.index.Touch(name)
	}
	return m.reload(ctx, "touch", name)
}

func (m *Manager) checkEditable(op, name string) error {
	rec, err := m.record(op, name)
	if err != nil {
		return err
	}
	if rec.Category != catalog.Document {
		return failure.Validation(op, name, failure.ErrNotDocument)
	}
	return nil
}

func (m *Manager) reload(ctx context.Context, op, name string) (catalog.Record, error) {
	data, err := m.store.ReadFile(ctx, name)
	if err != nil {
		return catalog.Record{}, failure.IO(op, name, err)
	}
	rec, err := m.index.SetContent(name, string(data))
	if err != nil {
		return rec, err
	}
	m.refreshGauges()
	return rec, nil
}
