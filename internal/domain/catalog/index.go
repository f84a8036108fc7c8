package catalog

import (
	"sync"
	"time"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/digest"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// LastPosition addresses the end of the index in InsertAt and RemoveAt.
const LastPosition = -1

// Handle is a stable reference to a record. It survives reordering and
// renames, and stops resolving once the record is removed.
type Handle struct {
	slot int
	gen  uint32
}

type slot struct {
	rec  Record
	gen  uint32
	live bool
}

// Index is an ordered, name-unique collection of records.
//
// Records live in an arena of slots. Order is a separate slice of handles,
// so positional operations and sorting never move record payloads between
// slots, and a name map gives constant-time lookup.
type Index struct {
	mu     sync.RWMutex
	slots  []slot
	free   []int
	order  []Handle
	byName map[string]Handle
	now    func() time.Time
	hasher *digest.Hasher
}

// Option configures an Index.
type Option func(*Index)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(ix *Index) { ix.now = now }
}

// WithHasher sets the checksum function for cached content.
func WithHasher(h *digest.Hasher) Option {
	return func(ix *Index) { ix.hasher = h }
}

// New creates an empty index. Checksums default to BLAKE2b.
func New(opts ...Option) *Index {
	ix := &Index{
		byName: make(map[string]Handle),
		now:    time.Now,
		hasher: digest.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Hasher returns the checksum function used for cached content.
func (ix *Index) Hasher() *digest.Hasher { return ix.hasher }

// Len returns the number of records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.order)
}

// Has reports whether name is indexed.
func (ix *Index) Has(name string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.byName[name]
	return ok
}

// Lookup returns the handle for name.
func (ix *Index) Lookup(name string) (Handle, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	h, ok := ix.byName[name]
	return h, ok
}

// Get resolves a handle. Stale handles report false.
func (ix *Index) Get(h Handle) (Record, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	rec := ix.resolve(h)
	if rec == nil {
		return Record{}, false
	}
	return *rec, true
}

// InsertAt creates a record and splices it at position.
// LastPosition appends.
func (ix *Index) InsertAt(e Entry, position int) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.byName[e.Name]; exists {
		return Record{}, failure.Validation("insert", e.Name, failure.ErrDuplicateName)
	}
	if position < LastPosition || position > len(ix.order) {
		return Record{}, failure.Validation("insert", e.Name, failure.ErrInvalidPosition)
	}
	if position == LastPosition {
		position = len(ix.order)
	}

	h := ix.alloc(newRecord(e, ix.now(), ix.hasher))
	ix.order = append(ix.order, Handle{})
	copy(ix.order[position+1:], ix.order[position:])
	ix.order[position] = h
	ix.byName[e.Name] = h

	return ix.slots[h.slot].rec, nil
}

// RemoveAt detaches the record at position. LastPosition removes the last.
//
// An empty index has nothing to remove at any position, so it fails with
// NotFound. On a non-empty index a position outside [LastPosition, Len())
// is a Validation failure wrapping ErrInvalidPosition.
func (ix *Index) RemoveAt(position int) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(ix.order) == 0 {
		return Record{}, failure.NotFound("remove", "", failure.ErrNotFound)
	}
	if position < LastPosition || position >= len(ix.order) {
		return Record{}, failure.Validation("remove", "", failure.ErrInvalidPosition)
	}
	if position == LastPosition {
		position = len(ix.order) - 1
	}
	return ix.detach(position), nil
}

// RemoveByName detaches the record called name.
func (ix *Index) RemoveByName(name string) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	pos := ix.positionOf(name)
	if pos < 0 {
		return Record{}, failure.NotFound("remove", name, failure.ErrNotFound)
	}
	return ix.detach(pos), nil
}

// Rename changes a record's name and re-derives its category.
func (ix *Index) Rename(oldName, newName string) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.byName[newName]; exists {
		return Record{}, failure.Validation("rename", newName, failure.ErrDuplicateName)
	}
	h, ok := ix.byName[oldName]
	if !ok {
		return Record{}, failure.NotFound("rename", oldName, failure.ErrNotFound)
	}

	rec := &ix.slots[h.slot].rec
	rec.Name = newName
	rec.Category = Classify(newName, rec.IsDir)
	rec.ModifiedAt = ix.now()

	delete(ix.byName, oldName)
	ix.byName[newName] = h
	return *rec, nil
}

// Find returns the record called name and marks it accessed.
func (ix *Index) Find(name string) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	h, ok := ix.byName[name]
	if !ok {
		return Record{}, failure.NotFound("find", name, failure.ErrNotFound)
	}
	rec := &ix.slots[h.slot].rec
	rec.LastAccessedAt = ix.now()
	return *rec, nil
}

// At returns the record at position without touching it.
func (ix *Index) At(position int) (Record, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if position == LastPosition {
		position = len(ix.order) - 1
	}
	if position < 0 || position >= len(ix.order) {
		return Record{}, failure.Validation("at", "", failure.ErrInvalidPosition)
	}
	return ix.slots[ix.order[position].slot].rec, nil
}

// SetContent replaces a file's cached content.
func (ix *Index) SetContent(name, content string) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	h, ok := ix.byName[name]
	if !ok {
		return Record{}, failure.NotFound("set content", name, failure.ErrNotFound)
	}
	rec := &ix.slots[h.slot].rec
	if rec.IsDir {
		return Record{}, failure.Validation("set content", name, failure.ErrIsDirectory)
	}
	now := ix.now()
	rec.setContent(content, ix.hasher)
	rec.ModifiedAt = now
	rec.LastAccessedAt = now
	return *rec, nil
}

// Touch recomputes derived fields and bumps the modified and accessed times.
func (ix *Index) Touch(name string) (Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	h, ok := ix.byName[name]
	if !ok {
		return Record{}, failure.NotFound("touch", name, failure.ErrNotFound)
	}
	rec := &ix.slots[h.slot].rec
	now := ix.now()
	rec.setContent(rec.Content, ix.hasher)
	rec.ModifiedAt = now
	rec.LastAccessedAt = now
	return *rec, nil
}

// List returns every record in index order.
func (ix *Index) List() []Record {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Record, 0, len(ix.order))
	for _, h := range ix.order {
		out = append(out, ix.slots[h.slot].rec)
	}
	return out
}

// Names returns every name in index order.
func (ix *Index) Names() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]string, 0, len(ix.order))
	for _, h := range ix.order {
		out = append(out, ix.slots[h.slot].rec.Name)
	}
	return out
}

// Clear drops every record.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for len(ix.order) > 0 {
		ix.detach(len(ix.order) - 1)
	}
}

func (ix *Index) alloc(rec Record) Handle {
	if n := len(ix.free); n > 0 {
		i := ix.free[n-1]
		ix.free = ix.free[:n-1]
		s := &ix.slots[i]
		s.gen++
		s.rec = rec
		s.live = true
		return Handle{slot: i, gen: s.gen}
	}
	ix.slots = append(ix.slots, slot{rec: rec, live: true})
	return Handle{slot: len(ix.slots) - 1}
}

func (ix *Index) detach(position int) Record {
	h := ix.order[position]
	s := &ix.slots[h.slot]
	rec := s.rec

	ix.order = append(ix.order[:position], ix.order[position+1:]...)
	delete(ix.byName, rec.Name)

	s.rec = Record{}
	s.live = false
	ix.free = append(ix.free, h.slot)
	return rec
}

func (ix *Index) resolve(h Handle) *Record {
	if h.slot < 0 || h.slot >= len(ix.slots) {
		return nil
	}
	s := &ix.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return &s.rec
}

func (ix *Index) positionOf(name string) int {
	h, ok := ix.byName[name]
	if !ok {
		return -1
	}
	for i, oh := range ix.order {
		if oh == h {
			return i
		}
	}
	return -1
}
