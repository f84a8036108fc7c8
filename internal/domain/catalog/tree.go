package catalog

import (
	"strings"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// IsDescendant reports whether name lies strictly below dir. Names are
// clean slash-separated paths.
func IsDescendant(name, dir string) bool {
	return strings.HasPrefix(name, dir+"/")
}

// Rebase moves name from below oldDir to below newDir. Names outside
// oldDir are returned unchanged.
func Rebase(name, oldDir, newDir string) string {
	if !IsDescendant(name, oldDir) {
		return name
	}
	return newDir + name[len(oldDir):]
}

// Descendants returns the names nested under dir, in index order.
func (ix *Index) Descendants(dir string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []string
	for _, h := range ix.order {
		if name := ix.slots[h.slot].rec.Name; IsDescendant(name, dir) {
			out = append(out, name)
		}
	}
	return out
}

// RenameTree renames oldName and every record nested under it. Positions
// are kept and the renamed root is returned first. Nothing changes unless
// every new name is free.
func (ix *Index) RenameTree(oldName, newName string) ([]Record, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if newName == oldName || IsDescendant(newName, oldName) {
		return nil, failure.Validation("rename", newName, failure.ErrInvalidName)
	}
	root, ok := ix.byName[oldName]
	if !ok {
		return nil, failure.NotFound("rename", oldName, failure.ErrNotFound)
	}

	moved := map[Handle]string{root: newName}
	order := []Handle{root}
	for _, h := range ix.order {
		if name := ix.slots[h.slot].rec.Name; IsDescendant(name, oldName) {
			moved[h] = Rebase(name, oldName, newName)
			order = append(order, h)
		}
	}
	for _, target := range moved {
		if h, taken := ix.byName[target]; taken {
			if _, leaving := moved[h]; !leaving {
				return nil, failure.Validation("rename", target, failure.ErrDuplicateName)
			}
		}
	}

	for h := range moved {
		delete(ix.byName, ix.slots[h.slot].rec.Name)
	}
	now := ix.now()
	out := make([]Record, 0, len(order))
	for _, h := range order {
		rec := &ix.slots[h.slot].rec
		rec.Name = moved[h]
		rec.Category = Classify(rec.Name, rec.IsDir)
		rec.ModifiedAt = now
		ix.byName[rec.Name] = h
		out = append(out, *rec)
	}
	return out, nil
}
