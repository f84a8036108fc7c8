package catalog

import (
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/digest"
)

// Entry is the input for a new record.
type Entry struct {
	Name    string
	Content string
	IsDir   bool
}

// Record is one managed file or directory.
type Record struct {
	Name           string    `json:"name"`
	Content        string    `json:"content,omitempty"`
	Size           int64     `json:"size"`
	Lines          int       `json:"lines"`
	Category       Category  `json:"category"`
	MIME           string    `json:"mime,omitempty"`
	Checksum       string    `json:"checksum,omitempty"`
	IsDir          bool      `json:"is_dir"`
	CreatedAt      time.Time `json:"created_at"`
	ModifiedAt     time.Time `json:"modified_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

func newRecord(e Entry, now time.Time, hasher *digest.Hasher) Record {
	r := Record{
		Name:       e.Name,
		IsDir:      e.IsDir,
		Category:   Classify(e.Name, e.IsDir),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	r.setContent(e.Content, hasher)
	r.LastAccessedAt = now
	return r
}

// setContent replaces the cached payload and refreshes derived fields.
// Directories never carry content.
func (r *Record) setContent(content string, hasher *digest.Hasher) {
	if r.IsDir {
		r.Content = ""
		r.Size = 0
		r.Lines = 0
		r.MIME = ""
		r.Checksum = ""
		return
	}
	r.Content = content
	r.Size = int64(len(content))
	r.Lines = countLines(content)
	data := []byte(content)
	r.MIME = mimetype.Detect(data).String()
	r.Checksum = hasher.Hash(data)
}

// Snapshot returns the record without its content.
func (r Record) Snapshot() Record {
	r.Content = ""
	return r
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
