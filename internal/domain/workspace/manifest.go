package workspace

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/BilalX570/File-Management-System-Project/internal/storage"
)

// readManifest returns the names listed in the manifest, in order. Blank
// lines are skipped. A missing manifest is an empty workspace.
func readManifest(ctx context.Context, store storage.Backend, path string) ([]string, error) {
	data, err := store.ReadFile(ctx, path)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// writeManifest replaces the manifest with names, one per line.
func writeManifest(ctx context.Context, store storage.Backend, path string, names []string) error {
	var buf bytes.Buffer
	for _, n := range names {
		buf.WriteString(n)
		buf.WriteByte('\n')
	}
	return store.WriteFile(ctx, path, buf.Bytes())
}
