package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BilalX570/File-Management-System-Project/internal/domain/catalog"
	"github.com/BilalX570/File-Management-System-Project/internal/domain/recycle"
	"github.com/BilalX570/File-Management-System-Project/internal/infrastructure/monitoring"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
	"github.com/BilalX570/File-Management-System-Project/internal/shared/paths"
	"github.com/BilalX570/File-Management-System-Project/internal/storage"
	"github.com/BilalX570/File-Management-System-Project/internal/storage/local"
)

var errDiskFull = errors.New("disk full")

// flakyStore fails writes to selected keys.
type flakyStore struct {
	storage.Backend
	failWrite map[string]bool
}

func (f *flakyStore) WriteFile(ctx context.Context, key string, data []byte) error {
	if f.failWrite[key] {
		return errDiskFull
	}
	return f.Backend.WriteFile(ctx, key, data)
}

type env struct {
	root  string
	store *flakyStore
	mgr   *Manager
}

func newEnv(t *testing.T, cfg recycle.Config) *env {
	t.Helper()
	root := t.TempDir()
	backend, err := local.New(local.Config{RootPath: root})
	require.NoError(t, err)
	e := &env{root: root, store: &flakyStore{Backend: backend, failWrite: map[string]bool{}}}
	e.mgr = e.manager(t, cfg)
	return e
}

func (e *env) manager(t *testing.T, cfg recycle.Config) *Manager {
	t.Helper()
	ctx := context.Background()
	layout := paths.DefaultLayout()
	bin, err := recycle.Open(ctx, e.store, layout, cfg)
	require.NoError(t, err)
	return NewManager(e.store, layout, catalog.New(), bin, nil)
}

func (e *env) path(name string) string {
	return filepath.Join(e.root, filepath.FromSlash(name))
}

func (e *env) exists(name string) bool {
	_, err := os.Stat(e.path(name))
	return err == nil
}

func (e *env) manifest(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.path("files.txt"))
	require.NoError(t, err)
	return string(data)
}

func (e *env) names() []string {
	out := []string{}
	for _, r := range e.mgr.List(context.Background()) {
		out = append(out, r.Name)
	}
	return out
}

func TestCreatePositionsAndManifest(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "b.txt", "B", catalog.LastPosition)
	require.NoError(t, err)
	rec, err := e.mgr.CreateFile(ctx, "mid.txt", "middle", 1)
	require.NoError(t, err)

	assert.Equal(t, catalog.Document, rec.Category)
	assert.Equal(t, []string{"a.txt", "mid.txt", "b.txt"}, e.names())
	assert.Equal(t, "a.txt\nmid.txt\nb.txt\n", e.manifest(t))

	data, err := os.ReadFile(e.path("mid.txt"))
	require.NoError(t, err)
	assert.Equal(t, "middle", string(data))
}

func TestCreateRejections(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.path("stray.txt"), []byte("x"), 0644))

	tests := []struct {
		name     string
		entry    string
		position int
		kind     failure.Kind
		cause    error
	}{
		{"duplicate", "a.txt", catalog.LastPosition, failure.KindValidation, failure.ErrDuplicateName},
		{"on disk only", "stray.txt", catalog.LastPosition, failure.KindConflict, failure.ErrTargetOccupied},
		{"bad position", "c.txt", 5, failure.KindValidation, failure.ErrInvalidPosition},
		{"reserved manifest", "files.txt", catalog.LastPosition, failure.KindValidation, failure.ErrInvalidName},
		{"inside recycle dir", "recycle_bin/x.txt", catalog.LastPosition, failure.KindValidation, failure.ErrInvalidName},
		{"escapes root", "../x.txt", catalog.LastPosition, failure.KindValidation, failure.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.mgr.CreateFile(ctx, tt.entry, "data", tt.position)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.KindOf(err))
			assert.ErrorIs(t, err, tt.cause)
		})
	}

	assert.False(t, e.exists("c.txt"), "rejected create must not touch disk")
	assert.Equal(t, []string{"a.txt"}, e.names())
	assert.Equal(t, "a.txt\n", e.manifest(t))
}

func TestCreateDirectory(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	rec, err := e.mgr.CreateDirectory(ctx, "projects/2024", catalog.LastPosition)
	require.NoError(t, err)
	assert.Equal(t, catalog.Directory, rec.Category)
	assert.Zero(t, rec.Size)

	info, err := os.Stat(e.path("projects/2024"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDeleteStagesThenRestoreReinserts(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	for _, n := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := e.mgr.CreateFile(ctx, n, "content of "+n, catalog.LastPosition)
		require.NoError(t, err)
	}

	item, err := e.mgr.Delete(ctx, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", item.OriginalPath)

	_, err = e.mgr.Find(ctx, "b.txt")
	assert.True(t, failure.Is(err, failure.KindNotFound))
	assert.False(t, e.exists("b.txt"))
	assert.Equal(t, "a.txt\nc.txt\n", e.manifest(t))

	recycled := e.mgr.ListRecycled(ctx)
	require.Len(t, recycled, 1)
	assert.Equal(t, "b.txt", recycled[0].OriginalPath)

	rec, err := e.mgr.RestoreRecycled(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "content of b.txt", rec.Content)

	_, err = e.mgr.Find(ctx, "b.txt")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "c.txt", "b.txt"}, e.names())
	assert.Equal(t, "a.txt\nc.txt\nb.txt\n", e.manifest(t))
	assert.Empty(t, e.mgr.ListRecycled(ctx))
}

func TestDeleteWhenBinFullLeavesIndexUntouched(t *testing.T) {
	e := newEnv(t, recycle.Config{MaxItems: 1, MaxBytes: recycle.DefaultMaxBytes})
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "b.txt", "B", catalog.LastPosition)
	require.NoError(t, err)

	_, err = e.mgr.Delete(ctx, "a.txt")
	require.NoError(t, err)

	_, err = e.mgr.Delete(ctx, "b.txt")
	assert.True(t, failure.Is(err, failure.KindCapacity))
	assert.True(t, e.exists("b.txt"))
	assert.Equal(t, []string{"b.txt"}, e.names())
	assert.Equal(t, "b.txt\n", e.manifest(t))
}

func TestDeleteAt(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.DeleteAt(ctx, catalog.LastPosition)
	assert.True(t, failure.Is(err, failure.KindNotFound))

	for _, n := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := e.mgr.CreateFile(ctx, n, n, catalog.LastPosition)
		require.NoError(t, err)
	}

	item, err := e.mgr.DeleteAt(ctx, catalog.LastPosition)
	require.NoError(t, err)
	assert.Equal(t, "c.txt", item.OriginalPath)

	item, err = e.mgr.DeleteAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", item.OriginalPath)

	_, err = e.mgr.DeleteAt(ctx, 4)
	assert.ErrorIs(t, err, failure.ErrInvalidPosition)
	assert.Equal(t, []string{"b.txt"}, e.names())
}

func TestDeleteAllKeepsFailures(t *testing.T) {
	e := newEnv(t, recycle.Config{MaxItems: 2, MaxBytes: recycle.DefaultMaxBytes})
	ctx := context.Background()

	for _, n := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := e.mgr.CreateFile(ctx, n, n, catalog.LastPosition)
		require.NoError(t, err)
	}

	report, err := e.mgr.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Staged, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "c.txt", report.Failed[0].Name)
	assert.Equal(t, "capacity_exceeded", report.Failed[0].Kind)

	assert.Equal(t, []string{"c.txt"}, e.names())
	assert.Equal(t, "c.txt\n", e.manifest(t))
}

func TestRename(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "b.txt", "B", catalog.LastPosition)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.path("taken.png"), []byte("x"), 0644))

	_, err = e.mgr.Rename(ctx, "a.txt", "b.txt")
	assert.ErrorIs(t, err, failure.ErrDuplicateName)
	_, err = e.mgr.Rename(ctx, "zzz.txt", "q.txt")
	assert.True(t, failure.Is(err, failure.KindNotFound))
	_, err = e.mgr.Rename(ctx, "a.txt", "taken.png")
	assert.True(t, failure.Is(err, failure.KindConflict))

	rec, err := e.mgr.Rename(ctx, "a.txt", "pics/a.png")
	require.NoError(t, err)
	assert.Equal(t, catalog.Image, rec.Category)
	assert.False(t, e.exists("a.txt"))
	assert.True(t, e.exists("pics/a.png"))
	assert.Equal(t, "pics/a.png\nb.txt\n", e.manifest(t))
}

func TestSortPersistsOrder(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "big.txt", "0123456789", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "small.txt", "0", catalog.LastPosition)
	require.NoError(t, err)

	require.NoError(t, e.mgr.Sort(ctx, catalog.BySize))
	assert.Equal(t, "small.txt\nbig.txt\n", e.manifest(t))

	err = e.mgr.Sort(ctx, "colour")
	assert.True(t, failure.Is(err, failure.KindValidation))
}

func TestLoadRoundTrip(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "z.txt", "zz", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateDirectory(ctx, "dir", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "a.txt", "aa", catalog.LastPosition)
	require.NoError(t, err)

	// content changes between sessions are picked up from disk
	require.NoError(t, os.WriteFile(e.path("a.txt"), []byte("changed"), 0644))

	reloaded := e.manager(t, recycle.DefaultConfig())
	report, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Loaded)
	assert.Empty(t, report.Dropped)

	recs := reloaded.List(ctx)
	require.Len(t, recs, 3)
	assert.Equal(t, "z.txt", recs[0].Name)
	assert.True(t, recs[1].IsDir)
	assert.Equal(t, "changed", recs[2].Content)
}

func TestLoadDropsMissingAndDuplicates(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	require.NoError(t, os.WriteFile(e.path("a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(e.path("files.txt"), []byte("a.txt\n\ngone.txt\na.txt\n"), 0644))

	report, err := e.mgr.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, []string{"gone.txt"}, report.Dropped)
	assert.Equal(t, []string{"a.txt"}, report.Duplicates)
	assert.Equal(t, "a.txt\n", e.manifest(t))
}

func TestLoadWithoutManifest(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())

	report, err := e.mgr.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Loaded)
	assert.Empty(t, e.names())
}

func TestManifestWriteFailureKeepsMutation(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	e.store.failWrite["files.txt"] = true
	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	assert.True(t, failure.Is(err, failure.KindIO))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, []string{"a.txt"}, e.names())

	delete(e.store.failWrite, "files.txt")
	_, err = e.mgr.CreateFile(ctx, "b.txt", "B", catalog.LastPosition)
	require.NoError(t, err)
	assert.Equal(t, "a.txt\nb.txt\n", e.manifest(t))
}

func TestEditDocuments(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "notes.txt", "first\n", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "pic.png", "PNG", catalog.LastPosition)
	require.NoError(t, err)

	rec, err := e.mgr.Append(ctx, "notes.txt", "second")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", rec.Content)
	assert.Equal(t, 2, rec.Lines)

	rec, err = e.mgr.Overwrite(ctx, "notes.txt", "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.Size)

	data, err := os.ReadFile(e.path("notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	_, err = e.mgr.Append(ctx, "pic.png", "x")
	assert.ErrorIs(t, err, failure.ErrNotDocument)
	_, err = e.mgr.Overwrite(ctx, "missing.txt", "x")
	assert.True(t, failure.Is(err, failure.KindNotFound))
}

func TestReadAndTouch(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "old", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateDirectory(ctx, "d", catalog.LastPosition)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(e.path("a.txt"), []byte("newer content"), 0644))
	rec, err := e.mgr.Read(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "newer content", rec.Content)

	_, err = e.mgr.Read(ctx, "d")
	assert.ErrorIs(t, err, failure.ErrIsDirectory)

	rec, err = e.mgr.Touch(ctx, "d")
	require.NoError(t, err)
	assert.Zero(t, rec.Size)
}

func TestReadLogsExternalEdits(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	e.mgr.logger = zap.New(core)

	_, err := e.mgr.CreateFile(ctx, "a.txt", "same", catalog.LastPosition)
	require.NoError(t, err)

	_, err = e.mgr.Read(ctx, "a.txt")
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("Content changed on disk").Len())

	require.NoError(t, os.WriteFile(e.path("a.txt"), []byte("edited elsewhere"), 0644))
	rec, err := e.mgr.Read(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Content changed on disk").Len())
	assert.True(t, e.mgr.index.Hasher().Verify([]byte("edited elsewhere"), rec.Checksum))
}

func TestDirectoryCarriesManagedChildren(t *testing.T) {
	tests := []struct {
		name   string
		act    func(t *testing.T, e *env)
		names  []string
		absent []string
	}{
		{
			name: "delete stages children with the directory",
			act: func(t *testing.T, e *env) {
				item, err := e.mgr.Delete(context.Background(), "dir")
				require.NoError(t, err)
				assert.Equal(t, []string{"dir/a.txt", "dir/sub", "dir/sub/b.txt"}, item.Members)
			},
			names:  []string{"other.txt"},
			absent: []string{"dir", "dir/a.txt", "dir/sub/b.txt"},
		},
		{
			name: "delete all skips children already staged",
			act: func(t *testing.T, e *env) {
				report, err := e.mgr.DeleteAll(context.Background())
				require.NoError(t, err)
				assert.Len(t, report.Staged, 2)
				assert.Empty(t, report.Failed)
			},
			names:  []string{},
			absent: []string{"dir", "dir/a.txt", "other.txt"},
		},
		{
			name: "rename rewrites nested names",
			act: func(t *testing.T, e *env) {
				rec, err := e.mgr.Rename(context.Background(), "dir", "moved")
				require.NoError(t, err)
				assert.Equal(t, "moved", rec.Name)
				assert.Equal(t, catalog.Directory, rec.Category)

				child, err := e.mgr.Read(context.Background(), "moved/a.txt")
				require.NoError(t, err)
				assert.Equal(t, "alpha", child.Content)
			},
			names:  []string{"moved", "moved/a.txt", "other.txt", "moved/sub", "moved/sub/b.txt"},
			absent: []string{"dir", "dir/a.txt", "dir/sub/b.txt"},
		},
		{
			name: "restore re-indexes children",
			act: func(t *testing.T, e *env) {
				ctx := context.Background()
				_, err := e.mgr.Delete(ctx, "dir")
				require.NoError(t, err)
				rec, err := e.mgr.RestoreRecycled(ctx, 0)
				require.NoError(t, err)
				assert.Equal(t, "dir", rec.Name)

				child, err := e.mgr.Find(ctx, "dir/sub/b.txt")
				require.NoError(t, err)
				assert.Equal(t, "beta", child.Content)
			},
			names: []string{"other.txt", "dir", "dir/a.txt", "dir/sub", "dir/sub/b.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, recycle.DefaultConfig())
			ctx := context.Background()

			_, err := e.mgr.CreateDirectory(ctx, "dir", catalog.LastPosition)
			require.NoError(t, err)
			_, err = e.mgr.CreateFile(ctx, "dir/a.txt", "alpha", catalog.LastPosition)
			require.NoError(t, err)
			_, err = e.mgr.CreateFile(ctx, "other.txt", "other", catalog.LastPosition)
			require.NoError(t, err)
			_, err = e.mgr.CreateDirectory(ctx, "dir/sub", catalog.LastPosition)
			require.NoError(t, err)
			_, err = e.mgr.CreateFile(ctx, "dir/sub/b.txt", "beta", catalog.LastPosition)
			require.NoError(t, err)

			tt.act(t, e)

			assert.Equal(t, tt.names, e.names())
			want := ""
			if len(tt.names) > 0 {
				want = strings.Join(tt.names, "\n") + "\n"
			}
			assert.Equal(t, want, e.manifest(t))

			for _, n := range e.names() {
				assert.True(t, e.exists(n), "indexed %s is missing on disk", n)
			}
			for _, n := range tt.absent {
				assert.False(t, e.exists(n), n)
				_, err := e.mgr.Find(ctx, n)
				assert.True(t, failure.Is(err, failure.KindNotFound), n)
			}
		})
	}
}

func TestRenameDirectoryRejections(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateDirectory(ctx, "dir", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "dir/a.txt", "alpha", catalog.LastPosition)
	require.NoError(t, err)

	_, err = e.mgr.Rename(ctx, "dir", "dir/inner")
	assert.ErrorIs(t, err, failure.ErrInvalidName)

	_, err = e.mgr.Rename(ctx, "dir", "recycle_bin")
	assert.True(t, failure.Is(err, failure.KindValidation))

	assert.Equal(t, []string{"dir", "dir/a.txt"}, e.names())
	assert.True(t, e.exists("dir/a.txt"))
}

func TestPurgeThenRestoreFails(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	item, err := e.mgr.Delete(ctx, "a.txt")
	require.NoError(t, err)

	_, err = e.mgr.PurgeRecycled(ctx, 0, true)
	require.NoError(t, err)
	assert.False(t, e.exists(item.BackupPath))

	_, err = e.mgr.RestoreRecycled(ctx, 0)
	assert.ErrorIs(t, err, failure.ErrInvalidIndex)
}

func TestRestoreConflictWhenNameReused(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "first", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.Delete(ctx, "a.txt")
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "a.txt", "second", catalog.LastPosition)
	require.NoError(t, err)

	_, err = e.mgr.RestoreRecycled(ctx, 0)
	assert.True(t, failure.Is(err, failure.KindConflict))
	assert.Len(t, e.mgr.ListRecycled(ctx), 1)
}

func TestEmptyAndReclaim(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	for _, n := range []string{"a.txt", "b.txt"} {
		_, err := e.mgr.CreateFile(ctx, n, n, catalog.LastPosition)
		require.NoError(t, err)
		_, err = e.mgr.Delete(ctx, n)
		require.NoError(t, err)
	}

	_, err := e.mgr.PurgeRecycled(ctx, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, e.mgr.RecycleUsage(ctx).Orphans)

	report := e.mgr.EmptyRecycleBin(ctx)
	assert.Len(t, report.Purged, 1)
	assert.Len(t, report.Reclaimed, 1)

	usage := e.mgr.RecycleUsage(ctx)
	assert.Zero(t, usage.Items)
	assert.Zero(t, usage.Orphans)

	reclaim := e.mgr.ReclaimOrphans(ctx)
	assert.Empty(t, reclaim.Reclaimed)
}

func TestBrowse(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.path("loose.mp3"), []byte("x"), 0644))

	entries, err := e.mgr.Browse(ctx, "")
	require.NoError(t, err)

	byName := map[string]DirEntry{}
	for _, de := range entries {
		byName[de.Name] = de
	}
	assert.True(t, byName["a.txt"].Managed)
	assert.False(t, byName["loose.mp3"].Managed)
	assert.Equal(t, catalog.Audio, byName["loose.mp3"].Category)
	assert.NotContains(t, byName, "files.txt")
	assert.NotContains(t, byName, "recycle_bin")

	_, err = e.mgr.Browse(ctx, "nowhere")
	assert.True(t, failure.Is(err, failure.KindNotFound))
}

func TestSearchTotalsStats(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()

	_, err := e.mgr.CreateFile(ctx, "doc.txt", "hello world", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "img.png", "PNGDATA", catalog.LastPosition)
	require.NoError(t, err)

	recs, err := e.mgr.Search(ctx, catalog.Query{Kind: catalog.QueryContent, Term: "world"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "doc.txt", recs[0].Name)

	_, err = e.mgr.Search(ctx, catalog.Query{Kind: catalog.QuerySize, Min: 9, Max: 1})
	assert.ErrorIs(t, err, failure.ErrInvalidSizeRange)

	totals := e.mgr.Totals(ctx)
	assert.Equal(t, int64(11), totals[catalog.Document])
	assert.Equal(t, int64(7), totals[catalog.Image])

	assert.Equal(t, 2, e.mgr.Stats(ctx).Files)
}

func TestMetricsAreRecorded(t *testing.T) {
	e := newEnv(t, recycle.DefaultConfig())
	ctx := context.Background()
	metrics := monitoring.NewMetrics()
	e.mgr.WithMetrics(metrics)

	_, err := e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.NoError(t, err)
	_, err = e.mgr.CreateFile(ctx, "a.txt", "A", catalog.LastPosition)
	require.Error(t, err)
	_, err = e.mgr.Delete(ctx, "a.txt")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("create_file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OperationErrors.WithLabelValues("create_file", "validation")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.IndexRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecycleItems))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ManifestWrites.WithLabelValues("success")))
}
