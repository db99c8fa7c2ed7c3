package sqldb

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap/zaptest"
)

func newPlugin(t *testing.T) *Plugin {
	t.Helper()
	p := New(&plugin.Host{Log: zaptest.NewLogger(t), DataDir: t.TempDir()})
	require.NoError(t, p.Init())
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func TestInitCreatesCacheDatabase(t *testing.T) {
	p := newPlugin(t)
	_, err := os.Stat(filepath.Join(p.dataDir, "user", "cache.db"))
	require.NoError(t, err)
	require.NotNil(t, p.Cache())

	rows, err := p.Select(CacheDSN, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", []interface{}{"files_cache"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLoadRejectsBadDSN(t *testing.T) {
	p := newPlugin(t)

	_, err := p.Load("postgres://localhost/db")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
	_, err = p.Load("mysql:user@tcp(localhost)/db")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
	_, err = p.Load("sqlite:")
	assert.Error(t, err)
	_, err = p.Load("sqlite:../outside.db")
	assert.Error(t, err)
}

func TestExecuteAndSelect(t *testing.T) {
	p := newPlugin(t)
	dsn, err := p.Load("sqlite:test.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite:test.db", dsn)

	_, err = p.Execute(dsn, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT, data BLOB)", nil)
	require.NoError(t, err)

	res, err := p.Execute(dsn, "INSERT INTO items (name, data) VALUES (?, ?)", []interface{}{"first", []byte("raw")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, int64(1), res.LastInsertID)

	res, err = p.Execute(dsn, "INSERT INTO items (name) VALUES (?), (?)", []interface{}{"second", "third"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)

	rows, err := p.Select(dsn, "SELECT id, name, data FROM items ORDER BY id", nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "first", rows[0]["name"])
	assert.Equal(t, "raw", rows[0]["data"])
	assert.Nil(t, rows[1]["data"])

	rows, err = p.Select(dsn, "SELECT id FROM items WHERE name = ?", []interface{}{"missing"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNotLoaded(t *testing.T) {
	p := newPlugin(t)
	_, err := p.Execute("sqlite:other.db", "SELECT 1", nil)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = p.Select("sqlite:other.db", "SELECT 1", nil)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestConcurrentLoadOpensOnce(t *testing.T) {
	p := newPlugin(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Load("sqlite::memory:")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err := p.Execute("sqlite::memory:", "CREATE TABLE t (v INTEGER)", nil)
	require.NoError(t, err)
	_, err = p.Execute("sqlite::memory:", "INSERT INTO t VALUES (1)", nil)
	require.NoError(t, err)
	rows, err := p.Select("sqlite::memory:", "SELECT v FROM t", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestClose(t *testing.T) {
	p := newPlugin(t)
	_, err := p.Load("sqlite:a.db")
	require.NoError(t, err)

	closed, err := p.Close("sqlite:a.db")
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = p.Close("sqlite:a.db")
	require.NoError(t, err)
	assert.False(t, closed)

	_, err = p.Close(CacheDSN)
	require.NoError(t, err)
	_, err = p.GetFile("x")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestReloadCacheDatabase(t *testing.T) {
	p := newPlugin(t)
	id, err := p.AddFile(FileRecord{RelativePath: "user/a.png", Tags: "other"})
	require.NoError(t, err)

	_, err = p.Close(CacheDSN)
	require.NoError(t, err)
	_, err = p.AddFile(FileRecord{RelativePath: "user/b.png"})
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = p.Load(CacheDSN)
	require.NoError(t, err)
	rec, err := p.GetFile("user/a.png")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, id, rec.ID)
	_, err = p.AddFile(FileRecord{RelativePath: "user/b.png"})
	assert.NoError(t, err)
}

func TestCacheCloseWhileInUse(t *testing.T) {
	p := newPlugin(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = p.GetFile("user/a.png")
		}()
		go func() {
			defer wg.Done()
			_, _ = p.Close(CacheDSN)
			_, _ = p.Load(CacheDSN)
		}()
	}
	wg.Wait()

	_, err := p.Load(CacheDSN)
	require.NoError(t, err)
	_, err = p.GetFile("user/a.png")
	assert.NoError(t, err)
}

func TestFileCache(t *testing.T) {
	p := newPlugin(t)
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	p.Cache().now = func() time.Time { return fixed }

	id, err := p.AddFile(FileRecord{
		RelativePath:    `scans\2025\page.png`,
		Tags:            "passport",
		RecognizedText:  "PASSPORT",
		RecognizedBlock: `{"blocks":[]}`,
		Mtime:           "2025-01-01 00:00:00",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	rec, err := p.GetFile("scans/2025/page.png")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "scans/2025/page.png", rec.RelativePath)
	assert.Equal(t, "passport", rec.Tags)
	assert.Equal(t, "2025-03-01 09:30:00", rec.RecognizedUpdate)
	assert.Equal(t, "2025-03-01 09:30:00", rec.Atime)
	assert.Equal(t, "2025-01-01 00:00:00", rec.Mtime)
	assert.Equal(t, "2025-03-01 09:30:00", rec.Birthtime)

	_, err = p.AddFile(FileRecord{RelativePath: "scans/2025/page.png"})
	assert.Error(t, err, "relative_path is unique")

	n, err := p.UpdateFile(FileRecord{RelativePath: `scans\2025\page.png`, Tags: "contract"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	rec, err = p.GetFile(`scans\2025\page.png`)
	require.NoError(t, err)
	assert.Equal(t, "contract", rec.Tags)
	assert.Empty(t, rec.RecognizedText)

	n, err = p.DeleteFile("scans/2025/page.png")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err = p.GetFile("scans/2025/page.png")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
