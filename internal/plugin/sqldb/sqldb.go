// Package sqldb gives the front-end access to SQLite databases stored in the
// application data directory.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite"
)

// CacheDSN is the database preloaded at startup.
const CacheDSN = "sqlite:user/cache.db"

const (
	schemeSQLite = "sqlite:"
	memoryPath   = ":memory:"
)

var (
	// ErrUnsupportedScheme is returned for DSNs other than sqlite:.
	ErrUnsupportedScheme = errors.New("unsupported database scheme")
	// ErrNotLoaded is returned when a DSN is used before Load.
	ErrNotLoaded = errors.New("database not loaded")
)

// QueryResult is returned by Execute.
type QueryResult struct {
	RowsAffected int64 `json:"rowsAffected"`
	LastInsertID int64 `json:"lastInsertId"`
}

// Plugin manages the open database handles, keyed by DSN.
type Plugin struct {
	dataDir string
	log     *zap.Logger

	mu    sync.Mutex
	dbs   map[string]*sql.DB
	group singleflight.Group

	cache *FileCache
}

// New returns the SQL plugin for the host data dir.
func New(host *plugin.Host) *Plugin {
	return &Plugin{
		dataDir: host.DataDir,
		log:     host.Logger(plugin.SQL),
		dbs:     make(map[string]*sql.DB),
	}
}

func (p *Plugin) Name() string { return plugin.SQL }

// Init opens the cache database and creates its schema.
func (p *Plugin) Init() error {
	_, err := p.Load(CacheDSN)
	return err
}

// Shutdown closes every open database.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache = nil
	var errs []error
	for dsn, db := range p.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", dsn, err))
		}
		delete(p.dbs, dsn)
	}
	return errors.Join(errs...)
}

// Cache returns the file cache repository, or nil while the cache
// database is closed.
func (p *Plugin) Cache() *FileCache {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache
}

// Load opens the database for dsn unless it is already open, and returns
// the dsn to use as a handle. Concurrent loads of one dsn open it once.
// Loading CacheDSN also (re)creates the file cache repository.
func (p *Plugin) Load(dsn string) (string, error) {
	if _, err := p.handle(dsn); err == nil {
		return dsn, nil
	}

	_, err, _ := p.group.Do(dsn, func() (interface{}, error) {
		if db, err := p.handle(dsn); err == nil {
			return db, nil
		}
		path, err := p.resolve(dsn)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// one connection keeps :memory: databases shared and serializes writers
		db.SetMaxOpenConns(1)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
		}

		var cache *FileCache
		if dsn == CacheDSN {
			if cache, err = NewFileCache(db); err != nil {
				db.Close()
				return nil, err
			}
		}

		p.mu.Lock()
		p.dbs[dsn] = db
		if cache != nil {
			p.cache = cache
		}
		p.mu.Unlock()
		p.log.Info("database loaded", zap.String("dsn", dsn))
		return db, nil
	})
	if err != nil {
		return "", err
	}
	return dsn, nil
}

// Execute runs a statement that returns no rows.
func (p *Plugin) Execute(dsn string, query string, args []interface{}) (*QueryResult, error) {
	db, err := p.handle(dsn)
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	affected, _ := res.RowsAffected()
	lastID, _ := res.LastInsertId()
	return &QueryResult{RowsAffected: affected, LastInsertID: lastID}, nil
}

// Select runs a query and returns each row as a column-name map.
func (p *Plugin) Select(dsn string, query string, args []interface{}) ([]map[string]interface{}, error) {
	db, err := p.handle(dsn)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]interface{}{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close closes the database for dsn. It reports whether one was open.
func (p *Plugin) Close(dsn string) (bool, error) {
	p.mu.Lock()
	db, ok := p.dbs[dsn]
	delete(p.dbs, dsn)
	if ok && dsn == CacheDSN {
		p.cache = nil
	}
	p.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, db.Close()
}

// AddFile inserts a file cache record and returns its id.
func (p *Plugin) AddFile(rec FileRecord) (int64, error) {
	cache := p.Cache()
	if cache == nil {
		return 0, ErrNotLoaded
	}
	return cache.Add(rec)
}

// UpdateFile updates the record matching rec.RelativePath.
func (p *Plugin) UpdateFile(rec FileRecord) (int64, error) {
	cache := p.Cache()
	if cache == nil {
		return 0, ErrNotLoaded
	}
	return cache.Update(rec)
}

// GetFile returns the record for a path, or nil.
func (p *Plugin) GetFile(relativePath string) (*FileRecord, error) {
	cache := p.Cache()
	if cache == nil {
		return nil, ErrNotLoaded
	}
	return cache.GetByPath(relativePath)
}

// DeleteFile removes the record for a path.
func (p *Plugin) DeleteFile(relativePath string) (int64, error) {
	cache := p.Cache()
	if cache == nil {
		return 0, ErrNotLoaded
	}
	return cache.DeleteByPath(relativePath)
}

func (p *Plugin) handle(dsn string) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	db, ok := p.dbs[dsn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, dsn)
	}
	return db, nil
}

// resolve maps a dsn to a file path under the data dir.
func (p *Plugin) resolve(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, schemeSQLite)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, dsn)
	}
	if rest == "" {
		return "", fmt.Errorf("empty database path in %q", dsn)
	}
	if rest == memoryPath {
		return memoryPath, nil
	}
	if p.dataDir == "" {
		return "", errors.New("sqldb: no data dir")
	}

	rel := filepath.Clean(filepath.FromSlash(rest))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("database path %q must stay inside the data dir", rest)
	}
	path := filepath.Join(p.dataDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return path, nil
}
