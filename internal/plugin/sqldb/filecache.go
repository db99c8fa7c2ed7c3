package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the layout of the timestamps stored in files_cache.
const TimeFormat = "2006-01-02 15:04:05"

const filesCacheSchema = `
CREATE TABLE IF NOT EXISTS files_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	relative_path TEXT NOT NULL UNIQUE,
	tags TEXT DEFAULT '',
	recognized_text TEXT DEFAULT '',
	recognized_block TEXT DEFAULT '',
	recognized_update TEXT DEFAULT '',
	atime TEXT,
	mtime TEXT,
	birthtime TEXT
)`

// FileRecord is a cached file with its OCR result. RecognizedBlock holds the
// raw recognition blocks as JSON text.
type FileRecord struct {
	ID               int64  `json:"id"`
	RelativePath     string `json:"relative_path"`
	Tags             string `json:"tags"`
	RecognizedText   string `json:"recognized_text"`
	RecognizedBlock  string `json:"recognized_block"`
	RecognizedUpdate string `json:"recognized_update"`
	Atime            string `json:"atime"`
	Mtime            string `json:"mtime"`
	Birthtime        string `json:"birthtime"`
}

// FileCache stores FileRecords in the files_cache table.
type FileCache struct {
	db  *sql.DB
	now func() time.Time
}

// NewFileCache creates the table if needed.
func NewFileCache(db *sql.DB) (*FileCache, error) {
	if _, err := db.Exec(filesCacheSchema); err != nil {
		return nil, fmt.Errorf("failed to create files_cache: %w", err)
	}
	return &FileCache{db: db, now: time.Now}, nil
}

// NormalizePath converts backslashes to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Add inserts rec and returns the new id. The recognition and access times
// are set to now; missing mtime and birthtime default to now as well.
func (c *FileCache) Add(rec FileRecord) (int64, error) {
	now := c.now().Format(TimeFormat)
	res, err := c.db.Exec(
		`INSERT INTO files_cache (relative_path, tags, recognized_text, recognized_block, recognized_update, atime, mtime, birthtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		NormalizePath(rec.RelativePath),
		rec.Tags,
		rec.RecognizedText,
		rec.RecognizedBlock,
		now,
		now,
		orDefault(rec.Mtime, now),
		orDefault(rec.Birthtime, now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add %s: %w", rec.RelativePath, err)
	}
	return res.LastInsertId()
}

// Update rewrites the record with the same relative path and returns the
// number of rows changed.
func (c *FileCache) Update(rec FileRecord) (int64, error) {
	now := c.now().Format(TimeFormat)
	res, err := c.db.Exec(
		`UPDATE files_cache SET tags = ?, recognized_text = ?, recognized_block = ?, recognized_update = ?, atime = ?, mtime = ?, birthtime = ?
		WHERE relative_path = ?`,
		rec.Tags,
		rec.RecognizedText,
		rec.RecognizedBlock,
		now,
		now,
		orDefault(rec.Mtime, now),
		orDefault(rec.Birthtime, now),
		NormalizePath(rec.RelativePath),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", rec.RelativePath, err)
	}
	return res.RowsAffected()
}

// GetByPath returns the record for a path, or nil if there is none.
func (c *FileCache) GetByPath(relativePath string) (*FileRecord, error) {
	var r FileRecord
	err := c.db.QueryRow(
		`SELECT id, relative_path, COALESCE(tags, ''), COALESCE(recognized_text, ''), COALESCE(recognized_block, ''),
			COALESCE(recognized_update, ''), COALESCE(atime, ''), COALESCE(mtime, ''), COALESCE(birthtime, '')
		FROM files_cache WHERE relative_path = ?`,
		NormalizePath(relativePath),
	).Scan(&r.ID, &r.RelativePath, &r.Tags, &r.RecognizedText, &r.RecognizedBlock,
		&r.RecognizedUpdate, &r.Atime, &r.Mtime, &r.Birthtime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteByPath removes the record for a path and returns the rows removed.
func (c *FileCache) DeleteByPath(relativePath string) (int64, error) {
	res, err := c.db.Exec(`DELETE FROM files_cache WHERE relative_path = ?`, NormalizePath(relativePath))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
