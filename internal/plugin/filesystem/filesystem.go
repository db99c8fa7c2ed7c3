// Package filesystem gives the front-end file access scoped to the
// application data directory.
package filesystem

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// TimeFormat is the layout of the timestamps in FileInfo.
const TimeFormat = "2006-01-02 15:04:05"

// Entry types.
const (
	TypeDir   = "dir"
	TypeFile  = "file"
	TypeImage = "img"
)

// maxUniqueSuffix bounds the "(n)" suffix; the last name tried is "(9998)".
const maxUniqueSuffix = 9999

// sniffLen is the header size filetype needs to detect a format.
const sniffLen = 261

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg"}

// FileInfo holds the formatted timestamps and size of an entry.
type FileInfo struct {
	Atime     string `json:"atime"`
	Mtime     string `json:"mtime"`
	Birthtime string `json:"birthtime"`
	Size      int64  `json:"size"`
}

// Entry describes a file or directory under the data dir.
type Entry struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	FullPath string   `json:"fullPath"`
	Type     string   `json:"type"`
	Ext      string   `json:"ext,omitempty"`
	URL      string   `json:"url,omitempty"`
	Count    int      `json:"count"`
	Info     FileInfo `json:"info"`

	latest time.Time
}

// Plugin is the scoped filesystem service.
type Plugin struct {
	dataDir string
	root    string
	log     *zap.Logger
}

// New returns the filesystem plugin rooted at the host data dir.
func New(host *plugin.Host) *Plugin {
	return &Plugin{dataDir: host.DataDir, log: host.Logger(plugin.FS)}
}

func (p *Plugin) Name() string { return plugin.FS }

// Init creates the data dir and fixes the scope root.
func (p *Plugin) Init() error {
	if p.dataDir == "" {
		return errors.New("filesystem: no data dir")
	}
	if err := os.MkdirAll(p.dataDir, 0755); err != nil {
		return fmt.Errorf("filesystem: %w", err)
	}
	root, err := resolveRoot(p.dataDir)
	if err != nil {
		return fmt.Errorf("filesystem: %w", err)
	}
	p.root = root
	return nil
}

// Resolve maps a relative path to an absolute path inside the scope.
func (p *Plugin) Resolve(rel string) (string, error) {
	if p.root == "" {
		return "", errors.New("filesystem: not initialized")
	}
	return sanitizePath(p.root, rel)
}

// ReadDir lists a directory, directories first, then by name.
func (p *Plugin) ReadDir(dir string) ([]Entry, error) {
	abs, err := p.Resolve(dir)
	if err != nil {
		return nil, err
	}
	des, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		e, err := p.entry(filepath.Join(abs, de.Name()))
		if err != nil {
			p.log.Debug("skipping unreadable entry", zap.String("name", de.Name()), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Type == TypeDir, entries[j].Type == TypeDir
		if di != dj {
			return di
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Stat describes a single path.
func (p *Plugin) Stat(rel string) (*Entry, error) {
	abs, err := p.Resolve(rel)
	if err != nil {
		return nil, err
	}
	e, err := p.entry(abs)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Exists reports whether the path exists. Out-of-scope paths never exist.
func (p *Plugin) Exists(rel string) bool {
	abs, err := p.Resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Mkdir creates a directory, with parents when recursive is set.
func (p *Plugin) Mkdir(rel string, recursive bool) error {
	abs, err := p.Resolve(rel)
	if err != nil {
		return err
	}
	if recursive {
		return os.MkdirAll(abs, 0755)
	}
	return os.Mkdir(abs, 0755)
}

// ReadFile returns the content of a file.
func (p *Plugin) ReadFile(rel string) ([]byte, error) {
	abs, err := p.Resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

// WriteFile writes data to a file, creating parent directories.
func (p *Plugin) WriteFile(rel string, data []byte) error {
	abs, err := p.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return err
	}
	p.log.Debug("file written", zap.String("path", rel), zap.Int("size", len(data)))
	return nil
}

// Remove deletes a file or directory. The data dir itself cannot be removed.
// A symlink is removed itself, never its target.
func (p *Plugin) Remove(rel string, recursive bool) error {
	if p.root == "" {
		return errors.New("filesystem: not initialized")
	}
	abs, err := sanitizeLeaf(p.root, rel)
	if err != nil {
		return err
	}
	if abs == p.root {
		return fmt.Errorf("filesystem: refusing to remove data dir")
	}
	if recursive {
		return os.RemoveAll(abs)
	}
	return os.Remove(abs)
}

// UniquePath returns a path in dir for name that does not exist yet,
// appending "(n)" before the extension on collisions.
func (p *Plugin) UniquePath(dir, name string) (string, error) {
	if name == "" {
		return "", errors.New("filesystem: empty file name")
	}
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 && i < len(name)-1 {
		base, ext = name[:i], name[i:]
	}

	candidate := path.Join(dir, name)
	for n := 1; p.Exists(candidate); n++ {
		if n >= maxUniqueSuffix {
			return "", fmt.Errorf("filesystem: no free name for %s in %q", name, dir)
		}
		candidate = path.Join(dir, fmt.Sprintf("%s(%d)%s", base, n, ext))
	}
	if _, err := p.Resolve(candidate); err != nil {
		return "", err
	}
	return candidate, nil
}

// AllFiles returns every regular file below dir.
func (p *Plugin) AllFiles(dir string) ([]Entry, error) {
	abs, err := p.Resolve(dir)
	if err != nil {
		return nil, err
	}

	var files []Entry
	err = filepath.WalkDir(abs, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			p.log.Debug("walk error", zap.String("path", fp), zap.Error(err))
			if d != nil && d.IsDir() && fp != abs {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		e, err := p.entry(fp)
		if err != nil {
			return nil
		}
		files = append(files, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// RecentFiles returns up to limit files below dir touched within the last
// days days, newest first. Zero or negative arguments use 20 and 30.
func (p *Plugin) RecentFiles(dir string, limit int, days int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	if days <= 0 {
		days = 30
	}
	files, err := p.AllFiles(dir)
	if err != nil {
		return nil, err
	}

	threshold := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	recent := slices.DeleteFunc(files, func(e Entry) bool { return e.latest.Before(threshold) })
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].latest.After(recent[j].latest) })
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// Hash returns the BLAKE2b-256 digest of a file as hex.
func (p *Plugin) Hash(rel string) (string, error) {
	abs, err := p.Resolve(rel)
	if err != nil {
		return "", err
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (p *Plugin) entry(abs string) (Entry, error) {
	fi, err := os.Stat(abs)
	if err != nil {
		return Entry{}, err
	}
	atime, birthtime := fileTimes(abs, fi)
	mtime := fi.ModTime()

	e := Entry{
		Name:     fi.Name(),
		Path:     relPath(p.root, abs),
		FullPath: abs,
		Info: FileInfo{
			Atime:     atime.Format(TimeFormat),
			Mtime:     mtime.Format(TimeFormat),
			Birthtime: birthtime.Format(TimeFormat),
			Size:      fi.Size(),
		},
		latest: latest(atime, mtime, birthtime),
	}

	if fi.IsDir() {
		e.Type = TypeDir
		if children, err := os.ReadDir(abs); err == nil {
			e.Count = len(children)
		}
		return e, nil
	}

	e.Ext = strings.TrimPrefix(filepath.Ext(fi.Name()), ".")
	e.Type = classify(abs, fi.Name())
	if e.Type == TypeImage {
		e.URL = assetURL(e.Path)
	}
	return e, nil
}

// classify sniffs the file header and falls back to the extension.
func classify(abs, name string) string {
	if f, err := os.Open(abs); err == nil {
		head := make([]byte, sniffLen)
		n, _ := io.ReadFull(f, head)
		f.Close()
		if n > 0 && filetype.IsImage(head[:n]) {
			return TypeImage
		}
	}
	if slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(name))) {
		return TypeImage
	}
	return TypeFile
}

func latest(ts ...time.Time) time.Time {
	var t time.Time
	for _, x := range ts {
		if x.After(t) {
			t = x
		}
	}
	return t
}
