package filesystem

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideScope is returned for paths that resolve outside the data dir.
var ErrOutsideScope = errors.New("path outside scope")

// resolveRoot returns the absolute, symlink-free form of root.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// sanitizePath resolves a requested slash path against root and ensures the
// target is within root, following symlinks where they exist. root must
// come from resolveRoot.
func sanitizePath(root string, req string) (string, error) {
	if req == "" {
		req = "."
	}
	req = strings.ReplaceAll(req, "\\", "/")
	if strings.HasPrefix(req, "/") || filepath.IsAbs(req) || filepath.VolumeName(req) != "" {
		return "", ErrOutsideScope
	}
	candidate := filepath.Join(root, filepath.FromSlash(req))
	resolved := resolveExisting(candidate)
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideScope
	}
	return resolved, nil
}

// sanitizeLeaf is sanitizePath for operations on the entry itself: the
// parent is resolved and scope checked, the final element is not followed,
// so a symlink names the link rather than its target.
func sanitizeLeaf(root string, req string) (string, error) {
	req = strings.ReplaceAll(req, "\\", "/")
	if strings.HasPrefix(req, "/") || filepath.IsAbs(req) || filepath.VolumeName(req) != "" {
		return "", ErrOutsideScope
	}
	clean := path.Clean(req)
	if clean == "." {
		return root, nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrOutsideScope
	}
	dir, name := path.Split(clean)
	parent, err := sanitizePath(root, dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, name), nil
}

// resolveExisting follows symlinks in the longest existing prefix of p, so a
// path that does not exist yet is still checked through its parents.
func resolveExisting(p string) string {
	var missing []string
	for cur := p; ; {
		if r, err := filepath.EvalSymlinks(cur); err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				r = filepath.Join(r, missing[i])
			}
			return r
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		missing = append(missing, filepath.Base(cur))
		cur = parent
	}
}

// relPath converts an absolute path under root back to a slash path.
func relPath(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
