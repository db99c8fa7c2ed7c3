package filesystem

// API is the fs plugin surface bound to the front-end. All paths are
// relative to the data dir.
type API struct {
	p *Plugin
}

// API returns the front-end API of the plugin.
func (p *Plugin) API() interface{} { return &API{p: p} }

func (a *API) ReadDir(dir string) ([]Entry, error) { return a.p.ReadDir(dir) }
func (a *API) Stat(path string) (*Entry, error) { return a.p.Stat(path) }
func (a *API) Exists(path string) bool { return a.p.Exists(path) }
func (a *API) Mkdir(path string, recursive bool) error { return a.p.Mkdir(path, recursive) }
func (a *API) ReadFile(path string) ([]byte, error) { return a.p.ReadFile(path) }
func (a *API) WriteFile(path string, data []byte) error { return a.p.WriteFile(path, data) }
func (a *API) Remove(path string, recursive bool) error { return a.p.Remove(path, recursive) }
func (a *API) UniquePath(dir, name string) (string, error) { return a.p.UniquePath(dir, name) }
func (a *API) AllFiles(dir string) ([]Entry, error) { return a.p.AllFiles(dir) }
func (a *API) Hash(path string) (string, error) { return a.p.Hash(path) }

// RecentFiles returns recently touched files, newest first.
func (a *API) RecentFiles(dir string, limit int, days int) ([]Entry, error) {
	return a.p.RecentFiles(dir, limit, days)
}

// AssetURL returns the URL the webview loads path from.
func (a *API) AssetURL(path string) (string, error) { return a.p.AssetURL(path) }
