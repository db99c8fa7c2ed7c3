package opener

// API is the opener plugin surface bound to the front-end.
type API struct {
	p *Plugin
}

// API returns the front-end API of the plugin.
func (p *Plugin) API() interface{} { return &API{p: p} }

func (a *API) OpenURL(url string) error { return a.p.OpenURL(url) }
func (a *API) OpenPath(path string, with string) error { return a.p.OpenPath(path, with) }
func (a *API) RevealItemInDir(path string) error { return a.p.RevealItemInDir(path) }
