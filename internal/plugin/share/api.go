package share

// API is the share plugin surface bound to the front-end.
type API struct {
	p *Plugin
}

// API returns the front-end API of the plugin.
func (p *Plugin) API() interface{} { return &API{p: p} }

func (a *API) ShareText(text string) (*Result, error) { return a.p.ShareText(text) }
func (a *API) ShareFiles(paths []string) (*Result, error) { return a.p.ShareFiles(paths) }
