package windowstate

// API is the window-state plugin surface bound to the front-end.
type API struct {
	p *Plugin
}

// API returns the front-end API of the plugin.
func (p *Plugin) API() interface{} { return &API{p: p} }

func (a *API) SaveWindowState() error { return a.p.SaveWindowState() }
func (a *API) RestoreState() error { return a.p.RestoreState() }
func (a *API) State() State { return a.p.State() }
