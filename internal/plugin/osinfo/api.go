package osinfo

// API is the os plugin surface bound to the front-end.
type API struct {
	p *Plugin
}

// API returns the front-end API of the plugin.
func (p *Plugin) API() interface{} { return &API{p: p} }

func (a *API) Info() Info { return a.p.Info() }
func (a *API) Platform() string { return a.p.Platform() }
func (a *API) Arch() string { return a.p.Arch() }
func (a *API) Family() string { return a.p.Family() }
func (a *API) OSType() string { return a.p.OSType() }
func (a *API) Version() string { return a.p.Version() }
func (a *API) Hostname() string { return a.p.Hostname() }
func (a *API) Locale() string { return a.p.Locale() }
func (a *API) Distro() string { return a.p.Distro() }
