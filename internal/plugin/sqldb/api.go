package sqldb

// API is the sql plugin surface bound to the front-end.
type API struct {
	p *Plugin
}

// API returns the front-end API of the plugin.
func (p *Plugin) API() interface{} { return &API{p: p} }

// Load opens a database and returns its dsn.
func (a *API) Load(dsn string) (string, error) { return a.p.Load(dsn) }

// Execute runs a statement that returns no rows.
func (a *API) Execute(dsn string, query string, args []interface{}) (*QueryResult, error) {
	return a.p.Execute(dsn, query, args)
}

// Select runs a query.
func (a *API) Select(dsn string, query string, args []interface{}) ([]map[string]interface{}, error) {
	return a.p.Select(dsn, query, args)
}

// Close closes the database for dsn.
func (a *API) Close(dsn string) (bool, error) { return a.p.Close(dsn) }

func (a *API) AddFile(rec FileRecord) (int64, error) { return a.p.AddFile(rec) }
func (a *API) UpdateFile(rec FileRecord) (int64, error) { return a.p.UpdateFile(rec) }
func (a *API) GetFile(relativePath string) (*FileRecord, error) { return a.p.GetFile(relativePath) }
func (a *API) DeleteFile(relativePath string) (int64, error) { return a.p.DeleteFile(relativePath) }
